package domain

// State declares whether a desired record should exist.
type State string

const (
	// StatePresent means the record should exist with the desired content.
	StatePresent State = "present"

	// StateAbsent means no record of the desired type and name should exist.
	StateAbsent State = "absent"
)

// DesiredRecord describes the state a single DNS record should be brought
// into. It is the input to reconciliation: compared against what the provider
// reports, it yields exactly one create, update, delete, or no-op.
type DesiredRecord struct {
	// Domain is the root domain the record belongs to. Required.
	Domain string

	// Type is the DNS record type. Required.
	Type RecordType

	// Name is the subdomain portion, not including the root domain.
	// Leave empty for a record on the root domain itself.
	Name string

	// Content is the record value. Required when State is present.
	Content string

	// TTL is the time-to-live in seconds. Zero means use the default (600).
	TTL int

	// Priority is used for record types that support it (MX, SRV, etc.).
	Priority int

	// Notes is an optional annotation applied when the record is created.
	Notes string

	// State is the desired existence of the record. Empty means present.
	State State
}

// FQName returns the fully-qualified name the desired record targets.
func (d DesiredRecord) FQName() string {
	return TargetName(d.Name, d.Domain)
}
