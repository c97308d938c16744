package domain

import "context"

// Provider is the interface a DNS provider must implement. It covers the
// record operations reconciliation needs plus a connectivity check.
type Provider interface {
	// GetDisplayName returns the human-readable provider name (e.g. "Porkbun").
	GetDisplayName() string

	// ListRecords returns all DNS records for the given domain.
	ListRecords(ctx context.Context, domain string) ([]Record, error)

	// FindRecords returns every record of the given type whose fully-qualified
	// name matches the subdomain within the domain (empty subdomain targets
	// the root). Matches preserve provider order; an empty slice means no match.
	FindRecords(ctx context.Context, domain string, recordType RecordType, subdomain string) ([]Record, error)

	// CreateRecord creates a new DNS record and returns its assigned ID.
	CreateRecord(ctx context.Context, domain string, opts CreateRecordOpts) (string, error)

	// EditRecordByNameType updates all records matching the type and subdomain
	// in place. The provider addresses records by name and type, not by ID.
	EditRecordByNameType(ctx context.Context, domain string, recordType RecordType, subdomain string, opts EditRecordOpts) error

	// DeleteRecord deletes a DNS record by its ID.
	DeleteRecord(ctx context.Context, domain string, id string) error

	// Ping verifies credentials against the provider and returns the caller's
	// public IP address as reported by the API.
	Ping(ctx context.Context) (string, error)
}
