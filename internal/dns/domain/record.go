package domain

import "strings"

// RecordType represents a DNS record type.
type RecordType string

const (
	RecordTypeA     RecordType = "A"
	RecordTypeAAAA  RecordType = "AAAA"
	RecordTypeCNAME RecordType = "CNAME"
	RecordTypeAlias RecordType = "ALIAS"
	RecordTypeTXT   RecordType = "TXT"
	RecordTypeNS    RecordType = "NS"
	RecordTypeMX    RecordType = "MX"
	RecordTypeSRV   RecordType = "SRV"
	RecordTypeTLSA  RecordType = "TLSA"
	RecordTypeCAA   RecordType = "CAA"
)

// RecordTypes returns all supported record types in display order.
func RecordTypes() []RecordType {
	return []RecordType{
		RecordTypeA,
		RecordTypeAAAA,
		RecordTypeCNAME,
		RecordTypeAlias,
		RecordTypeTXT,
		RecordTypeNS,
		RecordTypeMX,
		RecordTypeSRV,
		RecordTypeTLSA,
		RecordTypeCAA,
	}
}

// Record represents a single DNS record as it exists at the provider.
type Record struct {
	// ID is the provider-assigned record identifier.
	ID string `json:"id"`

	// Domain is the root domain this record belongs to (e.g. "example.com").
	Domain string `json:"domain"`

	// Name is the fully-qualified record name as returned by the provider
	// (e.g. "www.example.com" or "example.com" for a root record).
	Name string `json:"name"`

	// Type is the DNS record type (A, AAAA, CNAME, etc.).
	Type RecordType `json:"type"`

	// Content is the record value (IP address, hostname, text, etc.).
	Content string `json:"content"`

	// TTL is the time-to-live in seconds. The minimum is provider-dependent.
	TTL int `json:"ttl"`

	// Priority is used for record types that support it (MX, SRV, etc.).
	// Zero means not applicable.
	Priority int `json:"priority"`

	// Notes is an optional human-readable annotation on the record.
	Notes string `json:"notes"`
}

// TargetName returns the fully-qualified name a record with the given
// subdomain would carry: "sub.example.com" for a subdomain, or the bare
// domain for a root record (empty subdomain).
func TargetName(subdomain, domainName string) string {
	if subdomain == "" {
		return domainName
	}
	return subdomain + "." + domainName
}

// MatchRecords filters records down to those matching the given type and
// fully-qualified name. Name and type comparison is case-insensitive.
// Provider order is preserved so callers can rely on first-match semantics.
func MatchRecords(records []Record, recordType RecordType, fqName string) []Record {
	var matched []Record
	for _, r := range records {
		if !strings.EqualFold(string(r.Type), string(recordType)) {
			continue
		}
		if !strings.EqualFold(r.Name, fqName) {
			continue
		}
		matched = append(matched, r)
	}
	return matched
}
