package services

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"nathanbeddoewebdev/pbrec/internal/dns/domain"
	"nathanbeddoewebdev/pbrec/internal/util"
)

// DefaultTTL is the TTL applied when none is specified (matches Porkbun's minimum).
const DefaultTTL = 600

// validRecordTypes is the set of supported DNS record types.
var validRecordTypes = map[domain.RecordType]bool{
	domain.RecordTypeA:     true,
	domain.RecordTypeAAAA:  true,
	domain.RecordTypeCNAME: true,
	domain.RecordTypeAlias: true,
	domain.RecordTypeTXT:   true,
	domain.RecordTypeNS:    true,
	domain.RecordTypeMX:    true,
	domain.RecordTypeSRV:   true,
	domain.RecordTypeTLSA:  true,
	domain.RecordTypeCAA:   true,
}

// normalizeDesired validates a desired record and applies defaults, returning
// the canonical form reconciliation operates on. All failures wrap
// domain.ErrValidation.
func normalizeDesired(d domain.DesiredRecord) (domain.DesiredRecord, error) {
	d.Domain = normalizeDomain(d.Domain)
	if err := util.ValidateDomainName(d.Domain); err != nil {
		return d, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	d.Name = normalizeSubdomain(d.Name, d.Domain)

	if d.State == "" {
		d.State = domain.StatePresent
	}
	if d.State != domain.StatePresent && d.State != domain.StateAbsent {
		return d, fmt.Errorf("%w: state must be %q or %q, got %q",
			domain.ErrValidation, domain.StatePresent, domain.StateAbsent, d.State)
	}

	d.Type = domain.RecordType(strings.ToUpper(strings.TrimSpace(string(d.Type))))
	if err := validateRecordType(d.Type); err != nil {
		return d, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if d.TTL < 0 {
		return d, fmt.Errorf("%w: ttl must be positive, got %d", domain.ErrValidation, d.TTL)
	}
	if d.TTL == 0 {
		d.TTL = DefaultTTL
	}

	// Content is only meaningful when the record should exist.
	if d.State == domain.StatePresent {
		if err := validateContent(d.Type, d.Content); err != nil {
			return d, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}

	return d, nil
}

// normalizeDomain lowercases and strips any trailing dot from a domain name.
func normalizeDomain(d string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(d), "."))
}

// normalizeSubdomain strips the root domain suffix from a subdomain if the
// caller passes a fully-qualified name (e.g. "www.example.com" when the
// domain is "example.com"), and lowercases the result. The conventional "@"
// for the zone apex maps to the empty subdomain.
func normalizeSubdomain(sub, domainName string) string {
	sub = strings.TrimSpace(sub)
	sub = strings.TrimRight(sub, ".")
	sub = strings.ToLower(sub)

	if sub == "@" {
		return ""
	}

	// Strip ".domainName" suffix if present.
	suffix := "." + domainName
	if strings.HasSuffix(sub, suffix) {
		sub = sub[:len(sub)-len(suffix)]
	}
	// Also strip if the caller passed the bare domain as the subdomain.
	if sub == domainName {
		sub = ""
	}

	return sub
}

// validateRecordType returns an error if t is not a supported record type.
func validateRecordType(t domain.RecordType) error {
	if !validRecordTypes[t] {
		return fmt.Errorf("unsupported record type %q", t)
	}
	return nil
}

// validateContent checks that the content value is appropriate for the record
// type. It does not perform exhaustive validation; it catches obvious
// mismatches (e.g. a non-IP value for an A record) to give an early error.
func validateContent(t domain.RecordType, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("record content cannot be empty")
	}

	switch t {
	case domain.RecordTypeA:
		ip := net.ParseIP(content)
		if ip == nil || ip.To4() == nil {
			return fmt.Errorf("A record content must be a valid IPv4 address, got %q", content)
		}
	case domain.RecordTypeAAAA:
		ip := net.ParseIP(content)
		if ip == nil || ip.To4() != nil {
			return fmt.Errorf("AAAA record content must be a valid IPv6 address, got %q", content)
		}
	}

	return nil
}

// ParseTTL parses a TTL value as decimal seconds. Zero-padded strings parse
// as decimal, so "0600" yields 600, not the octal reading a base-guessing
// parser would give. An empty string yields DefaultTTL.
func ParseTTL(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTTL, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid ttl %q: must be an integer number of seconds", domain.ErrValidation, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: invalid ttl %d: must not be negative", domain.ErrValidation, n)
	}
	return n, nil
}
