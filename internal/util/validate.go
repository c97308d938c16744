package util

import (
	"fmt"
	"regexp"
	"strings"
)

// validNameChars matches only alphanumeric characters, hyphens, and periods.
var validNameChars = regexp.MustCompile(`^[a-zA-Z0-9.\-]+$`)

// ValidateDomainName checks that a domain name conforms to RFC 1123 hostname
// rules as accepted by the Porkbun API:
//   - Contains at least one period separating the name from its TLD
//   - Only alphanumeric characters (a-z, A-Z, 0-9), hyphens (-), and periods (.)
//   - First character must be alphanumeric
//   - Last character must not be a hyphen or period
func ValidateDomainName(name string) error {
	if name == "" {
		return fmt.Errorf("domain name is required")
	}

	if !strings.Contains(name, ".") {
		return fmt.Errorf("domain name %q must include a TLD (e.g. example.com)", name)
	}

	if !validNameChars.MatchString(name) {
		return fmt.Errorf("domain name %q contains invalid characters (only a-z, A-Z, 0-9, hyphens, and periods are allowed)", name)
	}

	first := name[0]
	if !isAlphanumeric(first) {
		return fmt.Errorf("domain name must start with an alphanumeric character, got %q", string(first))
	}

	last := name[len(name)-1]
	if last == '-' || last == '.' {
		return fmt.Errorf("domain name must not end with a hyphen or period, got %q", string(last))
	}

	return nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
