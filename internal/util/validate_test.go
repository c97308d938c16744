package util

import (
	"testing"
)

func TestValidateDomainName_Valid(t *testing.T) {
	valid := []string{
		"example.com",
		"my-site.io",
		"sub.example.co.uk",
		"a1.dev",
		"123numeric.net",
		"Example.COM",
		"a-b.c-d.org",
	}
	for _, name := range valid {
		t.Run(name, func(t *testing.T) {
			if err := ValidateDomainName(name); err != nil {
				t.Errorf("expected %q to be valid, got error: %v", name, err)
			}
		})
	}
}

func TestValidateDomainName_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		wantMsg string
	}{
		{"", "required"},
		{"localhost", "must include a TLD"},
		{"example com", "invalid characters"},
		{"-example.com", "must start with an alphanumeric"},
		{".example.com", "must start with an alphanumeric"},
		{"example.com-", "must not end with a hyphen"},
		{"example.com.", "must not end with a hyphen or period"},
		{"exa_mple.com", "invalid characters"},
		{"example!.com", "invalid characters"},
		{"exam ple\t.com", "invalid characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDomainName(tt.name)
			if err == nil {
				t.Errorf("expected %q to be invalid, got nil", tt.name)
				return
			}
			if got := err.Error(); !contains(got, tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, got)
			}
		})
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && searchString(s, substr)
}

func searchString(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
