package auditlog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSanitizeArgs_RedactsCredentialFlags(t *testing.T) {
	args := []string{
		"apply",
		"--domain", "example.com",
		"--api-key", "pk1_live_secret",
		"--secret-api-key=sk1_live_secret",
	}

	got := SanitizeArgs(args)

	want := []string{
		"apply",
		"--domain", "example.com",
		"--api-key", "<redacted>",
		"--secret-api-key=<redacted>",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sanitized args mismatch (-want +got):\n%s", diff)
	}
	joined := strings.Join(got, " ")
	if strings.Contains(joined, "pk1_live_secret") || strings.Contains(joined, "sk1_live_secret") {
		t.Errorf("credential value leaked into %q", joined)
	}
}

func TestSanitizeArgs_TrailingFlagWithoutValue(t *testing.T) {
	got := SanitizeArgs([]string{"auth", "login", "--api-key"})

	want := []string{"auth", "login", "--api-key", "<redacted>"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sanitized args mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizeArgs_LeavesOrdinaryArgsAlone(t *testing.T) {
	args := []string{"records", "list", "example.com", "--type", "A", "-o", "json"}

	got := SanitizeArgs(args)

	if diff := cmp.Diff(args, got); diff != "" {
		t.Errorf("args were altered (-want +got):\n%s", diff)
	}
}
