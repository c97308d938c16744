package specfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"nathanbeddoewebdev/pbrec/internal/dns/domain"
)

func writeRecordFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "record.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing record file: %v", err)
	}
	return path
}

func TestLoad_FullRecord(t *testing.T) {
	path := writeRecordFile(t, `
domain: example.com
type: MX
name: mail
content: mx1.example.com
ttl: 3600
prio: 10
state: present
notes: primary mail exchanger
`)

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := domain.DesiredRecord{
		Domain:   "example.com",
		Type:     domain.RecordTypeMX,
		Name:     "mail",
		Content:  "mx1.example.com",
		TTL:      3600,
		Priority: 10,
		Notes:    "primary mail exchanger",
		State:    domain.StatePresent,
	}
	if diff := cmp.Diff(want, spec.Record); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if spec.HasCredentials() {
		t.Error("HasCredentials() = true for a file without credentials")
	}
}

func TestLoad_MinimalRecordLeavesDefaultsUnset(t *testing.T) {
	path := writeRecordFile(t, `
domain: example.com
type: A
name: www
content: 203.0.113.10
`)

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// TTL and state stay zero here; the apply path fills in defaults.
	if spec.Record.TTL != 0 {
		t.Errorf("TTL = %d, want 0", spec.Record.TTL)
	}
	if spec.Record.State != "" {
		t.Errorf("State = %q, want empty", spec.Record.State)
	}
}

func TestLoad_TTLSpellings(t *testing.T) {
	tests := []struct {
		name string
		ttl  string
		want int
	}{
		{name: "plain integer", ttl: "600", want: 600},
		{name: "quoted string", ttl: `"600"`, want: 600},
		{name: "zero padded quoted", ttl: `"0600"`, want: 600},
		{name: "zero padded bare", ttl: "0600", want: 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRecordFile(t, `
domain: example.com
type: A
name: www
content: 203.0.113.10
ttl: `+tt.ttl+`
`)
			spec, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if spec.Record.TTL != tt.want {
				t.Errorf("TTL = %d, want %d", spec.Record.TTL, tt.want)
			}
		})
	}
}

func TestLoad_NonNumericTTL(t *testing.T) {
	path := writeRecordFile(t, `
domain: example.com
type: A
name: www
content: 203.0.113.10
ttl: ten minutes
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() succeeded with a non-numeric ttl")
	}
	if !strings.Contains(err.Error(), "not an integer") {
		t.Errorf("error %q does not mention the bad integer", err)
	}
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	path := writeRecordFile(t, `
domain: example.com
type: A
name: www
contnet: 203.0.113.10
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() accepted a misspelled field")
	}
	if !strings.Contains(err.Error(), "contnet") {
		t.Errorf("error %q does not name the unknown field", err)
	}
}

func TestLoad_CredentialPair(t *testing.T) {
	path := writeRecordFile(t, `
domain: example.com
type: A
name: www
content: 203.0.113.10
api_key: pk1_file
secret_api_key: sk1_file
`)

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !spec.HasCredentials() {
		t.Fatal("HasCredentials() = false for a file with both keys")
	}
	if spec.Credentials.APIKey != "pk1_file" || spec.Credentials.SecretAPIKey != "sk1_file" {
		t.Error("credentials were not carried through from the file")
	}
}

func TestLoad_HalfCredentialPairRejected(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "api key only", line: "api_key: pk1_file"},
		{name: "secret only", line: "secret_api_key: sk1_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRecordFile(t, `
domain: example.com
type: A
name: www
content: 203.0.113.10
`+tt.line+`
`)
			_, err := Load(path)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Load() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeRecordFile(t, "")

	_, err := Load(path)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Load() error = %v, want ErrValidation", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() succeeded on a missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestLoad_ListTTLRejected(t *testing.T) {
	path := writeRecordFile(t, `
domain: example.com
type: A
name: www
content: 203.0.113.10
ttl: [600]
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() accepted a list ttl")
	}
}
