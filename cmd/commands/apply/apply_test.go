package apply

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/pbrec/internal/auditlog"
	"nathanbeddoewebdev/pbrec/internal/config"
	"nathanbeddoewebdev/pbrec/internal/database"
	"nathanbeddoewebdev/pbrec/internal/dns/services"
)

// --- Porkbun API stub ---

// porkbunStub serves the subset of the Porkbun API the apply command touches
// and counts which operations were called.
type porkbunStub struct {
	t       *testing.T
	records []map[string]any

	retrieveError string

	retrieveCalls int
	createCalls   int
	editCalls     int
	deleteCalls   int

	lastCreateBody map[string]any
	lastEditPath   string
	lastDeletePath string
}

func (s *porkbunStub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var payload map[string]any
		json.Unmarshal(raw, &payload)

		w.Header().Set("Content-Type", "application/json")
		respond := func(body map[string]any) {
			if err := json.NewEncoder(w).Encode(body); err != nil {
				s.t.Errorf("failed to encode stub response: %v", err)
			}
		}

		path := r.URL.Path
		switch {
		case strings.HasPrefix(path, "/dns/retrieve/"):
			s.retrieveCalls++
			if s.retrieveError != "" {
				respond(map[string]any{"status": "ERROR", "message": s.retrieveError})
				return
			}
			records := s.records
			if records == nil {
				records = []map[string]any{}
			}
			respond(map[string]any{"status": "SUCCESS", "records": records})
		case strings.HasPrefix(path, "/dns/create/"):
			s.createCalls++
			s.lastCreateBody = payload
			respond(map[string]any{"status": "SUCCESS", "id": 9001})
		case strings.HasPrefix(path, "/dns/editByNameType/"):
			s.editCalls++
			s.lastEditPath = path
			respond(map[string]any{"status": "SUCCESS"})
		case strings.HasPrefix(path, "/dns/delete/"):
			s.deleteCalls++
			s.lastDeletePath = path
			respond(map[string]any{"status": "SUCCESS"})
		default:
			s.t.Errorf("unexpected request path %s", path)
			respond(map[string]any{"status": "ERROR", "message": "unexpected path"})
		}
	})
}

// startStub starts the stub server and points config and audit storage at
// per-test locations.
func startStub(t *testing.T, stub *porkbunStub) {
	t.Helper()
	stub.t = t
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()

	config.SetPath(filepath.Join(dir, "config.json"))
	t.Cleanup(config.ResetPath)
	cfg := &config.Config{BaseURL: srv.URL}
	if err := cfg.Save(); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	database.SetPath(filepath.Join(dir, "pbrec.db"))
	t.Cleanup(database.ResetPath)
}

// stubRecord returns a remote record as the Porkbun API reports it.
func stubRecord(id, name, typ, content, ttl string) map[string]any {
	return map[string]any{
		"id":      id,
		"name":    name,
		"type":    typ,
		"content": content,
		"ttl":     ttl,
		"prio":    "0",
		"notes":   "",
	}
}

// execApply runs apply with the given args plus test credentials.
func execApply(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	args = append(args, "--api-key", "pk1_test", "--secret-api-key", "sk1_test")

	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// --- Decision table through the CLI ---

func TestApply_CreatesMissingRecord(t *testing.T) {
	stub := &porkbunStub{}
	startStub(t, stub)

	stdout, _, err := execApply(t,
		"--domain", "example.com", "--type", "A", "--name", "www", "--content", "192.0.2.1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(stdout, services.MsgCreated) {
		t.Errorf("stdout = %q, want it to contain %q", stdout, services.MsgCreated)
	}
	if stub.retrieveCalls != 1 {
		t.Errorf("retrieveCalls = %d, want 1", stub.retrieveCalls)
	}
	if stub.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1", stub.createCalls)
	}
	if stub.editCalls != 0 || stub.deleteCalls != 0 {
		t.Errorf("unexpected mutations: edit=%d delete=%d", stub.editCalls, stub.deleteCalls)
	}
}

func TestApply_NoChangeForMatchingRecord(t *testing.T) {
	stub := &porkbunStub{
		records: []map[string]any{
			// Zero-padded remote TTL must compare equal to 600.
			stubRecord("101", "www.example.com", "A", "192.0.2.1", "0600"),
		},
	}
	startStub(t, stub)

	stdout, _, err := execApply(t,
		"--domain", "example.com", "--type", "A", "--name", "www", "--content", "192.0.2.1", "--ttl", "600")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(stdout, services.MsgUnchanged) {
		t.Errorf("stdout = %q, want it to contain %q", stdout, services.MsgUnchanged)
	}
	if stub.createCalls != 0 || stub.editCalls != 0 || stub.deleteCalls != 0 {
		t.Errorf("unexpected mutations: create=%d edit=%d delete=%d",
			stub.createCalls, stub.editCalls, stub.deleteCalls)
	}
}

func TestApply_UpdatesDifferingRecord(t *testing.T) {
	stub := &porkbunStub{
		records: []map[string]any{
			stubRecord("101", "www.example.com", "A", "198.51.100.9", "600"),
		},
	}
	startStub(t, stub)

	stdout, _, err := execApply(t,
		"--domain", "example.com", "--type", "A", "--name", "www", "--content", "192.0.2.1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(stdout, services.MsgUpdated) {
		t.Errorf("stdout = %q, want it to contain %q", stdout, services.MsgUpdated)
	}
	if stub.editCalls != 1 {
		t.Errorf("editCalls = %d, want 1", stub.editCalls)
	}
	if !strings.Contains(stub.lastEditPath, "/dns/editByNameType/example.com/A/www") {
		t.Errorf("edit path = %q, want it to target example.com/A/www", stub.lastEditPath)
	}
}

func TestApply_DeletesAbsentRecord(t *testing.T) {
	stub := &porkbunStub{
		records: []map[string]any{
			stubRecord("101", "www.example.com", "A", "192.0.2.1", "600"),
		},
	}
	startStub(t, stub)

	stdout, _, err := execApply(t,
		"--domain", "example.com", "--type", "A", "--name", "www", "--state", "absent", "--yes")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(stdout, services.MsgDeleted) {
		t.Errorf("stdout = %q, want it to contain %q", stdout, services.MsgDeleted)
	}
	if stub.deleteCalls != 1 {
		t.Errorf("deleteCalls = %d, want 1", stub.deleteCalls)
	}
	if !strings.HasSuffix(stub.lastDeletePath, "/dns/delete/example.com/101") {
		t.Errorf("delete path = %q, want it to end in the found record ID", stub.lastDeletePath)
	}
}

func TestApply_AbsentRecordStaysAbsent(t *testing.T) {
	stub := &porkbunStub{}
	startStub(t, stub)

	stdout, _, err := execApply(t,
		"--domain", "example.com", "--type", "A", "--name", "www", "--state", "absent", "--yes")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(stdout, services.MsgDoesNotExist) {
		t.Errorf("stdout = %q, want it to contain %q", stdout, services.MsgDoesNotExist)
	}
	if stub.createCalls != 0 || stub.editCalls != 0 || stub.deleteCalls != 0 {
		t.Errorf("unexpected mutations: create=%d edit=%d delete=%d",
			stub.createCalls, stub.editCalls, stub.deleteCalls)
	}
}

func TestApply_DryRunMakesNoCalls(t *testing.T) {
	stub := &porkbunStub{}
	startStub(t, stub)

	stdout, _, err := execApply(t,
		"--domain", "example.com", "--type", "A", "--name", "www", "--content", "192.0.2.1", "--dry-run")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(stdout, "[dry-run] "+services.MsgCreated) {
		t.Errorf("stdout = %q, want a dry-run prefixed create message", stdout)
	}
	if stub.retrieveCalls != 1 {
		t.Errorf("retrieveCalls = %d, want 1 (dry-run still looks up)", stub.retrieveCalls)
	}
	if stub.createCalls != 0 || stub.editCalls != 0 || stub.deleteCalls != 0 {
		t.Errorf("dry-run must not mutate: create=%d edit=%d delete=%d",
			stub.createCalls, stub.editCalls, stub.deleteCalls)
	}
}

// --- File and flag interaction ---

func TestApply_FileWithFlagOverride(t *testing.T) {
	stub := &porkbunStub{}
	startStub(t, stub)

	path := filepath.Join(t.TempDir(), "record.yaml")
	content := "domain: example.com\ntype: A\nname: www\ncontent: 198.51.100.9\nttl: 300\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write record file: %v", err)
	}

	_, _, err := execApply(t, "-f", path, "--content", "192.0.2.1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if stub.createCalls != 1 {
		t.Fatalf("createCalls = %d, want 1", stub.createCalls)
	}
	if got := stub.lastCreateBody["content"]; got != "192.0.2.1" {
		t.Errorf("created content = %v, want the flag value to win over the file", got)
	}
	if got := stub.lastCreateBody["ttl"]; got != "300" {
		t.Errorf("created ttl = %v, want %q from the file", got, "300")
	}
}

func TestApply_DefaultTTLFromConfig(t *testing.T) {
	stub := &porkbunStub{}
	startStub(t, stub)

	// Layer a default-ttl on top of the base-url the stub setup wrote.
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}
	cfg.DefaultTTL = 1800
	if err := cfg.Save(); err != nil {
		t.Fatalf("failed to save test config: %v", err)
	}

	_, _, err = execApply(t,
		"--domain", "example.com", "--type", "A", "--name", "www", "--content", "192.0.2.1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := stub.lastCreateBody["ttl"]; got != "1800" {
		t.Errorf("created ttl = %v, want %q from config default-ttl", got, "1800")
	}
}

func TestApply_MissingDomain(t *testing.T) {
	stub := &porkbunStub{}
	startStub(t, stub)

	_, _, err := execApply(t, "--type", "A", "--name", "www", "--content", "192.0.2.1")
	if err == nil {
		t.Fatal("expected an error without --domain or a record file, got nil")
	}
	if !strings.Contains(err.Error(), "--domain") {
		t.Errorf("error = %v, want it to mention --domain", err)
	}
	if stub.retrieveCalls != 0 {
		t.Errorf("retrieveCalls = %d, want 0 before validation passes", stub.retrieveCalls)
	}
}

func TestApply_BadTTLFlag(t *testing.T) {
	stub := &porkbunStub{}
	startStub(t, stub)

	_, _, err := execApply(t,
		"--domain", "example.com", "--type", "A", "--name", "www", "--content", "192.0.2.1", "--ttl", "soon")
	if err == nil {
		t.Fatal("expected an error for a non-numeric TTL, got nil")
	}
	if stub.retrieveCalls != 0 {
		t.Errorf("retrieveCalls = %d, want 0 before validation passes", stub.retrieveCalls)
	}
}

// --- Audit trail ---

func TestApply_WritesAuditEntry(t *testing.T) {
	stub := &porkbunStub{}
	startStub(t, stub)

	_, _, err := execApply(t,
		"--domain", "example.com", "--type", "A", "--name", "www", "--content", "192.0.2.1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	repo, err := auditlog.Open()
	if err != nil {
		t.Fatalf("failed to open audit repository: %v", err)
	}
	defer repo.Close()

	entries, err := repo.List(10)
	if err != nil {
		t.Fatalf("failed to list audit entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}

	entry := entries[0]
	if entry.Command != "apply" {
		t.Errorf("Command = %q, want %q", entry.Command, "apply")
	}
	if entry.Outcome != auditlog.OutcomeSuccess {
		t.Errorf("Outcome = %q, want %q", entry.Outcome, auditlog.OutcomeSuccess)
	}
	if entry.Detail != services.MsgCreated {
		t.Errorf("Detail = %q, want %q", entry.Detail, services.MsgCreated)
	}
	if entry.Domain != "example.com" {
		t.Errorf("Domain = %q, want %q", entry.Domain, "example.com")
	}
	if entry.RecordType != "A" {
		t.Errorf("RecordType = %q, want %q", entry.RecordType, "A")
	}
	if entry.RecordID != "9001" {
		t.Errorf("RecordID = %q, want the provider-assigned ID", entry.RecordID)
	}
}

func TestApply_AuditsFailures(t *testing.T) {
	stub := &porkbunStub{retrieveError: "Invalid API key. (002)"}
	startStub(t, stub)

	_, _, err := execApply(t,
		"--domain", "example.com", "--type", "A", "--name", "www", "--content", "192.0.2.1")
	if err == nil {
		t.Fatal("expected an error from the provider, got nil")
	}

	repo, openErr := auditlog.Open()
	if openErr != nil {
		t.Fatalf("failed to open audit repository: %v", openErr)
	}
	defer repo.Close()

	entries, listErr := repo.List(10)
	if listErr != nil {
		t.Fatalf("failed to list audit entries: %v", listErr)
	}
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
	if entries[0].Outcome != auditlog.OutcomeError {
		t.Errorf("Outcome = %q, want %q", entries[0].Outcome, auditlog.OutcomeError)
	}
	if entries[0].Detail == "" {
		t.Error("expected failure detail in the audit entry")
	}
}
