package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/pbrec/internal/config"
)

// setupTestConfig points the config package at a temp file and returns its path.
func setupTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	config.SetPath(path)
	t.Cleanup(config.ResetPath)
	return path
}

// execConfig creates the config command, wires up output buffers, runs with the
// given args, and returns what was written to stdout and stderr.
func execConfig(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func TestSet_DefaultTTL(t *testing.T) {
	setupTestConfig(t)

	stdout, stderr := execConfig(t, "set", "default-ttl", "900")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, `"900"`) {
		t.Errorf("expected confirmation with new value, got: %s", stdout)
	}

	// Verify it was persisted.
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.DefaultTTL != 900 {
		t.Errorf("expected DefaultTTL %d, got %d", 900, cfg.DefaultTTL)
	}
}

func TestSet_DefaultTTL_NotAnInteger(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "default-ttl", "soon")

	if !strings.Contains(stderr, "must be an integer") {
		t.Errorf("expected integer error, got: %s", stderr)
	}
}

func TestSet_BaseURL(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "base-url", "http://127.0.0.1:9000")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.BaseURL != "http://127.0.0.1:9000" {
		t.Errorf("expected BaseURL %q, got %q", "http://127.0.0.1:9000", cfg.BaseURL)
	}
}

func TestSet_BaseURL_Invalid(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "base-url", "not a url")

	if !strings.Contains(stderr, "http(s) URL") {
		t.Errorf("expected URL validation error, got: %s", stderr)
	}
}

func TestSet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "set", "bogus-key", "value")

	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %s", stderr)
	}
}

func TestSet_KeyCaseInsensitive(t *testing.T) {
	setupTestConfig(t)

	stdout, stderr := execConfig(t, "set", "DEFAULT-TTL", "600")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "default-ttl") {
		t.Errorf("expected canonical key name in confirmation, got: %s", stdout)
	}
}
