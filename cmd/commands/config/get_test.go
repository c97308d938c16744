package config

import (
	"strings"
	"testing"

	"nathanbeddoewebdev/pbrec/internal/config"
)

func TestGet_DefaultTTL_NotSet(t *testing.T) {
	setupTestConfig(t)

	stdout, stderr := execConfig(t, "get", "default-ttl")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "not set") {
		t.Errorf("expected 'not set', got: %s", stdout)
	}
}

func TestGet_DefaultTTL_Set(t *testing.T) {
	path := setupTestConfig(t)

	// Write a config value directly.
	cfg := &config.Config{DefaultTTL: 1800}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, stderr := execConfig(t, "get", "default-ttl")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "1800") {
		t.Errorf("expected '1800', got: %s", stdout)
	}
}

func TestGet_UnknownKey(t *testing.T) {
	setupTestConfig(t)

	_, stderr := execConfig(t, "get", "bogus-key")

	if !strings.Contains(stderr, "unknown configuration key") {
		t.Errorf("expected 'unknown configuration key' error, got: %s", stderr)
	}
}

func TestGet_ListsAllKeys(t *testing.T) {
	path := setupTestConfig(t)

	cfg := &config.Config{DefaultTTL: 600, BaseURL: "http://127.0.0.1:9000"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	stdout, stderr := execConfig(t, "get")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "default-ttl: 600") {
		t.Errorf("expected default-ttl listing, got: %s", stdout)
	}
	if !strings.Contains(stdout, "base-url: http://127.0.0.1:9000") {
		t.Errorf("expected base-url listing, got: %s", stdout)
	}
}
