package config

import (
	"strings"
	"testing"
)

func TestLookup_Exists(t *testing.T) {
	spec := Lookup("default-ttl")
	if spec == nil {
		t.Fatal("expected to find key 'default-ttl', got nil")
	}
	if spec.Name != "default-ttl" {
		t.Errorf("expected Name %q, got %q", "default-ttl", spec.Name)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	spec := Lookup("DEFAULT-TTL")
	if spec == nil {
		t.Fatal("expected case-insensitive lookup to succeed")
	}
	if spec.Name != "default-ttl" {
		t.Errorf("expected Name %q, got %q", "default-ttl", spec.Name)
	}
}

func TestLookup_NotFound(t *testing.T) {
	spec := Lookup("nonexistent-key")
	if spec != nil {
		t.Errorf("expected nil for unknown key, got %+v", spec)
	}
}

func TestKeys_AllHaveGetAndSet(t *testing.T) {
	for _, k := range Keys {
		if k.Get == nil {
			t.Errorf("key %q has nil Get function", k.Name)
		}
		if k.Set == nil {
			t.Errorf("key %q has nil Set function", k.Name)
		}
		if k.Description == "" {
			t.Errorf("key %q has empty Description", k.Name)
		}
	}
}

func TestKeys_GetSetRoundtrip(t *testing.T) {
	values := map[string]string{
		"default-ttl": "900",
		"base-url":    "https://api-ipv4.porkbun.com/api/json/v3",
	}

	for _, k := range Keys {
		v, ok := values[k.Name]
		if !ok {
			t.Fatalf("no sample value for key %q; add one to this test", k.Name)
		}
		cfg := &Config{}
		if err := k.Set(cfg, v); err != nil {
			t.Errorf("key %q: Set(%q) failed: %v", k.Name, v, err)
			continue
		}
		if got := k.Get(cfg); got != v {
			t.Errorf("key %q: Set then Get = %q, want %q", k.Name, got, v)
		}
	}
}

func TestSetDefaultTTL_RejectsBadValues(t *testing.T) {
	spec := Lookup("default-ttl")
	if spec == nil {
		t.Fatal("default-ttl key missing")
	}

	for _, v := range []string{"abc", "-1", "1h", ""} {
		cfg := &Config{}
		if err := spec.Set(cfg, v); err == nil {
			t.Errorf("Set(%q) succeeded, want error", v)
		}
	}
}

func TestSetDefaultTTL_TrimsWhitespace(t *testing.T) {
	spec := Lookup("default-ttl")
	if spec == nil {
		t.Fatal("default-ttl key missing")
	}

	cfg := &Config{}
	if err := spec.Set(cfg, " 300 "); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if cfg.DefaultTTL != 300 {
		t.Errorf("DefaultTTL = %d, want 300", cfg.DefaultTTL)
	}
}

func TestSetBaseURL_RejectsBadValues(t *testing.T) {
	spec := Lookup("base-url")
	if spec == nil {
		t.Fatal("base-url key missing")
	}

	for _, v := range []string{"not a url", "ftp://example.com", "example.com/api"} {
		cfg := &Config{}
		if err := spec.Set(cfg, v); err == nil {
			t.Errorf("Set(%q) succeeded, want error", v)
		}
	}
}

func TestSetBaseURL_EmptyClears(t *testing.T) {
	spec := Lookup("base-url")
	if spec == nil {
		t.Fatal("base-url key missing")
	}

	cfg := &Config{BaseURL: "https://localhost:8443"}
	if err := spec.Set(cfg, ""); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if cfg.BaseURL != "" {
		t.Errorf("BaseURL = %q, want empty", cfg.BaseURL)
	}
}

func TestKeyNames(t *testing.T) {
	names := KeyNames()
	if len(names) != len(Keys) {
		t.Fatalf("expected %d names, got %d", len(Keys), len(names))
	}
	for i, name := range names {
		if name != Keys[i].Name {
			t.Errorf("index %d: expected %q, got %q", i, Keys[i].Name, name)
		}
	}
}

func TestKeysHelp_ContainsAllKeys(t *testing.T) {
	help := KeysHelp()
	if !strings.Contains(help, "Available keys:") {
		t.Error("expected 'Available keys:' header in help output")
	}
	for _, k := range Keys {
		if !strings.Contains(help, k.Name) {
			t.Errorf("expected key %q in help output", k.Name)
		}
		if !strings.Contains(help, k.Description) {
			t.Errorf("expected description %q in help output", k.Description)
		}
	}
}
