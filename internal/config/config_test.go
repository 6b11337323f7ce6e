package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestLoadAppliesDefaults verifies omitted sections receive defaults.
func TestLoadAppliesDefaults(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "version: 1\nbackend:\n  base_url: \"https://api.example.com/\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.BaseURL != "https://api.example.com" {
		t.Fatalf("expected trimmed base url, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Host.IdentityPollAttempts != DefaultPollAttempts || cfg.Capture.JPEGQuality != DefaultJPEGQuality {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.Ledger.Path != filepath.Join(root, ".selfeval", "ledger.duckdb") {
		t.Fatalf("expected ledger resolved under root, got %q", cfg.Ledger.Path)
	}
}

// TestLoadRejectsUnknownFields verifies typos are reported.
func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "version: 1\nbackend:\n  baseurl: x\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "baseurl") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

// TestParseRejectsMultipleDocuments verifies a single document is required.
func TestParseRejectsMultipleDocuments(t *testing.T) {
	if _, err := Parse([]byte("version: 1\n---\nversion: 1\n")); err == nil {
		t.Fatalf("expected multiple document error")
	}
}

// TestValidateCollectsIssues verifies every invalid field is reported.
func TestValidateCollectsIssues(t *testing.T) {
	lat := 95.0
	cfg := Default("")
	cfg.Backend.BaseURL = "ftp://nope"
	cfg.Capture.JPEGQuality = 150
	cfg.Capture.DeviceLatitude = &lat
	cfg.Log.Level = "loud"

	err := Validate(cfg)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := map[string]bool{}
	for _, issue := range validationErr.Issues {
		fields[issue.Field] = true
	}
	for _, want := range []string{"backend.base_url", "capture.jpeg_quality", "capture.device_latitude", "log.level"} {
		if !fields[want] {
			t.Fatalf("expected issue for %s, got %+v", want, validationErr.Issues)
		}
	}
}

// TestFindConfigPathSearchesUpward verifies discovery from a nested directory.
func TestFindConfigPathSearchesUpward(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "version: 1\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, err := FindConfigPath(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if _, err := FindConfigPath(t.TempDir()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// TestScaffoldWritesLoadableConfig verifies the starter config is valid.
func TestScaffoldWritesLoadableConfig(t *testing.T) {
	root := t.TempDir()
	path, err := Scaffold(root, false)
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("load scaffolded config: %v", err)
	}
	if _, err := Scaffold(root, false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if _, err := Scaffold(root, true); err != nil {
		t.Fatalf("expected forced overwrite: %v", err)
	}
}

func writeConfig(t *testing.T, root, body string) string {
	t.Helper()
	path := ConfigPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
