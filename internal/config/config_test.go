package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := Default()
	original.Database.Path = "/tmp/engine.db"
	original.Database.HistoryRetentionDays = 90
	original.Logging.Level = "debug"
	original.Usage.FeedPath = "/var/lib/voidlauncher/sessions.json"

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.Database.Path != original.Database.Path {
		t.Errorf("Database.Path = %q, want %q", got.Database.Path, original.Database.Path)
	}
	if got.Database.HistoryRetentionDays != 90 {
		t.Errorf("HistoryRetentionDays = %d, want 90", got.Database.HistoryRetentionDays)
	}
	if got.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", got.Logging.Level)
	}
	if got.Usage.FeedPath != original.Usage.FeedPath {
		t.Errorf("Usage.FeedPath = %q, want %q", got.Usage.FeedPath, original.Usage.FeedPath)
	}
}

func TestRead_PartialFileKeepsDefaults(t *testing.T) {
	partial := `
[logging]
level = "warn"
`
	m := &Manager{}
	cfg, err := m.Read(strings.NewReader(partial))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	defaults := Default()
	if cfg.Database.Path != defaults.Database.Path {
		t.Errorf("Database.Path = %q, want default %q", cfg.Database.Path, defaults.Database.Path)
	}
	if cfg.Database.HistoryRetentionDays != defaults.Database.HistoryRetentionDays {
		t.Errorf("retention lost its default: %d", cfg.Database.HistoryRetentionDays)
	}
}

func TestReadFromFile_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := ReadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("missing file did not yield defaults: %+v", cfg)
	}
}

func TestReadFromFile_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	content := `
[logging]
level = "loud"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := ReadFromFile(path); err == nil {
		t.Error("invalid log level accepted")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}

	cfg.Database.HistoryRetentionDays = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero retention accepted")
	}

	cfg = Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown log format accepted")
	}
}
