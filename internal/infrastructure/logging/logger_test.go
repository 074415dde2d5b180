package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestFieldsToMap(t *testing.T) {
	t.Parallel()

	m := fieldsToMap([]interface{}{"date", "2025-01-15", "count", 3})
	if m["date"] != "2025-01-15" {
		t.Errorf("date = %v", m["date"])
	}
	if m["count"] != 3 {
		t.Errorf("count = %v", m["count"])
	}
}

func TestFieldsToMap_Malformed(t *testing.T) {
	t.Parallel()

	// Odd trailing field
	m := fieldsToMap([]interface{}{"key", "value", "dangling"})
	if len(m) != 2 {
		t.Errorf("expected 2 entries, got %d: %v", len(m), m)
	}

	// Non-string key
	m = fieldsToMap([]interface{}{42, "value"})
	if _, ok := m["field_0"]; !ok {
		t.Errorf("non-string key not indexed: %v", m)
	}
}

func TestLevelLogger_Filters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewLevelLogger(&buf, "warn")

	l.Debug("should not appear")
	l.Info("should not appear either")
	l.Warn("warning line", "pkg", "com.example.app")
	l.Error("error line")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("filtered levels leaked: %q", out)
	}
	if !strings.Contains(out, "warning line") || !strings.Contains(out, "pkg=com.example.app") {
		t.Errorf("warn line missing: %q", out)
	}
	if !strings.Contains(out, "error line") {
		t.Errorf("error line missing: %q", out)
	}
}

func TestNewLevelLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewLevelLogger(&buf, "strange")

	l.Debug("debug")
	l.Info("info")

	out := buf.String()
	if strings.Contains(out, "debug") {
		t.Errorf("debug should be filtered at info level: %q", out)
	}
	if !strings.Contains(out, "info") {
		t.Errorf("info should pass: %q", out)
	}
}
