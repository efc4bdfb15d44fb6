package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestJSONLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug msg")
	logger.Info("info msg")
	logger.Warn("warn msg")
	logger.Error("error msg")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries at WarnLevel, got %d: %q", len(lines), buf.String())
	}

	var entry LogEntry
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON entry: %v", err)
	}
	if entry.Level != "WARN" || entry.Message != "warn msg" {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestJSONLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("run finished",
		RunID("run-1"),
		Stage("fusion"),
		NodeCount(42),
		Community(3),
	)

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON entry: %v", err)
	}
	if entry.Fields["run_id"] != "run-1" {
		t.Errorf("run_id field missing: %+v", entry.Fields)
	}
	if entry.Fields["nodes"] != float64(42) {
		t.Errorf("nodes field missing: %+v", entry.Fields)
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("sampler"))
	child.Info("sampled")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON entry: %v", err)
	}
	if entry.Fields["component"] != "sampler" {
		t.Errorf("pre-set field missing: %+v", entry.Fields)
	}
}

func TestErrorField(t *testing.T) {
	f := Error(errors.New("boom"))
	if f.Key != "error" || f.Value != "boom" {
		t.Errorf("unexpected error field: %+v", f)
	}
	if f := Error(nil); f.Value != nil {
		t.Errorf("nil error should produce nil value, got %+v", f)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"ERROR":   ErrorLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", in, want, got)
		}
	}
}
