package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(buf, nil))}
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("failed to parse log line: %v", err)
	}
	return entry
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf).WithFields(map[string]any{
		"service":     "portal",
		"environment": "test",
	})

	log.Info("hello")

	entry := lastLine(t, &buf)
	if entry["service"] != "portal" || entry["environment"] != "test" {
		t.Fatalf("fields missing from entry: %v", entry)
	}
}

func TestContextHelpers(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf).WithMemberID("alice").WithRequestID("req-1")

	log.Info("delegation step")

	entry := lastLine(t, &buf)
	if entry["member_id"] != "alice" {
		t.Fatalf("member_id missing: %v", entry)
	}
	if entry["request_id"] != "req-1" {
		t.Fatalf("request_id missing: %v", entry)
	}
}

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		if log := New(level, "json"); log == nil {
			t.Fatalf("New(%q) returned nil", level)
		}
	}
	if log := New("info", "text"); log == nil {
		t.Fatal("New with text format returned nil")
	}
}
