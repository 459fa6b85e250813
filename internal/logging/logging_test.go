package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true, slog.LevelInfo).Info("ingest complete", "file", "students.csv", "rows", 3)

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if m["msg"] != "ingest complete" {
		t.Errorf("msg = %v, want ingest complete", m["msg"])
	}
	if m["rows"] != float64(3) {
		t.Errorf("rows = %v, want 3", m["rows"])
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false, slog.LevelInfo).Info("scored", "student_id", "S1")

	out := buf.String()
	if !strings.Contains(out, "msg=scored") || !strings.Contains(out, "student_id=S1") {
		t.Errorf("unexpected text log line %q", out)
	}
}

func TestNewLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false, slog.LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn record should pass at warn level")
	}
}

func TestInitSetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	Init(true, slog.LevelError)
	if slog.Default().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("default logger should not be enabled for warn after Init(error)")
	}
}
