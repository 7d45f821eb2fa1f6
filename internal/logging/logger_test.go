package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewJSONWritesStructuredRecords(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "out.log")

	logger, err := New(Options{Level: "debug", Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("change resolved", slog.Int("scenes", 3))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", data, err)
	}
	if record["msg"] != "change resolved" {
		t.Fatalf("unexpected message %v", record["msg"])
	}
	if record["scenes"] != float64(3) {
		t.Fatalf("unexpected scenes attr %v", record["scenes"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleHandlerRendersAttrs(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "console.log")

	logger, err := New(Options{Level: "info", Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	WithComponent(logger, "engine").Info("batch complete", slog.Int("jobs", 2))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	for _, want := range []string{"batch complete", "component=engine", "jobs=2"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in log line %q", want, line)
		}
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if parseLevel("unknown") != slog.LevelInfo {
		t.Fatal("expected unknown level to map to info")
	}
	if parseLevel("warn") != slog.LevelWarn {
		t.Fatal("expected warn level")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("ignored")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("expected nop logger to disable error records")
	}
}
