package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	contents := `
[paths]
data_dir = "` + filepath.Join(base, "data") + `"
log_dir = "` + filepath.Join(base, "logs") + `"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) string {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v\noutput: %s", args, err, out.String())
	}
	return out.String()
}

func TestSeedRecordProcessStatusFlow(t *testing.T) {
	configPath := writeTestConfig(t)

	seedOut := runCLI(t, configPath, "seed")
	if !strings.Contains(seedOut, "Seeded demo project") {
		t.Fatalf("unexpected seed output: %s", seedOut)
	}

	recordOut := runCLI(t, configPath, "record", "characters", "1", "--scope", "visual", "--field", "outfit")
	if !strings.Contains(recordOut, "Recorded change") {
		t.Fatalf("unexpected record output: %s", recordOut)
	}

	processOut := runCLI(t, configPath, "process")
	if !strings.Contains(processOut, "Scene") {
		t.Fatalf("expected job table, got: %s", processOut)
	}

	// The demo character appears in two scenes; a second process run is a
	// no-op.
	processAgain := runCLI(t, configPath, "process")
	if !strings.Contains(processAgain, "No new regeneration jobs.") {
		t.Fatalf("expected idempotent second run, got: %s", processAgain)
	}

	statusOut := runCLI(t, configPath, "status")
	if !strings.Contains(statusOut, "Queued") || !strings.Contains(statusOut, "Visual") {
		t.Fatalf("unexpected status output: %s", statusOut)
	}
	if !strings.Contains(statusOut, "Pending changelog entries: 0") {
		t.Fatalf("expected drained changelog, got: %s", statusOut)
	}

	staleOut := runCLI(t, configPath, "stale", "1")
	if !strings.Contains(staleOut, "Queued Scopes") {
		t.Fatalf("unexpected stale output: %s", staleOut)
	}

	changesOut := runCLI(t, configPath, "changes")
	if !strings.Contains(changesOut, "Characters") || !strings.Contains(changesOut, "complete") {
		t.Fatalf("unexpected changes output: %s", changesOut)
	}
}

func TestConfigShowWithoutFileUsesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "missing.toml")

	out := runCLI(t, configPath, "config", "show")
	if !strings.Contains(out, "showing defaults") {
		t.Fatalf("expected defaults notice, got: %s", out)
	}
	if !strings.Contains(out, "propagation.batch_limit = 50") {
		t.Fatalf("expected default batch limit, got: %s", out)
	}
}
