package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	levels := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range levels {
		got, err := ParseLevel(name)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; expected %v", name, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected invalid level to fail")
	}
}

func TestNewWritesBoth(t *testing.T) {
	dir := t.TempDir()
	var stderr bytes.Buffer
	l, err := New(Options{Level: "warn", Dir: dir, Stderr: &stderr})
	if err != nil {
		t.Fatal(err)
	}

	l.Info("hidden")
	l.Warn("atlas full", slog.Int("handle", 3))
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	if out := stderr.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "atlas full") {
		t.Errorf("unexpected stderr output %q", out)
	}

	data, err := os.ReadFile(l.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record in the file, got %d", len(lines))
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["msg"] != "atlas full" || rec["handle"] != float64(3) {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestNewDiscard(t *testing.T) {
	l, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if l.LogFile != "" {
		t.Errorf("expected no log file, got %q", l.LogFile)
	}
	if err := l.Close(); err != nil {
		t.Error(err)
	}
}
