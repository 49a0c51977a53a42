package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHelpersBeforeInit(t *testing.T) {
	Logger = nil
	// must not panic
	Debug("debug")
	Info("info")
	Warn("warn", "key", "value")
	Error("error")
	if Path() != "" {
		t.Errorf("Path() = %q before Init", Path())
	}
}

func TestInitWritesToFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{Dir: dir}); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	t.Cleanup(func() { Close() })

	want := filepath.Join(dir, "logs", "habitflow.log")
	if Path() != want {
		t.Errorf("Path() = %q, want %q", Path(), want)
	}

	Debug("below threshold")
	Info("Milestone", "kind", "level_up")
	Warn("storage save failed", "user", "local")

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(data)
	for _, s := range []string{"storage save failed", "level_up"} {
		if !strings.Contains(out, s) {
			t.Errorf("expected %q in log, got %q", s, out)
		}
	}
	if strings.Contains(out, "below threshold") {
		t.Errorf("debug records must be filtered outside verbose mode")
	}
}

func TestVerboseMirrors(t *testing.T) {
	var mirror bytes.Buffer
	if err := Init(Config{Dir: t.TempDir(), Verbose: true, Mirror: &mirror}); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	t.Cleanup(func() { Close() })

	Debug("directive handled", "kind", "ADD_HABIT")
	if !strings.Contains(mirror.String(), "directive handled") {
		t.Errorf("mirror = %q, want the debug record", mirror.String())
	}
}

func TestCloseStopsLogging(t *testing.T) {
	if err := Init(Config{Dir: t.TempDir()}); err != nil {
		t.Fatal(err)
	}
	if err := Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if Logger != nil || Path() != "" {
		t.Error("logger still active after Close")
	}
	Warn("dropped")
	if err := Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
