package eventlog

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRecord_FormatsSortedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "events.log")
	l, err := Open(Config{Enabled: true, Level: slog.LevelDebug, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	l.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	l.Record(EventCategory, map[string]any{"category": "pointer", "width": 32})
	l.Record(EventProbeError, map[string]any{"error": errors.New("no cursor")})
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
	}
	want := `2024-01-02 03:04:05.000 [CATEGORY] category="pointer" width=32`
	if lines[0] != want {
		t.Fatalf("line 0 = %q, want %q", lines[0], want)
	}
	if !strings.Contains(lines[1], `[PROBE_ERROR] error="no cursor"`) {
		t.Fatalf("unexpected error line %q", lines[1])
	}
}

func TestRecord_LevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	l, err := Open(Config{Enabled: true, Level: slog.LevelInfo, FilePath: path, MaxSizeMB: 1, MaxFiles: 1})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	l.Record(EventCategory, nil)
	l.Record(EventHide, nil)
	l.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "CATEGORY") {
		t.Fatalf("expected debug-level category event to be filtered: %q", data)
	}
	if !strings.Contains(string(data), "[HIDE]") {
		t.Fatalf("expected hide event: %q", data)
	}
}

func TestRecord_Disabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	l, err := Open(Config{Enabled: false, FilePath: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	l.Record(EventShow, nil)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file for disabled log, got %v", err)
	}

	var nilLog *Log
	nilLog.Record(EventShow, nil)
	if err := nilLog.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}

func TestRotate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	l, err := Open(Config{Enabled: true, Level: slog.LevelDebug, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()

	for round := 0; round < 3; round++ {
		l.currentSize = 1024 * 1024
		l.Record(EventShow, map[string]any{"round": round})
	}

	for _, p := range []string{path, path + ".1", path + ".2"} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s to exist: %v", p, err)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected %s.3 to be dropped", path)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "round=2") {
		t.Fatalf("expected latest event in current file, got %q", data)
	}
}
