// Package eventlog writes a rotating, line-oriented record of cursor events.
package eventlog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Event names a cursor event kind.
type Event string

const (
	EventCategory     Event = "CATEGORY"
	EventHide         Event = "HIDE"
	EventShow         Event = "SHOW"
	EventDockOverride Event = "DOCK_OVERRIDE"
	EventProbeError   Event = "PROBE_ERROR"
)

func eventLevel(ev Event) slog.Level {
	switch ev {
	case EventCategory:
		return slog.LevelDebug
	case EventProbeError:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Config holds configuration for the event log.
type Config struct {
	Enabled   bool
	Level     slog.Level
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// Log appends events to a file and rotates it once it exceeds MaxSizeMB.
type Log struct {
	mu          sync.Mutex
	file        *os.File
	config      Config
	currentSize int64
	now         func() time.Time
}

// Open creates the log. A disabled config yields a Log that drops everything.
func Open(cfg Config) (*Log, error) {
	l := &Log{config: cfg, now: time.Now}
	if !cfg.Enabled {
		return l, nil
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	l.file = f
	l.currentSize = stat.Size()
	return l, nil
}

// Record writes one event line. Fields are written in key order.
func (l *Log) Record(ev Event, fields map[string]any) {
	if l == nil || !l.config.Enabled {
		return
	}
	if eventLevel(ev) < l.config.Level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}

	maxBytes := int64(l.config.MaxSizeMB) * 1024 * 1024
	if maxBytes > 0 && l.currentSize >= maxBytes {
		if err := l.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "event log rotation failed: %v\n", err)
		}
		if l.file == nil {
			return
		}
	}

	n, err := l.file.WriteString(formatLine(l.now(), ev, fields))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write event: %v\n", err)
		return
	}
	l.currentSize += int64(n)
}

func formatLine(ts time.Time, ev Event, fields map[string]any) string {
	var sb strings.Builder
	sb.WriteString(ts.Format("2006-01-02 15:04:05.000"))
	sb.WriteString(" [")
	sb.WriteString(string(ev))
	sb.WriteString("]")

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch val := fields[k].(type) {
		case string:
			fmt.Fprintf(&sb, " %s=%q", k, val)
		case error:
			fmt.Fprintf(&sb, " %s=%q", k, val.Error())
		default:
			fmt.Fprintf(&sb, " %s=%v", k, val)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// Close releases the file.
func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// rotate shifts events.log -> events.log.1 -> ... and drops the file past MaxFiles.
func (l *Log) rotate() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	base := l.config.FilePath
	for i := l.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", base, i)
		if i == l.config.MaxFiles {
			os.Remove(oldPath)
			continue
		}
		os.Rename(oldPath, fmt.Sprintf("%s.%d", base, i+1))
	}
	if l.config.MaxFiles > 0 {
		if err := os.Rename(base, base+".1"); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	} else if err := os.Remove(base); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to truncate log file: %w", err)
	}

	f, err := os.OpenFile(base, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new log file: %w", err)
	}
	l.file = f
	l.currentSize = 0
	return nil
}
