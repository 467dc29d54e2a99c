// Package daemon runs the background cursor watcher.
package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/corona10/goimagehash"

	"github.com/1broseidon/cursorsense/internal/eventlog"
	"github.com/1broseidon/cursorsense/internal/probe"
)

// DefaultFingerprintThreshold is the hash distance above which two readings
// of the same category count as different cursors.
const DefaultFingerprintThreshold = 6

// Prober runs one cursor query.
type Prober interface {
	Probe() probe.Reading
}

// WatcherConfig holds configuration for the watcher.
type WatcherConfig struct {
	Interval time.Duration
	// FingerprintThreshold is the maximum Hamming distance between bitmap
	// fingerprints still treated as the same cursor. Negative disables
	// fingerprint comparison.
	FingerprintThreshold int
	Logger               *slog.Logger
	Events               *eventlog.Log
	// OnChange is called from the watcher goroutine for each new cursor.
	OnChange func(probe.Reading)
}

// Watcher polls a Prober and reports when the cursor changes.
type Watcher struct {
	prober    Prober
	threshold int
	logger    *slog.Logger
	events    *eventlog.Log
	onChange  func(probe.Reading)

	mu       sync.Mutex
	interval time.Duration
	reset    chan struct{}
	last     probe.Reading
	lastAt   time.Time
	haveLast bool
	now      func() time.Time
}

// NewWatcher creates a watcher over p.
func NewWatcher(cfg WatcherConfig, p Prober) *Watcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		prober:    p,
		threshold: cfg.FingerprintThreshold,
		logger:    logger,
		events:    cfg.Events,
		onChange:  cfg.OnChange,
		interval:  interval,
		reset:     make(chan struct{}, 1),
		now:       time.Now,
	}
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval())
	defer ticker.Stop()

	w.logger.Info("watcher started", "interval", w.Interval())
	w.Poll()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return
		case <-w.reset:
			ticker.Reset(w.Interval())
			w.logger.Debug("watcher interval changed", "interval", w.Interval())
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Interval returns the current polling interval.
func (w *Watcher) Interval() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.interval
}

// SetInterval changes the polling interval of a running watcher.
func (w *Watcher) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	w.mu.Lock()
	w.interval = d
	w.mu.Unlock()
	select {
	case w.reset <- struct{}{}:
	default:
	}
}

// Last returns the most recent distinct reading and when it was first seen.
func (w *Watcher) Last() (probe.Reading, time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.lastAt, w.haveLast
}

// Poll runs one query and reports whether it was a change.
func (w *Watcher) Poll() bool {
	r := w.prober.Probe()

	w.mu.Lock()
	changed := !w.haveLast || w.differs(w.last, r)
	if changed {
		w.last = r
		w.lastAt = w.now()
		w.haveLast = true
	}
	w.mu.Unlock()

	if !changed {
		return false
	}

	if r.Err != nil {
		w.logger.Warn("cursor probe failing", "error", r.Err)
		w.events.Record(eventlog.EventProbeError, map[string]any{"error": r.Err})
	} else {
		w.logger.Debug("cursor changed", "category", r.Category, "width", r.Width, "height", r.Height)
		w.events.Record(eventlog.EventCategory, map[string]any{
			"category": r.Category.String(),
			"width":    r.Width,
			"height":   r.Height,
		})
	}
	if w.onChange != nil {
		w.onChange(r)
	}
	return true
}

func (w *Watcher) differs(prev, next probe.Reading) bool {
	if prev.Category != next.Category {
		return true
	}
	if (prev.Err == nil) != (next.Err == nil) {
		return true
	}
	if prev.Width != next.Width || prev.Height != next.Height {
		return true
	}
	if w.threshold < 0 || prev.Fingerprint == 0 || next.Fingerprint == 0 {
		return false
	}
	return fingerprintDistance(prev.Fingerprint, next.Fingerprint) > w.threshold
}

func fingerprintDistance(a, b uint64) int {
	ha := goimagehash.NewImageHash(a, goimagehash.DHash)
	hb := goimagehash.NewImageHash(b, goimagehash.DHash)
	d, err := ha.Distance(hb)
	if err != nil {
		return 0
	}
	return d
}
