package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/cursorsense/internal/cursor"
	"github.com/1broseidon/cursorsense/internal/probe"
)

type scriptedProber struct {
	mu       sync.Mutex
	readings []probe.Reading
	calls    int
}

func (p *scriptedProber) Probe() probe.Reading {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.calls
	if i >= len(p.readings) {
		i = len(p.readings) - 1
	}
	p.calls++
	return p.readings[i]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPoll_ReportsChanges(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		readings  []probe.Reading
		want      []bool
	}{
		{
			name: "same category repeats",
			readings: []probe.Reading{
				{Category: cursor.Arrow},
				{Category: cursor.Arrow},
				{Category: cursor.Pointer},
			},
			want: []bool{true, false, true},
		},
		{
			name:      "fingerprint beyond threshold",
			threshold: 2,
			readings: []probe.Reading{
				{Category: cursor.Other, Fingerprint: 0x0f},
				{Category: cursor.Other, Fingerprint: 0x0e},
				{Category: cursor.Other, Fingerprint: 0xf0},
			},
			want: []bool{true, false, true},
		},
		{
			name:      "fingerprint disabled",
			threshold: -1,
			readings: []probe.Reading{
				{Category: cursor.Other, Fingerprint: 0x0f},
				{Category: cursor.Other, Fingerprint: 0xf0},
			},
			want: []bool{true, false},
		},
		{
			name:      "size change within a category",
			threshold: -1,
			readings: []probe.Reading{
				{Category: cursor.Arrow, Width: 32, Height: 16},
				{Category: cursor.Arrow, Width: 32, Height: 16},
				{Category: cursor.Arrow, Width: 64, Height: 32},
			},
			want: []bool{true, false, true},
		},
		{
			name: "error transitions",
			readings: []probe.Reading{
				{Category: cursor.Unknown, Err: errors.New("gone")},
				{Category: cursor.Unknown, Err: errors.New("still gone")},
				{Category: cursor.Arrow},
			},
			want: []bool{true, false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []probe.Reading
			w := NewWatcher(WatcherConfig{
				FingerprintThreshold: tt.threshold,
				Logger:               quietLogger(),
				OnChange:             func(r probe.Reading) { seen = append(seen, r) },
			}, &scriptedProber{readings: tt.readings})

			changes := 0
			for i, want := range tt.want {
				if got := w.Poll(); got != want {
					t.Fatalf("poll %d: changed = %v, want %v", i, got, want)
				}
				if want {
					changes++
				}
			}
			if len(seen) != changes {
				t.Fatalf("OnChange called %d times, want %d", len(seen), changes)
			}
		})
	}
}

func TestLast(t *testing.T) {
	w := NewWatcher(WatcherConfig{Logger: quietLogger()}, &scriptedProber{readings: []probe.Reading{{Category: cursor.IBeam}}})
	if _, _, ok := w.Last(); ok {
		t.Fatalf("expected no reading before first poll")
	}

	at := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	w.now = func() time.Time { return at }
	w.Poll()

	r, gotAt, ok := w.Last()
	if !ok || r.Category != cursor.IBeam || !gotAt.Equal(at) {
		t.Fatalf("Last() = %+v, %v, %v", r, gotAt, ok)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	p := &scriptedProber{readings: []probe.Reading{{Category: cursor.Arrow}}}
	w := NewWatcher(WatcherConfig{Interval: time.Millisecond, Logger: quietLogger()}, p)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		p.mu.Lock()
		calls := p.calls
		p.mu.Unlock()
		if calls >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("watcher did not poll")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not stop")
	}
}

func TestSetInterval(t *testing.T) {
	w := NewWatcher(WatcherConfig{Interval: time.Second, Logger: quietLogger()}, &scriptedProber{readings: []probe.Reading{{}}})
	w.SetInterval(50 * time.Millisecond)
	if w.Interval() != 50*time.Millisecond {
		t.Fatalf("interval = %v", w.Interval())
	}
	w.SetInterval(0)
	if w.Interval() != 50*time.Millisecond {
		t.Fatalf("zero interval should be ignored")
	}
}

func TestLast_FollowsResizedCursor(t *testing.T) {
	w := NewWatcher(WatcherConfig{FingerprintThreshold: -1, Logger: quietLogger()}, &scriptedProber{readings: []probe.Reading{
		{Category: cursor.Arrow, Width: 32, Height: 16},
		{Category: cursor.Arrow, Width: 64, Height: 32},
	}})
	w.Poll()
	w.Poll()

	r, _, _ := w.Last()
	if r.Width != 64 || r.Height != 32 {
		t.Fatalf("Last() size = %dx%d, want 64x32", r.Width, r.Height)
	}
}
