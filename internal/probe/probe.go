// Package probe answers "which cursor is on screen right now" by pulling the
// cursor bitmap from the platform service and classifying it.
package probe

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/corona10/goimagehash"

	"github.com/1broseidon/cursorsense/internal/cursor"
	"github.com/1broseidon/cursorsense/internal/platform"
)

var (
	ErrServiceUnavailable = errors.New("cursor service unavailable")
	ErrAllocation         = errors.New("cursor buffer allocation failed")
	ErrFetch              = errors.New("cursor data fetch failed")
)

// Reading is the outcome of one query.
type Reading struct {
	Category         cursor.Category `json:"category"`
	Width            int             `json:"width"`
	Height           int             `json:"height"`
	Depth            int             `json:"depth"`
	Components       int             `json:"components"`
	BitsPerComponent int             `json:"bits_per_component"`
	Opaque           int             `json:"opaque"`
	// Fingerprint is a difference hash of the bitmap, zero when disabled.
	Fingerprint uint64 `json:"fingerprint,omitempty"`
	// Err is set when the bitmap could not be obtained; Category is then Unknown.
	Err error `json:"-"`
}

// Prober queries a CursorService. It holds no per-query state and may be
// shared, but queries against one service are not atomic with each other.
type Prober struct {
	svc         platform.CursorService
	alloc       platform.BufferAllocator
	logger      *slog.Logger
	fingerprint bool
}

// Option configures a Prober.
type Option func(*Prober)

// WithAllocator replaces the default pooled allocator.
func WithAllocator(a platform.BufferAllocator) Option {
	return func(p *Prober) { p.alloc = a }
}

// WithLogger sets the logger used for query failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Prober) { p.logger = l }
}

// WithFingerprint enables bitmap fingerprints on readings.
func WithFingerprint(enabled bool) Option {
	return func(p *Prober) { p.fingerprint = enabled }
}

// New creates a Prober for svc.
func New(svc platform.CursorService, opts ...Option) *Prober {
	p := &Prober{
		svc:    svc,
		alloc:  platform.NewPoolAllocator(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CurrentCategory returns the category of the cursor on screen. Failures are
// logged and reported as cursor.Unknown.
func (p *Prober) CurrentCategory() cursor.Category {
	return p.Probe().Category
}

// Probe runs one query and returns everything learned about the bitmap.
func (p *Prober) Probe() Reading {
	size, err := p.svc.CursorDataSize()
	if err == nil && size <= 0 {
		err = fmt.Errorf("reported size %d", size)
	}
	if err != nil {
		return p.fail(fmt.Errorf("%w: %w", ErrServiceUnavailable, err))
	}

	buf, err := p.alloc.Allocate(size)
	if err != nil {
		return p.fail(fmt.Errorf("%w: %w", ErrAllocation, err))
	}
	defer p.alloc.Release(buf)

	data, err := p.svc.CursorData(buf)
	if err != nil {
		return p.fail(fmt.Errorf("%w: %w", ErrFetch, err))
	}

	r := Reading{
		Category:         Categorize(buf, data.Width, data.Height),
		Width:            data.Width,
		Height:           data.Height,
		Depth:            data.Depth,
		Components:       data.Components,
		BitsPerComponent: data.BitsPerComponent,
		Opaque:           data.Opaque,
	}
	if p.fingerprint {
		r.Fingerprint = fingerprint(buf, data.Width, data.Height)
	}
	return r
}

// Categorize applies the dimension rules and hands square bitmaps to the
// classifier. The text cursor is recognised by size alone.
func Categorize(buf []byte, width, height int) cursor.Category {
	if width == cursor.IBeamWidth && height == cursor.IBeamHeight {
		return cursor.IBeam
	}
	if width > 0 && height > 0 {
		ratio := float64(width) / float64(height)
		if ratio == 1 {
			return cursor.Classify(buf, width, height)
		}
	}
	return cursor.Arrow
}

func (p *Prober) fail(err error) Reading {
	p.logger.Error("cursor query failed", "error", err)
	return Reading{Category: cursor.Unknown, Err: err}
}

func fingerprint(buf []byte, width, height int) uint64 {
	if cursor.BufferLen(width, height) == 0 || len(buf) < cursor.BufferLen(width, height) {
		return 0
	}
	hash, err := goimagehash.DifferenceHash(cursor.Image(buf, width, height))
	if err != nil {
		return 0
	}
	return hash.GetHash()
}
