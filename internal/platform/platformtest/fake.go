// Package platformtest provides in-memory cursor services for tests.
package platformtest

import (
	"fmt"
	"sync"

	"github.com/1broseidon/cursorsense/internal/platform"
)

// Service is a scriptable platform.CursorService. Its dock override flag
// toggles on every call, matching the real window server.
type Service struct {
	mu sync.Mutex

	// Bitmap is copied into the caller's buffer by CursorData.
	Bitmap []byte
	Width  int
	Height int
	Opaque int

	// SizeOverride replaces len(Bitmap) as the reported size when non-nil.
	SizeOverride *int

	SizeErr error
	DataErr error
	HideErr error
	ShowErr error

	// Calls records every method invoked, in order.
	Calls []string

	state platform.VisibilityState
}

var (
	_ platform.CursorService = (*Service)(nil)
	_ platform.StateReporter = (*Service)(nil)
)

// NewService returns a fake showing a width x height bitmap.
func NewService(bitmap []byte, width, height int) *Service {
	return &Service{
		Bitmap: bitmap,
		Width:  width,
		Height: height,
		state:  platform.VisibilityState{ConnectionProperties: map[string]bool{}},
	}
}

// SetBitmap swaps the cursor shown by the fake.
func (s *Service) SetBitmap(bitmap []byte, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Bitmap, s.Width, s.Height = bitmap, width, height
}

func (s *Service) record(call string) {
	s.Calls = append(s.Calls, call)
}

// CallLog returns a copy of Calls.
func (s *Service) CallLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Calls...)
}

func (s *Service) CursorDataSize() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("CursorDataSize")
	if s.SizeErr != nil {
		return 0, s.SizeErr
	}
	if s.SizeOverride != nil {
		return *s.SizeOverride, nil
	}
	return len(s.Bitmap), nil
}

func (s *Service) CursorData(buf []byte) (platform.CursorData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("CursorData")
	if s.DataErr != nil {
		return platform.CursorData{}, s.DataErr
	}
	if len(s.Bitmap) > len(buf) {
		return platform.CursorData{}, fmt.Errorf("%w: need %d bytes, have %d", platform.ErrBufferTooSmall, len(s.Bitmap), len(buf))
	}
	n := copy(buf, s.Bitmap)
	return platform.CursorData{
		Width:            s.Width,
		Height:           s.Height,
		Depth:            32,
		Components:       4,
		BitsPerComponent: 8,
		Opaque:           s.Opaque,
		Size:             n,
	}, nil
}

func (s *Service) SetConnectionProperty(key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("SetConnectionProperty:" + key)
	s.state.ConnectionProperties[key] = value
	return nil
}

func (s *Service) HideSystemCursor() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("HideSystemCursor")
	if s.HideErr != nil {
		return s.HideErr
	}
	s.state.Hidden = true
	return nil
}

func (s *Service) ShowSystemCursor() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ShowSystemCursor")
	if s.ShowErr != nil {
		return s.ShowErr
	}
	s.state.Hidden = false
	return nil
}

func (s *Service) ResetInputSuppressionInterval(seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("ResetInputSuppressionInterval")
	s.state.SuppressionInterval = seconds
	return nil
}

func (s *Service) SetDockCursorOverride(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("SetDockCursorOverride")
	s.state.DockOverride = !s.state.DockOverride
	return nil
}

func (s *Service) VisibilityState() platform.VisibilityState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.ConnectionProperties = make(map[string]bool, len(s.state.ConnectionProperties))
	for k, v := range s.state.ConnectionProperties {
		out.ConnectionProperties[k] = v
	}
	return out
}

// Allocator counts allocations and releases per buffer.
type Allocator struct {
	mu sync.Mutex

	AllocErr error

	Allocated int
	Released  int
	// Live maps the first byte address of each outstanding buffer to its
	// release count.
	live map[*byte]int
	// DoubleReleased counts releases of buffers already released.
	DoubleReleased int
	// Foreign counts releases of buffers this allocator never handed out.
	Foreign int
}

var _ platform.BufferAllocator = (*Allocator)(nil)

func NewAllocator() *Allocator {
	return &Allocator{live: map[*byte]int{}}
}

func (a *Allocator) Allocate(size int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.AllocErr != nil {
		return nil, a.AllocErr
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid size %d", size)
	}
	buf := make([]byte, size)
	a.Allocated++
	a.live[&buf[0]] = 0
	return buf, nil
}

func (a *Allocator) Release(buf []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Released++
	if len(buf) == 0 {
		a.Foreign++
		return
	}
	n, ok := a.live[&buf[0]]
	switch {
	case !ok:
		a.Foreign++
	case n > 0:
		a.DoubleReleased++
	}
	a.live[&buf[0]] = n + 1
}

// Outstanding returns how many allocated buffers were never released.
func (a *Allocator) Outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, count := range a.live {
		if count == 0 {
			n++
		}
	}
	return n
}
