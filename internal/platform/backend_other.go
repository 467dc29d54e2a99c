//go:build !linux

package platform

import (
	"log/slog"

	"github.com/1broseidon/cursorsense/internal/x11"
)

// X11CursorService is only available on Linux. Every method reports
// ErrUnsupported.
type X11CursorService struct{}

var _ CursorService = (*X11CursorService)(nil)

// NewCursorService reports ErrUnsupported outside Linux.
func NewCursorService(_ x11.Options, _ *slog.Logger) (*X11CursorService, error) {
	return nil, ErrUnsupported
}

func (s *X11CursorService) Disconnect() {}
func (s *X11CursorService) EventLoop()  {}
func (s *X11CursorService) Quit()       {}

func (s *X11CursorService) CursorDataSize() (int, error)                 { return 0, ErrUnsupported }
func (s *X11CursorService) CursorData(_ []byte) (CursorData, error)      { return CursorData{}, ErrUnsupported }
func (s *X11CursorService) SetConnectionProperty(_ string, _ bool) error { return ErrUnsupported }
func (s *X11CursorService) HideSystemCursor() error                      { return ErrUnsupported }
func (s *X11CursorService) ShowSystemCursor() error                      { return ErrUnsupported }
func (s *X11CursorService) ResetInputSuppressionInterval(_ float64) error {
	return ErrUnsupported
}
func (s *X11CursorService) SetDockCursorOverride(_ bool) error { return ErrUnsupported }

func (s *X11CursorService) VisibilityState() VisibilityState { return VisibilityState{} }
