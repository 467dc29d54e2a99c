//go:build linux

package platform

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/cursorsense/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// XFixes always reports 32-bit ARGB cursors.
const (
	x11CursorDepth            = 32
	x11CursorComponents       = 4
	x11CursorBitsPerComponent = 8
)

// cursorConn is the part of x11.Connection the service issues cursor requests on.
type cursorConn interface {
	GetCursorImage() (*x11.CursorImage, error)
	HideCursor() error
	ShowCursor() error
}

// X11CursorService implements CursorService on top of the XFixes extension.
//
// X11 has no equivalent of connection properties, input suppression or a dock,
// so those are recorded here and reported through VisibilityState.
//
// XFixes counts hide requests per client, so the service only sends HideCursor
// when the cursor is shown and ShowCursor when it is hidden. One Show always
// undoes any number of Hides.
type X11CursorService struct {
	conn   *x11.Connection
	cursor cursorConn
	owned  bool
	logger *slog.Logger

	mu    sync.Mutex
	state VisibilityState
}

var (
	_ CursorService = (*X11CursorService)(nil)
	_ StateReporter = (*X11CursorService)(nil)
)

// NewX11CursorService wraps an existing X11 connection.
func NewX11CursorService(conn *x11.Connection, logger *slog.Logger) *X11CursorService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &X11CursorService{
		conn:   conn,
		logger: logger,
		state:  VisibilityState{ConnectionProperties: map[string]bool{}},
	}
	if conn != nil {
		s.cursor = conn
	}
	return s
}

// NewCursorService opens a fresh X11 connection and wraps it.
func NewCursorService(opts x11.Options, logger *slog.Logger) (*X11CursorService, error) {
	conn, err := x11.NewConnection(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	s := NewX11CursorService(conn, logger)
	s.owned = true
	return s, nil
}

// Disconnect closes the X11 connection if this service opened it.
func (s *X11CursorService) Disconnect() {
	if s != nil && s.owned && s.conn != nil {
		s.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (s *X11CursorService) EventLoop() {
	if s != nil && s.conn != nil {
		s.conn.EventLoop()
	}
}

// Quit stops EventLoop.
func (s *X11CursorService) Quit() {
	if s != nil && s.conn != nil {
		s.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (s *X11CursorService) XUtil() *xgbutil.XUtil {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (s *X11CursorService) RootWindow() xproto.Window {
	if s == nil || s.conn == nil {
		return 0
	}
	return s.conn.Root
}

func (s *X11CursorService) CursorDataSize() (int, error) {
	conn, err := s.connection()
	if err != nil {
		return 0, err
	}
	img, err := conn.GetCursorImage()
	if err != nil {
		return 0, err
	}
	return len(img.Pixels) * 4, nil
}

func (s *X11CursorService) CursorData(buf []byte) (CursorData, error) {
	conn, err := s.connection()
	if err != nil {
		return CursorData{}, err
	}
	img, err := conn.GetCursorImage()
	if err != nil {
		return CursorData{}, err
	}

	// The cursor can change between CursorDataSize and here.
	size := len(img.Pixels) * 4
	if size > len(buf) {
		return CursorData{}, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, size, len(buf))
	}
	PutARGB(buf, img.Pixels)

	return CursorData{
		Width:            img.Width,
		Height:           img.Height,
		Depth:            x11CursorDepth,
		Components:       x11CursorComponents,
		BitsPerComponent: x11CursorBitsPerComponent,
		Opaque:           int(img.Serial),
		Size:             size,
	}, nil
}

func (s *X11CursorService) SetConnectionProperty(key string, value bool) error {
	s.mu.Lock()
	s.state.ConnectionProperties[key] = value
	s.mu.Unlock()
	s.logger.Debug("connection property recorded", "key", key, "value", value)
	return nil
}

func (s *X11CursorService) HideSystemCursor() error {
	return s.setHidden(true)
}

func (s *X11CursorService) ShowSystemCursor() error {
	return s.setHidden(false)
}

// setHidden holds mu across the request so concurrent callers cannot both
// see the old state and stack two XFixes hides.
func (s *X11CursorService) setHidden(hidden bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Hidden == hidden {
		return nil
	}
	conn, err := s.connection()
	if err != nil {
		return err
	}
	if hidden {
		err = conn.HideCursor()
	} else {
		err = conn.ShowCursor()
	}
	if err != nil {
		return err
	}
	s.state.Hidden = hidden
	return nil
}

func (s *X11CursorService) ResetInputSuppressionInterval(seconds float64) error {
	s.mu.Lock()
	s.state.SuppressionInterval = seconds
	s.mu.Unlock()
	return nil
}

// SetDockCursorOverride flips the override flag on every call, ignoring
// enabled, the same way the window server it stands in for does.
func (s *X11CursorService) SetDockCursorOverride(enabled bool) error {
	s.mu.Lock()
	s.state.DockOverride = !s.state.DockOverride
	now := s.state.DockOverride
	s.mu.Unlock()
	s.logger.Debug("dock cursor override toggled", "requested", enabled, "active", now)
	return nil
}

// VisibilityState returns a snapshot of the recorded visibility flags.
func (s *X11CursorService) VisibilityState() VisibilityState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.ConnectionProperties = make(map[string]bool, len(s.state.ConnectionProperties))
	for k, v := range s.state.ConnectionProperties {
		out.ConnectionProperties[k] = v
	}
	return out
}

func (s *X11CursorService) connection() (cursorConn, error) {
	if s == nil || s.cursor == nil {
		return nil, fmt.Errorf("x11 cursor service connection is nil")
	}
	return s.cursor, nil
}
