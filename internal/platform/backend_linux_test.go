//go:build linux

package platform

import (
	"errors"
	"testing"

	"github.com/1broseidon/cursorsense/internal/x11"
)

// countingConn mimics the per-client XFixes hide counter.
type countingConn struct {
	hides, shows int
	depth        int
	failHide     bool
}

func (c *countingConn) GetCursorImage() (*x11.CursorImage, error) {
	return &x11.CursorImage{Width: 1, Height: 1, Pixels: []uint32{0xff000000}}, nil
}

func (c *countingConn) HideCursor() error {
	if c.failHide {
		return errors.New("BadWindow")
	}
	c.hides++
	c.depth++
	return nil
}

func (c *countingConn) ShowCursor() error {
	c.shows++
	if c.depth > 0 {
		c.depth--
	}
	return nil
}

func TestX11CursorService_DockOverrideToggles(t *testing.T) {
	s := NewX11CursorService(nil, nil)

	for i, want := range []bool{true, false, true} {
		if err := s.SetDockCursorOverride(true); err != nil {
			t.Fatalf("call %d: SetDockCursorOverride() error: %v", i, err)
		}
		if got := s.VisibilityState().DockOverride; got != want {
			t.Fatalf("call %d: DockOverride = %v, want %v", i, got, want)
		}
	}
}

func TestX11CursorService_RecordsProperties(t *testing.T) {
	s := NewX11CursorService(nil, nil)

	if err := s.SetConnectionProperty(PropertySetsCursorInBackground, true); err != nil {
		t.Fatalf("SetConnectionProperty() error: %v", err)
	}
	if err := s.ResetInputSuppressionInterval(0.25); err != nil {
		t.Fatalf("ResetInputSuppressionInterval() error: %v", err)
	}

	st := s.VisibilityState()
	if !st.ConnectionProperties[PropertySetsCursorInBackground] {
		t.Fatalf("property %q not recorded", PropertySetsCursorInBackground)
	}
	if st.SuppressionInterval != 0.25 {
		t.Fatalf("SuppressionInterval = %v, want 0.25", st.SuppressionInterval)
	}

	// Snapshots are copies.
	st.ConnectionProperties["other"] = true
	if _, ok := s.VisibilityState().ConnectionProperties["other"]; ok {
		t.Fatal("VisibilityState() leaked internal map")
	}
}

func TestX11CursorService_NilConnectionErrors(t *testing.T) {
	s := NewX11CursorService(nil, nil)
	if _, err := s.CursorDataSize(); err == nil {
		t.Fatal("CursorDataSize() expected error without connection")
	}
	if err := s.HideSystemCursor(); err == nil {
		t.Fatal("HideSystemCursor() expected error without connection")
	}
}

func TestX11CursorService_HideShowDoNotStack(t *testing.T) {
	conn := &countingConn{}
	s := NewX11CursorService(nil, nil)
	s.cursor = conn

	steps := []struct {
		name      string
		call      func() error
		wantDepth int
		hidden    bool
	}{
		{"hide", s.HideSystemCursor, 1, true},
		{"hide again", s.HideSystemCursor, 1, true},
		{"show", s.ShowSystemCursor, 0, false},
		{"show again", s.ShowSystemCursor, 0, false},
	}
	for _, st := range steps {
		if err := st.call(); err != nil {
			t.Fatalf("%s: error: %v", st.name, err)
		}
		if conn.depth != st.wantDepth {
			t.Fatalf("%s: server hide count = %d, want %d", st.name, conn.depth, st.wantDepth)
		}
		if got := s.VisibilityState().Hidden; got != st.hidden {
			t.Fatalf("%s: Hidden = %v, want %v", st.name, got, st.hidden)
		}
	}
	if conn.hides != 1 || conn.shows != 1 {
		t.Fatalf("requests sent: hides=%d shows=%d, want 1/1", conn.hides, conn.shows)
	}
}

func TestX11CursorService_FailedHideKeepsState(t *testing.T) {
	conn := &countingConn{failHide: true}
	s := NewX11CursorService(nil, nil)
	s.cursor = conn

	if err := s.HideSystemCursor(); err == nil {
		t.Fatal("HideSystemCursor() expected error")
	}
	if s.VisibilityState().Hidden {
		t.Fatal("Hidden = true after failed hide")
	}
}
