package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/cursorsense/internal/ipc"
	"github.com/1broseidon/cursorsense/internal/platform"
)

type fakeDaemon struct {
	cursor *ipc.CursorInfo
	err    error
	state  platform.VisibilityState
	calls  []string
}

func (d *fakeDaemon) GetCursor() (*ipc.CursorInfo, error) {
	d.calls = append(d.calls, "GetCursor")
	return d.cursor, d.err
}

func (d *fakeDaemon) visibility(name string, mutate func(*platform.VisibilityState)) (*ipc.VisibilityData, error) {
	d.calls = append(d.calls, name)
	if d.err != nil {
		return nil, d.err
	}
	mutate(&d.state)
	st := d.state
	return &ipc.VisibilityData{Status: 0, State: &st}, nil
}

func (d *fakeDaemon) HideCursor() (*ipc.VisibilityData, error) {
	return d.visibility("HideCursor", func(s *platform.VisibilityState) { s.Hidden = true })
}

func (d *fakeDaemon) ShowCursor() (*ipc.VisibilityData, error) {
	return d.visibility("ShowCursor", func(s *platform.VisibilityState) { s.Hidden = false })
}

func (d *fakeDaemon) DockOverride() (*ipc.VisibilityData, error) {
	return d.visibility("DockOverride", func(s *platform.VisibilityState) { s.DockOverride = !s.DockOverride })
}

func newTestServer(d Daemon) *Server {
	return NewServer(d, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGetCursorType(t *testing.T) {
	d := &fakeDaemon{cursor: &ipc.CursorInfo{Category: "pointer", Width: 32, Height: 32, Fingerprint: "00ff"}}
	s := newTestServer(d)

	_, out, err := s.handleGetCursorType(context.Background(), nil, GetCursorTypeInput{})
	if err != nil {
		t.Fatalf("handleGetCursorType: %v", err)
	}
	if out.Category != "pointer" || out.Width != 32 || out.Fingerprint != "00ff" {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestGetCursorType_UnknownCarriesError(t *testing.T) {
	d := &fakeDaemon{cursor: &ipc.CursorInfo{Category: "unknown", Error: "cursor service unavailable"}}
	s := newTestServer(d)

	_, out, err := s.handleGetCursorType(context.Background(), nil, GetCursorTypeInput{})
	if err != nil {
		t.Fatalf("handleGetCursorType: %v", err)
	}
	if out.Category != "unknown" || out.Error == "" {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestTools_DaemonErrorsAreReturned(t *testing.T) {
	d := &fakeDaemon{err: errors.New("failed to connect to daemon")}
	s := newTestServer(d)

	if _, _, err := s.handleGetCursorType(context.Background(), nil, GetCursorTypeInput{}); err == nil || !strings.Contains(err.Error(), "get_cursor_type") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if _, _, err := s.handleHideCursor(context.Background(), nil, VisibilityInput{}); err == nil || !strings.Contains(err.Error(), "hide_cursor") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestVisibilityTools(t *testing.T) {
	d := &fakeDaemon{}
	s := newTestServer(d)
	ctx := context.Background()

	_, out, err := s.handleHideCursor(ctx, nil, VisibilityInput{})
	if err != nil {
		t.Fatalf("hide: %v", err)
	}
	if out.Status != 0 || out.Hidden == nil || !*out.Hidden {
		t.Fatalf("unexpected hide output %+v", out)
	}

	_, out, err = s.handleShowCursor(ctx, nil, VisibilityInput{})
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if out.Hidden == nil || *out.Hidden {
		t.Fatalf("unexpected show output %+v", out)
	}

	_, first, _ := s.handleSetDockOverride(ctx, nil, VisibilityInput{})
	_, second, _ := s.handleSetDockOverride(ctx, nil, VisibilityInput{})
	if !*first.DockOverride || *second.DockOverride {
		t.Fatalf("expected dock override to toggle, got %v then %v", *first.DockOverride, *second.DockOverride)
	}

	want := []string{"HideCursor", "ShowCursor", "DockOverride", "DockOverride"}
	if strings.Join(d.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", d.calls, want)
	}
}

func TestToVisibilityOutput_NoState(t *testing.T) {
	out := toVisibilityOutput(&ipc.VisibilityData{Status: 0})
	if out.Hidden != nil || out.DockOverride != nil {
		t.Fatalf("expected nil flags without state, got %+v", out)
	}
}
