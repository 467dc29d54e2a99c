package visibility

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/1broseidon/cursorsense/internal/platform"
	"github.com/1broseidon/cursorsense/internal/platform/platformtest"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHide_CallSequence(t *testing.T) {
	svc := platformtest.NewService(nil, 0, 0)
	c := NewController(svc, quietLogger())

	if got := c.Hide(); got != StatusAttempted {
		t.Fatalf("Hide() = %d, want %d", got, StatusAttempted)
	}

	want := []string{
		"SetConnectionProperty:" + platform.PropertySetsCursorInBackground,
		"HideSystemCursor",
		"ResetInputSuppressionInterval",
	}
	if got := svc.CallLog(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	st := svc.VisibilityState()
	if !st.Hidden || !st.ConnectionProperties[platform.PropertySetsCursorInBackground] {
		t.Fatalf("state = %+v", st)
	}
	if st.SuppressionInterval != 0 {
		t.Fatalf("SuppressionInterval = %v, want 0", st.SuppressionInterval)
	}
}

func TestShow_CallSequence(t *testing.T) {
	svc := platformtest.NewService(nil, 0, 0)
	c := NewController(svc, quietLogger())
	c.Hide()
	svc.Calls = nil

	if got := c.Show(); got != StatusAttempted {
		t.Fatalf("Show() = %d, want %d", got, StatusAttempted)
	}
	want := []string{"ShowSystemCursor", "ResetInputSuppressionInterval"}
	if got := svc.CallLog(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	if svc.VisibilityState().Hidden {
		t.Fatal("cursor still hidden after Show()")
	}
}

func TestHideShow_PlatformErrorsAreLoggedNotReturned(t *testing.T) {
	var out bytes.Buffer
	svc := platformtest.NewService(nil, 0, 0)
	svc.HideErr = errors.New("hide refused")
	svc.ShowErr = errors.New("show refused")
	c := NewController(svc, slog.New(slog.NewTextHandler(&out, nil)))

	if got := c.Hide(); got != StatusAttempted {
		t.Fatalf("Hide() = %d, want %d", got, StatusAttempted)
	}
	if got := c.Show(); got != StatusAttempted {
		t.Fatalf("Show() = %d, want %d", got, StatusAttempted)
	}
	logs := out.String()
	if !strings.Contains(logs, "hide refused") || !strings.Contains(logs, "show refused") {
		t.Fatalf("log output = %q", logs)
	}

	// The suppression reset still runs after a failed command.
	calls := svc.CallLog()
	if calls[len(calls)-1] != "ResetInputSuppressionInterval" {
		t.Fatalf("calls = %v", calls)
	}
}

func TestSetDockOverride_IsNotIdempotent(t *testing.T) {
	once := platformtest.NewService(nil, 0, 0)
	NewController(once, quietLogger()).SetDockOverride()

	twice := platformtest.NewService(nil, 0, 0)
	c := NewController(twice, quietLogger())
	c.SetDockOverride()
	c.SetDockOverride()

	never := platformtest.NewService(nil, 0, 0)

	if !once.VisibilityState().DockOverride {
		t.Fatal("one call should enable the override")
	}
	// Two calls land back where zero calls started; callers must not repeat it.
	if twice.VisibilityState().DockOverride != never.VisibilityState().DockOverride {
		t.Fatal("expected two calls to cancel out against the toggling service")
	}
	if twice.VisibilityState().DockOverride == once.VisibilityState().DockOverride {
		t.Fatal("calling twice must not be assumed equal to calling once")
	}
	if n := len(twice.CallLog()); n != 2 {
		t.Fatalf("service calls = %d, want 2", n)
	}
}
