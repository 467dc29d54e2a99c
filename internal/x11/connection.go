package x11

import (
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// XFixes 4.0 is the first version with HideCursor/ShowCursor.
const (
	xfixesMajor = 4
	xfixesMinor = 0
)

// Options selects the X server to talk to. Empty fields fall back to the
// process environment.
type Options struct {
	Display    string
	XAuthority string
}

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	// mu serialises cursor requests issued from the watcher, IPC handlers and
	// hotkey callbacks.
	mu sync.Mutex
}

// NewConnection establishes a connection to the X11 server and initializes
// the XFixes extension and the keybind module.
func NewConnection(opts Options) (*Connection, error) {
	if opts.XAuthority != "" {
		if err := os.Setenv("XAUTHORITY", opts.XAuthority); err != nil {
			return nil, fmt.Errorf("failed to set XAUTHORITY: %w", err)
		}
	}

	xu, err := xgbutil.NewConnDisplay(opts.Display)
	if err != nil {
		return nil, err
	}

	if err := xfixes.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("xfixes extension unavailable: %w", err)
	}
	// The server only honours XFixes requests after the client announces the
	// version it speaks.
	if _, err := xfixes.QueryVersion(xu.Conn(), xfixesMajor, xfixesMinor).Reply(); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("xfixes version negotiation failed: %w", err)
	}

	// Initialize keybind module (required for global hotkeys)
	keybind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit stops a running EventLoop.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
