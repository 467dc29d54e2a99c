package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xfixes"
)

// CursorImage is the current cursor as reported by XFixes.
type CursorImage struct {
	Width  int
	Height int
	HotX   int
	HotY   int
	Serial uint32
	// Pixels holds one premultiplied ARGB word per pixel, row-major.
	Pixels []uint32
}

// GetCursorImage fetches the cursor currently shown on screen.
func (c *Connection) GetCursorImage() (*CursorImage, error) {
	c.mu.Lock()
	reply, err := xfixes.GetCursorImage(c.XUtil.Conn()).Reply()
	c.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to get cursor image: %w", err)
	}

	return &CursorImage{
		Width:  int(reply.Width),
		Height: int(reply.Height),
		HotX:   int(reply.Xhot),
		HotY:   int(reply.Yhot),
		Serial: reply.CursorSerial,
		Pixels: reply.CursorImage,
	}, nil
}

// HideCursor hides the cursor on the root window for as long as this client
// stays connected. XFixes counts hide requests per client, so every call must
// be paired with a ShowCursor.
func (c *Connection) HideCursor() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := xfixes.HideCursorChecked(c.XUtil.Conn(), c.Root).Check(); err != nil {
		return fmt.Errorf("failed to hide cursor: %w", err)
	}
	return nil
}

// ShowCursor undoes one HideCursor.
func (c *Connection) ShowCursor() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := xfixes.ShowCursorChecked(c.XUtil.Conn(), c.Root).Check(); err != nil {
		return fmt.Errorf("failed to show cursor: %w", err)
	}
	return nil
}
