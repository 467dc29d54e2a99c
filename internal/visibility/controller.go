// Package visibility hides and shows the system cursor and manages the dock
// cursor override.
package visibility

import (
	"log/slog"

	"github.com/1broseidon/cursorsense/internal/platform"
)

// StatusAttempted is returned by Hide and Show once the platform calls were
// issued. Platform failures are logged, never reported through the status.
const StatusAttempted = 0

// Controller issues visibility commands. It keeps no state of its own; the
// cursor service is the only owner of hidden/override flags.
type Controller struct {
	svc    platform.CursorService
	logger *slog.Logger
}

// NewController creates a Controller. A nil logger uses slog.Default().
func NewController(svc platform.CursorService, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{svc: svc, logger: logger}
}

// Hide hides the cursor system-wide, including while this process is in the
// background.
func (c *Controller) Hide() int {
	if err := c.svc.SetConnectionProperty(platform.PropertySetsCursorInBackground, true); err != nil {
		c.logger.Warn("failed to set connection property", "key", platform.PropertySetsCursorInBackground, "error", err)
	}
	if err := c.svc.HideSystemCursor(); err != nil {
		c.logger.Error("hide cursor failed", "error", err)
	}
	c.clearSuppression()
	return StatusAttempted
}

// Show undoes Hide.
func (c *Controller) Show() int {
	if err := c.svc.ShowSystemCursor(); err != nil {
		c.logger.Error("show cursor failed", "error", err)
	}
	c.clearSuppression()
	return StatusAttempted
}

// SetDockOverride stops the dock from changing the cursor.
//
// The service flips its flag on every call, so a second call undoes the first.
// Call it once per intended change and never to "make sure".
func (c *Controller) SetDockOverride() {
	if err := c.svc.SetDockCursorOverride(true); err != nil {
		c.logger.Error("dock cursor override failed", "error", err)
	}
}

// Hiding the cursor otherwise leaves local input suppressed for a grace period.
func (c *Controller) clearSuppression() {
	if err := c.svc.ResetInputSuppressionInterval(0); err != nil {
		c.logger.Warn("failed to reset input suppression interval", "error", err)
	}
}
