package platform

import "errors"

var (
	// ErrUnsupported is returned when no cursor service exists for this platform.
	ErrUnsupported = errors.New("cursor service not supported on this platform")
	// ErrBufferTooSmall is returned by CursorData when buf cannot hold the bitmap.
	ErrBufferTooSmall = errors.New("cursor buffer too small")
)

// Connection property asking the window server to let this process change the
// cursor while it is not the foreground application.
const PropertySetsCursorInBackground = "SetsCursorInBackground"

// CursorData describes the bitmap written by CursorService.CursorData.
type CursorData struct {
	Width            int
	Height           int
	Depth            int
	Components       int
	BitsPerComponent int
	// Opaque is an extra value the platform returns alongside the bitmap. It is
	// passed through untouched.
	Opaque int
	// Size is the number of bytes written into the buffer.
	Size int
}

// CursorService abstracts the window server's cursor operations.
type CursorService interface {
	// CursorDataSize returns the byte size of the current cursor bitmap.
	CursorDataSize() (int, error)
	// CursorData fills buf with the current cursor bitmap, 4 bytes per pixel
	// row-major with the alpha-bearing byte first.
	CursorData(buf []byte) (CursorData, error)
	SetConnectionProperty(key string, value bool) error
	HideSystemCursor() error
	ShowSystemCursor() error
	// ResetInputSuppressionInterval sets how long local input is suppressed
	// after synthetic cursor changes.
	ResetInputSuppressionInterval(seconds float64) error
	// SetDockCursorOverride asks the dock to stop changing the cursor. The
	// window server flips its flag on every call whatever enabled says.
	SetDockCursorOverride(enabled bool) error
}

// VisibilityState is the service-side view of cursor visibility, for services
// that can report it.
type VisibilityState struct {
	Hidden               bool            `json:"hidden"`
	DockOverride         bool            `json:"dock_override"`
	SuppressionInterval  float64         `json:"suppression_interval"`
	ConnectionProperties map[string]bool `json:"connection_properties,omitempty"`
}

// StateReporter is implemented by services that track VisibilityState.
type StateReporter interface {
	VisibilityState() VisibilityState
}
