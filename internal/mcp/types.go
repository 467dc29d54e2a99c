package mcp

// GetCursorTypeInput is the input for the get_cursor_type tool.
type GetCursorTypeInput struct{}

// GetCursorTypeOutput is the output for the get_cursor_type tool.
type GetCursorTypeOutput struct {
	Category    string `json:"category" jsonschema:"Cursor category: arrow, ibeam, pointer, diagonal_resize, horizontal_resize, vertical_resize, other or unknown"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Fingerprint string `json:"fingerprint,omitempty" jsonschema:"Hex difference hash of the cursor bitmap"`
	Error       string `json:"error,omitempty" jsonschema:"Why the bitmap could not be read; category is unknown when set"`
}

// VisibilityInput is the input for hide_cursor, show_cursor and set_dock_override.
type VisibilityInput struct{}

// VisibilityOutput reports the cursor state after a visibility tool ran.
type VisibilityOutput struct {
	Status       int   `json:"status" jsonschema:"0 once the request was issued; platform failures are only logged"`
	Hidden       *bool `json:"hidden,omitempty"`
	DockOverride *bool `json:"dock_override,omitempty"`
}
