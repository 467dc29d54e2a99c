package ipc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/1broseidon/cursorsense/internal/platform"
	"github.com/1broseidon/cursorsense/internal/probe"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload       CommandType = "RELOAD"
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandGetCursor    CommandType = "GET_CURSOR"
	CommandHideCursor   CommandType = "HIDE_CURSOR"
	CommandShowCursor   CommandType = "SHOW_CURSOR"
	CommandDockOverride CommandType = "DOCK_OVERRIDE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// CursorInfo is one cursor reading as sent over the wire.
type CursorInfo struct {
	Category         string `json:"category"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	Depth            int    `json:"depth,omitempty"`
	Components       int    `json:"components,omitempty"`
	BitsPerComponent int    `json:"bits_per_component,omitempty"`
	Opaque           int    `json:"opaque,omitempty"`
	Fingerprint      string `json:"fingerprint,omitempty"`
	Error            string `json:"error,omitempty"`
}

// NewCursorInfo converts a probe reading.
func NewCursorInfo(r probe.Reading) CursorInfo {
	info := CursorInfo{
		Category:         r.Category.String(),
		Width:            r.Width,
		Height:           r.Height,
		Depth:            r.Depth,
		Components:       r.Components,
		BitsPerComponent: r.BitsPerComponent,
		Opaque:           r.Opaque,
	}
	if r.Fingerprint != 0 {
		info.Fingerprint = fmt.Sprintf("%016x", r.Fingerprint)
	}
	if r.Err != nil {
		info.Error = r.Err.Error()
	}
	return info
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning  bool                      `json:"daemon_running"`
	UptimeSeconds  int64                     `json:"uptime_seconds"`
	PollIntervalMS int                       `json:"poll_interval_ms"`
	LastCursor     *CursorInfo               `json:"last_cursor,omitempty"`
	LastChange     time.Time                 `json:"last_change"`
	Visibility     *platform.VisibilityState `json:"visibility,omitempty"`
}

// VisibilityData is returned by HIDE_CURSOR, SHOW_CURSOR and DOCK_OVERRIDE.
type VisibilityData struct {
	Status int                       `json:"status"`
	State  *platform.VisibilityState `json:"state,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
