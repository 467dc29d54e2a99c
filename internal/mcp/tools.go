package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/cursorsense/internal/ipc"
)

func (s *Server) handleGetCursorType(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetCursorTypeInput) (*mcpsdk.CallToolResult, GetCursorTypeOutput, error) {
	info, err := s.daemon.GetCursor()
	if err != nil {
		return nil, GetCursorTypeOutput{}, fmt.Errorf("get_cursor_type: %w", err)
	}
	out := GetCursorTypeOutput{
		Category:    info.Category,
		Width:       info.Width,
		Height:      info.Height,
		Fingerprint: info.Fingerprint,
		Error:       info.Error,
	}
	s.logger.Debug("mcp get_cursor_type", "category", out.Category)
	return nil, out, nil
}

func (s *Server) handleHideCursor(_ context.Context, _ *mcpsdk.CallToolRequest, _ VisibilityInput) (*mcpsdk.CallToolResult, VisibilityOutput, error) {
	return s.visibility("hide_cursor", s.daemon.HideCursor)
}

func (s *Server) handleShowCursor(_ context.Context, _ *mcpsdk.CallToolRequest, _ VisibilityInput) (*mcpsdk.CallToolResult, VisibilityOutput, error) {
	return s.visibility("show_cursor", s.daemon.ShowCursor)
}

func (s *Server) handleSetDockOverride(_ context.Context, _ *mcpsdk.CallToolRequest, _ VisibilityInput) (*mcpsdk.CallToolResult, VisibilityOutput, error) {
	return s.visibility("set_dock_override", s.daemon.DockOverride)
}

func (s *Server) visibility(tool string, call func() (*ipc.VisibilityData, error)) (*mcpsdk.CallToolResult, VisibilityOutput, error) {
	data, err := call()
	if err != nil {
		return nil, VisibilityOutput{}, fmt.Errorf("%s: %w", tool, err)
	}
	s.logger.Info("mcp visibility tool", "tool", tool, "status", data.Status)
	return nil, toVisibilityOutput(data), nil
}

func toVisibilityOutput(data *ipc.VisibilityData) VisibilityOutput {
	out := VisibilityOutput{Status: data.Status}
	if data.State != nil {
		hidden := data.State.Hidden
		dock := data.State.DockOverride
		out.Hidden = &hidden
		out.DockOverride = &dock
	}
	return out
}
