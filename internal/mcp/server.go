// Package mcp exposes cursor queries and visibility control as MCP tools.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/cursorsense/internal/ipc"
)

const (
	ServerName    = "cursorsense"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools call.
type Daemon interface {
	GetCursor() (*ipc.CursorInfo, error)
	HideCursor() (*ipc.VisibilityData, error)
	ShowCursor() (*ipc.VisibilityData, error)
	DockOverride() (*ipc.VisibilityData, error)
}

// Server is the MCP server. Every tool is forwarded to the running daemon,
// which owns the display connection.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates a server forwarding to d. A nil d uses the default IPC client.
func NewServer(d Daemon, logger *slog.Logger) *Server {
	if d == nil {
		d = ipc.NewClient()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		daemon: d,
		logger: logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_cursor_type",
		Description: "Report which kind of mouse cursor is on screen right now (arrow, ibeam, pointer, resize variants, other). Returns unknown with an error when the cursor bitmap cannot be read.",
	}, s.handleGetCursorType)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "hide_cursor",
		Description: "Hide the system mouse cursor, including while other applications are focused.",
	}, s.handleHideCursor)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_cursor",
		Description: "Show the system mouse cursor again after hide_cursor.",
	}, s.handleShowCursor)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_dock_override",
		Description: "Stop the dock from changing the cursor. The setting flips on every call: calling it twice restores the original behaviour.",
	}, s.handleSetDockOverride)
}
