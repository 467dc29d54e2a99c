package ipc

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/cursorsense/internal/config"
	"github.com/1broseidon/cursorsense/internal/platform"
	"github.com/1broseidon/cursorsense/internal/probe"
	"github.com/1broseidon/cursorsense/internal/runtimepath"
)

// CursorProber runs a single cursor query.
type CursorProber interface {
	Probe() probe.Reading
}

// VisibilityController changes cursor visibility.
type VisibilityController interface {
	Hide() int
	Show() int
	SetDockOverride()
}

// LastReader exposes the most recent reading seen by a background watcher.
type LastReader interface {
	Last() (probe.Reading, time.Time, bool)
}

// Deps are the components the server dispatches to. State and Watcher are optional.
type Deps struct {
	Prober     CursorProber
	Visibility VisibilityController
	State      platform.StateReporter
	Watcher    LastReader
	Logger     *slog.Logger
	// LoadConfig defaults to config.Load.
	LoadConfig func() (*config.Config, error)
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	deps         Deps
	logger       *slog.Logger
	cfg          *config.Config
	cfgMu        sync.RWMutex
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a server on the default runtime socket.
func NewServer(cfg *config.Config, deps Deps, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, cfg, deps, reloadChan), nil
}

// NewServerAt creates a server listening on socketPath once started.
func NewServerAt(socketPath string, cfg *config.Config, deps Deps, reloadChan chan struct{}) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.LoadConfig == nil {
		deps.LoadConfig = config.Load
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	// Remove a stale socket from a previous run.
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		deps:       deps,
		logger:     logger,
		cfg:        cfg,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("ipc server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("ipc accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("ipc read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal ipc response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send ipc response", "error", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("ipc command", "command", req.Command)
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetCursor:
		return s.handleGetCursor()
	case CommandHideCursor:
		return s.handleVisibility(func(v VisibilityController) int { return v.Hide() })
	case CommandShowCursor:
		return s.handleVisibility(func(v VisibilityController) int { return v.Show() })
	case CommandDockOverride:
		return s.handleVisibility(func(v VisibilityController) int {
			v.SetDockOverride()
			return 0
		})
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload() *Response {
	newCfg, err := s.deps.LoadConfig()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	s.SetConfig(newCfg)

	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	s.logger.Info("config reloaded")
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	status := StatusData{
		DaemonRunning:  true,
		UptimeSeconds:  int64(time.Since(s.startTime).Seconds()),
		PollIntervalMS: s.GetConfig().PollIntervalMS,
		Visibility:     s.visibilityState(),
	}
	if s.deps.Watcher != nil {
		if r, at, ok := s.deps.Watcher.Last(); ok {
			info := NewCursorInfo(r)
			status.LastCursor = &info
			status.LastChange = at
		}
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleGetCursor() *Response {
	if s.deps.Prober == nil {
		return NewErrorResponse("cursor prober not available")
	}
	resp, err := NewOKResponse(NewCursorInfo(s.deps.Prober.Probe()))
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleVisibility(op func(VisibilityController) int) *Response {
	if s.deps.Visibility == nil {
		return NewErrorResponse("visibility controller not available")
	}
	data := VisibilityData{
		Status: op(s.deps.Visibility),
		State:  s.visibilityState(),
	}
	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) visibilityState() *platform.VisibilityState {
	if s.deps.State == nil {
		return nil
	}
	st := s.deps.State.VisibilityState()
	return &st
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// SetConfig replaces the config reported by GET_STATUS, for reloads that do
// not arrive over IPC.
func (s *Server) SetConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
}
