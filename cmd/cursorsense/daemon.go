package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/cursorsense/internal/config"
	"github.com/1broseidon/cursorsense/internal/daemon"
	"github.com/1broseidon/cursorsense/internal/eventlog"
	"github.com/1broseidon/cursorsense/internal/hotkeys"
	"github.com/1broseidon/cursorsense/internal/ipc"
	"github.com/1broseidon/cursorsense/internal/platform"
	"github.com/1broseidon/cursorsense/internal/probe"
	"github.com/1broseidon/cursorsense/internal/visibility"
	"github.com/1broseidon/cursorsense/internal/x11"
)

// auditedVisibility records every visibility command in the event log.
type auditedVisibility struct {
	*visibility.Controller
	events *eventlog.Log
	state  platform.StateReporter
}

func (v auditedVisibility) Hide() int {
	status := v.Controller.Hide()
	v.events.Record(eventlog.EventHide, map[string]any{"status": status})
	return status
}

func (v auditedVisibility) Show() int {
	status := v.Controller.Show()
	v.events.Record(eventlog.EventShow, map[string]any{"status": status})
	return status
}

func (v auditedVisibility) SetDockOverride() {
	v.Controller.SetDockOverride()
	v.events.Record(eventlog.EventDockOverride, map[string]any{"enabled": v.state.VisibilityState().DockOverride})
}

func watcherConfig(cfg *config.Config, logger *slog.Logger, events *eventlog.Log) daemon.WatcherConfig {
	threshold := daemon.DefaultFingerprintThreshold
	if !cfg.Fingerprint {
		threshold = -1
	}
	return daemon.WatcherConfig{
		Interval:             time.Duration(cfg.PollIntervalMS) * time.Millisecond,
		FingerprintThreshold: threshold,
		Logger:               logger,
		Events:               events,
	}
}

func openEventLog(cfg *config.Config) (*eventlog.Log, error) {
	lc := cfg.GetLoggingConfig()
	return eventlog.Open(eventlog.Config{
		Enabled:   lc.Enabled,
		Level:     config.ParseLevel(lc.Level),
		FilePath:  lc.File,
		MaxSizeMB: lc.MaxSizeMB,
		MaxFiles:  lc.MaxFiles,
	})
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/cursorsense/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: cursorsense daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the cursor watcher, hotkeys and IPC server in the foreground.")
	}
	if code := parseNoArgs(fs, "daemon", args); code >= 0 {
		return code
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}
	cfg := res.Config

	logger := newLogger(cfg.SlogLevel())
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "files", res.Files, "poll_interval_ms", cfg.PollIntervalMS)

	opts, err := x11.ResolveOptions(x11.Options{Display: cfg.Display, XAuthority: cfg.XAuthority}, os.Environ())
	if err != nil {
		logger.Error("failed to resolve display", "error", err)
		return 1
	}
	svc, err := platform.NewCursorService(opts, logger)
	if err != nil {
		logger.Error("failed to connect to display", "display", opts.Display, "error", err)
		return 1
	}
	defer svc.Disconnect()
	logger.Info("connected to display", "display", opts.Display)

	events, err := openEventLog(cfg)
	if err != nil {
		logger.Warn("event log disabled", "error", err)
		events = nil
	}
	defer events.Close()

	prober := probe.New(svc, probe.WithLogger(logger), probe.WithFingerprint(cfg.Fingerprint))
	vis := auditedVisibility{
		Controller: visibility.NewController(svc, logger),
		events:     events,
		state:      svc,
	}

	if cfg.DockOverrideOnStart {
		vis.SetDockOverride()
	}

	hotkeyHandler, err := hotkeys.NewHandler(svc, vis, logger)
	if err != nil {
		logger.Warn("hotkeys unavailable", "error", err)
	} else if err := hotkeyHandler.Register(cfg.HideHotkey, cfg.ShowHotkey); err != nil {
		logger.Warn("failed to register hotkeys", "error", err)
	} else {
		logger.Info("hotkeys registered", "hide", cfg.HideHotkey, "show", cfg.ShowHotkey)
	}

	watcher := daemon.NewWatcher(watcherConfig(cfg, logger, events), prober)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	go watcher.Run(watchCtx)

	reloadChan := make(chan struct{}, 1)
	ipcServer, err := ipc.NewServer(cfg, ipc.Deps{
		Prober:     prober,
		Visibility: vis,
		State:      svc,
		Watcher:    watcher,
		Logger:     logger,
		LoadConfig: func() (*config.Config, error) {
			r, err := loadConfig(*path)
			if err != nil {
				return nil, err
			}
			return r.Config, nil
		},
	}, reloadChan)
	if err != nil {
		logger.Error("failed to create IPC server", "error", err)
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		logger.Error("failed to start IPC server", "error", err)
		return 1
	}
	defer ipcServer.Stop()

	applyConfig := func(newCfg *config.Config) {
		watcher.SetInterval(time.Duration(newCfg.PollIntervalMS) * time.Millisecond)
		if newCfg.Fingerprint != cfg.Fingerprint || newCfg.HideHotkey != cfg.HideHotkey || newCfg.ShowHotkey != cfg.ShowHotkey {
			logger.Warn("fingerprint and hotkey changes take effect after a daemon restart")
		}
		logger.Info("config applied", "poll_interval_ms", newCfg.PollIntervalMS)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for {
			select {
			case sig := <-sigCh:
				if sig == syscall.SIGHUP {
					logger.Info("received SIGHUP, reloading config")
					r, err := loadConfig(*path)
					if err != nil {
						logger.Error("config reload failed", "error", err)
						continue
					}
					ipcServer.SetConfig(r.Config)
					applyConfig(r.Config)
					continue
				}
				logger.Info("shutting down cursorsense daemon", "signal", sig.String())
				watchCancel()
				ipcServer.Stop()
				events.Close()
				svc.Quit()
				svc.Disconnect()
				os.Exit(0)

			case <-reloadChan:
				applyConfig(ipcServer.GetConfig())
			}
		}
	}()

	logger.Info("entering event loop")
	svc.EventLoop()
	return 0
}
