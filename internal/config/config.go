package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPollIntervalMS = 250
	MinPollIntervalMS     = 20
	MaxPollIntervalMS     = 60000
)

// LoggingConfig configures the cursor event log.
type LoggingConfig struct {
	// Enabled turns cursor event logging on/off
	Enabled bool `yaml:"enabled,omitempty"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path (default: ~/.local/share/cursorsense/events.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	Display             string        `yaml:"display,omitempty"`
	XAuthority          string        `yaml:"xauthority,omitempty"`
	LogLevel            string        `yaml:"log_level"`
	PollIntervalMS      int           `yaml:"poll_interval_ms"`
	Fingerprint         bool          `yaml:"fingerprint"`
	HideHotkey          string        `yaml:"hide_hotkey"`
	ShowHotkey          string        `yaml:"show_hotkey"`
	DockOverrideOnStart bool          `yaml:"dock_override_on_start"`
	Logging             LoggingConfig `yaml:"logging,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		PollIntervalMS: DefaultPollIntervalMS,
		Fingerprint:    true,
		HideHotkey:     "Mod4-Mod1-h", // Super+Alt+H
		ShowHotkey:     "Mod4-Mod1-s", // Super+Alt+S
	}
}

// Validate checks value ranges. Errors carry the YAML path of the bad value.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.LogLevel); !ok {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("must be one of debug, info, warn, error (got %q)", c.LogLevel)}
	}
	if c.PollIntervalMS < MinPollIntervalMS || c.PollIntervalMS > MaxPollIntervalMS {
		return &ValidationError{Path: "poll_interval_ms", Err: fmt.Errorf("must be between %d and %d (got %d)", MinPollIntervalMS, MaxPollIntervalMS, c.PollIntervalMS)}
	}
	if c.HideHotkey != "" && c.HideHotkey == c.ShowHotkey {
		return &ValidationError{Path: "show_hotkey", Err: fmt.Errorf("must differ from hide_hotkey (%q)", c.HideHotkey)}
	}
	if c.Logging.Level != "" {
		if _, ok := parseLevel(c.Logging.Level); !ok {
			return &ValidationError{Path: "logging.level", Err: fmt.Errorf("must be one of debug, info, warn, error (got %q)", c.Logging.Level)}
		}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("must be >= 0")}
	}
	return nil
}

// SlogLevel maps log_level onto slog levels, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	if c == nil {
		return slog.LevelInfo
	}
	level, _ := parseLevel(c.LogLevel)
	return level
}

// ParseLevel maps a level name onto slog, defaulting to info.
func ParseLevel(s string) slog.Level {
	level, _ := parseLevel(s)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			// Last resort fallback - use current directory
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/cursorsense/events.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Save writes the config to the default path.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates the config and writes it to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
