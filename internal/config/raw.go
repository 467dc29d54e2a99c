package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList is the include key: one path or a list of paths. A path may
// name a directory, whose YAML files are included in name order.
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	items := []*yaml.Node{value}
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.SequenceNode:
		items = value.Content
	case yaml.ScalarNode:
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
			return fmt.Errorf("include entries must be strings")
		}
		out = append(out, item.Value)
	}
	*l = out
	return nil
}

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawConfig mirrors the YAML file. Nil fields were not set and keep their
// default or included value.
type RawConfig struct {
	Include             IncludeList       `yaml:"include"`
	Display             *string           `yaml:"display"`
	XAuthority          *string           `yaml:"xauthority"`
	LogLevel            *string           `yaml:"log_level"`
	PollIntervalMS      *int              `yaml:"poll_interval_ms"`
	Fingerprint         *bool             `yaml:"fingerprint"`
	HideHotkey          *string           `yaml:"hide_hotkey"`
	ShowHotkey          *string           `yaml:"show_hotkey"`
	DockOverrideOnStart *bool             `yaml:"dock_override_on_start"`
	Logging             *RawLoggingConfig `yaml:"logging"`
}

// merge returns c with every field set in overlay replaced.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Display = pick(c.Display, overlay.Display)
	out.XAuthority = pick(c.XAuthority, overlay.XAuthority)
	out.LogLevel = pick(c.LogLevel, overlay.LogLevel)
	out.PollIntervalMS = pick(c.PollIntervalMS, overlay.PollIntervalMS)
	out.Fingerprint = pick(c.Fingerprint, overlay.Fingerprint)
	out.HideHotkey = pick(c.HideHotkey, overlay.HideHotkey)
	out.ShowHotkey = pick(c.ShowHotkey, overlay.ShowHotkey)
	out.DockOverrideOnStart = pick(c.DockOverrideOnStart, overlay.DockOverrideOnStart)

	if overlay.Logging != nil {
		var lg RawLoggingConfig
		if c.Logging != nil {
			lg = *c.Logging
		}
		lg.Enabled = pick(lg.Enabled, overlay.Logging.Enabled)
		lg.Level = pick(lg.Level, overlay.Logging.Level)
		lg.File = pick(lg.File, overlay.Logging.File)
		lg.MaxSizeMB = pick(lg.MaxSizeMB, overlay.Logging.MaxSizeMB)
		lg.MaxFiles = pick(lg.MaxFiles, overlay.Logging.MaxFiles)
		out.Logging = &lg
	}
	return out
}

func pick[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}
