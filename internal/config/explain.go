package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths:
//
//	display
//	xauthority
//	log_level
//	poll_interval_ms
//	fingerprint
//	hide_hotkey
//	show_hotkey
//	dock_override_on_start
//	logging.enabled
//	logging.level
//	logging.file
//	logging.max_size_mb
//	logging.max_files
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	key, sub, nested := strings.Cut(path, ".")
	if key == "logging" {
		if !nested {
			return cfg.Logging, nil
		}
		switch sub {
		case "enabled":
			return cfg.Logging.Enabled, nil
		case "level":
			return cfg.Logging.Level, nil
		case "file":
			return cfg.Logging.File, nil
		case "max_size_mb":
			return cfg.Logging.MaxSizeMB, nil
		case "max_files":
			return cfg.Logging.MaxFiles, nil
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	if nested {
		return nil, fmt.Errorf("unknown path: %s", path)
	}

	switch key {
	case "display":
		return cfg.Display, nil
	case "xauthority":
		return cfg.XAuthority, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "poll_interval_ms":
		return cfg.PollIntervalMS, nil
	case "fingerprint":
		return cfg.Fingerprint, nil
	case "hide_hotkey":
		return cfg.HideHotkey, nil
	case "show_hotkey":
		return cfg.ShowHotkey, nil
	case "dock_override_on_start":
		return cfg.DockOverrideOnStart, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}

// FormatSource renders a Source for CLI output.
func FormatSource(src Source) string {
	switch src.Kind {
	case SourceFile:
		return src.String()
	case SourceDefault:
		return "default"
	}
	return string(src.Kind)
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
