package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	setIf(&cfg.Display, raw.Display)
	setIf(&cfg.XAuthority, raw.XAuthority)
	setIf(&cfg.LogLevel, raw.LogLevel)
	setIf(&cfg.PollIntervalMS, raw.PollIntervalMS)
	setIf(&cfg.Fingerprint, raw.Fingerprint)
	setIf(&cfg.HideHotkey, raw.HideHotkey)
	setIf(&cfg.ShowHotkey, raw.ShowHotkey)
	setIf(&cfg.DockOverrideOnStart, raw.DockOverrideOnStart)

	if lg := raw.Logging; lg != nil {
		setIf(&cfg.Logging.Enabled, lg.Enabled)
		setIf(&cfg.Logging.Level, lg.Level)
		setIf(&cfg.Logging.File, lg.File)
		setIf(&cfg.Logging.MaxSizeMB, lg.MaxSizeMB)
		setIf(&cfg.Logging.MaxFiles, lg.MaxFiles)
	}

	return cfg
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
