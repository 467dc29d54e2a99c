package tui

import (
	"testing"

	"github.com/1broseidon/cursorsense/internal/config"
)

func TestSetupValues_ApplyRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	v := setupValuesFrom(cfg)
	v.pollIntervalMS = " 500 "
	v.fingerprint = false
	v.eventLog = true
	v.logLevel = "debug"

	out, err := v.apply(cfg)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.PollIntervalMS != 500 || out.Fingerprint || !out.Logging.Enabled || out.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", out)
	}
	if cfg.PollIntervalMS != config.DefaultPollIntervalMS {
		t.Fatalf("apply must not modify the input config")
	}
}

func TestSetupValues_ApplyRejectsInvalid(t *testing.T) {
	cfg := config.DefaultConfig()

	v := setupValuesFrom(cfg)
	v.pollIntervalMS = "fast"
	if _, err := v.apply(cfg); err == nil {
		t.Fatalf("expected error for non-numeric interval")
	}

	v = setupValuesFrom(cfg)
	v.showHotkey = v.hideHotkey
	if _, err := v.apply(cfg); err == nil {
		t.Fatalf("expected error for identical hotkeys")
	}
}

func TestValidatePollInterval(t *testing.T) {
	tests := map[string]bool{
		"250":   true,
		"20":    true,
		"19":    false,
		"60001": false,
		"abc":   false,
	}
	for in, ok := range tests {
		if err := validatePollInterval(in); (err == nil) != ok {
			t.Fatalf("validatePollInterval(%q) err = %v, want ok=%v", in, err, ok)
		}
	}
}
