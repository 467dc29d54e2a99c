package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/1broseidon/cursorsense/internal/config"
)

// setupValues holds form-bound values; huh inputs edit strings, converted on submit.
type setupValues struct {
	pollIntervalMS      string
	fingerprint         bool
	hideHotkey          string
	showHotkey          string
	dockOverrideOnStart bool
	logLevel            string
	eventLog            bool
}

func setupValuesFrom(cfg *config.Config) setupValues {
	return setupValues{
		pollIntervalMS:      strconv.Itoa(cfg.PollIntervalMS),
		fingerprint:         cfg.Fingerprint,
		hideHotkey:          cfg.HideHotkey,
		showHotkey:          cfg.ShowHotkey,
		dockOverrideOnStart: cfg.DockOverrideOnStart,
		logLevel:            cfg.LogLevel,
		eventLog:            cfg.Logging.Enabled,
	}
}

// apply copies the values onto a clone of cfg and validates the result.
func (v setupValues) apply(cfg *config.Config) (*config.Config, error) {
	out := *cfg
	poll, err := strconv.Atoi(strings.TrimSpace(v.pollIntervalMS))
	if err != nil {
		return nil, fmt.Errorf("poll interval: %w", err)
	}
	out.PollIntervalMS = poll
	out.Fingerprint = v.fingerprint
	out.HideHotkey = strings.TrimSpace(v.hideHotkey)
	out.ShowHotkey = strings.TrimSpace(v.showHotkey)
	out.DockOverrideOnStart = v.dockOverrideOnStart
	out.LogLevel = v.logLevel
	out.Logging.Enabled = v.eventLog
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func validatePollInterval(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number of milliseconds")
	}
	if n < config.MinPollIntervalMS || n > config.MaxPollIntervalMS {
		return fmt.Errorf("must be between %d and %d", config.MinPollIntervalMS, config.MaxPollIntervalMS)
	}
	return nil
}

func newSetupForm(v *setupValues) *huh.Form {
	levelOpts := []huh.Option[string]{
		huh.NewOption("debug", "debug"),
		huh.NewOption("info", "info"),
		huh.NewOption("warn", "warn"),
		huh.NewOption("error", "error"),
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("poll_interval_ms").
				Title("Poll Interval (ms)").
				Description("How often the daemon samples the cursor").
				Validate(validatePollInterval).
				Value(&v.pollIntervalMS),

			huh.NewConfirm().
				Key("fingerprint").
				Title("Bitmap Fingerprints").
				Description("Detect cursor changes within a category").
				Value(&v.fingerprint),

			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(levelOpts...).
				Value(&v.logLevel),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("hide_hotkey").
				Title("Hide Hotkey").
				Description("X11 keybinding, e.g. Mod4-Mod1-h (empty to disable)").
				Value(&v.hideHotkey),

			huh.NewInput().
				Key("show_hotkey").
				Title("Show Hotkey").
				Description("X11 keybinding, e.g. Mod4-Mod1-s (empty to disable)").
				Value(&v.showHotkey),

			huh.NewConfirm().
				Key("dock_override_on_start").
				Title("Dock Override On Start").
				Description("Stop the dock from changing the cursor when the daemon starts").
				Value(&v.dockOverrideOnStart),

			huh.NewConfirm().
				Key("logging.enabled").
				Title("Event Log").
				Description("Record cursor changes and visibility commands to a file").
				Value(&v.eventLog),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

// RunSetup asks for the common settings and writes them to path.
func RunSetup(cfg *config.Config, path string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("config init requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	values := setupValuesFrom(cfg)
	if err := newSetupForm(&values).Run(); err != nil {
		return err
	}
	updated, err := values.apply(cfg)
	if err != nil {
		return err
	}
	return updated.SaveTo(path)
}
