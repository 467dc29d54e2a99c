package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/cursorsense/internal/config"
	"github.com/1broseidon/cursorsense/internal/ipc"
	"github.com/1broseidon/cursorsense/internal/platform"
	"github.com/1broseidon/cursorsense/internal/probe"
	"github.com/1broseidon/cursorsense/internal/tui"
	"github.com/1broseidon/cursorsense/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "query":
		os.Exit(runQuery(os.Args[2:]))
	case "hide":
		os.Exit(runVisibility("hide", "Hide the system cursor.", os.Args[2:], ipc.NewClient().HideCursor))
	case "show":
		os.Exit(runVisibility("show", "Show the system cursor.", os.Args[2:], ipc.NewClient().ShowCursor))
	case "dock-override":
		os.Exit(runVisibility("dock-override", "Flip the dock cursor override. Running it twice undoes it.", os.Args[2:], ipc.NewClient().DockOverride))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cursorsense <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the cursorsense daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  query               Print the category of the cursor on screen")
	fmt.Fprintln(w, "  watch               Live view of cursor changes")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  hide                Hide the system cursor")
	fmt.Fprintln(w, "  show                Show the system cursor")
	fmt.Fprintln(w, "  dock-override       Flip the dock cursor override")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config init         Create or edit configuration interactively")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'cursorsense <command> --help' for command-specific options.")
}

// parseNoArgs parses flags for a command that takes no positional arguments.
// It returns -1 when the command should continue.
func parseNoArgs(fs *flag.FlagSet, name string, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}
	return -1
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print status as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: cursorsense status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code := parseNoArgs(fs, "status", args); code >= 0 {
		return code
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(status)
	}

	fmt.Printf("daemon_running:   %v\n", status.DaemonRunning)
	fmt.Printf("uptime_seconds:   %d\n", status.UptimeSeconds)
	fmt.Printf("poll_interval_ms: %d\n", status.PollIntervalMS)
	if status.LastCursor != nil {
		fmt.Printf("last_category:    %s\n", status.LastCursor.Category)
		fmt.Printf("last_change:      %s\n", status.LastChange.Format(time.RFC3339))
	}
	if v := status.Visibility; v != nil {
		fmt.Printf("hidden:           %v\n", v.Hidden)
		fmt.Printf("dock_override:    %v\n", v.DockOverride)
	}
	return 0
}

func runQuery(args []string) int {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print the full reading as JSON")
	local := fs.Bool("local", false, "Query the X server directly instead of the daemon")
	path := fs.String("path", "", "Config file path for --local (default: ~/.config/cursorsense/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: cursorsense query [--json] [--local [--path PATH]]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the category of the cursor currently on screen.")
		fmt.Fprintln(os.Stderr, "Exits 1 when the cursor could not be read (category unknown).")
	}
	if code := parseNoArgs(fs, "query", args); code >= 0 {
		return code
	}

	var info *ipc.CursorInfo
	if *local {
		var err error
		info, err = queryLocal(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	} else {
		var err error
		info, err = ipc.NewClient().GetCursor()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if *asJSON {
		if code := printJSON(info); code != 0 {
			return code
		}
	} else {
		fmt.Println(info.Category)
	}
	if info.Error != "" {
		if !*asJSON {
			fmt.Fprintln(os.Stderr, info.Error)
		}
		return 1
	}
	return 0
}

func queryLocal(path string) (*ipc.CursorInfo, error) {
	res, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	cfg := res.Config
	logger := newLogger(cfg.SlogLevel())

	opts, err := x11.ResolveOptions(x11.Options{Display: cfg.Display, XAuthority: cfg.XAuthority}, os.Environ())
	if err != nil {
		return nil, err
	}
	svc, err := platform.NewCursorService(opts, logger)
	if err != nil {
		return nil, err
	}
	defer svc.Disconnect()

	reading := probe.New(svc, probe.WithLogger(logger), probe.WithFingerprint(cfg.Fingerprint)).Probe()
	info := ipc.NewCursorInfo(reading)
	return &info, nil
}

func runVisibility(name, summary string, args []string, call func() (*ipc.VisibilityData, error)) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: cursorsense %s\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, summary)
	}
	if code := parseNoArgs(fs, name, args); code >= 0 {
		return code
	}

	data, err := call()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if st := data.State; st != nil {
		fmt.Printf("hidden: %v\n", st.Hidden)
		fmt.Printf("dock_override: %v\n", st.DockOverride)
	}
	return data.Status
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	interval := fs.Duration("interval", 250*time.Millisecond, "How often to poll the daemon")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: cursorsense watch [--interval 250ms]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Live view of the cursor category reported by the daemon.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  h         Hide cursor")
		fmt.Fprintln(os.Stderr, "  s         Show cursor")
		fmt.Fprintln(os.Stderr, "  d         Flip dock override")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C Quit")
	}
	if code := parseNoArgs(fs, "watch", args); code >= 0 {
		return code
	}

	if err := tui.Run(ipc.NewClient(), *interval); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  cursorsense config init [--path PATH]")
		fmt.Fprintln(os.Stderr, "  cursorsense config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  cursorsense config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  cursorsense config explain [--path PATH] <yaml.path>")
		return 2
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/cursorsense/config.yaml)")

	switch args[0] {
	case "init":
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		target := *path
		if target == "" {
			p, err := config.DefaultConfigPath()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			target = p
		}
		res, err := config.LoadFromPath(target)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := tui.RunSetup(res.Config, target); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("config written to %s\n", target)
		return 0

	case "validate":
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		_ = fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", config.FormatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
