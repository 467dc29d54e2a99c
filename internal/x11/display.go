package x11

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// SocketDir holds one X<n> socket per local display.
const SocketDir = "/tmp/.X11-unix"

var errNoDisplay = errors.New(`no X display found; set display in config (e.g. display: ":0") or export DISPLAY`)

// Replaced in tests.
var (
	commandOutputFn  = commandOutput
	readFileFn       = os.ReadFile
	readDirFn        = os.ReadDir
	sessionDisplayFn = sessionDisplay
	socketDisplayFn  = socketDisplay
)

// ResolveOptions fills in Display and XAuthority for a process that may have
// been started outside the graphical session (a systemd user unit or an MCP
// host). Each field keeps the first non-empty value from: opts, env, the
// user's logind session, the highest local X socket. XAuthority finally
// falls back to ~/.Xauthority when that file exists.
func ResolveOptions(opts Options, env []string) (Options, error) {
	var out Options
	fill := func(display, xauthority string) {
		if out.Display == "" {
			out.Display = strings.TrimSpace(display)
		}
		if out.XAuthority == "" {
			out.XAuthority = strings.TrimSpace(xauthority)
		}
	}

	fill(opts.Display, opts.XAuthority)
	fill(envValue(env, "DISPLAY"), envValue(env, "XAUTHORITY"))
	if out.Display == "" || out.XAuthority == "" {
		fill(sessionDisplayFn())
	}
	if out.Display == "" {
		fill(socketDisplayFn(SocketDir), "")
	}
	if out.Display == "" {
		return Options{}, errNoDisplay
	}
	if out.XAuthority == "" {
		out.XAuthority = homeXAuthority(env)
	}
	return out, nil
}

func homeXAuthority(env []string) string {
	home := strings.TrimSpace(envValue(env, "HOME"))
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	if home == "" {
		return ""
	}
	path := filepath.Join(home, ".Xauthority")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func commandOutput(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	return string(out), err
}

// sessionDisplay asks logind for the first session of this user that has a
// display, preferring the values in its leader process environment.
func sessionDisplay() (display, xauthority string) {
	out, err := commandOutputFn("loginctl", "list-sessions", "--no-legend")
	if err != nil {
		return "", ""
	}
	for _, id := range userSessions(out, strconv.Itoa(os.Getuid())) {
		display = sessionProperty(id, "Display")
		if display == "" || strings.EqualFold(display, "n/a") {
			continue
		}
		leader := sessionProperty(id, "Leader")
		if leader == "" || leader == "0" {
			return display, ""
		}
		env, err := processEnv(leader)
		if err != nil {
			return display, ""
		}
		if d := strings.TrimSpace(env["DISPLAY"]); d != "" {
			display = d
		}
		return display, strings.TrimSpace(env["XAUTHORITY"])
	}
	return "", ""
}

// userSessions picks the session IDs owned by uid from `loginctl list-sessions`.
func userSessions(output, uid string) []string {
	var ids []string
	for _, line := range strings.Split(output, "\n") {
		if f := strings.Fields(line); len(f) >= 2 && f[1] == uid {
			ids = append(ids, f[0])
		}
	}
	return ids
}

func sessionProperty(id, prop string) string {
	out, err := commandOutputFn("loginctl", "show-session", id, "-p", prop, "--value")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func processEnv(pid string) (map[string]string, error) {
	data, err := readFileFn(filepath.Join("/proc", pid, "environ"))
	if err != nil {
		return nil, err
	}
	env := make(map[string]string)
	for _, kv := range strings.Split(string(data), "\x00") {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env, nil
}

// socketDisplay returns ":<n>" for the highest-numbered X<n> socket in dir.
func socketDisplay(dir string) string {
	entries, err := readDirFn(dir)
	if err != nil {
		return ""
	}
	best := -1
	for _, e := range entries {
		num, ok := strings.CutPrefix(e.Name(), "X")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(num); err == nil && n > best {
			best = n
		}
	}
	if best < 0 {
		return ""
	}
	return fmt.Sprintf(":%d", best)
}

func envValue(env []string, key string) string {
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v
		}
	}
	return ""
}
