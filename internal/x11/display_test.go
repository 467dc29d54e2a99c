package x11

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func stubDetectFns(t *testing.T, session func() (string, string), socket func(string) string) {
	t.Helper()
	origSession, origSocket := sessionDisplayFn, socketDisplayFn
	sessionDisplayFn, socketDisplayFn = session, socket
	t.Cleanup(func() {
		sessionDisplayFn, socketDisplayFn = origSession, origSocket
	})
}

func TestResolveOptions_ExplicitWinsOverEnv(t *testing.T) {
	stubDetectFns(t,
		func() (string, string) { return ":99", "/tmp/should-not-be-used" },
		func(string) string { return ":88" },
	)

	env := []string{"DISPLAY=:7", "XAUTHORITY=/tmp/xauth-env"}
	got, err := ResolveOptions(Options{Display: ":1", XAuthority: "/tmp/cfg"}, env)
	if err != nil {
		t.Fatalf("ResolveOptions: %v", err)
	}
	if got.Display != ":1" || got.XAuthority != "/tmp/cfg" {
		t.Fatalf("got %+v", got)
	}
}

func TestResolveOptions_UsesEnv(t *testing.T) {
	stubDetectFns(t,
		func() (string, string) { return ":99", "/tmp/should-not-be-used" },
		func(string) string { return ":88" },
	)

	got, err := ResolveOptions(Options{}, []string{"DISPLAY=:7", "XAUTHORITY=/tmp/xauth-env"})
	if err != nil {
		t.Fatalf("ResolveOptions: %v", err)
	}
	if got.Display != ":7" || got.XAuthority != "/tmp/xauth-env" {
		t.Fatalf("got %+v", got)
	}
}

func TestResolveOptions_UsesSessionThenHomeXAuthority(t *testing.T) {
	stubDetectFns(t,
		func() (string, string) { return ":3", "" },
		func(string) string { return ":88" },
	)

	home := t.TempDir()
	xauth := filepath.Join(home, ".Xauthority")
	if err := os.WriteFile(xauth, []byte("cookie"), 0600); err != nil {
		t.Fatalf("write xauthority: %v", err)
	}

	got, err := ResolveOptions(Options{}, []string{"HOME=" + home})
	if err != nil {
		t.Fatalf("ResolveOptions: %v", err)
	}
	if got.Display != ":3" {
		t.Fatalf("Display = %q, want :3", got.Display)
	}
	if got.XAuthority != xauth {
		t.Fatalf("XAuthority = %q, want %q", got.XAuthority, xauth)
	}
}

func TestResolveOptions_FallsBackToSockets(t *testing.T) {
	stubDetectFns(t,
		func() (string, string) { return "", "" },
		func(string) string { return ":2" },
	)

	got, err := ResolveOptions(Options{}, []string{"HOME=" + t.TempDir()})
	if err != nil {
		t.Fatalf("ResolveOptions: %v", err)
	}
	if got.Display != ":2" || got.XAuthority != "" {
		t.Fatalf("got %+v", got)
	}
}

func TestResolveOptions_ErrorWhenNoDisplay(t *testing.T) {
	stubDetectFns(t,
		func() (string, string) { return "", "" },
		func(string) string { return "" },
	)

	_, err := ResolveOptions(Options{}, []string{"HOME=" + t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "no X display found") {
		t.Fatalf("expected no display error, got %v", err)
	}
}

func TestSocketDisplay(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"X0", "X2", "not-a-display"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{}, 0600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if got := socketDisplay(dir); got != ":2" {
		t.Fatalf("socketDisplay = %q, want %q", got, ":2")
	}
}

func TestUserSessions(t *testing.T) {
	out := strings.Join([]string{
		"1 1000 george seat0",
		"2 1001 alice seat0",
		"3 1000 george seat1",
		"",
	}, "\n")
	got := userSessions(out, "1000")
	if len(got) != 2 || got[0] != "1" || got[1] != "3" {
		t.Fatalf("userSessions = %v, want [1 3]", got)
	}
}

func TestProcessEnv(t *testing.T) {
	orig := readFileFn
	readFileFn = func(string) ([]byte, error) {
		return []byte("DISPLAY=:5\x00XAUTHORITY=/run/user/1000/xauth\x00EMPTY=\x00junk\x00"), nil
	}
	t.Cleanup(func() { readFileFn = orig })

	env, err := processEnv("42")
	if err != nil {
		t.Fatalf("processEnv: %v", err)
	}
	if env["DISPLAY"] != ":5" || env["XAUTHORITY"] != "/run/user/1000/xauth" {
		t.Fatalf("unexpected env %v", env)
	}
	if _, ok := env["junk"]; ok {
		t.Fatalf("expected entries without '=' to be skipped")
	}
}
