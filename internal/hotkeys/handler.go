package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Visibility is the subset of the visibility controller bound to hotkeys.
type Visibility interface {
	Hide() int
	Show() int
}

// x11Accessor is implemented by cursor services backed by an X11 connection.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu         *xgbutil.XUtil
	root       xproto.Window
	visibility Visibility
	logger     *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler. svc must expose its X11 connection.
func NewHandler(svc any, visibility Visibility, logger *slog.Logger) (*Handler, error) {
	accessor, ok := svc.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, fmt.Errorf("hotkeys require an X11 cursor service")
	}
	if logger == nil {
		logger = slog.Default()
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:         xu,
		root:       accessor.RootWindow(),
		visibility: visibility,
		logger:     logger,
	}, nil
}

// Register binds the hide and show hotkeys. An empty sequence is skipped.
func (h *Handler) Register(hideSeq, showSeq string) error {
	if hideSeq != "" {
		if err := h.RegisterFunc(hideSeq, func() {
			h.logger.Info("hide hotkey triggered", "keys", hideSeq)
			h.visibility.Hide()
		}); err != nil {
			return fmt.Errorf("failed to register hide hotkey %q: %w", hideSeq, err)
		}
	}
	if showSeq != "" {
		if err := h.RegisterFunc(showSeq, func() {
			h.logger.Info("show hotkey triggered", "keys", showSeq)
			h.visibility.Show()
		}); err != nil {
			return fmt.Errorf("failed to register show hotkey %q: %w", showSeq, err)
		}
	}
	return nil
}

// Unregister drops all key bindings on the root window.
func (h *Handler) Unregister() {
	keybind.Detach(h.xu, h.root)
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// configureIgnoreMods makes bindings fire regardless of lock-key state.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")
	xevent.IgnoreMods = lockMaskCombinations(caps, numLock, scrollLock)
}

// lockMaskCombinations returns every OR-combination of the distinct non-zero
// masks, including 0.
func lockMaskCombinations(masks ...uint16) []uint16 {
	var base []uint16
	for _, m := range masks {
		if m == 0 {
			continue
		}
		dup := false
		for _, b := range base {
			if b == m {
				dup = true
				break
			}
		}
		if !dup {
			base = append(base, m)
		}
	}

	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	out := make([]uint16, 0, len(unique))
	for mask := range unique {
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
