package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Norgate-AV/ontop/internal/interfaces"
	"github.com/Norgate-AV/ontop/internal/logger"
	"github.com/Norgate-AV/ontop/internal/windows"
)

// ErrConflictingDelta is returned when a delta both adds and removes a flag
var ErrConflictingDelta = errors.New("style delta adds and removes the same flags")

// FrameRefreshFlags asks the window manager to recompute the non-client area
// after a style change without touching position, size, z-order or focus.
const FrameRefreshFlags = windows.SWP_FRAMECHANGED | windows.SWP_NOMOVE | windows.SWP_NOSIZE |
	windows.SWP_NOZORDER | windows.SWP_NOACTIVATE

// StyleDelta is a read-modify-write change to one style mask. Bits that are in
// neither Add nor Remove are preserved as found.
type StyleDelta struct {
	Class  windows.StyleClass
	Add    uint32
	Remove uint32
}

// Apply computes (current &^ Remove) | Add
func (d StyleDelta) Apply(current uint32) uint32 {
	return (current &^ d.Remove) | d.Add
}

// Validate rejects deltas whose add and remove sets overlap
func (d StyleDelta) Validate() error {
	if overlap := d.Add & d.Remove; overlap != 0 {
		return fmt.Errorf("%w: %s", ErrConflictingDelta, windows.FormatStyle(overlap))
	}

	return nil
}

var (
	// OverlayDelta keeps the overlay out of task switchers, above normal
	// windows, and from ever taking keyboard focus.
	OverlayDelta = StyleDelta{
		Class: windows.StyleExtended,
		Add:   windows.WS_EX_TOOLWINDOW | windows.WS_EX_TOPMOST | windows.WS_EX_NOACTIVATE,
	}

	// WindowedDelta turns a borderless popup (typical of borderless
	// full-screen games) into a bordered, resizable window.
	WindowedDelta = StyleDelta{
		Class:  windows.StyleBasic,
		Add:    windows.WS_OVERLAPPEDWINDOW,
		Remove: windows.WS_POPUP,
	}
)

// StyleMutator applies style deltas to windows
type StyleMutator struct {
	win interfaces.FrameStyler
	log logger.LoggerInterface
}

// NewStyleMutator creates a mutator
func NewStyleMutator(log logger.LoggerInterface, win interfaces.FrameStyler) *StyleMutator {
	return &StyleMutator{win: win, log: log}
}

// ApplyStyleDelta reads the current mask, writes back the delta applied to
// it, then forces a frame refresh so the border change shows immediately.
// It returns the mask it wrote. Failures are logged as warnings and returned;
// none of them are fatal to the caller.
func (m *StyleMutator) ApplyStyleDelta(hwnd uintptr, delta StyleDelta) (uint32, error) {
	if err := delta.Validate(); err != nil {
		return 0, err
	}

	current, err := m.win.GetWindowStyle(hwnd, delta.Class)
	if err != nil {
		m.warn("Could not read window style", hwnd, delta, err)
		return 0, fmt.Errorf("read %s: %w", delta.Class, err)
	}

	next := delta.Apply(current)

	if err := m.win.SetWindowStyle(hwnd, delta.Class, next); err != nil {
		m.warn("Window manager rejected style change", hwnd, delta, err)
		return current, fmt.Errorf("write %s: %w", delta.Class, err)
	}

	m.log.Debug("Style delta applied",
		slog.String("hwnd", windows.FormatHandle(hwnd)),
		slog.String("class", delta.Class.String()),
		slog.String("from", windows.FormatStyle(current)),
		slog.String("to", windows.FormatStyle(next)),
	)

	if err := m.win.SetWindowPos(hwnd, windows.HWND_TOP, FrameRefreshFlags); err != nil {
		m.warn("Frame refresh failed, change shows on next repaint", hwnd, delta, err)
		return next, fmt.Errorf("refresh frame: %w", err)
	}

	return next, nil
}

func (m *StyleMutator) warn(msg string, hwnd uintptr, delta StyleDelta, err error) {
	if errors.Is(err, windows.ErrUnsupported) {
		m.log.Debug(msg, slog.String("hwnd", windows.FormatHandle(hwnd)), slog.Any("error", err))
		return
	}

	m.log.Warn(msg,
		slog.String("hwnd", windows.FormatHandle(hwnd)),
		slog.String("class", delta.Class.String()),
		slog.Any("error", err),
	)
}
