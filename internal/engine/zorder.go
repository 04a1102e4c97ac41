package engine

import (
	"fmt"

	"github.com/Norgate-AV/ontop/internal/interfaces"
	"github.com/Norgate-AV/ontop/internal/windows"
)

// PinFlags constrain a pin request to z-order and visibility only: the window
// is not moved, not resized and not activated, so the user's focus stays put.
const PinFlags = windows.SWP_NOMOVE | windows.SWP_NOSIZE | windows.SWP_NOACTIVATE | windows.SWP_SHOWWINDOW

// ZOrderEnforcer asks the window manager to put a window on top
type ZOrderEnforcer struct {
	win interfaces.PositionSetter
}

// NewZOrderEnforcer creates an enforcer
func NewZOrderEnforcer(win interfaces.PositionSetter) *ZOrderEnforcer {
	return &ZOrderEnforcer{win: win}
}

// PinToTop requests hwnd be placed above all non-topmost and topmost windows
// raised before it. Safe to repeat on a window that is already on top.
func (z *ZOrderEnforcer) PinToTop(hwnd uintptr) error {
	if err := z.win.SetWindowPos(hwnd, windows.HWND_TOPMOST, PinFlags); err != nil {
		return fmt.Errorf("pin %s: %w", windows.FormatHandle(hwnd), err)
	}

	return nil
}
