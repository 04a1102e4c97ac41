// Package windows wraps the Win32 window-manager primitives used to keep an
// overlay above other windows and to reshape a target window's frame.
//
// Types and flag constants in this file build on every platform so the rest of
// the module can be compiled and tested anywhere. The primitives themselves
// only exist on Windows; elsewhere every call reports ErrUnsupported.
package windows

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by every primitive when the native window manager
// is not available (non-Windows builds, or user32.dll failed to load).
var ErrUnsupported = errors.New("window manager primitives are not available on this platform")

// Window style indices for GetWindowLongW / SetWindowLongW
const (
	GWL_STYLE   int32 = -16
	GWL_EXSTYLE int32 = -20
)

// Basic window styles
const (
	WS_POPUP            uint32 = 0x80000000
	WS_VISIBLE          uint32 = 0x10000000
	WS_OVERLAPPEDWINDOW uint32 = 0x00CF0000
)

// Extended window styles
const (
	WS_EX_TOPMOST    uint32 = 0x00000008
	WS_EX_TOOLWINDOW uint32 = 0x00000080
	WS_EX_NOACTIVATE uint32 = 0x08000000
)

// SetWindowPos flags
const (
	SWP_NOSIZE       uint32 = 0x0001
	SWP_NOMOVE       uint32 = 0x0002
	SWP_NOZORDER     uint32 = 0x0004
	SWP_NOACTIVATE   uint32 = 0x0010
	SWP_FRAMECHANGED uint32 = 0x0020
	SWP_SHOWWINDOW   uint32 = 0x0040
)

// Special insert-after handles for SetWindowPos (-1 and -2 as HWND)
const (
	HWND_TOP       uintptr = 0
	HWND_TOPMOST   uintptr = ^uintptr(0)
	HWND_NOTOPMOST uintptr = ^uintptr(1)
)

// StyleClass selects which of a window's two style masks is read or written.
type StyleClass int

const (
	StyleBasic StyleClass = iota
	StyleExtended
)

// Index returns the GetWindowLongW index for the class.
func (c StyleClass) Index() int32 {
	if c == StyleExtended {
		return GWL_EXSTYLE
	}

	return GWL_STYLE
}

func (c StyleClass) String() string {
	switch c {
	case StyleBasic:
		return "style"
	case StyleExtended:
		return "exstyle"
	default:
		return fmt.Sprintf("StyleClass(%d)", int(c))
	}
}

// WindowInfo is a (handle, title) pair captured during a single scan.
// It must not be kept across scans: the window may close or retitle at any time.
type WindowInfo struct {
	Hwnd  uintptr
	Title string
}

// Rect mirrors the Win32 RECT layout.
type Rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

func (r Rect) Width() int32  { return r.Right - r.Left }
func (r Rect) Height() int32 { return r.Bottom - r.Top }

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d) %dx%d", r.Left, r.Top, r.Right, r.Bottom, r.Width(), r.Height())
}

// FormatHandle renders a window handle the way Spy++ shows it.
func FormatHandle(hwnd uintptr) string {
	return fmt.Sprintf("0x%08X", uint64(hwnd))
}

// FormatStyle renders a style mask as fixed-width hex.
func FormatStyle(style uint32) string {
	return fmt.Sprintf("0x%08X", style)
}
