//go:build windows

package windows

import (
	"fmt"
	"unsafe"

	win "golang.org/x/sys/windows"
)

// clearLastError resets the thread's last-error value so calls whose success
// value can legitimately be 0 (GetWindowLongW, SetWindowLongW) can be told
// apart from real failures.
func clearLastError() {
	_, _, _ = procSetLastError.Call(0)
}

// GetWindowText retrieves the title of a window, or "" when the window has no
// title or was destroyed while we were asking.
func GetWindowText(hwnd uintptr) string {
	n, _, _ := procGetWindowTextLengthW.Call(hwnd)
	if n == 0 {
		return ""
	}

	buf := make([]uint16, n+1)

	copied, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if copied == 0 || copied > uintptr(len(buf)) {
		return ""
	}

	return win.UTF16ToString(buf[:copied])
}

// IsWindow checks if a window handle still refers to an existing window
func IsWindow(hwnd uintptr) bool {
	return win.IsWindow(win.HWND(hwnd))
}

// IsWindowVisible checks if a window has the WS_VISIBLE style
func IsWindowVisible(hwnd uintptr) bool {
	return win.IsWindowVisible(win.HWND(hwnd))
}

// GetWindowPid retrieves the process ID that owns a window
func GetWindowPid(hwnd uintptr) uint32 {
	var pid uint32

	if _, err := win.GetWindowThreadProcessId(win.HWND(hwnd), &pid); err != nil {
		return 0
	}

	return pid
}

// GetForegroundWindow returns the window the user is currently working with.
func GetForegroundWindow() uintptr {
	return uintptr(win.GetForegroundWindow())
}

// GetWindowStyle reads the basic or extended style mask of a window.
func GetWindowStyle(hwnd uintptr, class StyleClass) (uint32, error) {
	index := class.Index()

	clearLastError()

	ret, _, err := procGetWindowLongW.Call(hwnd, uintptr(index))
	if ret == 0 {
		if err := lastError(err); err != nil {
			return 0, fmt.Errorf("GetWindowLongW(%s, %s): %w", FormatHandle(hwnd), class, err)
		}
	}

	return uint32(ret), nil
}

// SetWindowStyle writes the basic or extended style mask of a window.
func SetWindowStyle(hwnd uintptr, class StyleClass, style uint32) error {
	index := class.Index()

	clearLastError()

	ret, _, err := procSetWindowLongW.Call(hwnd, uintptr(index), uintptr(style))
	if ret == 0 {
		// A zero return is also the previous value of an empty mask
		if err := lastError(err); err != nil {
			return fmt.Errorf("SetWindowLongW(%s, %s, %s): %w", FormatHandle(hwnd), class, FormatStyle(style), err)
		}
	}

	return nil
}

// SetWindowPos issues an ordering/frame request without moving or resizing
// unless flags say otherwise. Position and size are always passed as zero.
func SetWindowPos(hwnd, insertAfter uintptr, flags uint32) error {
	ret, _, err := procSetWindowPos.Call(hwnd, insertAfter, 0, 0, 0, 0, uintptr(flags))
	if ret == 0 {
		return fmt.Errorf("SetWindowPos(%s, flags=0x%04X): %w", FormatHandle(hwnd), flags, callError(err))
	}

	return nil
}

// GetWindowRect returns the window's bounding rectangle in screen coordinates.
func GetWindowRect(hwnd uintptr) (Rect, error) {
	var rect Rect

	ret, _, err := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&rect)))
	if ret == 0 {
		return Rect{}, fmt.Errorf("GetWindowRect(%s): %w", FormatHandle(hwnd), callError(err))
	}

	return rect, nil
}

// GetScreenSize returns the primary display resolution.
func GetScreenSize() (int, int, error) {
	cx, _, _ := procGetSystemMetrics.Call(SM_CXSCREEN)
	cy, _, _ := procGetSystemMetrics.Call(SM_CYSCREEN)

	if cx == 0 || cy == 0 {
		return 0, 0, fmt.Errorf("GetSystemMetrics returned an empty screen (%dx%d)", cx, cy)
	}

	return int(int32(cx)), int(int32(cy)), nil
}

// GetRootWindow walks from a (possibly child) handle to its top-level window.
// Toolkits often hand out the client area's handle rather than the frame's.
func GetRootWindow(hwnd uintptr) uintptr {
	root, _, _ := procGetAncestor.Call(hwnd, GA_ROOT)
	if root == 0 {
		return hwnd
	}

	return root
}
