// Package interfaces defines core interfaces for dependency injection and testing.
package interfaces

import (
	"github.com/Norgate-AV/ontop/internal/windows"
)

// WindowEnumerator lists top-level windows and answers per-handle queries
type WindowEnumerator interface {
	EnumerateWindows() ([]uintptr, error)
	IsWindow(hwnd uintptr) bool
	IsWindowVisible(hwnd uintptr) bool
	GetWindowText(hwnd uintptr) string
}

// StyleAccessor reads and writes a window's style masks
type StyleAccessor interface {
	GetWindowStyle(hwnd uintptr, class windows.StyleClass) (uint32, error)
	SetWindowStyle(hwnd uintptr, class windows.StyleClass, style uint32) error
}

// PositionSetter issues z-order and frame requests
type PositionSetter interface {
	SetWindowPos(hwnd, insertAfter uintptr, flags uint32) error
}

// FrameStyler changes a window's style masks and refreshes its frame
type FrameStyler interface {
	StyleAccessor
	PositionSetter
}

// ForegroundInspector answers the questions the diagnostic sampler asks
type ForegroundInspector interface {
	GetForegroundWindow() uintptr
	GetWindowRect(hwnd uintptr) (windows.Rect, error)
	GetWindowPid(hwnd uintptr) uint32
	GetScreenSize() (int, int, error)
}

// WindowSystem is everything the engine needs from the window manager
type WindowSystem interface {
	WindowEnumerator
	StyleAccessor
	PositionSetter
	ForegroundInspector
	GetRootWindow(hwnd uintptr) uintptr
}

// ProcessInspector resolves a process ID to its executable name
type ProcessInspector interface {
	ProcessName(pid uint32) (string, error)
}
