//go:build windows

package windows

import (
	win "golang.org/x/sys/windows"
)

var (
	user32                    = win.NewLazySystemDLL("user32.dll")
	procGetWindowTextLengthW  = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW        = user32.NewProc("GetWindowTextW")
	procGetWindowLongW        = user32.NewProc("GetWindowLongW")
	procSetWindowLongW        = user32.NewProc("SetWindowLongW")
	procSetWindowPos          = user32.NewProc("SetWindowPos")
	procGetWindowRect         = user32.NewProc("GetWindowRect")
	procGetSystemMetrics      = user32.NewProc("GetSystemMetrics")
	procGetAncestor           = user32.NewProc("GetAncestor")
	kernel32                  = win.NewLazySystemDLL("kernel32.dll")
	procSetLastError          = kernel32.NewProc("SetLastError")
	procSetConsoleCtrlHandler = kernel32.NewProc("SetConsoleCtrlHandler")
)

const (
	SM_CXSCREEN = 0
	SM_CYSCREEN = 1

	GA_ROOT = 2

	SW_SHOWNORMAL = 1
)

// Supported reports whether user32.dll and the procedures used here resolved.
func Supported() bool {
	if err := user32.Load(); err != nil {
		return false
	}

	for _, p := range []*win.LazyProc{procGetWindowLongW, procSetWindowLongW, procSetWindowPos} {
		if p.Find() != nil {
			return false
		}
	}

	return true
}
