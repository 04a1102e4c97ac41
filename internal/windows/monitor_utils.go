//go:build windows

package windows

import (
	"fmt"
	"sync"

	win "golang.org/x/sys/windows"
)

var (
	foundWindows []uintptr
	windowsMu    sync.Mutex

	// Callbacks are a finite resource, so the scan callback is created once
	// and reused for every enumeration.
	enumCallbackOnce sync.Once
	enumCallback     uintptr
)

func enumWindowsCallback(hwnd win.HWND, _ uintptr) uintptr {
	foundWindows = append(foundWindows, uintptr(hwnd))
	return 1 // Continue enumeration
}

// EnumerateWindows performs a thread-safe enumeration of all top-level windows,
// in the z-order the window manager reports them.
func EnumerateWindows() ([]uintptr, error) {
	enumCallbackOnce.Do(func() {
		enumCallback = win.NewCallback(enumWindowsCallback)
	})

	windowsMu.Lock()
	defer windowsMu.Unlock()

	foundWindows = foundWindows[:0]
	if err := win.EnumWindows(enumCallback, nil); err != nil {
		return nil, fmt.Errorf("EnumWindows: %w", err)
	}

	// Make a copy to avoid races with subsequent enumerations
	handles := make([]uintptr, len(foundWindows))
	copy(handles, foundWindows)

	return handles, nil
}
