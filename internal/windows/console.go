//go:build windows

package windows

import (
	"fmt"
	"sync"

	win "golang.org/x/sys/windows"
)

// ConsoleCtrlHandler receives console control events. Returning 1 marks the
// event handled; returning 0 passes it on to the next handler in the chain.
type ConsoleCtrlHandler func(ctrlType uint32) uintptr

var (
	ctrlMu       sync.Mutex
	ctrlHandler  ConsoleCtrlHandler
	ctrlOnce     sync.Once
	ctrlCallback uintptr
)

// SetConsoleCtrlHandler installs handler for close, logoff and shutdown events.
// Only one handler is kept; calling again replaces it.
func SetConsoleCtrlHandler(handler ConsoleCtrlHandler) error {
	ctrlMu.Lock()
	ctrlHandler = handler
	ctrlMu.Unlock()

	ctrlOnce.Do(func() {
		ctrlCallback = win.NewCallback(dispatchCtrlEvent)
	})

	ret, _, err := procSetConsoleCtrlHandler.Call(ctrlCallback, 1)
	if ret == 0 {
		return fmt.Errorf("SetConsoleCtrlHandler: %w", err)
	}

	return nil
}

func dispatchCtrlEvent(ctrlType uint32) uintptr {
	ctrlMu.Lock()
	h := ctrlHandler
	ctrlMu.Unlock()

	if h == nil {
		return 0
	}

	return h(ctrlType)
}
