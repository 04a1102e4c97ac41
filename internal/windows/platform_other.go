//go:build !windows

package windows

// ConsoleCtrlHandler is a callback function for console control events
type ConsoleCtrlHandler func(ctrlType uint32) uintptr

// SetConsoleCtrlHandler has no console to hook outside Windows; os/signal
// covers interrupts there.
func SetConsoleCtrlHandler(handler ConsoleCtrlHandler) error {
	return ErrUnsupported
}

// IsElevated is always false outside Windows
func IsElevated() bool { return false }

// RelaunchAsAdmin is not available outside Windows
func RelaunchAsAdmin() error { return ErrUnsupported }
