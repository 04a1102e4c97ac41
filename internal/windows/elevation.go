//go:build windows

package windows

import (
	"fmt"
	"os"
	"strings"

	win "golang.org/x/sys/windows"
)

// IsElevated reports whether this process runs with an elevated token.
// Style writes to a window owned by an elevated process (many games and
// anti-cheat launchers) are rejected by UIPI unless we are elevated too.
func IsElevated() bool {
	return win.GetCurrentProcessToken().IsElevated()
}

// RelaunchAsAdmin starts this executable again through the "runas" verb with
// the same arguments. The caller is expected to exit afterwards.
func RelaunchAsAdmin() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	// Check if running via 'go run' (exe will be in temp dir)
	if strings.Contains(exe, "go-build") {
		return fmt.Errorf("cannot relaunch when run via 'go run', please build the executable first with: go build -o ontop.exe")
	}

	verb, err := win.UTF16PtrFromString("runas")
	if err != nil {
		return err
	}

	file, err := win.UTF16PtrFromString(exe)
	if err != nil {
		return err
	}

	args, err := win.UTF16PtrFromString(win.ComposeCommandLine(os.Args[1:]))
	if err != nil {
		return err
	}

	if err := win.ShellExecute(0, verb, file, args, nil, SW_SHOWNORMAL); err != nil {
		return fmt.Errorf("ShellExecute runas: %w", err)
	}

	return nil
}
