//go:build !windows

package windows

import "github.com/Norgate-AV/ontop/internal/logger"

// Client is the non-Windows stand-in: every mutation and query reports
// ErrUnsupported so the engine degrades to logged no-ops.
type Client struct {
	log logger.LoggerInterface
}

// NewClient creates a client that has no window manager to talk to
func NewClient(log logger.LoggerInterface) *Client {
	log.Warn("Native window manager not available on this platform, window enforcement disabled")
	return &Client{log: log}
}

// Supported is always false off Windows
func Supported() bool { return false }

func (c *Client) EnumerateWindows() ([]uintptr, error)     { return nil, ErrUnsupported }
func (c *Client) IsWindow(hwnd uintptr) bool               { return false }
func (c *Client) IsWindowVisible(hwnd uintptr) bool        { return false }
func (c *Client) GetWindowText(hwnd uintptr) string        { return "" }
func (c *Client) GetWindowPid(hwnd uintptr) uint32         { return 0 }
func (c *Client) GetForegroundWindow() uintptr             { return 0 }
func (c *Client) GetRootWindow(hwnd uintptr) uintptr       { return hwnd }
func (c *Client) GetWindowRect(hwnd uintptr) (Rect, error) { return Rect{}, ErrUnsupported }
func (c *Client) GetScreenSize() (int, int, error)         { return 0, 0, ErrUnsupported }

func (c *Client) GetWindowStyle(hwnd uintptr, class StyleClass) (uint32, error) {
	return 0, ErrUnsupported
}

func (c *Client) SetWindowStyle(hwnd uintptr, class StyleClass, style uint32) error {
	return ErrUnsupported
}

func (c *Client) SetWindowPos(hwnd, insertAfter uintptr, flags uint32) error {
	return ErrUnsupported
}
