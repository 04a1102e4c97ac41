//go:build windows

package windows

import (
	"log/slog"

	"github.com/Norgate-AV/ontop/internal/logger"
)

// Client exposes the native primitives behind the interfaces the engine uses.
type Client struct {
	log logger.LoggerInterface
}

// NewClient creates a new Windows API client
func NewClient(log logger.LoggerInterface) *Client {
	if !Supported() {
		log.Warn("user32.dll primitives unavailable, window enforcement disabled")
	}

	return &Client{log: log}
}

func (c *Client) EnumerateWindows() ([]uintptr, error) {
	if !Supported() {
		return nil, ErrUnsupported
	}

	return EnumerateWindows()
}

func (c *Client) IsWindow(hwnd uintptr) bool        { return IsWindow(hwnd) }
func (c *Client) IsWindowVisible(hwnd uintptr) bool { return IsWindowVisible(hwnd) }
func (c *Client) GetWindowText(hwnd uintptr) string { return GetWindowText(hwnd) }
func (c *Client) GetWindowPid(hwnd uintptr) uint32  { return GetWindowPid(hwnd) }
func (c *Client) GetForegroundWindow() uintptr      { return GetForegroundWindow() }
func (c *Client) GetRootWindow(hwnd uintptr) uintptr {
	return GetRootWindow(hwnd)
}

func (c *Client) GetWindowStyle(hwnd uintptr, class StyleClass) (uint32, error) {
	if !Supported() {
		return 0, ErrUnsupported
	}

	return GetWindowStyle(hwnd, class)
}

func (c *Client) SetWindowStyle(hwnd uintptr, class StyleClass, style uint32) error {
	if !Supported() {
		return ErrUnsupported
	}

	c.log.Trace("SetWindowLongW",
		slog.String("hwnd", FormatHandle(hwnd)),
		slog.String("class", class.String()),
		slog.String("value", FormatStyle(style)),
	)

	return SetWindowStyle(hwnd, class, style)
}

func (c *Client) SetWindowPos(hwnd, insertAfter uintptr, flags uint32) error {
	if !Supported() {
		return ErrUnsupported
	}

	return SetWindowPos(hwnd, insertAfter, flags)
}

func (c *Client) GetWindowRect(hwnd uintptr) (Rect, error) {
	if !Supported() {
		return Rect{}, ErrUnsupported
	}

	return GetWindowRect(hwnd)
}

func (c *Client) GetScreenSize() (int, int, error) {
	if !Supported() {
		return 0, 0, ErrUnsupported
	}

	return GetScreenSize()
}
