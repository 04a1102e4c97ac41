// Package engine keeps an overlay window above a full-screen application and
// reshapes that application's window so the overlay can be seen at all.
//
// Every part is best-effort: the window manager grants "topmost" as a request,
// not a guarantee, and a true exclusive full-screen surface suppresses every
// topmost window no matter how often it is re-asserted. The Sampler exists to
// tell that situation apart from a bug in the loops.
package engine

import (
	"errors"
	"log/slog"

	"github.com/Norgate-AV/ontop/internal/interfaces"
	"github.com/Norgate-AV/ontop/internal/logger"
	"github.com/Norgate-AV/ontop/internal/windows"
)

// Scanner lists the visible, titled top-level windows
type Scanner struct {
	win interfaces.WindowEnumerator
	log logger.LoggerInterface
}

// NewScanner creates a scanner over the given enumerator
func NewScanner(log logger.LoggerInterface, win interfaces.WindowEnumerator) *Scanner {
	return &Scanner{win: win, log: log}
}

// Scan returns every visible top-level window with a non-empty title, in the
// window manager's enumeration order. Windows that vanish or lose their title
// mid-scan are dropped silently. The only error returned is
// windows.ErrUnsupported; any other enumeration failure yields an empty scan.
func (s *Scanner) Scan() ([]windows.WindowInfo, error) {
	handles, err := s.win.EnumerateWindows()
	if err != nil {
		if errors.Is(err, windows.ErrUnsupported) {
			return nil, err
		}

		s.log.Debug("Window enumeration failed, treating as empty scan", slog.Any("error", err))
		return nil, nil
	}

	records := make([]windows.WindowInfo, 0, len(handles))

	for _, hwnd := range handles {
		if !s.win.IsWindowVisible(hwnd) {
			continue
		}

		title := s.win.GetWindowText(hwnd)
		if title == "" {
			continue
		}

		records = append(records, windows.WindowInfo{Hwnd: hwnd, Title: title})
	}

	s.log.Trace("Scan complete",
		slog.Int("handles", len(handles)),
		slog.Int("titled", len(records)),
	)

	return records, nil
}
