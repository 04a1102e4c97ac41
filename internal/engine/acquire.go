package engine

import (
	"fmt"
	"log/slog"

	"github.com/Norgate-AV/ontop/internal/logger"
	"github.com/Norgate-AV/ontop/internal/windows"
)

// AcquisitionState is a one-way progression: Searching, Found, Done.
type AcquisitionState int

const (
	Searching AcquisitionState = iota
	Found
	Done
)

func (s AcquisitionState) String() string {
	switch s {
	case Searching:
		return "searching"
	case Found:
		return "found"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("AcquisitionState(%d)", int(s))
	}
}

// Acquirer waits for a window whose title contains a substring, then forces
// it into bordered windowed presentation exactly once.
type Acquirer struct {
	log     logger.LoggerInterface
	scanner *Scanner
	mutator *StyleMutator
	title   string

	state  AcquisitionState
	scans  int
	target windows.WindowInfo
	style  uint32
	err    error
}

// NewAcquirer creates an acquirer for the given title substring
func NewAcquirer(log logger.LoggerInterface, scanner *Scanner, mutator *StyleMutator, title string) *Acquirer {
	return &Acquirer{
		log:     log,
		scanner: scanner,
		mutator: mutator,
		title:   title,
	}
}

// Step runs one acquisition cycle and reports whether another is needed.
// Once Done it returns false immediately without scanning. No match is the
// normal waiting state, not an error: the game may not be launched yet.
func (a *Acquirer) Step() bool {
	if a.state == Done {
		return false
	}

	a.scans++

	records, err := a.scanner.Scan()
	if err != nil {
		a.log.Warn("Cannot enumerate windows, target acquisition disabled", slog.Any("error", err))
		a.err = err
		a.state = Done

		return false
	}

	matches := MatchAll(a.title, records)
	if len(matches) == 0 {
		a.log.Trace("No window matches target yet",
			slog.String("title", a.title),
			slog.Int("scan", a.scans),
			slog.Int("windows", len(records)),
		)

		return true
	}

	if len(matches) > 1 {
		a.log.Warn("Several windows match the target title, using the first",
			slog.String("title", a.title),
			slog.Int("matches", len(matches)),
		)

		for i, m := range matches {
			a.log.Info(fmt.Sprintf("  %d. %s (%s)", i+1, m.Title, windows.FormatHandle(m.Hwnd)))
		}
	}

	a.target = matches[0]
	a.state = Found

	a.log.Info("Target window found",
		slog.String("title", a.target.Title),
		slog.String("hwnd", windows.FormatHandle(a.target.Hwnd)),
		slog.Int("scans", a.scans),
	)

	// Fire once: removing POPUP again would change nothing, so a failed write
	// is reported rather than retried.
	a.style, a.err = a.mutator.ApplyStyleDelta(a.target.Hwnd, WindowedDelta)
	if a.err == nil {
		a.log.Info("Target switched to windowed presentation",
			slog.String("style", windows.FormatStyle(a.style)),
		)
	}

	a.state = Done

	return false
}

// State returns the current acquisition state
func (a *Acquirer) State() AcquisitionState { return a.state }

// Scans returns how many scans have been performed
func (a *Acquirer) Scans() int { return a.scans }

// Target returns the matched window once one has been found
func (a *Acquirer) Target() (windows.WindowInfo, bool) {
	return a.target, a.state != Searching && a.target.Hwnd != 0
}

// Err returns the mutation (or enumeration) error, if any
func (a *Acquirer) Err() error { return a.err }

// Title returns the substring being searched for
func (a *Acquirer) Title() string { return a.title }
