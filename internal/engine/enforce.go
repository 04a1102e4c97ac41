package engine

import (
	"errors"
	"log/slog"

	"github.com/Norgate-AV/ontop/internal/interfaces"
	"github.com/Norgate-AV/ontop/internal/logger"
	"github.com/Norgate-AV/ontop/internal/windows"
)

// ErrTargetGone means the overlay window no longer exists
var ErrTargetGone = errors.New("enforcement target no longer exists")

// EnforcementStats summarises an Enforcer's lifetime
type EnforcementStats struct {
	Ticks     int
	Pins      int
	Failures  int
	LastError error
}

// Enforcer keeps one fixed window above everything else by re-pinning it on
// every tick, whether or not it still looks topmost.
type Enforcer struct {
	log     logger.LoggerInterface
	target  uintptr
	win     interfaces.WindowEnumerator
	mutator *StyleMutator
	zorder  *ZOrderEnforcer

	activated   bool
	unsupported bool
	failing     bool
	stats       EnforcementStats
}

// NewEnforcer creates an enforcer for target. The target never changes.
func NewEnforcer(log logger.LoggerInterface, target uintptr, win interfaces.WindowEnumerator, mutator *StyleMutator, zorder *ZOrderEnforcer) *Enforcer {
	return &Enforcer{
		log:     log,
		target:  target,
		win:     win,
		mutator: mutator,
		zorder:  zorder,
	}
}

// Target returns the enforced window handle
func (e *Enforcer) Target() uintptr { return e.target }

// Stats returns a copy of the running statistics
func (e *Enforcer) Stats() EnforcementStats { return e.stats }

// Unsupported reports whether enforcement degraded to a no-op
func (e *Enforcer) Unsupported() bool { return e.unsupported }

// Activate applies the overlay style delta. Only the first call does anything.
func (e *Enforcer) Activate() error {
	if e.activated {
		return nil
	}

	e.activated = true

	style, err := e.mutator.ApplyStyleDelta(e.target, OverlayDelta)
	if err != nil {
		if errors.Is(err, windows.ErrUnsupported) {
			e.unsupported = true
			e.log.Warn("Window manager unavailable, overlay relies on the toolkit's own always-on-top")
		}

		e.recordFailure(err)
		return err
	}

	e.log.Info("Overlay styles applied",
		slog.String("hwnd", windows.FormatHandle(e.target)),
		slog.String("exstyle", windows.FormatStyle(style)),
	)

	return nil
}

// Tick runs one enforcement cycle. It returns ErrTargetGone once the overlay
// window has been destroyed; any other failure is recorded and swallowed so
// the next tick tries again.
func (e *Enforcer) Tick() error {
	if !e.activated {
		_ = e.Activate()
	}

	if e.unsupported {
		return nil
	}

	if !e.win.IsWindow(e.target) {
		e.log.Info("Overlay window closed, stopping enforcement",
			slog.String("hwnd", windows.FormatHandle(e.target)),
		)

		return ErrTargetGone
	}

	e.stats.Ticks++

	if err := e.zorder.PinToTop(e.target); err != nil {
		e.recordFailure(err)

		if !e.failing {
			e.log.Warn("Pin to top rejected, retrying every tick", slog.Any("error", err))
		} else {
			e.log.Trace("Pin to top rejected", slog.Any("error", err))
		}

		e.failing = true
		return nil
	}

	e.stats.Pins++

	if e.failing {
		e.log.Info("Pin to top accepted again", slog.Int("failures", e.stats.Failures))
		e.failing = false
	}

	e.log.Trace("Pinned", slog.String("hwnd", windows.FormatHandle(e.target)))

	return nil
}

func (e *Enforcer) recordFailure(err error) {
	e.stats.Failures++
	e.stats.LastError = err
}
