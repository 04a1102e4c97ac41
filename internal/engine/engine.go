package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Norgate-AV/ontop/internal/interfaces"
	"github.com/Norgate-AV/ontop/internal/logger"
	"github.com/Norgate-AV/ontop/internal/scheduler"
	"github.com/Norgate-AV/ontop/internal/timeouts"
	"github.com/Norgate-AV/ontop/internal/windows"
)

// Options configures an Engine. Zero intervals fall back to the defaults in
// the timeouts package.
type Options struct {
	// Target is the overlay window to keep on top. Zero disables enforcement.
	Target uintptr

	// TargetTitle is the title substring of the window to switch to windowed
	// presentation. Empty disables acquisition.
	TargetTitle string

	EnforceInterval    time.Duration
	AcquireInterval    time.Duration
	DiagnosticInterval time.Duration

	// Diagnostics enables the sampler; Sink receives its samples.
	Diagnostics bool
	Sink        SampleSink
}

// Engine holds the state shared by the periodic loops: the fixed overlay
// target and each loop's progress. All loops run on one scheduler goroutine.
type Engine struct {
	log  logger.LoggerInterface
	opts Options

	enforcer *Enforcer
	acquirer *Acquirer
	sampler  *Sampler

	gone bool
}

// New wires the components selected by opts
func New(log logger.LoggerInterface, win interfaces.WindowSystem, procs interfaces.ProcessInspector, opts Options) *Engine {
	if opts.EnforceInterval <= 0 {
		opts.EnforceInterval = timeouts.EnforceInterval
	}

	if opts.AcquireInterval <= 0 {
		opts.AcquireInterval = timeouts.AcquireInterval
	}

	if opts.DiagnosticInterval <= 0 {
		opts.DiagnosticInterval = timeouts.DiagnosticInterval
	}

	e := &Engine{log: log, opts: opts}
	mutator := NewStyleMutator(log, win)

	if opts.Target != 0 {
		e.enforcer = NewEnforcer(log, opts.Target, win, mutator, NewZOrderEnforcer(win))

		if opts.Diagnostics {
			e.sampler = NewSampler(log, opts.Target, win, procs, opts.Sink)
		}
	}

	if opts.TargetTitle != "" {
		e.acquirer = NewAcquirer(log, NewScanner(log, win), mutator, opts.TargetTitle)
	}

	return e
}

func (e *Engine) Enforcer() *Enforcer { return e.enforcer }
func (e *Engine) Acquirer() *Acquirer { return e.acquirer }
func (e *Engine) Sampler() *Sampler   { return e.sampler }

// TargetGone reports whether enforcement ended because the overlay closed
func (e *Engine) TargetGone() bool { return e.gone }

// Run drives every enabled loop until they have all finished, the overlay
// window is destroyed, or ctx is cancelled. Only the last case is an error.
func (e *Engine) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := scheduler.New(e.log)

	if e.enforcer != nil {
		if err := e.enforcer.Activate(); err != nil && !errors.Is(err, windows.ErrUnsupported) {
			e.log.Warn("Overlay styles not applied, pinning anyway", slog.Any("error", err))
		}

		sched.Every("enforce", e.opts.EnforceInterval, func(context.Context) bool {
			if err := e.enforcer.Tick(); errors.Is(err, ErrTargetGone) {
				e.gone = true
				// Nothing left to keep on top or to observe
				cancel()

				return false
			}

			return !e.enforcer.Unsupported()
		})
	}

	if e.acquirer != nil {
		sched.Every("acquire", e.opts.AcquireInterval, func(context.Context) bool {
			return e.acquirer.Step()
		})
	}

	if e.sampler != nil {
		sched.Every("diagnostics", e.opts.DiagnosticInterval, func(context.Context) bool {
			return e.sampler.Tick()
		})
	}

	if sched.Len() == 0 {
		return nil
	}

	e.log.Debug("Engine started",
		slog.Int("loops", sched.Len()),
		slog.String("target", windows.FormatHandle(e.opts.Target)),
		slog.String("title", e.opts.TargetTitle),
	)

	err := sched.Run(runCtx)

	if e.enforcer != nil {
		stats := e.enforcer.Stats()
		e.log.Info("Enforcement stopped",
			slog.Int("ticks", stats.Ticks),
			slog.Int("pins", stats.Pins),
			slog.Int("failures", stats.Failures),
		)
	}

	if err != nil && ctx.Err() == nil && e.gone {
		return nil
	}

	return err
}
