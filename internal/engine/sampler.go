package engine

import (
	"errors"
	"log/slog"
	"time"

	"github.com/Norgate-AV/ontop/internal/interfaces"
	"github.com/Norgate-AV/ontop/internal/logger"
	"github.com/Norgate-AV/ontop/internal/windows"
)

// Sample is one observation of the z-order fight. It never feeds back into
// enforcement.
type Sample struct {
	Time time.Time

	Target        uintptr
	TargetExStyle uint32
	TargetTopmost bool
	TargetErr     error

	Foreground        windows.WindowInfo
	ForegroundPid     uint32
	ForegroundProcess string
	ForegroundRect    windows.Rect

	ScreenWidth  int
	ScreenHeight int

	// ForegroundFullscreen is set when the foreground window covers the whole
	// display, the usual sign of an exclusive full-screen surface that no
	// amount of re-pinning can beat.
	ForegroundFullscreen bool
}

// SampleSink receives samples, in the order they were taken
type SampleSink interface {
	Record(s Sample) error
}

// CoversDisplay reports whether r spans the full w x h display
func CoversDisplay(r windows.Rect, w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}

	return r.Left <= 0 && r.Top <= 0 && int(r.Right) >= w && int(r.Bottom) >= h
}

// Sampler periodically records what the overlay is up against
type Sampler struct {
	log    logger.LoggerInterface
	target uintptr
	win    interfaces.WindowSystem
	procs  interfaces.ProcessInspector
	sink   SampleSink
	now    func() time.Time

	samples int
}

// NewSampler creates a sampler. procs may be nil, in which case process
// names are left empty.
func NewSampler(log logger.LoggerInterface, target uintptr, win interfaces.WindowSystem, procs interfaces.ProcessInspector, sink SampleSink) *Sampler {
	return &Sampler{
		log:    log,
		target: target,
		win:    win,
		procs:  procs,
		sink:   sink,
		now:    time.Now,
	}
}

// Samples returns how many samples have been recorded
func (s *Sampler) Samples() int { return s.samples }

// Sample takes one observation. Individual query failures leave their fields
// zero; only an unsupported window manager is returned as an error.
func (s *Sampler) Sample() (Sample, error) {
	sample := Sample{
		Time:   s.now(),
		Target: s.target,
	}

	style, err := s.win.GetWindowStyle(s.target, windows.StyleExtended)
	if errors.Is(err, windows.ErrUnsupported) {
		return sample, err
	}

	sample.TargetExStyle = style
	sample.TargetErr = err
	sample.TargetTopmost = err == nil && style&windows.WS_EX_TOPMOST != 0

	if fg := s.win.GetForegroundWindow(); fg != 0 {
		sample.Foreground = windows.WindowInfo{Hwnd: fg, Title: s.win.GetWindowText(fg)}
		sample.ForegroundPid = s.win.GetWindowPid(fg)

		if rect, err := s.win.GetWindowRect(fg); err == nil {
			sample.ForegroundRect = rect
		}

		if s.procs != nil && sample.ForegroundPid != 0 {
			if name, err := s.procs.ProcessName(sample.ForegroundPid); err == nil {
				sample.ForegroundProcess = name
			}
		}
	}

	if w, h, err := s.win.GetScreenSize(); err == nil {
		sample.ScreenWidth = w
		sample.ScreenHeight = h
	}

	sample.ForegroundFullscreen = sample.Foreground.Hwnd != 0 &&
		sample.Foreground.Hwnd != s.target &&
		CoversDisplay(sample.ForegroundRect, sample.ScreenWidth, sample.ScreenHeight)

	return sample, nil
}

// Tick takes and records one sample. It returns false once sampling cannot
// work in this environment.
func (s *Sampler) Tick() bool {
	sample, err := s.Sample()
	if err != nil {
		s.log.Debug("Diagnostics unavailable", slog.Any("error", err))
		return false
	}

	if s.sink != nil {
		if err := s.sink.Record(sample); err != nil {
			s.log.Warn("Could not record diagnostic sample", slog.Any("error", err))
		}
	}

	s.samples++

	if sample.ForegroundFullscreen {
		s.log.Debug("Foreground window covers the display",
			slog.String("title", sample.Foreground.Title),
			slog.String("process", sample.ForegroundProcess),
		)
	}

	return true
}
