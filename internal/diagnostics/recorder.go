// Package diagnostics writes engine samples to an append-only, rotating text
// file, one line per sample, in time order.
package diagnostics

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Norgate-AV/ontop/internal/engine"
	"github.com/Norgate-AV/ontop/internal/logger"
	"github.com/Norgate-AV/ontop/internal/windows"
)

const (
	// FileName is the default diagnostics file name inside the log directory
	FileName = "diagnostics.log"

	maxSizeMB  = 10
	maxBackups = 2
	maxAgeDays = 7
)

// DefaultPath returns the diagnostics file next to the application log
func DefaultPath(logDir string) string {
	if logDir == "" {
		logDir = logger.DefaultDir()
	}

	return filepath.Join(logDir, FileName)
}

// Recorder is an engine.SampleSink. Every line carries the run ID so that
// samples from overlapping or consecutive runs can be told apart.
type Recorder struct {
	mu     sync.Mutex
	out    *slog.Logger
	closer io.Closer
	runID  string
	last   time.Time
	count  int
}

// NewRecorder opens (or creates) the diagnostics file at path
func NewRecorder(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("could not create diagnostics directory: %w", err)
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}

	r := NewWriterRecorder(file)
	r.closer = file

	return r, nil
}

// NewWriterRecorder records to any writer
func NewWriterRecorder(w io.Writer) *Recorder {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		ReplaceAttr: dropLevel,
	})

	return &Recorder{
		out:   slog.New(handler),
		runID: uuid.NewString(),
	}
}

// dropLevel removes the level key and takes the time from the sample rather
// than from the moment of writing.
func dropLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		return slog.Attr{}
	}

	return a
}

// RunID identifies this recorder's lines
func (r *Recorder) RunID() string { return r.runID }

// Count returns the number of samples written
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.count
}

// Record writes one line. A sample whose time is earlier than the previous
// one (wall clock stepped back) is stamped with the previous time instead,
// so the file stays time-ordered.
func (r *Recorder) Record(s engine.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := s.Time
	if ts.Before(r.last) {
		ts = r.last
	}

	r.last = ts

	attrs := []slog.Attr{
		slog.String("run", r.runID),
		slog.String("target", windows.FormatHandle(s.Target)),
		slog.String("exstyle", windows.FormatStyle(s.TargetExStyle)),
		slog.Bool("topmost", s.TargetTopmost),
		slog.String("fg", windows.FormatHandle(s.Foreground.Hwnd)),
		slog.String("fg_title", s.Foreground.Title),
		slog.Uint64("fg_pid", uint64(s.ForegroundPid)),
		slog.String("fg_process", s.ForegroundProcess),
		slog.String("fg_rect", s.ForegroundRect.String()),
		slog.String("screen", fmt.Sprintf("%dx%d", s.ScreenWidth, s.ScreenHeight)),
		slog.Bool("fullscreen", s.ForegroundFullscreen),
	}

	if s.TargetErr != nil {
		attrs = append(attrs, slog.String("target_error", s.TargetErr.Error()))
	}

	record := slog.NewRecord(ts, slog.LevelInfo, "sample", 0)
	record.AddAttrs(attrs...)

	if err := r.out.Handler().Handle(context.Background(), record); err != nil {
		return fmt.Errorf("write diagnostic sample: %w", err)
	}

	r.count++

	return nil
}

// Close flushes and closes the underlying file, if any
func (r *Recorder) Close() error {
	if r.closer == nil {
		return nil
	}

	return r.closer.Close()
}
