// Package logger provides structured logging with file and console output.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// AppName names the log directory and file
	AppName = "ontop"

	// DefaultLogMaxSize is the default maximum size in megabytes before log rotation
	DefaultLogMaxSize = 5

	// DefaultLogMaxBackups is the default number of old log files to retain
	DefaultLogMaxBackups = 3

	// DefaultLogMaxAge is the default maximum number of days to retain old log files
	DefaultLogMaxAge = 14

	// LevelTrace is a custom log level below Debug, only logged to file.
	// Per-tick enforcement results land here so the console stays readable.
	LevelTrace = slog.LevelDebug - 4
)

// LoggerInterface defines the logging methods
type LoggerInterface interface {
	Trace(msg string, args ...any) // Only logs to file, never to console
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Close()
	GetLogPath() string
}

// LoggerOptions configures the logger
type LoggerOptions struct {
	Verbose    bool
	LogDir     string    // If empty, uses %LOCALAPPDATA%\ontop
	Console    io.Writer // If nil, uses os.Stdout
	MaxSize    int       // Max size in megabytes before rotation
	MaxBackups int       // Max number of old log files to keep
	MaxAge     int       // Max days to keep old log files
	Compress   bool      // Whether to compress rotated logs
}

// DefaultDir returns %LOCALAPPDATA%\ontop, falling back to the profile
// directory when LOCALAPPDATA is not set.
func DefaultDir() string {
	localAppData := os.Getenv("LOCALAPPDATA")

	if localAppData == "" {
		localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
	}

	return filepath.Join(localAppData, AppName)
}

// GetLogPath returns the path where logs will be written based on options
func GetLogPath(opts LoggerOptions) string {
	logDir := opts.LogDir
	if logDir == "" {
		logDir = DefaultDir()
	}

	return filepath.Join(logDir, AppName+".log")
}

// PrintLogFile prints the current log file to the provided writer
// If writer is nil, prints to stdout. Returns error if log file doesn't exist or can't be read.
func PrintLogFile(w io.Writer, opts LoggerOptions) error {
	if w == nil {
		w = os.Stdout
	}

	logPath := GetLogPath(opts)

	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	defer func() {
		_ = file.Close()
	}()

	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}

	return nil
}

// Logger handles dual output logging (file + console)
type Logger struct {
	file             *slog.Logger
	console          *slog.Logger
	lumberjackLogger *lumberjack.Logger
	logPath          string
}

// NewLogger creates a new logger instance
func NewLogger(opts LoggerOptions) (*Logger, error) {
	if opts.MaxSize == 0 {
		opts.MaxSize = DefaultLogMaxSize
	}

	if opts.MaxBackups == 0 {
		opts.MaxBackups = DefaultLogMaxBackups
	}

	if opts.MaxAge == 0 {
		opts.MaxAge = DefaultLogMaxAge
	}

	if opts.Console == nil {
		opts.Console = os.Stdout
	}

	logPath := GetLogPath(opts)

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}

	lumberjackLogger := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    opts.MaxSize,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAge,
		Compress:   opts.Compress,
	}

	fileLogger := slog.New(slog.NewTextHandler(lumberjackLogger, &slog.HandlerOptions{
		Level:       LevelTrace,
		ReplaceAttr: replaceTraceLevel,
	}))

	consoleLogger := slog.New(NewConsoleHandler(opts.Console, opts.Verbose))

	return &Logger{
		file:             fileLogger,
		console:          consoleLogger,
		lumberjackLogger: lumberjackLogger,
		logPath:          logPath,
	}, nil
}

// replaceTraceLevel prints "TRACE" instead of slog's "DEBUG-4"
func replaceTraceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}

	if level, ok := a.Value.Any().(slog.Level); ok && level == LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}

	return a
}

// Close closes the log file and flushes any buffered data
func (l *Logger) Close() {
	if l.lumberjackLogger == nil {
		return
	}

	if err := l.lumberjackLogger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to close log file: %v\n", err)
	}
}

// GetLogPath returns the path to the current log file
func (l *Logger) GetLogPath() string {
	return l.logPath
}

// Trace logs a trace message (file only, never to console)
func (l *Logger) Trace(msg string, args ...any) {
	l.file.Log(context.Background(), LevelTrace, msg, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) {
	l.file.Debug(msg, args...)
	l.console.Debug(msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...any) {
	l.file.Info(msg, args...)
	l.console.Info(msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) {
	l.file.Warn(msg, args...)
	l.console.Warn(msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...any) {
	l.file.Error(msg, args...)
	l.console.Error(msg, args...)
}

// ConsoleHandler prints one clean line per record: no timestamp, a coloured
// prefix for anything that isn't Info, and key=value attributes.
type ConsoleHandler struct {
	writer  io.Writer
	verbose bool
	attrs   []slog.Attr
}

// NewConsoleHandler creates a console handler writing to w
func NewConsoleHandler(w io.Writer, verbose bool) *ConsoleHandler {
	return &ConsoleHandler{writer: w, verbose: verbose}
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	if level <= LevelTrace {
		return false
	}

	if !h.verbose && level < slog.LevelInfo {
		return false
	}

	return true
}

var levelPrefixes = map[slog.Level]struct {
	prefix string
	color  *color.Color
}{
	slog.LevelError: {"ERROR: ", color.New(color.FgRed)},
	slog.LevelWarn:  {"WARNING: ", color.New(color.FgYellow)},
	slog.LevelDebug: {"VERBOSE: ", color.New(color.FgCyan)},
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message

	// Enumerated list items ("  1. title") are printed bare at Info level
	includeAttrs := r.Level != slog.LevelInfo || !isEnumeratedMessage(msg)

	if includeAttrs {
		attrs := make([]string, 0, len(h.attrs)+r.NumAttrs())

		for _, a := range h.attrs {
			attrs = append(attrs, formatAttr(a))
		}

		r.Attrs(func(a slog.Attr) bool {
			attrs = append(attrs, formatAttr(a))
			return true
		})

		if len(attrs) > 0 {
			msg = msg + " " + strings.Join(attrs, " ")
		}
	}

	if p, ok := levelPrefixes[r.Level]; ok {
		_, _ = p.color.Fprintf(h.writer, "%s%s\n", p.prefix, msg)
		return nil
	}

	_, _ = fmt.Fprintf(h.writer, "%s\n", msg)
	return nil
}

func formatAttr(a slog.Attr) string {
	if a.Value.Kind() == slog.KindString && strings.ContainsAny(a.Value.String(), " \t") {
		return fmt.Sprintf("%s=%q", a.Key, a.Value.String())
	}

	return fmt.Sprintf("%s=%v", a.Key, a.Value)
}

// isEnumeratedMessage checks if a message is an enumerated list item
// (e.g., "  1. Notepad", "  2. Game")
func isEnumeratedMessage(msg string) bool {
	if len(msg) < 4 {
		return false
	}

	return msg[0] == ' ' && msg[1] == ' ' && msg[2] >= '0' && msg[2] <= '9'
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)

	return &next
}

func (h *ConsoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// NoOpLogger is a logger that does nothing - useful for tests
type NoOpLogger struct{}

func (n *NoOpLogger) Trace(msg string, args ...any) {}
func (n *NoOpLogger) Debug(msg string, args ...any) {}
func (n *NoOpLogger) Info(msg string, args ...any)  {}
func (n *NoOpLogger) Warn(msg string, args ...any)  {}
func (n *NoOpLogger) Error(msg string, args ...any) {}
func (n *NoOpLogger) Close()                        {}
func (n *NoOpLogger) GetLogPath() string            { return "" }

// NewNoOpLogger creates a new no-op logger for testing
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}
