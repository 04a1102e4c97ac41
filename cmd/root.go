package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/ontop/internal/logger"
	"github.com/Norgate-AV/ontop/internal/timeouts"
	"github.com/Norgate-AV/ontop/internal/version"
	"github.com/Norgate-AV/ontop/internal/windows"
)

// ExecutionContext holds what the signal handlers need to stop a running
// command cleanly.
type ExecutionContext struct {
	log      logger.LoggerInterface
	cancel   context.CancelFunc
	grace    time.Duration
	exitFunc func(int) // Injectable for testing; defaults to os.Exit
}

// RootCmd is the root command for the ontop CLI application.
var RootCmd = &cobra.Command{
	Use:   "ontop",
	Short: "ontop - Keep an overlay window above full-screen games",
	Long: `ontop keeps a small overlay window (a timer, a stats panel) visible above
a game, and can switch a borderless full-screen game into a bordered window so
that the overlay has something to sit on top of.

Topmost is a request, not a guarantee: a game running in exclusive full-screen
mode hides every other window no matter how often it is re-asserted.`,
	Version:      version.GetFullVersion(),
	Args:         cobra.NoArgs,
	RunE:         Execute,
	SilenceUsage: true, // Don't show usage on runtime errors
}

func init() {
	// Set custom version template to show full version info
	RootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	RootCmd.PersistentFlags().BoolP("verbose", "V", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolP("logs", "l", false, "print the current log file to stdout and exit")
	RootCmd.PersistentFlags().String("config", "", "config file (default %LOCALAPPDATA%\\ontop\\config.yaml)")
	RootCmd.PersistentFlags().String("log-dir", "", "directory for log files (default %LOCALAPPDATA%\\ontop)")

	RootCmd.AddCommand(listCmd, windowedCmd, pinCmd)
}

// handleLogsFlag processes the --logs flag and exits if needed
func handleLogsFlag(cfg *Config, exitFunc func(int)) error {
	if !cfg.ShowLogs {
		return nil
	}

	opts := logger.LoggerOptions{LogDir: cfg.LogDir}

	if err := logger.PrintLogFile(nil, opts); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Log file does not exist: %s\n", logger.GetLogPath(opts))
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}

		exitFunc(1)
		return nil
	}

	exitFunc(0)
	return nil // Won't actually reach here due to exitFunc
}

// initializeLogger creates a logger and logs startup information
func initializeLogger(cfg *Config) (logger.LoggerInterface, error) {
	log, err := logger.NewLogger(logger.LoggerOptions{
		Verbose:  cfg.Verbose,
		LogDir:   cfg.LogDir,
		Compress: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

// startup loads the configuration, serves --logs and opens the logger. The
// caller owns the returned logger.
func startup(cmd *cobra.Command) (*Config, logger.LoggerInterface, error) {
	cfg, err := NewConfigFromFlags(cmd)
	if err != nil {
		return nil, nil, err
	}

	if err := handleLogsFlag(cfg, os.Exit); err != nil {
		return nil, nil, err
	}

	log, err := initializeLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	log.Debug("Starting ontop",
		slog.String("command", cmd.Name()),
		slog.String("version", version.GetVersion()),
		slog.String("config", cfg.ConfigPath),
	)

	log.Debug("Configuration",
		slog.String("targetTitle", cfg.TargetTitle),
		slog.String("overlayTitle", cfg.OverlayTitle),
		slog.String("enforceInterval", cfg.EnforceInterval.String()),
		slog.String("acquireInterval", cfg.AcquireInterval.String()),
		slog.Bool("diagnostics", cfg.Diagnostics),
	)

	return cfg, log, nil
}

// recoverPanic logs a panic with its stack instead of crashing silently.
// Must be deferred directly.
func recoverPanic(log logger.LoggerInterface) {
	if r := recover(); r != nil {
		log.Error("PANIC RECOVERED",
			slog.Any("panic", r),
			slog.String("stack", string(debug.Stack())),
		)

		fmt.Fprintf(os.Stderr, "\n*** PANIC: %v ***\n", r)
		fmt.Fprintf(os.Stderr, "Check log file for details\n")
	}
}

// ensureElevated checks for admin privileges and relaunches if needed
func ensureElevated(log logger.LoggerInterface) error {
	return ensureElevatedWithDeps(log, windows.IsElevated, windows.RelaunchAsAdmin, os.Exit)
}

// ensureElevatedWithDeps is the testable version with injected dependencies
func ensureElevatedWithDeps(
	log logger.LoggerInterface,
	isElevated func() bool,
	relaunchAsAdmin func() error,
	exitFunc func(int),
) error {
	log.Debug("Checking elevation status")
	if !isElevated() {
		log.Info("Windows of elevated games can only be restyled from an elevated process")
		log.Info("Relaunching as administrator")

		if err := relaunchAsAdmin(); err != nil {
			log.Error("RelaunchAsAdmin failed", slog.Any("error", err))
			return fmt.Errorf("error relaunching as admin: %w", err)
		}

		// Exit this instance, the elevated one will continue
		log.Debug("Relaunched successfully, exiting non-elevated instance")
		log.Close()
		exitFunc(0)
	}

	log.Debug("Running with administrator privileges")
	return nil
}

// setupSignalHandlers cancels the running command on Ctrl+C, SIGTERM or the
// console window closing. A second interrupt exits immediately. The returned
// function stops listening.
func setupSignalHandlers(ctx *ExecutionContext) func() {
	// Windows console control handler catches window close, logoff and shutdown
	_ = windows.SetConsoleCtrlHandler(func(ctrlType uint32) uintptr {
		ctx.log.Debug("Received console control event",
			slog.String("type", windows.GetCtrlTypeName(ctrlType)),
			slog.Uint64("code", uint64(ctrlType)),
		)

		// Ctrl+C and Ctrl+Break reach the signal channel below
		if ctrlType == windows.CTRL_C_EVENT || ctrlType == windows.CTRL_BREAK_EVENT {
			return 0
		}

		// Close, logoff and shutdown terminate the process once we return
		ctx.cancel()
		time.Sleep(ctx.grace)
		return 1
	})

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigChan:
			ctx.log.Debug("Received signal", slog.Any("signal", sig))
			ctx.log.Info("Interrupt received, stopping")
			ctx.cancel()
		case <-done:
			return
		}

		select {
		case <-sigChan:
			ctx.log.Warn("Second interrupt, exiting immediately")
			ctx.exitFunc(130)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

// withCancellation returns a context cancelled by interrupts and console
// events, plus a function that releases the handlers.
func withCancellation(parent context.Context, log logger.LoggerInterface) (context.Context, func()) {
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancel(parent)

	stop := setupSignalHandlers(&ExecutionContext{
		log:      log,
		cancel:   cancel,
		grace:    timeouts.ShutdownGrace,
		exitFunc: os.Exit,
	})

	return ctx, func() {
		stop()
		cancel()
	}
}

// Execute runs the root command: only --logs does anything without a
// subcommand.
func Execute(cmd *cobra.Command, args []string) error {
	cfg, err := NewConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	if err := handleLogsFlag(cfg, os.Exit); err != nil {
		return err
	}

	return cmd.Help()
}
