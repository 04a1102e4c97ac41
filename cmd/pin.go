package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/ontop/internal/config"
	"github.com/Norgate-AV/ontop/internal/diagnostics"
	"github.com/Norgate-AV/ontop/internal/engine"
	"github.com/Norgate-AV/ontop/internal/interfaces"
	"github.com/Norgate-AV/ontop/internal/logger"
	"github.com/Norgate-AV/ontop/internal/process"
	"github.com/Norgate-AV/ontop/internal/timeouts"
	"github.com/Norgate-AV/ontop/internal/windows"
)

var pinCmd = &cobra.Command{
	Use:   "pin",
	Short: "Keep an overlay window above every other window",
	Long: `Keep an overlay window (identified by handle or by part of its title) on
top of every other window until it closes or you press Ctrl+C.

The overlay is hidden from Alt+Tab and never takes keyboard focus. With
--target, the game window is also switched to a bordered window when it
appears. With --diagnostics, what the overlay is up against is recorded
every few seconds, to tell a losing fight from an exclusive full-screen game.`,
	Args: cobra.NoArgs,
	RunE: runPin,
}

func init() {
	pinCmd.Flags().String("hwnd", "", "handle of the overlay window (decimal or 0x hex)")
	pinCmd.Flags().String("overlay-title", "", "find the overlay by part of its title (case-insensitive)")
	pinCmd.Flags().String("target", "", "also switch the window whose title contains this text to windowed")
	pinCmd.Flags().Bool("diagnostics", false, "record diagnostic samples")
	pinCmd.Flags().String("diagnostic-file", "", "diagnostics file (default next to the log file)")
	pinCmd.Flags().Duration("enforce-interval", timeouts.EnforceInterval, "how often the overlay is re-pinned")
	pinCmd.Flags().Duration("acquire-interval", timeouts.AcquireInterval, "how often to look for the --target window")
}

func runPin(cmd *cobra.Command, args []string) error {
	cfg, log, err := startup(cmd)
	if err != nil {
		return err
	}

	defer log.Close()
	defer recoverPanic(log)

	client := windows.NewClient(log)

	overlay, err := resolveOverlay(log, client, getStringFlag(cmd, "hwnd"), cfg.OverlayTitle)
	if err != nil {
		return err
	}

	opts := engine.Options{
		Target:             overlay,
		TargetTitle:        cfg.TargetTitle,
		EnforceInterval:    cfg.EnforceInterval.Std(),
		AcquireInterval:    cfg.AcquireInterval.Std(),
		DiagnosticInterval: cfg.DiagnosticInterval.Std(),
		Diagnostics:        cfg.Diagnostics,
	}

	if cfg.Diagnostics {
		recorder, err := diagnostics.NewRecorder(cfg.DiagnosticPath())
		if err != nil {
			return err
		}

		defer func() {
			if err := recorder.Close(); err != nil {
				log.Warn("Could not close diagnostics file", slog.Any("error", err))
			}
		}()

		opts.Sink = recorder

		log.Info("Recording diagnostics",
			slog.String("path", cfg.DiagnosticPath()),
			slog.String("run", recorder.RunID()),
		)
	}

	ctx, release := withCancellation(cmd.Context(), log)
	defer release()

	return runEngine(ctx, log, engine.New(log, client, process.NewInspector(), opts))
}

// runEngine runs until the overlay closes or the user interrupts
func runEngine(ctx context.Context, log logger.LoggerInterface, e *engine.Engine) error {
	log.Info("Keeping overlay on top, press Ctrl+C to stop",
		slog.String("hwnd", windows.FormatHandle(e.Enforcer().Target())),
	)

	err := e.Run(ctx)

	switch {
	case e.TargetGone():
		log.Info("Overlay window closed")
		return nil
	case errors.Is(err, context.Canceled):
		log.Info("Stopped")
		return nil
	}

	return err
}

// resolveOverlay turns --hwnd or an overlay title into the top-level window
// to enforce. The handle is resolved once and never changes afterwards.
func resolveOverlay(log logger.LoggerInterface, win interfaces.WindowSystem, hwndFlag, title string) (uintptr, error) {
	var hwnd uintptr

	switch {
	case hwndFlag != "":
		h, err := parseHandle(hwndFlag)
		if err != nil {
			return 0, err
		}

		if !win.IsWindow(h) {
			// IsWindow is also false when there is no window manager to ask
			if _, err := win.GetWindowStyle(h, windows.StyleBasic); errors.Is(err, windows.ErrUnsupported) {
				return 0, fmt.Errorf("window %s: %w", windows.FormatHandle(h), err)
			}

			return 0, fmt.Errorf("window %s: %w", windows.FormatHandle(h), engine.ErrTargetGone)
		}

		hwnd = h

	case title != "":
		records, err := engine.NewScanner(log, win).Scan()
		if err != nil {
			return 0, fmt.Errorf("cannot list windows: %w", err)
		}

		matches := engine.MatchAll(title, records)
		if len(matches) == 0 {
			return 0, fmt.Errorf("%w: no window title contains %q", config.ErrNoTarget, title)
		}

		if len(matches) > 1 {
			log.Warn("Several windows match the overlay title, using the first",
				slog.String("title", title),
				slog.Int("matches", len(matches)),
			)

			for i, m := range matches {
				log.Info(fmt.Sprintf("  %d. %s (%s)", i+1, m.Title, windows.FormatHandle(m.Hwnd)))
			}
		}

		hwnd = matches[0].Hwnd

	default:
		return 0, fmt.Errorf("%w: pass --hwnd or --overlay-title", config.ErrNoTarget)
	}

	// Toolkits often hand out the client area rather than the frame
	if root := win.GetRootWindow(hwnd); root != 0 && root != hwnd {
		log.Debug("Using top-level window",
			slog.String("given", windows.FormatHandle(hwnd)),
			slog.String("root", windows.FormatHandle(root)),
		)

		hwnd = root
	}

	return hwnd, nil
}

// parseHandle accepts a decimal handle or a 0x-prefixed hex one as Spy++
// shows it. Leading zeros on a decimal handle do not make it octal.
func parseHandle(s string) (uintptr, error) {
	digits, base := strings.TrimSpace(s), 10
	if len(digits) > 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits, base = digits[2:], 16
	}

	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid window handle %q: %w", s, err)
	}

	if v == 0 {
		return 0, fmt.Errorf("invalid window handle %q: must not be zero", s)
	}

	return uintptr(v), nil
}
