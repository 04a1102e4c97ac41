package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Norgate-AV/ontop/internal/config"
	"github.com/Norgate-AV/ontop/internal/engine"
	"github.com/Norgate-AV/ontop/internal/interfaces"
	"github.com/Norgate-AV/ontop/internal/logger"
	"github.com/Norgate-AV/ontop/internal/timeouts"
	"github.com/Norgate-AV/ontop/internal/windows"
)

var windowedCmd = &cobra.Command{
	Use:   "windowed",
	Short: "Switch a borderless full-screen window to a bordered window",
	Long: `Give a borderless (popup) window a normal resizable frame, so that an
overlay can be kept above it.

With --title (or target_title in the config file) ontop waits for a window
whose title contains the text, switches it once and exits. Without a title
it lists the current windows and lets you pick one.`,
	Args: cobra.NoArgs,
	RunE: runWindowed,
}

func init() {
	windowedCmd.Flags().StringP("title", "t", "", "wait for a window whose title contains this text (case-insensitive)")
	windowedCmd.Flags().Duration("acquire-interval", timeouts.AcquireInterval, "how often to look for the window")
	windowedCmd.Flags().Bool("elevate", false, "relaunch as administrator first (needed for games running elevated)")
}

// windowPicker lets the user choose a window. ok is false when they cancel.
type windowPicker func(records []windows.WindowInfo) (choice windows.WindowInfo, ok bool, err error)

// isInteractive reports whether a picker can be shown
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runWindowed(cmd *cobra.Command, args []string) error {
	cfg, log, err := startup(cmd)
	if err != nil {
		return err
	}

	defer log.Close()
	defer recoverPanic(log)

	if getBoolFlag(cmd, "elevate") {
		if err := ensureElevated(log); err != nil {
			return err
		}
	}

	client := windows.NewClient(log)

	if cfg.TargetTitle != "" {
		ctx, release := withCancellation(cmd.Context(), log)
		defer release()

		return acquireByTitle(ctx, log, client, cfg.TargetTitle, cfg.AcquireInterval.Std())
	}

	if !isInteractive() {
		return fmt.Errorf("%w: pass --title or set target_title in %s", config.ErrNoTarget, cfg.ConfigPath)
	}

	return pickAndApply(log, client, huhPicker)
}

// acquireByTitle waits for the title to appear and switches that window once
func acquireByTitle(ctx context.Context, log logger.LoggerInterface, win interfaces.WindowSystem, title string, interval time.Duration) error {
	e := engine.New(log, win, nil, engine.Options{
		TargetTitle:     title,
		AcquireInterval: interval,
	})

	log.Info("Waiting for target window, press Ctrl+C to give up", slog.String("title", title))

	if err := e.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("Stopped before the target window appeared")
			return nil
		}

		return err
	}

	if err := e.Acquirer().Err(); err != nil {
		return fmt.Errorf("could not switch %q to windowed: %w", title, err)
	}

	return nil
}

// pickAndApply shows the current windows and switches the chosen one
func pickAndApply(log logger.LoggerInterface, win interfaces.WindowSystem, pick windowPicker) error {
	records, err := engine.NewScanner(log, win).Scan()
	if err != nil {
		return fmt.Errorf("cannot list windows: %w", err)
	}

	if len(records) == 0 {
		return fmt.Errorf("%w: no visible windows with a title", config.ErrNoTarget)
	}

	target, ok, err := pick(records)
	if err != nil {
		return err
	}

	if !ok {
		log.Info("Cancelled, no window changed")
		return nil
	}

	log.Debug("Window chosen",
		slog.String("title", target.Title),
		slog.String("hwnd", windows.FormatHandle(target.Hwnd)),
	)

	style, err := engine.NewStyleMutator(log, win).ApplyStyleDelta(target.Hwnd, engine.WindowedDelta)
	if err != nil {
		return fmt.Errorf("could not switch %q to windowed: %w", target.Title, err)
	}

	log.Info("Window switched to windowed presentation",
		slog.String("title", target.Title),
		slog.String("style", windows.FormatStyle(style)),
	)

	return nil
}

// huhPicker asks on the terminal, with Cancel as the last option
func huhPicker(records []windows.WindowInfo) (windows.WindowInfo, bool, error) {
	const cancel = -1

	options := make([]huh.Option[int], 0, len(records)+1)
	for i, r := range records {
		options = append(options, huh.NewOption(fmt.Sprintf("%s  %s", windows.FormatHandle(r.Hwnd), r.Title), i))
	}

	options = append(options, huh.NewOption("Cancel", cancel))

	choice := cancel

	err := huh.NewSelect[int]().
		Title("Which window should get a frame?").
		Options(options...).
		Value(&choice).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return windows.WindowInfo{}, false, nil
		}

		return windows.WindowInfo{}, false, fmt.Errorf("window picker: %w", err)
	}

	if choice < 0 || choice >= len(records) {
		return windows.WindowInfo{}, false, nil
	}

	return records[choice], true, nil
}
