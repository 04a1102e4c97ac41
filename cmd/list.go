package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Norgate-AV/ontop/internal/engine"
	"github.com/Norgate-AV/ontop/internal/windows"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible windows that have a title",
	Long: `List every visible top-level window that has a title, in the order the
window manager reports them. Use the handle with "ontop pin --hwnd" or any
part of the title with --title / --overlay-title.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringP("filter", "f", "", "only list windows whose title contains this text (case-insensitive)")
}

var (
	indexStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	handleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

func runList(cmd *cobra.Command, args []string) error {
	_, log, err := startup(cmd)
	if err != nil {
		return err
	}

	defer log.Close()
	defer recoverPanic(log)

	records, err := engine.NewScanner(log, windows.NewClient(log)).Scan()
	if err != nil {
		return fmt.Errorf("cannot list windows: %w", err)
	}

	if filter := getStringFlag(cmd, "filter"); filter != "" {
		records = engine.MatchAll(filter, records)
	}

	printWindowList(cmd.OutOrStdout(), records)

	return nil
}

// printWindowList writes one "index  handle  title" row per window
func printWindowList(w io.Writer, records []windows.WindowInfo) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No matching windows")
		return
	}

	for i, r := range records {
		fmt.Fprintf(w, "%s  %s  %s\n",
			indexStyle.Render(fmt.Sprintf("%3d", i+1)),
			handleStyle.Render(windows.FormatHandle(r.Hwnd)),
			titleStyle.Render(r.Title),
		)
	}
}
