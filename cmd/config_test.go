package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/ontop/internal/config"
	"github.com/Norgate-AV/ontop/internal/testutil"
	"github.com/Norgate-AV/ontop/internal/timeouts"
)

// newPinTestCommand builds a command with the same flags as pin plus the
// root's persistent flags
func newPinTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "pin"}

	cmd.PersistentFlags().BoolP("verbose", "V", false, "")
	cmd.PersistentFlags().BoolP("logs", "l", false, "")
	cmd.PersistentFlags().String("config", "", "")
	cmd.PersistentFlags().String("log-dir", "", "")

	cmd.Flags().String("hwnd", "", "")
	cmd.Flags().String("overlay-title", "", "")
	cmd.Flags().String("target", "", "")
	cmd.Flags().Bool("diagnostics", false, "")
	cmd.Flags().String("diagnostic-file", "", "")
	cmd.Flags().Duration("enforce-interval", timeouts.EnforceInterval, "")
	cmd.Flags().Duration("acquire-interval", timeouts.AcquireInterval, "")

	return cmd
}

func TestNewConfigFromFlags_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("LOCALAPPDATA", t.TempDir())

	cmd := newPinTestCommand()
	require.NoError(t, cmd.ParseFlags([]string{}))

	cfg, err := NewConfigFromFlags(cmd)
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg.Config)
	assert.Equal(t, config.DefaultPath(), cfg.ConfigPath)
	assert.False(t, cfg.ShowLogs)
}

func TestNewConfigFromFlags_FileValuesSurviveUnsetFlags(t *testing.T) {
	t.Parallel()

	path := testutil.CreateConfigFile(t, t.TempDir(), `
target_title: CITEEZON
overlay_title: Timer
enforce_interval: 250ms
diagnostics: true
verbose: true
`)

	cmd := newPinTestCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))

	cfg, err := NewConfigFromFlags(cmd)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigPath)
	assert.Equal(t, "CITEEZON", cfg.TargetTitle)
	assert.Equal(t, "Timer", cfg.OverlayTitle)
	assert.Equal(t, 250*time.Millisecond, cfg.EnforceInterval.Std(), "flag default must not clobber the file")
	assert.True(t, cfg.Diagnostics)
	assert.True(t, cfg.Verbose)
}

func TestNewConfigFromFlags_FlagsOverrideFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.CreateConfigFile(t, dir, `
target_title: CITEEZON
overlay_title: Timer
enforce_interval: 250ms
diagnostics: true
`)

	cmd := newPinTestCommand()
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", path,
		"--target", "Solitaire",
		"--overlay-title", "Stopwatch",
		"--enforce-interval", "1s",
		"--acquire-interval", "3s",
		"--diagnostics=false",
		"--diagnostic-file", filepath.Join(dir, "diag.log"),
		"--log-dir", dir,
		"-V",
		"-l",
	}))

	cfg, err := NewConfigFromFlags(cmd)
	require.NoError(t, err)

	assert.Equal(t, "Solitaire", cfg.TargetTitle)
	assert.Equal(t, "Stopwatch", cfg.OverlayTitle)
	assert.Equal(t, time.Second, cfg.EnforceInterval.Std())
	assert.Equal(t, 3*time.Second, cfg.AcquireInterval.Std())
	assert.False(t, cfg.Diagnostics)
	assert.Equal(t, filepath.Join(dir, "diag.log"), cfg.DiagnosticPath())
	assert.Equal(t, dir, cfg.LogDir)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.ShowLogs)
}

func TestNewConfigFromFlags_InvalidInterval(t *testing.T) {
	t.Parallel()

	path := testutil.CreateConfigFile(t, t.TempDir(), "")

	cmd := newPinTestCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--enforce-interval", "0s"}))

	_, err := NewConfigFromFlags(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enforce_interval")
}

func TestNewConfigFromFlags_BrokenFile(t *testing.T) {
	t.Parallel()

	path := testutil.CreateConfigFile(t, t.TempDir(), "enforce_interval: [\n")

	cmd := newPinTestCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))

	_, err := NewConfigFromFlags(cmd)
	assert.Error(t, err)
}

func TestNewConfigFromFlags_WindowedTitle(t *testing.T) {
	t.Parallel()

	path := testutil.CreateConfigFile(t, t.TempDir(), "target_title: CITEEZON\n")

	cmd := &cobra.Command{Use: "windowed"}
	cmd.Flags().String("config", "", "")
	cmd.Flags().StringP("title", "t", "", "")
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "-t", "Battle"}))

	cfg, err := NewConfigFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, "Battle", cfg.TargetTitle)
}
