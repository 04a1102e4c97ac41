package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/ontop/internal/config"
	"github.com/Norgate-AV/ontop/internal/testutil"
	"github.com/Norgate-AV/ontop/internal/timeouts"
)

func TestLoadFromPath_MissingFileGivesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, timeouts.EnforceInterval, cfg.EnforceInterval.Std())
	assert.Equal(t, timeouts.AcquireInterval, cfg.AcquireInterval.Std())
	assert.Equal(t, timeouts.DiagnosticInterval, cfg.DiagnosticInterval.Std())
	assert.False(t, cfg.Diagnostics)
}

func TestLoadFromPath_OverridesDefaults(t *testing.T) {
	t.Parallel()

	path := testutil.CreateConfigFile(t, t.TempDir(), `
target_title: CITEEZON
overlay_title: Battle Timer
enforce_interval: 250ms
diagnostics: true
diagnostic_file: C:\temp\ontop-diag.log
verbose: true
`)

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "CITEEZON", cfg.TargetTitle)
	assert.Equal(t, "Battle Timer", cfg.OverlayTitle)
	assert.Equal(t, 250*time.Millisecond, cfg.EnforceInterval.Std())
	assert.Equal(t, timeouts.AcquireInterval, cfg.AcquireInterval.Std(), "unset keys keep defaults")
	assert.True(t, cfg.Diagnostics)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, `C:\temp\ontop-diag.log`, cfg.DiagnosticPath())
}

func TestLoadFromPath_EmptyFile(t *testing.T) {
	t.Parallel()

	path := testutil.CreateConfigFile(t, t.TempDir(), "")

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadFromPath_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "invalid duration", content: "enforce_interval: soon\n", want: "invalid duration"},
		{name: "sequence", content: "acquire_interval: [1]\n", want: "expected a duration string"},
		{name: "unknown key", content: "enforce_intreval: 1s\n", want: "enforce_intreval"},
		{name: "zero interval", content: "diagnostic_interval: 0s\n", want: "diagnostic_interval"},
		{name: "negative interval", content: "enforce_interval: -1s\n", want: "must be greater than zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := testutil.CreateConfigFile(t, t.TempDir(), tt.content)

			_, err := config.LoadFromPath(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReturnsValidationError(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.AcquireInterval = 0

	err := cfg.Validate()

	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "acquire_interval", verr.Path)
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", config.FileName)

	cfg := config.Default()
	cfg.TargetTitle = "Game"
	cfg.EnforceInterval = config.Duration(750 * time.Millisecond)

	require.NoError(t, cfg.Save(path))

	loaded, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOCALAPPDATA", dir)

	assert.Equal(t, filepath.Join(dir, "ontop", config.FileName), config.DefaultPath())
}

func TestDiagnosticPath_FollowsLogDir(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LogDir = filepath.Join("x", "logs")

	assert.Equal(t, filepath.Join("x", "logs", "diagnostics.log"), cfg.DiagnosticPath())
}
