// Package cmd implements the command-line interface for ontop.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/ontop/internal/config"
)

// Config is the file configuration with command-line flags applied on top
type Config struct {
	*config.Config

	ShowLogs   bool
	ConfigPath string
}

// NewConfigFromFlags loads the config file (--config, or the default path)
// and overrides it with every flag the user actually set.
func NewConfigFromFlags(cmd *cobra.Command) (*Config, error) {
	path := getStringFlag(cmd, "config")
	if path == "" {
		path = config.DefaultPath()
	}

	file, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}

	applyFlagOverrides(cmd, file)

	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	return &Config{
		Config:     file,
		ShowLogs:   getBoolFlag(cmd, "logs"),
		ConfigPath: path,
	}, nil
}

// applyFlagOverrides copies changed flags into c. Unset flags never clobber
// values from the file, even when their default differs.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	if flagChanged(cmd, "verbose") {
		c.Verbose = getBoolFlag(cmd, "verbose")
	}

	if flagChanged(cmd, "title") {
		c.TargetTitle = getStringFlag(cmd, "title")
	}

	if flagChanged(cmd, "target") {
		c.TargetTitle = getStringFlag(cmd, "target")
	}

	if flagChanged(cmd, "overlay-title") {
		c.OverlayTitle = getStringFlag(cmd, "overlay-title")
	}

	if flagChanged(cmd, "diagnostics") {
		c.Diagnostics = getBoolFlag(cmd, "diagnostics")
	}

	if flagChanged(cmd, "diagnostic-file") {
		c.DiagnosticFile = getStringFlag(cmd, "diagnostic-file")
	}

	if flagChanged(cmd, "log-dir") {
		c.LogDir = getStringFlag(cmd, "log-dir")
	}

	if flagChanged(cmd, "enforce-interval") {
		d, _ := cmd.Flags().GetDuration("enforce-interval")
		c.EnforceInterval = config.Duration(d)
	}

	if flagChanged(cmd, "acquire-interval") {
		d, _ := cmd.Flags().GetDuration("acquire-interval")
		c.AcquireInterval = config.Duration(d)
	}
}

// flagChanged reports whether a local or inherited flag was set explicitly
func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		f = cmd.PersistentFlags().Lookup(name)
	}

	return f != nil && f.Changed
}

// getBoolFlag retrieves a boolean flag, checking both local and persistent flags
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		// Try persistent flags if not found in local flags
		val, _ = cmd.PersistentFlags().GetBool(name)
	}

	return val
}

// getStringFlag retrieves a string flag, checking both local and persistent flags
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		val, _ = cmd.PersistentFlags().GetString(name)
	}

	return val
}
