// Package config loads ontop's YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Norgate-AV/ontop/internal/diagnostics"
	"github.com/Norgate-AV/ontop/internal/logger"
	"github.com/Norgate-AV/ontop/internal/timeouts"
)

// FileName is the config file name inside the application directory
const FileName = "config.yaml"

// ErrNoTarget is returned when a command needs a target window but neither a
// flag, the config file, nor an interactive choice supplied one.
var ErrNoTarget = errors.New("no target window specified")

// Duration is a time.Duration written as a Go duration string ("500ms")
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("line %d: expected a duration string: %w", value.Line, err)
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*d = Duration(parsed)

	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Config is the on-disk configuration. Command-line flags override it.
type Config struct {
	// TargetTitle is a substring of the window to switch to windowed mode
	TargetTitle string `yaml:"target_title,omitempty"`

	// OverlayTitle is a substring of the overlay window to keep on top
	OverlayTitle string `yaml:"overlay_title,omitempty"`

	EnforceInterval    Duration `yaml:"enforce_interval"`
	AcquireInterval    Duration `yaml:"acquire_interval"`
	DiagnosticInterval Duration `yaml:"diagnostic_interval"`

	Diagnostics    bool   `yaml:"diagnostics"`
	DiagnosticFile string `yaml:"diagnostic_file,omitempty"` // If empty, written next to the log file

	LogDir  string `yaml:"log_dir,omitempty"` // If empty, uses %LOCALAPPDATA%\ontop
	Verbose bool   `yaml:"verbose"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		EnforceInterval:    Duration(timeouts.EnforceInterval),
		AcquireInterval:    Duration(timeouts.AcquireInterval),
		DiagnosticInterval: Duration(timeouts.DiagnosticInterval),
	}
}

// DefaultPath returns %LOCALAPPDATA%\ontop\config.yaml
func DefaultPath() string {
	return filepath.Join(logger.DefaultDir(), FileName)
}

// LoadFromPath reads path over the defaults. A missing file is not an error.
// Unknown keys are, so that typos don't silently fall back to defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}

// ValidationError names the offending key
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

var errNotPositive = errors.New("must be greater than zero")

// Validate rejects intervals that would spin the scheduler
func (c *Config) Validate() error {
	intervals := []struct {
		path  string
		value Duration
	}{
		{"enforce_interval", c.EnforceInterval},
		{"acquire_interval", c.AcquireInterval},
		{"diagnostic_interval", c.DiagnosticInterval},
	}

	for _, iv := range intervals {
		if iv.value <= 0 {
			return &ValidationError{Path: iv.path, Err: fmt.Errorf("%w, got %s", errNotPositive, iv.value)}
		}
	}

	return nil
}

// DiagnosticPath returns where diagnostic samples are written
func (c *Config) DiagnosticPath() string {
	if c.DiagnosticFile != "" {
		return c.DiagnosticFile
	}

	return diagnostics.DefaultPath(c.LogDir)
}
