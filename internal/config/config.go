// Package config provides configuration for pgnfmt.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/lgbarn/pgnfmt-go/internal/errors"
)

// Config holds all program configuration.
type Config struct {
	// Verbosity: 0=nothing, 1=game count, 2=running commentary
	Verbosity int

	// Input handling
	Read ReadConfig

	// Output formatting
	Output OutputConfig

	// Logging
	Log LogConfig

	// Workers is the number of goroutines replaying records. Each worker
	// replays onto its own board.
	Workers int

	// File handling
	CurrentInputFile string

	// Output streams
	OutputFile io.Writer
	LogFile    io.Writer
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string

	// File, when set, receives a rotated JSON copy of the log.
	File string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Verbosity:  1,
		Read:       *NewReadConfig(),
		Output:     *NewOutputConfig(),
		Log:        LogConfig{Level: "info"},
		Workers:    1,
		OutputFile: os.Stdout,
		LogFile:    os.Stderr,
	}
}

// SetOutput sets the output writer.
func (c *Config) SetOutput(w io.Writer) {
	c.OutputFile = w
}

// Validate reports settings that cannot be honoured.
func (c *Config) Validate() error {
	if c.Output.MaxLineLength == 0 {
		return fmt.Errorf("line length must be positive: %w", errors.ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d: %w", c.Workers, errors.ErrInvalidConfig)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity must not be negative: %w", errors.ErrInvalidConfig)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q: %w", c.Log.Level, errors.ErrInvalidConfig)
	}
	return nil
}
