package config

import (
	"fmt"
	"strings"

	"github.com/lgbarn/pgnfmt-go/internal/errors"
)

// OutputFormat represents the serialization used for output.
type OutputFormat int

const (
	PGN OutputFormat = iota
	JSON
	YAML
)

// String returns the flag spelling of a format.
func (f OutputFormat) String() string {
	switch f {
	case PGN:
		return "pgn"
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return fmt.Sprintf("OutputFormat(%d)", int(f))
	}
}

// ParseOutputFormat converts a format name as used on the command line.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pgn":
		return PGN, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return PGN, fmt.Errorf("unknown output format %q: %w", name, errors.ErrInvalidConfig)
	}
}

// OutputConfig holds settings related to output formatting.
type OutputConfig struct {
	// Format specifies the serialization (PGN, JSON, YAML)
	Format OutputFormat

	// MaxLineLength is the column limit for PGN move text; no line
	// reaches it unless a single turn is longer
	MaxLineLength uint

	// KeepResults appends the Result tag value to the move text
	KeepResults bool

	// KeepComments controls whether comments are kept in output
	KeepComments bool

	// TitlesOnly prints one title line per game instead of the game
	TitlesOnly bool
}

// NewOutputConfig creates an OutputConfig with default values.
func NewOutputConfig() *OutputConfig {
	return &OutputConfig{
		Format:        PGN,
		MaxLineLength: 80,
		KeepResults:   true,
		KeepComments:  true,
	}
}
