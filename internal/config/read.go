package config

import (
	"fmt"
	"strings"

	"github.com/lgbarn/pgnfmt-go/internal/errors"
)

// ErrorPolicy decides what happens when a turn fragment cannot be parsed.
type ErrorPolicy int

const (
	// Abort stops processing and reports the error. No games are output.
	Abort ErrorPolicy = iota
	// SkipTurn drops the offending turn and keeps parsing the record.
	SkipTurn
	// SkipRecord drops the whole record and moves on to the next one.
	SkipRecord
)

var errorPolicyNames = map[string]ErrorPolicy{
	"abort":       Abort,
	"skip-turn":   SkipTurn,
	"skip-record": SkipRecord,
}

// String returns the flag spelling of a policy.
func (p ErrorPolicy) String() string {
	switch p {
	case Abort:
		return "abort"
	case SkipTurn:
		return "skip-turn"
	case SkipRecord:
		return "skip-record"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", int(p))
	}
}

// Strict reports whether failures abort the run.
func (p ErrorPolicy) Strict() bool {
	return p == Abort
}

// ParseErrorPolicy converts a policy name as used on the command line.
func ParseErrorPolicy(name string) (ErrorPolicy, error) {
	if p, ok := errorPolicyNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p, nil
	}
	return Abort, fmt.Errorf("unknown error policy %q (want abort, skip-turn or skip-record): %w",
		name, errors.ErrInvalidConfig)
}

// ReadConfig holds settings related to reading records.
type ReadConfig struct {
	// SemicolonComments treats "; text" up to the end of a line as a
	// comment. When false only brace comments are recognised and a
	// semicolon is passed through as part of the move text.
	SemicolonComments bool

	// ErrorPolicy controls recovery from unparsable turns and records.
	ErrorPolicy ErrorPolicy

	// Rules replays moves on a board that checks legality. When false
	// move tokens are recorded verbatim.
	Rules bool
}

// NewReadConfig creates a ReadConfig with default values.
func NewReadConfig() *ReadConfig {
	return &ReadConfig{
		SemicolonComments: true,
		ErrorPolicy:       Abort,
		Rules:             true,
	}
}
