// Package errors provides sentinel errors and error types for pgnfmt.
// It defines common error conditions and structured error types that preserve
// context while allowing error inspection with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrMalformedTag indicates a tag line that is not of the form [Key "Value"].
	ErrMalformedTag = errors.New("malformed tag line")

	// ErrUnparsablePly indicates a turn fragment whose moves cannot be isolated.
	ErrUnparsablePly = errors.New("unparsable ply fragment")

	// ErrIncompleteRecord indicates tag lines without move text or vice versa.
	ErrIncompleteRecord = errors.New("incomplete record")

	// ErrIllegalMove indicates a move that the board refused to apply.
	ErrIllegalMove = errors.New("illegal move")

	// ErrParseFailure indicates a general PGN parsing error.
	ErrParseFailure = errors.New("parse failure")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingTag indicates a required PGN tag is missing.
	ErrMissingTag = errors.New("missing required tag")

	// ErrInvalidResult indicates a result other than 1-0, 0-1, 1/2-1/2 or *.
	ErrInvalidResult = errors.New("invalid result")
)

// PlyError reports a turn fragment that could not be split into plies.
// Turn is the move number that introduced the fragment and Offset is the
// byte offset of the fragment within the record's move text.
type PlyError struct {
	Err      error
	Fragment string
	Turn     int
	Offset   int
}

// Error returns a formatted error message including the fragment location.
func (e *PlyError) Error() string {
	msg := fmt.Sprintf("turn %d, offset %d: fragment %q", e.Turn, e.Offset, strings.TrimSpace(e.Fragment))
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *PlyError) Unwrap() error {
	return e.Err
}

// GameError wraps errors with game context, including record number,
// ply position, and move information. It implements the error interface
// and supports unwrapping via errors.Is() and errors.As().
type GameError struct {
	Err      error  // The underlying error
	GameNum  int    // 1-based record number in the input
	PlyNum   int    // Ply number where error occurred (0 if not applicable)
	MoveText string // The move text that caused the error (if applicable)
	File     string // Source file name (if known)
	Line     int    // Line number in source file (if known)
}

// Error returns a formatted error message including all available context.
func (e *GameError) Error() string {
	var parts []string

	if e.File != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.File, e.Line))
		} else {
			parts = append(parts, e.File)
		}
	} else if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", e.Line))
	}

	parts = append(parts, fmt.Sprintf("game %d", e.GameNum))

	if e.PlyNum > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.PlyNum))
	}

	if e.MoveText != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.MoveText))
	}

	context := strings.Join(parts, ", ")

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
	return context
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the GameError wrapper.
func (e *GameError) Unwrap() error {
	return e.Err
}

// ParseError represents a line-level parsing error with location context.
type ParseError struct {
	Err  error  // The underlying error
	File string // Source file name
	Line int    // Line number (1-based)
	Got  string // The offending input
}

// Error returns a formatted error message with location and context.
func (e *ParseError) Error() string {
	var parts []string

	if e.File != "" {
		loc := e.File
		if e.Line > 0 {
			loc += fmt.Sprintf(":%d", e.Line)
		}
		parts = append(parts, loc)
	} else if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("line %d", e.Line))
	}

	if e.Got != "" {
		parts = append(parts, fmt.Sprintf("unexpected %q", e.Got))
	}

	if e.Err != nil {
		if len(parts) > 0 {
			return fmt.Sprintf("%s: %v", strings.Join(parts, ": "), e.Err)
		}
		return e.Err.Error()
	}

	if len(parts) > 0 {
		return strings.Join(parts, ": ")
	}
	return "parse error"
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
