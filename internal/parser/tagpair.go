package parser

import (
	"regexp"

	"github.com/lgbarn/pgnfmt-go/internal/chess"
	"github.com/lgbarn/pgnfmt-go/internal/errors"
)

// tagLineRegex matches [Key "Value"]; the key is one non-whitespace token.
var tagLineRegex = regexp.MustCompile(`^\[(\S+)\s+"(.*)"\]$`)

// ParseTagLine parses a single tag line.
func ParseTagLine(line string) (chess.TagPair, error) {
	m := tagLineRegex.FindStringSubmatch(line)
	if m == nil {
		return chess.TagPair{}, &errors.ParseError{Err: errors.ErrMalformedTag, Got: line}
	}
	return chess.TagPair{Key: m[1], Value: chess.UnescapeTagValue(m[2])}, nil
}
