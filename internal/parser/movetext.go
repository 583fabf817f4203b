// Package parser reads PGN record streams and splits move text into plies.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/lgbarn/pgnfmt-go/internal/chess"
	"github.com/lgbarn/pgnfmt-go/internal/config"
	"github.com/lgbarn/pgnfmt-go/internal/errors"
	"github.com/lgbarn/pgnfmt-go/internal/logging"
)

var (
	// moveNumberRegex matches "12." and "12..." turn markers.
	moveNumberRegex = regexp.MustCompile(`[0-9]+\.{3}|[0-9]+\.`)

	// braceCommentRegex matches the first brace comment.
	braceCommentRegex = regexp.MustCompile(`\{([^}]*)\}`)

	// leadingCommentRegex matches a brace comment with more text after it.
	leadingCommentRegex = regexp.MustCompile(`(?s)\{([^}]*)\}.+`)

	// trailingCommentRegex matches a brace comment that ends the fragment.
	trailingCommentRegex = regexp.MustCompile(`\{([^}]*)\}$`)
)

// Fragment is the text following one move-number marker, up to the next.
type Fragment struct {
	Text string

	// Number is the move number of the marker, 0 for text before the first.
	Number int

	// Continuation is true for "N..." markers.
	Continuation bool

	// Offset is the byte offset of Text within the move text.
	Offset int
}

// SplitTurns splits move text on move-number markers. Markers inside brace
// comments or attached to a preceding letter or digit are not treated as
// turn boundaries.
func SplitTurns(movetext string) []Fragment {
	comments := braceCommentRegex.FindAllStringIndex(movetext, -1)
	insideComment := func(pos int) bool {
		for _, span := range comments {
			if pos > span[0] && pos < span[1] {
				return true
			}
		}
		return false
	}

	var markers [][]int
	for _, m := range moveNumberRegex.FindAllStringIndex(movetext, -1) {
		if m[0] > 0 && isWordByte(movetext[m[0]-1]) {
			continue
		}
		if insideComment(m[0]) {
			continue
		}
		markers = append(markers, m)
	}

	fragments := make([]Fragment, 0, len(markers)+1)
	end := len(movetext)
	if len(markers) > 0 {
		end = markers[0][0]
	}
	fragments = append(fragments, Fragment{Text: movetext[:end]})

	for i, m := range markers {
		end := len(movetext)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		marker := movetext[m[0]:m[1]]
		digits := strings.TrimRight(marker, ".")
		number, _ := strconv.Atoi(digits) //nolint:errcheck // regex guarantees digits
		fragments = append(fragments, Fragment{
			Text:         movetext[m[1]:end],
			Number:       number,
			Continuation: strings.HasSuffix(marker, "..."),
			Offset:       m[1],
		})
	}
	return fragments
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// TurnText is a fragment decomposed into at most two move tokens and the
// comments positioned after each.
type TurnText struct {
	Moves    []string
	Comments []*string
}

// SplitFragment isolates the move tokens and brace comments of a fragment.
// It returns a PlyError when the tokens cannot be isolated.
func SplitFragment(f Fragment) (*TurnText, error) {
	text := strings.TrimSpace(f.Text)
	if text == "" {
		return &TurnText{}, nil
	}

	fail := func(reason string) error {
		return &errors.PlyError{
			Err:      fmt.Errorf("%s: %w", reason, errors.ErrUnparsablePly),
			Fragment: f.Text,
			Turn:     f.Number,
			Offset:   f.Offset,
		}
	}

	if reason := checkBraces(text); reason != "" {
		return nil, fail(reason)
	}

	first, rest := cutSpace(text)
	if i := strings.IndexByte(first, '{'); i >= 0 {
		rest = first[i:] + " " + rest
		first = first[:i]
	}
	if first == "" {
		return nil, fail("comment in move position")
	}

	others := strings.Fields(braceCommentRegex.ReplaceAllString(rest, " "))
	second := ""
	if len(others) > 0 {
		second = others[0]
	}
	for _, extra := range others[min(1, len(others)):] {
		if !chess.IsResult(extra) {
			return nil, fail(fmt.Sprintf("unexpected token %q", extra))
		}
	}

	if second == "" {
		return &TurnText{
			Moves:    []string{first},
			Comments: []*string{submatch(braceCommentRegex, text)},
		}, nil
	}
	return &TurnText{
		Moves: []string{first, second},
		Comments: []*string{
			submatch(leadingCommentRegex, text),
			submatch(trailingCommentRegex, text),
		},
	}, nil
}

// checkBraces reports unbalanced or nested brace comments.
func checkBraces(s string) string {
	open := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if open {
				return "nested comment"
			}
			open = true
		case '}':
			if !open {
				return "unopened comment"
			}
			open = false
		}
	}
	if open {
		return "unterminated comment"
	}
	return ""
}

// cutSpace splits s at its first run of whitespace.
func cutSpace(s string) (string, string) {
	i := strings.IndexAny(s, " \t\r\n")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t\r\n")
}

// submatch returns the comment body captured by re, or nil when there is no
// match or the braces are empty.
func submatch(re *regexp.Regexp, s string) *string {
	m := re.FindStringSubmatch(s)
	if m == nil || m[1] == "" {
		return nil
	}
	return &m[1]
}

// CleanMove strips result markers from a move token. An empty return means
// the token held no move.
func CleanMove(token string) string {
	for _, r := range chess.Results {
		token = strings.ReplaceAll(token, r, "")
	}
	token = strings.TrimSpace(token)
	if token == chess.Unfinished {
		return ""
	}
	return token
}

// MoveTextParser turns move text into plies by driving a MoveApplier.
type MoveTextParser struct {
	policy config.ErrorPolicy
	logger *zap.Logger
}

// NewMoveTextParser creates a parser using the error policy from cfg.
// A nil logger discards warnings.
func NewMoveTextParser(cfg *config.Config, logger *zap.Logger) *MoveTextParser {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &MoveTextParser{
		policy: cfg.Read.ErrorPolicy,
		logger: logging.OrNop(logger),
	}
}

// Parse splits movetext into turns, calling applier once per move in order
// and attaching extracted comments to the returned plies. Errors from the
// applier are returned unchanged. Unparsable fragments return a
// *errors.PlyError unless the policy is SkipTurn, in which case the turn is
// logged and dropped. The turns parsed before a failure are returned with
// the error.
func (p *MoveTextParser) Parse(movetext string, applier chess.MoveApplier) ([]*chess.Turn, error) {
	var turns []*chess.Turn

	for i, f := range SplitTurns(movetext) {
		if len(f.Text) == 0 {
			continue
		}
		if i == 0 && isCommentary(f.Text) {
			continue
		}

		tt, err := SplitFragment(f)
		if err != nil {
			if p.policy == config.SkipTurn {
				p.logger.Warn("skipping unparsable turn",
					zap.Int("turn", f.Number),
					zap.Int("offset", f.Offset),
					zap.String("fragment", strings.TrimSpace(f.Text)),
					zap.Error(err))
				continue
			}
			return turns, err
		}

		turn, err := applyTurn(f, tt, applier)
		if err != nil {
			return turns, err
		}
		if len(turn.Plies) > 0 {
			turns = append(turns, turn)
		}
	}
	return turns, nil
}

func applyTurn(f Fragment, tt *TurnText, applier chess.MoveApplier) (*chess.Turn, error) {
	turn := &chess.Turn{Number: f.Number, Continuation: f.Continuation}
	for i, token := range tt.Moves {
		move := CleanMove(token)
		if move == "" {
			continue
		}
		ply, err := applier.ApplyMove(move)
		if err != nil {
			return turn, err
		}
		if ply == nil {
			continue
		}
		if c := tt.Comments[i]; c != nil {
			ply.SetComment(*c)
		}
		turn.Plies = append(turn.Plies, ply)
	}
	return turn, nil
}

// isCommentary reports whether s holds nothing but whitespace and brace
// comments.
func isCommentary(s string) bool {
	return strings.TrimSpace(braceCommentRegex.ReplaceAllString(s, "")) == ""
}
