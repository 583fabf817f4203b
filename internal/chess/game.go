package chess

import (
	"fmt"
	"strings"

	"github.com/lgbarn/pgnfmt-go/internal/errors"
)

// Game is one record of a PGN stream: its tag pairs and raw move text.
// The move text is not interpreted until it is replayed onto a board.
type Game struct {
	// Tags for this game in the order they were read.
	Tags TagPairs

	// MoveText is the record's move text, physical lines joined by spaces.
	MoveText string

	// Title is derived once at construction and never recomputed.
	Title string

	// Line numbers of the start and end of the game in the input.
	StartLine int
	EndLine   int
}

// NewGame creates a game from its tag pairs and move text. All seven
// required tags must be present.
func NewGame(tags TagPairs, movetext string) (*Game, error) {
	if missing := tags.Missing(SevenTagRoster); len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w", strings.Join(missing, ", "), errors.ErrMissingTag)
	}
	g := &Game{
		Tags:     tags,
		MoveText: movetext,
	}
	g.Title = FormatTitle(tags)
	return g, nil
}

// FormatTitle renders "<Date> <Event>: <White> vs. <Black> <Result>" using
// the surname part of the player tags.
func FormatTitle(tags TagPairs) string {
	return fmt.Sprintf("%s %s: %s vs. %s %s",
		tags.Get(DateTag),
		tags.Get(EventTag),
		Surname(tags.Get(WhiteTag)),
		Surname(tags.Get(BlackTag)),
		tags.Get(ResultTag))
}

// Surname returns the text before the first comma of a player name.
func Surname(name string) string {
	surname, _, _ := strings.Cut(name, ",")
	return surname
}

// Tag returns a tag value, or empty string if not present.
func (g *Game) Tag(name string) string {
	return g.Tags.Get(name)
}

// White returns the White player name.
func (g *Game) White() string {
	return g.Tag(WhiteTag)
}

// Black returns the Black player name.
func (g *Game) Black() string {
	return g.Tag(BlackTag)
}

// Result returns the game result.
func (g *Game) Result() string {
	return g.Tag(ResultTag)
}

// Event returns the event name.
func (g *Game) Event() string {
	return g.Tag(EventTag)
}

// Date returns the date string.
func (g *Game) Date() string {
	return g.Tag(DateTag)
}
