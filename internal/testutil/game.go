package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lgbarn/pgnfmt-go/internal/board"
	"github.com/lgbarn/pgnfmt-go/internal/chess"
	"github.com/lgbarn/pgnfmt-go/internal/parser"
)

// RosterPGN builds a record with the seven required tags and the given
// move text. Event, White, Black and Result vary; the rest are fixed.
func RosterPGN(event, white, black, result, movetext string) string {
	var sb strings.Builder
	for _, tp := range []chess.TagPair{
		{Key: chess.EventTag, Value: event},
		{Key: chess.SiteTag, Value: "?"},
		{Key: chess.DateTag, Value: "2024.01.01"},
		{Key: chess.RoundTag, Value: "1"},
		{Key: chess.WhiteTag, Value: white},
		{Key: chess.BlackTag, Value: black},
		{Key: chess.ResultTag, Value: result},
	} {
		fmt.Fprintln(&sb, tp.String())
	}
	fmt.Fprintf(&sb, "\n%s\n\n", movetext)
	return sb.String()
}

// MustReadGames reads every game of pgn with the default configuration.
// It calls t.Fatal on error or when no game is found.
func MustReadGames(t *testing.T, pgn string) []*chess.Game {
	t.Helper()
	games, err := parser.ReadAll(strings.NewReader(pgn), nil, nil)
	if err != nil {
		t.Fatalf("failed to read games: %v\n%s", err, pgn)
	}
	if len(games) == 0 {
		t.Fatalf("no games found in:\n%s", pgn)
	}
	return games
}

// MustReplay replays game onto a fresh board, failing the test on error.
func MustReplay(t *testing.T, game *chess.Game) *board.Board {
	t.Helper()
	b := board.New()
	if _, err := parser.NewMoveTextParser(nil, nil).Replay(game, b); err != nil {
		t.Fatalf("replay %q: %v", game.Title, err)
	}
	return b
}

// MoveTexts returns the text of each ply.
func MoveTexts(history []*chess.Ply) []string {
	texts := make([]string, len(history))
	for i, p := range history {
		texts[i] = p.Text
	}
	return texts
}
