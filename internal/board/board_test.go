package board

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgbarn/pgnfmt-go/internal/chess"
	"github.com/lgbarn/pgnfmt-go/internal/config"
	"github.com/lgbarn/pgnfmt-go/internal/errors"
	"github.com/lgbarn/pgnfmt-go/internal/output"
	"github.com/lgbarn/pgnfmt-go/internal/parser"
)

const scholarsMate = `[Event "Casual Game"]
[Site "?"]
[Date "2024.02.03"]
[Round "?"]
[White "Smith, J"]
[Black "Doe, A"]
[Result "1-0"]

1. e4 {King's pawn} e5 2. Bc4 Nc6 3. Qh5 Nf6 {?? loses} 4. Qxf7# 1-0
`

func TestBoardApplyMove(t *testing.T) {
	b := New()

	ply, err := b.ApplyMove("e4")
	require.NoError(t, err)
	assert.Equal(t, "e4", ply.Text)
	assert.Equal(t, chess.Black, b.Turn())

	_, err = b.ApplyMove("e5")
	require.NoError(t, err)
	assert.Len(t, b.History(), 2)
	assert.Equal(t, chess.White, b.Turn())
	assert.True(t, strings.HasPrefix(b.FEN(), "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w"))
}

func TestBoardRejectsIllegalMove(t *testing.T) {
	b := New()
	_, err := b.ApplyMove("e5")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrIllegalMove)
	assert.Contains(t, err.Error(), `"e5"`)
	assert.Empty(t, b.History())
}

func TestBoardDefaults(t *testing.T) {
	b := New()
	assert.Empty(t, b.TagPairs().Missing(chess.SevenTagRoster))
	assert.Equal(t, "casual game", b.TagPairs().Get(chess.EventTag))
	assert.Equal(t, chess.Unfinished, b.Result())

	b.SetTagPairs(nil)
	assert.Len(t, b.TagPairs(), len(chess.SevenTagRoster))
}

func TestBoardResult(t *testing.T) {
	b := New()
	require.NoError(t, b.SetResult(chess.Draw))
	assert.Equal(t, chess.Draw, b.Result())
	assert.Equal(t, chess.Draw, b.TagPairs().Get(chess.ResultTag))

	assert.ErrorIs(t, b.SetResult("2-0"), errors.ErrInvalidResult)
}

func TestBoardOutcome(t *testing.T) {
	b := New()
	for _, mv := range []string{"f3", "e5", "g4", "Qh4#"} {
		_, err := b.ApplyMove(mv)
		require.NoError(t, err, mv)
	}
	assert.Equal(t, chess.BlackWins, b.Result())
}

func TestFromFEN(t *testing.T) {
	b, err := FromFEN("4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	require.NoError(t, err)
	_, err = b.ApplyMove("O-O")
	require.NoError(t, err)

	_, err = FromFEN("not a position")
	assert.Error(t, err)
}

func TestRecorderAcceptsAnything(t *testing.T) {
	r := NewRecorder()
	for _, mv := range []string{"e5", "Zz9", "e5"} {
		_, err := r.ApplyMove(mv)
		require.NoError(t, err)
	}
	assert.Len(t, r.History(), 3)
	assert.Len(t, r.Turns(), 2)
	assert.Equal(t, chess.Unfinished, r.Result())
}

func TestReplayOntoBoard(t *testing.T) {
	games, err := parser.ReadAll(strings.NewReader(scholarsMate), nil, nil)
	require.NoError(t, err)
	require.Len(t, games, 1)

	b := New()
	turns, err := parser.NewMoveTextParser(nil, nil).Replay(games[0], b)
	require.NoError(t, err)

	assert.Len(t, turns, 4)
	assert.Equal(t, 7, chess.PlyCount(turns))
	assert.Equal(t, "Smith, J", b.TagPairs().Get(chess.WhiteTag))
	assert.Equal(t, chess.WhiteWins, b.Result())

	history := b.History()
	require.Len(t, history, 7)
	require.NotNil(t, history[0].Comment)
	assert.Equal(t, "King's pawn", history[0].Comment.Text)
	assert.Nil(t, history[1].Comment)
	require.NotNil(t, history[5].Comment)
	assert.Equal(t, "?? loses", history[5].Comment.Text)
}

func TestReplayIllegalMove(t *testing.T) {
	games, err := parser.ReadAll(strings.NewReader(strings.Replace(scholarsMate, "Bc4", "Bc5", 1)), nil, nil)
	require.NoError(t, err)

	b := New()
	_, err = parser.NewMoveTextParser(nil, nil).Replay(games[0], b)
	assert.ErrorIs(t, err, errors.ErrIllegalMove)
	assert.Len(t, b.History(), 2)
}

type plyView struct {
	Text    string
	Comment string
	Has     bool
}

func view(history []*chess.Ply) []plyView {
	out := make([]plyView, len(history))
	for i, p := range history {
		out[i] = plyView{Text: p.Text, Has: p.Comment != nil}
		if p.Comment != nil {
			out[i].Comment = p.Comment.Text
		}
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	cfg := config.NewConfig()
	games, err := parser.ReadAll(strings.NewReader(scholarsMate), cfg, nil)
	require.NoError(t, err)

	first := New()
	_, err = parser.NewMoveTextParser(cfg, nil).Replay(games[0], first)
	require.NoError(t, err)

	text := first.PGN(output.NewSerializer(cfg))
	assert.Contains(t, text, "1. e4 {King's pawn} 1... e5 2. Bc4 Nc6 3. Qh5 Nf6 {?? loses} 4. Qxf7# 1-0")

	again, err := parser.ReadAll(strings.NewReader(text), cfg, nil)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, games[0].Title, again[0].Title)

	second := New()
	_, err = parser.NewMoveTextParser(cfg, nil).Replay(again[0], second)
	require.NoError(t, err)

	if diff := cmp.Diff(view(first.History()), view(second.History())); diff != "" {
		t.Errorf("round trip changed history (-first +second):\n%s", diff)
	}
	assert.Equal(t, first.TagPairs(), second.TagPairs())
}

func TestRoundTripEmptyComment(t *testing.T) {
	p := parser.NewMoveTextParser(nil, nil)
	s := output.NewSerializer(nil)

	first := New()
	_, err := p.Parse("1. e4 {   } e5 2. Nf3", first)
	require.NoError(t, err)
	require.NotNil(t, first.History()[0].Comment)

	text := s.MoveText(first.History(), "")
	assert.Equal(t, "1. e4 { } 1... e5 2. Nf3", text)

	second := New()
	_, err = p.Parse(text, second)
	require.NoError(t, err)
	if diff := cmp.Diff(view(first.History()), view(second.History())); diff != "" {
		t.Errorf("round trip changed history (-first +second):\n%s", diff)
	}
	assert.Equal(t, text, s.MoveText(second.History(), ""))
}
