package board

import (
	"fmt"
	"time"

	notnil "github.com/notnil/chess"

	"github.com/lgbarn/pgnfmt-go/internal/chess"
	"github.com/lgbarn/pgnfmt-go/internal/errors"
	"github.com/lgbarn/pgnfmt-go/internal/output"
)

// Board replays moves on a real position and rejects illegal ones.
type Board struct {
	history
	game     *notnil.Game
	notation notnil.AlgebraicNotation
}

// New creates a board at the standard starting position with default tag
// pairs.
func New() *Board {
	return &Board{
		history: newHistory(time.Now()),
		game:    notnil.NewGame(),
	}
}

// FromFEN creates a board at the position described by fen.
func FromFEN(fen string) (*Board, error) {
	opt, err := notnil.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("fen %q: %w", fen, err)
	}
	return &Board{
		history: newHistory(time.Now()),
		game:    notnil.NewGame(opt),
	}, nil
}

// ApplyMove decodes text as standard algebraic notation against the current
// position and plays it. The ply keeps the text as written.
func (b *Board) ApplyMove(text string) (*chess.Ply, error) {
	mv, err := b.notation.Decode(b.game.Position(), text)
	if err != nil {
		return nil, fmt.Errorf("move %d %q: %v: %w", len(b.plies)+1, text, err, errors.ErrIllegalMove)
	}
	if err := b.game.Move(mv); err != nil {
		return nil, fmt.Errorf("move %d %q: %v: %w", len(b.plies)+1, text, err, errors.ErrIllegalMove)
	}
	return b.record(text), nil
}

// Turn returns the side to move.
func (b *Board) Turn() chess.Colour {
	if b.game.Position().Turn() == notnil.Black {
		return chess.Black
	}
	return chess.White
}

// FEN returns the current position.
func (b *Board) FEN() string {
	return b.game.Position().String()
}

// Result returns the explicit result if one was set, then the outcome
// reached on the board (checkmate, stalemate and other automatic draws),
// then the Result tag.
func (b *Board) Result() string {
	if b.result != "" {
		return b.result
	}
	if outcome := b.game.Outcome(); outcome != notnil.NoOutcome {
		return outcome.String()
	}
	if v, ok := b.tags.Lookup(chess.ResultTag); ok {
		return v
	}
	return chess.Unfinished
}

// PGN renders the tags and history as a record.
func (b *Board) PGN(s *output.Serializer) string {
	return s.Record(b.tags, b.plies, b.Result())
}
