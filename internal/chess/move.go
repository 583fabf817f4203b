package chess

import "strings"

// Comment represents a PGN comment.
type Comment struct {
	Text string
}

// Ply is a half-move played by one side, with an optional comment.
type Ply struct {
	// The move text as recorded by the applier (e.g., "Nf3", "e4", "O-O").
	Text string

	// Comment attached after the move, nil if none.
	Comment *Comment
}

// HasComment returns true if a comment is attached.
func (p *Ply) HasComment() bool {
	return p.Comment != nil
}

// SetComment attaches a comment, trimming surrounding whitespace.
func (p *Ply) SetComment(text string) {
	p.Comment = &Comment{Text: strings.TrimSpace(text)}
}

// String renders the ply as it appears in move text. An empty comment is
// written as "{ }" since "{}" reads back as no comment.
func (p *Ply) String() string {
	switch {
	case p.Comment == nil:
		return p.Text
	case p.Comment.Text == "":
		return p.Text + " { }"
	default:
		return p.Text + " {" + p.Comment.Text + "}"
	}
}

// Turn groups the plies played under one move number.
type Turn struct {
	Number int

	// Continuation is true when the turn was introduced with "N..." and
	// therefore starts with Black's ply.
	Continuation bool

	Plies []*Ply
}

// White returns White's ply, or nil if the turn has none.
func (t *Turn) White() *Ply {
	if t.Continuation || len(t.Plies) == 0 {
		return nil
	}
	return t.Plies[0]
}

// Black returns Black's ply, or nil if the turn has none.
func (t *Turn) Black() *Ply {
	switch {
	case t.Continuation && len(t.Plies) > 0:
		return t.Plies[0]
	case !t.Continuation && len(t.Plies) > 1:
		return t.Plies[1]
	default:
		return nil
	}
}

// MoveApplier applies a move to whatever board the caller maintains and
// returns the recorded ply. The parser sets the ply's comment afterwards.
type MoveApplier interface {
	ApplyMove(text string) (*Ply, error)
}

// ApplyFunc adapts an ordinary function to the MoveApplier interface.
type ApplyFunc func(text string) (*Ply, error)

// ApplyMove calls f(text).
func (f ApplyFunc) ApplyMove(text string) (*Ply, error) {
	return f(text)
}

// PlyCount returns the number of plies across turns.
func PlyCount(turns []*Turn) int {
	count := 0
	for _, t := range turns {
		count += len(t.Plies)
	}
	return count
}
