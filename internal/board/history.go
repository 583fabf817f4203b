// Package board provides move appliers for replaying parsed move text: a
// legality-checking Board and a rules-free Recorder.
package board

import (
	"fmt"
	"time"

	"github.com/lgbarn/pgnfmt-go/internal/chess"
	"github.com/lgbarn/pgnfmt-go/internal/errors"
	"github.com/lgbarn/pgnfmt-go/internal/output"
)

// history is the state shared by both appliers: the plies applied so far,
// the record's tag pairs and an explicit result.
type history struct {
	tags   chess.TagPairs
	plies  []*chess.Ply
	result string
}

func newHistory(now time.Time) history {
	return history{tags: chess.DefaultTagPairs(now)}
}

// History returns the plies applied so far, oldest first.
func (h *history) History() []*chess.Ply {
	return h.plies
}

// Turns groups the history into numbered turns.
func (h *history) Turns() []*chess.Turn {
	return output.GroupTurns(h.plies)
}

// TagPairs returns the tag pairs attached to the board.
func (h *history) TagPairs() chess.TagPairs {
	return h.tags
}

// SetTagPairs replaces the tag pairs. An empty set restores the defaults.
func (h *history) SetTagPairs(tags chess.TagPairs) {
	if len(tags) == 0 {
		tags = chess.DefaultTagPairs(time.Now())
	}
	h.tags = tags
}

// SetResult records the outcome and mirrors it into the Result tag.
func (h *history) SetResult(result string) error {
	if !chess.IsResult(result) {
		return fmt.Errorf("%q: %w", result, errors.ErrInvalidResult)
	}
	h.result = result
	h.tags.Set(chess.ResultTag, result)
	return nil
}

func (h *history) record(text string) *chess.Ply {
	ply := &chess.Ply{Text: text}
	h.plies = append(h.plies, ply)
	return ply
}

// Recorder accepts every move token verbatim. It is used when move text is
// reformatted without checking legality.
type Recorder struct {
	history
}

// NewRecorder creates a Recorder carrying default tag pairs.
func NewRecorder() *Recorder {
	return &Recorder{history: newHistory(time.Now())}
}

// ApplyMove records text as the next ply.
func (r *Recorder) ApplyMove(text string) (*chess.Ply, error) {
	return r.record(text), nil
}

// Result returns the explicit result, or the Result tag when none was set.
func (r *Recorder) Result() string {
	if r.result != "" {
		return r.result
	}
	if v, ok := r.tags.Lookup(chess.ResultTag); ok {
		return v
	}
	return chess.Unfinished
}

// PGN renders the tags and history as a record.
func (r *Recorder) PGN(s *output.Serializer) string {
	return s.Record(r.tags, r.plies, r.Result())
}
