package output

import (
	"golang.org/x/exp/maps"

	"github.com/lgbarn/pgnfmt-go/internal/chess"
)

// GameRecord is a game after its move text has been replayed.
type GameRecord struct {
	Tags   chess.TagPairs
	Title  string
	Plies  []*chess.Ply
	Result string

	// FinalFEN is the position after the last ply, empty when the moves
	// were recorded without a board.
	FinalFEN string
}

// ExportGame is the JSON and YAML form of a game.
type ExportGame struct {
	Title    string            `json:"title" yaml:"title"`
	Tags     map[string]string `json:"tags" yaml:"tags"`
	Moves    []ExportMove      `json:"moves,omitempty" yaml:"moves,omitempty"`
	Result   string            `json:"result,omitempty" yaml:"result,omitempty"`
	PlyCount int               `json:"plyCount,omitempty" yaml:"plyCount,omitempty"`
	FinalFEN string            `json:"finalFEN,omitempty" yaml:"finalFEN,omitempty"`
}

// ExportMove is the JSON and YAML form of a ply.
type ExportMove struct {
	MoveNumber int     `json:"moveNumber" yaml:"moveNumber"`
	Color      string  `json:"color" yaml:"color"` // "white" or "black"
	SAN        string  `json:"san" yaml:"san"`
	Comment    *string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// ExportOutput holds multiple games for array output.
type ExportOutput struct {
	Games []*ExportGame `json:"games" yaml:"games"`
}

// ToExport converts a replayed game. Comments are dropped unless
// keepComments is set.
func ToExport(rec *GameRecord, keepComments bool) *ExportGame {
	eg := &ExportGame{
		Title:    rec.Title,
		Tags:     copyTags(rec.Tags),
		Moves:    make([]ExportMove, 0, len(rec.Plies)),
		Result:   rec.Result,
		PlyCount: len(rec.Plies),
		FinalFEN: rec.FinalFEN,
	}
	if eg.Result == "" {
		eg.Result = chess.Unfinished
	}

	for i, ply := range rec.Plies {
		em := ExportMove{
			MoveNumber: i/2 + 1,
			Color:      colorName(chess.ColourAt(i)),
			SAN:        ply.Text,
		}
		if keepComments && ply.Comment != nil {
			text := ply.Comment.Text
			em.Comment = &text
		}
		eg.Moves = append(eg.Moves, em)
	}
	return eg
}

// copyTags copies game tags and ensures seven tag roster has values.
func copyTags(tags chess.TagPairs) map[string]string {
	result := make(map[string]string, len(tags)+len(chess.SevenTagRoster))
	for _, tag := range chess.SevenTagRoster {
		result[tag] = "?"
	}
	maps.Copy(result, tags.Map())
	return result
}

func colorName(c chess.Colour) string {
	if c == chess.White {
		return "white"
	}
	return "black"
}
