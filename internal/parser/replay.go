package parser

import "github.com/lgbarn/pgnfmt-go/internal/chess"

// TagHolder is implemented by boards that carry a record's tag pairs.
type TagHolder interface {
	SetTagPairs(tags chess.TagPairs)
}

// Replay parses the game's move text onto applier. When applier also holds
// tags it receives a copy of the game's tag pairs first.
func (p *MoveTextParser) Replay(game *chess.Game, applier chess.MoveApplier) ([]*chess.Turn, error) {
	if holder, ok := applier.(TagHolder); ok {
		holder.SetTagPairs(game.Tags.Clone())
	}
	return p.Parse(game.MoveText, applier)
}
