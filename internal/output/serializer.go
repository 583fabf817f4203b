// Package output renders replayed games as PGN, JSON or YAML.
package output

import (
	"strconv"
	"strings"

	"github.com/lgbarn/pgnfmt-go/internal/chess"
	"github.com/lgbarn/pgnfmt-go/internal/config"
)

// DefaultWidth is the column limit used when none is configured.
const DefaultWidth = 80

// Serializer renders tag pairs and ply history as PGN text.
type Serializer struct {
	// Width is the column limit: a line is only extended while it stays
	// strictly shorter. A turn longer than Width gets a line of its own.
	Width int

	// AppendResult packs the result token after the last turn.
	AppendResult bool

	// KeepComments renders ply comments in braces.
	KeepComments bool
}

// NewSerializer creates a serializer from the output settings of cfg.
// If cfg is nil, a default config is created.
func NewSerializer(cfg *config.Config) *Serializer {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Serializer{
		Width:        int(cfg.Output.MaxLineLength),
		AppendResult: cfg.Output.KeepResults,
		KeepComments: cfg.Output.KeepComments,
	}
}

// GroupTurns pairs a ply history into numbered turns: even indices are
// White's plies, odd indices Black's.
func GroupTurns(history []*chess.Ply) []*chess.Turn {
	turns := make([]*chess.Turn, 0, (len(history)+1)/2)
	for i := 0; i < len(history); i += 2 {
		end := min(i+2, len(history))
		turns = append(turns, &chess.Turn{
			Number: i/2 + 1,
			Plies:  history[i:end],
		})
	}
	return turns
}

// FormatTurn renders a turn with its comments. Black's move is prefixed
// with "n..." when a comment separates it from White's.
func FormatTurn(t *chess.Turn) string {
	return formatTurn(t, true)
}

func formatTurn(t *chess.Turn, keepComments bool) string {
	var sb strings.Builder
	number := strconv.Itoa(t.Number)
	white, black := t.White(), t.Black()

	if white != nil {
		sb.WriteString(number)
		sb.WriteString(". ")
		sb.WriteString(formatPly(white, keepComments))
		sb.WriteByte(' ')
	}
	if black != nil {
		if white == nil || keepComments && white.HasComment() {
			sb.WriteString(number)
			sb.WriteString("... ")
		}
		sb.WriteString(formatPly(black, keepComments))
		sb.WriteByte(' ')
	}
	return sb.String()
}

func formatPly(p *chess.Ply, keepComments bool) string {
	if keepComments {
		return p.String()
	}
	return p.Text
}

// MoveText renders the history as wrapped move text. Turns are packed
// greedily and never split; result is appended as a final item when
// AppendResult is set and it is non-empty.
func (s *Serializer) MoveText(history []*chess.Ply, result string) string {
	items := make([]string, 0, len(history)/2+2)
	for _, t := range GroupTurns(history) {
		items = append(items, formatTurn(t, s.KeepComments))
	}
	if s.AppendResult && result != "" {
		items = append(items, result+" ")
	}
	return pack(items, s.width())
}

func (s *Serializer) width() int {
	if s.Width <= 0 {
		return DefaultWidth
	}
	return s.Width
}

// pack joins items into lines shorter than width, starting a new line
// only when the current one already holds something.
func pack(items []string, width int) string {
	var lines []string
	var line strings.Builder
	for _, item := range items {
		if line.Len() > 0 && line.Len()+len(item) >= width {
			lines = append(lines, strings.TrimRight(line.String(), " "))
			line.Reset()
		}
		line.WriteString(item)
	}
	if line.Len() > 0 {
		lines = append(lines, strings.TrimRight(line.String(), " "))
	}
	return strings.Join(lines, "\n")
}

// Record renders a complete record: tag pairs one per line, a blank line,
// then the move text.
func (s *Serializer) Record(tags chess.TagPairs, history []*chess.Ply, result string) string {
	return tags.String() + "\n\n" + s.MoveText(history, result)
}
