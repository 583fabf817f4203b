package parser

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/lgbarn/pgnfmt-go/internal/chess"
	"github.com/lgbarn/pgnfmt-go/internal/config"
	"github.com/lgbarn/pgnfmt-go/internal/errors"
	"github.com/lgbarn/pgnfmt-go/internal/logging"
)

// maxLineLength bounds a single physical input line.
const maxLineLength = 1 << 20

// RawRecord is one record as it appears in the input: tag lines and move
// text, not yet interpreted.
type RawRecord struct {
	TagLines []string

	// MoveText holds the move text lines, each followed by a single space.
	MoveText string

	// Line numbers of the first and last line of the record.
	StartLine int
	EndLine   int
}

// RecordReader groups the lines of a PGN stream into records. It is a
// one-shot stream: once Next has returned io.EOF it keeps doing so, and
// reading again requires a new reader over a fresh source.
type RecordReader struct {
	scanner    *bufio.Scanner
	semicolons bool
	logger     *zap.Logger
	file       string

	lineNum   int
	tagLines  []string
	movetext  strings.Builder
	startLine int
	endLine   int
	inComment bool
	done      bool
}

// NewRecordReader creates a record reader for r.
// If cfg is nil, a default config is created.
func NewRecordReader(r io.Reader, cfg *config.Config, logger *zap.Logger) *RecordReader {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return &RecordReader{
		scanner:    scanner,
		semicolons: cfg.Read.SemicolonComments,
		logger:     logging.OrNop(logger),
		file:       cfg.CurrentInputFile,
	}
}

// Exhausted reports whether the underlying source has been fully consumed.
func (rr *RecordReader) Exhausted() bool {
	return rr.done
}

// Next returns the next complete record, or io.EOF when the input is
// exhausted. Blank lines end a record once it has both tag lines and move
// text; lines starting with '%' are ignored everywhere, even inside an
// open brace comment.
func (rr *RecordReader) Next() (*RawRecord, error) {
	for {
		if rr.done {
			return nil, io.EOF
		}

		if !rr.scanner.Scan() {
			rr.done = true
			if err := rr.scanner.Err(); err != nil {
				return nil, err
			}
			if rec := rr.flush(); rec != nil {
				return rec, nil
			}
			rr.dropIncomplete("end of input")
			return nil, io.EOF
		}

		rr.lineNum++
		line := strings.TrimSpace(rr.scanner.Text())

		if line == "" {
			rr.inComment = false
			if rec := rr.flush(); rec != nil {
				return rec, nil
			}
			continue
		}

		if line[0] == '%' {
			continue
		}
		if line[0] == '[' && !rr.inComment {
			rec := rr.startTags()
			rr.addTagLine(line)
			if rec != nil {
				return rec, nil
			}
			continue
		}

		rr.addMoveText(line)
	}
}

// startTags handles a tag line that follows move text without a blank
// line: a complete record is returned, orphaned move text is dropped.
func (rr *RecordReader) startTags() *RawRecord {
	if rr.movetext.Len() == 0 {
		return nil
	}
	if rec := rr.flush(); rec != nil {
		return rec
	}
	rr.dropIncomplete("tag line after untagged move text")
	return nil
}

func (rr *RecordReader) addTagLine(line string) {
	if len(rr.tagLines) == 0 {
		rr.startLine = rr.lineNum
	}
	rr.tagLines = append(rr.tagLines, line)
	rr.endLine = rr.lineNum
}

func (rr *RecordReader) addMoveText(line string) {
	if rr.startLine == 0 {
		rr.startLine = rr.lineNum
	}
	if rr.semicolons {
		line, rr.inComment = rewriteSemicolonComment(line, rr.inComment)
	} else {
		rr.inComment = braceStateAfter(line, rr.inComment)
	}
	rr.movetext.WriteString(line)
	rr.movetext.WriteByte(' ')
	rr.endLine = rr.lineNum
}

// flush returns the accumulated record and resets the buffers, or returns
// nil and keeps them when either part is still missing.
func (rr *RecordReader) flush() *RawRecord {
	if len(rr.tagLines) == 0 || rr.movetext.Len() == 0 {
		return nil
	}
	rec := &RawRecord{
		TagLines:  rr.tagLines,
		MoveText:  rr.movetext.String(),
		StartLine: rr.startLine,
		EndLine:   rr.endLine,
	}
	rr.reset()
	return rec
}

func (rr *RecordReader) dropIncomplete(reason string) {
	if len(rr.tagLines) == 0 && rr.movetext.Len() == 0 {
		return
	}
	rr.logger.Warn("dropping incomplete record",
		zap.String("file", rr.file),
		zap.Int("line", rr.startLine),
		zap.Int("tag_lines", len(rr.tagLines)),
		zap.Bool("has_movetext", rr.movetext.Len() > 0),
		zap.String("reason", reason),
		zap.Error(errors.ErrIncompleteRecord))
	rr.reset()
}

func (rr *RecordReader) reset() {
	rr.tagLines = nil
	rr.movetext.Reset()
	rr.startLine = 0
	rr.endLine = 0
}

// rewriteSemicolonComment turns "; text" outside a brace comment into
// "{text}". inComment tells whether the line starts inside a brace comment
// carried over from a previous line; the state at the end of the line is
// returned.
func rewriteSemicolonComment(line string, inComment bool) (string, bool) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '{':
			inComment = true
		case '}':
			inComment = false
		case ';':
			if inComment {
				continue
			}
			text := strings.NewReplacer("{", "", "}", "").Replace(line[i+1:])
			return strings.TrimRight(line[:i], " \t") + " {" + strings.TrimSpace(text) + "}", false
		}
	}
	return line, inComment
}

// braceStateAfter returns whether a brace comment is still open at the end
// of line.
func braceStateAfter(line string, inComment bool) bool {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '{':
			inComment = true
		case '}':
			inComment = false
		}
	}
	return inComment
}

// GameReader reads games from a PGN stream, skipping malformed tag lines
// and applying the configured error policy to records that cannot form a
// game.
type GameReader struct {
	records *RecordReader
	policy  config.ErrorPolicy
	logger  *zap.Logger
	file    string
	gameNum int
}

// NewGameReader creates a game reader for r.
// If cfg is nil, a default config is created.
func NewGameReader(r io.Reader, cfg *config.Config, logger *zap.Logger) *GameReader {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &GameReader{
		records: NewRecordReader(r, cfg, logger),
		policy:  cfg.Read.ErrorPolicy,
		logger:  logging.OrNop(logger),
		file:    cfg.CurrentInputFile,
	}
}

// GameNumber returns the 1-based number of the last record read.
func (gr *GameReader) GameNumber() int {
	return gr.gameNum
}

// Next returns the next game, or io.EOF when the input is exhausted. A
// record missing required tags is returned as a *errors.GameError under
// the Abort policy and skipped with a warning otherwise.
func (gr *GameReader) Next() (*chess.Game, error) {
	for {
		rec, err := gr.records.Next()
		if err != nil {
			return nil, err
		}
		gr.gameNum++

		tags := gr.parseTags(rec)
		game, err := chess.NewGame(tags, rec.MoveText)
		if err != nil {
			gerr := &errors.GameError{Err: err, GameNum: gr.gameNum, File: gr.file, Line: rec.StartLine}
			if gr.policy.Strict() {
				return nil, gerr
			}
			gr.logger.Warn("skipping record", zap.Error(gerr))
			continue
		}
		game.StartLine = rec.StartLine
		game.EndLine = rec.EndLine
		return game, nil
	}
}

func (gr *GameReader) parseTags(rec *RawRecord) chess.TagPairs {
	tags := make(chess.TagPairs, 0, len(rec.TagLines))
	for i, line := range rec.TagLines {
		tp, err := ParseTagLine(line)
		if err != nil {
			var perr *errors.ParseError
			if stderrors.As(err, &perr) {
				perr.File = gr.file
				perr.Line = rec.StartLine + i
			}
			gr.logger.Warn("skipping malformed tag line", zap.Error(err))
			continue
		}
		tags = append(tags, tp)
	}
	return tags
}

// ReadAll materializes every game of r. Under the Abort policy the first
// error discards all games and a record that cannot form a game is
// reported as ErrParseFailure; otherwise the games read before an I/O
// error are returned with it.
func ReadAll(r io.Reader, cfg *config.Config, logger *zap.Logger) ([]*chess.Game, error) {
	gr := NewGameReader(r, cfg, logger)
	var games []*chess.Game
	for {
		game, err := gr.Next()
		if err == io.EOF {
			return games, nil
		}
		if err != nil {
			if !gr.policy.Strict() {
				return games, err
			}
			var gerr *errors.GameError
			if stderrors.As(err, &gerr) {
				return nil, fmt.Errorf("%w: aborted at record %d: %w", errors.ErrParseFailure, gr.GameNumber(), err)
			}
			return nil, err
		}
		games = append(games, game)
	}
}
