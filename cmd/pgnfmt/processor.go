// processor.go - Reading, replaying and writing games
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lgbarn/pgnfmt-go/internal/board"
	"github.com/lgbarn/pgnfmt-go/internal/chess"
	"github.com/lgbarn/pgnfmt-go/internal/config"
	"github.com/lgbarn/pgnfmt-go/internal/errors"
	"github.com/lgbarn/pgnfmt-go/internal/logging"
	"github.com/lgbarn/pgnfmt-go/internal/output"
	"github.com/lgbarn/pgnfmt-go/internal/parser"
	"github.com/lgbarn/pgnfmt-go/internal/worker"
)

// stdinName is how standard input is named in diagnostics.
const stdinName = "stdin"

// Stats counts what a run did.
type Stats struct {
	Inputs  int
	Games   int
	Output  int
	Skipped int
}

// replayer is a move applier that keeps what it replayed.
type replayer interface {
	chess.MoveApplier
	History() []*chess.Ply
	TagPairs() chess.TagPairs
	Result() string
}

// Processor reads inputs, replays every game on its own board and writes
// the results in input order.
type Processor struct {
	cfg    *config.Config
	logger *zap.Logger
	stdin  io.Reader
	stats  Stats
}

// NewProcessor creates a processor reading standard input when no files
// are named.
func NewProcessor(cfg *config.Config, logger *zap.Logger) *Processor {
	return &Processor{
		cfg:    cfg,
		logger: logging.OrNop(logger),
		stdin:  os.Stdin,
	}
}

// Stats returns the counts of the last run.
func (p *Processor) Stats() Stats {
	return p.stats
}

// Run processes the named files, or standard input when names is empty.
// Under the abort policy nothing is written if any game fails.
func (p *Processor) Run(ctx context.Context, names []string) error {
	items, err := p.readInputs(ctx, names)
	if err != nil {
		return err
	}
	p.stats.Games = len(items)

	records, err := p.replay(items)
	if err != nil {
		return err
	}
	return p.write(records)
}

// readInputs reads all inputs concurrently and returns their games as work
// items numbered in input order.
func (p *Processor) readInputs(ctx context.Context, names []string) ([]worker.WorkItem, error) {
	if len(names) == 0 {
		p.stats.Inputs = 1
		games, err := p.readInput(p.stdin, stdinName)
		if err != nil {
			return nil, err
		}
		return workItems([][]*chess.Game{games}, []string{stdinName}), nil
	}

	p.stats.Inputs = len(names)
	perFile := make([][]*chess.Game, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			games, err := p.readFile(name)
			perFile[i] = games
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return workItems(perFile, names), nil
}

func (p *Processor) readFile(name string) ([]*chess.Game, error) {
	file, err := os.Open(name) //nolint:gosec // G304: CLI tool opens user-specified files
	if err != nil {
		if p.cfg.Read.ErrorPolicy.Strict() {
			return nil, err
		}
		p.logger.Warn("skipping input", zap.String("file", name), zap.Error(err))
		return nil, nil
	}
	defer file.Close() //nolint:errcheck // read-only

	return p.readInput(file, name)
}

// readInput reads one stream with a per-input copy of the configuration so
// diagnostics carry the input name. Outside the abort policy a read error
// keeps the games read before it.
func (p *Processor) readInput(r io.Reader, name string) ([]*chess.Game, error) {
	cfg := *p.cfg
	cfg.CurrentInputFile = name

	games, err := parser.ReadAll(r, &cfg, p.logger)
	if err != nil {
		err = errors.Wrapf(err, "reading %s", name)
		if cfg.Read.ErrorPolicy.Strict() {
			return nil, err
		}
		p.logger.Warn("input truncated", zap.String("file", name), zap.Int("games", len(games)), zap.Error(err))
	}
	p.logger.Debug("read input", zap.String("file", name), zap.Int("games", len(games)))
	return games, nil
}

func workItems(perFile [][]*chess.Game, names []string) []worker.WorkItem {
	var items []worker.WorkItem
	for i, games := range perFile {
		for _, game := range games {
			items = append(items, worker.WorkItem{Game: game, Index: len(items), File: names[i]})
		}
	}
	return items
}

// replay replays every item on its own board through the worker pool.
// Failed games abort the run under the abort policy and are skipped with a
// warning otherwise.
func (p *Processor) replay(items []worker.WorkItem) ([]*output.GameRecord, error) {
	strict := p.cfg.Read.ErrorPolicy.Strict()
	pool := worker.NewPool(p.replayItem,
		worker.WithWorkers(p.cfg.Workers),
		worker.WithBufferSize(2*p.cfg.Workers))
	p.logger.Debug("replaying games", zap.Int("games", len(items)), zap.Int("workers", pool.NumWorkers()))

	records := make([]*output.GameRecord, 0, len(items))
	for _, r := range pool.Run(items, strict) {
		if r.Error != nil {
			if strict {
				return nil, r.Error
			}
			p.logger.Warn("skipping game", zap.Error(r.Error))
			p.stats.Skipped++
			continue
		}
		records = append(records, r.Record)
	}
	return records, nil
}

// replayItem is the worker.ProcessFunc; it shares no state between items.
func (p *Processor) replayItem(item worker.WorkItem) worker.ProcessResult {
	result := worker.ProcessResult{Index: item.Index, Game: item.Game}
	applier := p.newReplayer()

	_, err := parser.NewMoveTextParser(p.cfg, p.logger).Replay(item.Game, applier)
	if err != nil {
		result.Error = &errors.GameError{
			Err:     err,
			GameNum: item.Index + 1,
			PlyNum:  len(applier.History()) + 1,
			File:    item.File,
			Line:    item.Game.StartLine,
		}
		return result
	}

	rec := &output.GameRecord{
		Tags:   applier.TagPairs(),
		Title:  item.Game.Title,
		Plies:  applier.History(),
		Result: applier.Result(),
	}
	if b, ok := applier.(*board.Board); ok {
		rec.FinalFEN = b.FEN()
	}
	result.Record = rec
	return result
}

func (p *Processor) newReplayer() replayer {
	if p.cfg.Read.Rules {
		return board.New()
	}
	return board.NewRecorder()
}

func (p *Processor) write(records []*output.GameRecord) error {
	w := output.NewWriter(p.cfg.OutputFile, p.cfg)
	for _, rec := range records {
		if err := w.WriteGame(rec); err != nil {
			return fmt.Errorf("writing %q: %w", rec.Title, err)
		}
		p.stats.Output++
	}
	return w.Close()
}
