package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lgbarn/pgnfmt-go/internal/config"
	pgnerrors "github.com/lgbarn/pgnfmt-go/internal/errors"
	"github.com/lgbarn/pgnfmt-go/internal/output"
	"github.com/lgbarn/pgnfmt-go/internal/testutil"
)

var (
	italian = testutil.RosterPGN("Club", "Smith, J", "Doe, A", "1-0",
		"1.e4 e5 2.Nf3 Nc6 3.Bc4 {Italian} Bc5 4.c3 Nf6 5.d4 exd4 6.cxd4 Bb4+ 7.Nc3 Nxe4\n8.O-O Bxc3 9.d5 Bf6 10.Re1 Ne7 11.Rxe4 d6 12.Bg5 Bxg5 13.Nxg5 h6 14.Qe2 hxg5\n15.Re1 Be6 16.dxe6 f6 17.Re3 c6 18.Rh3 Rxh3 19.gxh3 g6 20.Qf3 Qa5 1-0")
	fools  = testutil.RosterPGN("Club", "Doe, A", "Smith, J", "0-1", "1. f3 e5 2. g4 Qh4# 0-1")
	broken = testutil.RosterPGN("Club", "X", "Y", "*", "1. e4 e5 2. Ke3 *")
)

func newTestProcessor(stdin string, mutate func(*config.Config)) (*Processor, *bytes.Buffer) {
	var out bytes.Buffer
	cfg := config.NewConfig()
	cfg.SetOutput(&out)
	if mutate != nil {
		mutate(cfg)
	}
	p := NewProcessor(cfg, nil)
	p.stdin = strings.NewReader(stdin)
	return p, &out
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcessorStdin(t *testing.T) {
	p, out := newTestProcessor(fools+italian, nil)
	testutil.AssertNoError(t, p.Run(context.Background(), nil))

	want := strings.Join([]string{
		`[Event "Club"]`,
		`[Site "?"]`,
		`[Date "2024.01.01"]`,
		`[Round "1"]`,
		`[White "Doe, A"]`,
		`[Black "Smith, J"]`,
		`[Result "0-1"]`,
		``,
		`1. f3 e5 2. g4 Qh4# 0-1`,
		``,
	}, "\n")
	got := out.String()
	testutil.AssertLines(t, got[:len(want)], want)

	for i, line := range strings.Split(got, "\n") {
		if len(line) >= output.DefaultWidth {
			t.Errorf("line %d is %d columns wide", i, len(line))
		}
	}
	testutil.AssertContains(t, got, "3. Bc4 {Italian} 3... Bc5")
	testutil.AssertEqual(t, p.Stats(), Stats{Inputs: 1, Games: 2, Output: 2})
}

func TestProcessorTitles(t *testing.T) {
	p, out := newTestProcessor(italian+fools, func(cfg *config.Config) {
		cfg.Output.TitlesOnly = true
	})
	testutil.AssertNoError(t, p.Run(context.Background(), nil))

	testutil.AssertLines(t, out.String(),
		"2024.01.01 Club: Smith vs. Doe 1-0\n2024.01.01 Club: Doe vs. Smith 0-1\n")
}

func TestProcessorStrictWritesNothing(t *testing.T) {
	p, out := newTestProcessor(fools+broken+italian, nil)

	err := p.Run(context.Background(), nil)
	testutil.AssertErrorIs(t, err, pgnerrors.ErrIllegalMove)
	testutil.AssertContains(t, err.Error(), "stdin:")
	testutil.AssertContains(t, err.Error(), "game 2")
	testutil.AssertEqual(t, out.Len(), 0)
}

func TestProcessorSkipRecord(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p, out := newTestProcessor(fools+broken+italian, func(cfg *config.Config) {
		cfg.Read.ErrorPolicy = config.SkipRecord
		cfg.Workers = 3
	})
	p.logger = zap.New(core)

	testutil.AssertNoError(t, p.Run(context.Background(), nil))
	testutil.AssertEqual(t, p.Stats(), Stats{Inputs: 1, Games: 3, Output: 2, Skipped: 1})
	testutil.AssertNotContains(t, out.String(), `[White "X"]`)
	testutil.AssertEqual(t, logs.FilterMessage("skipping game").Len(), 1)
}

func TestProcessorSkipTurn(t *testing.T) {
	input := testutil.RosterPGN("Club", "A", "B", "*", "1. e4 e5 Nf3 2. Nf3 Nc6 *")
	p, out := newTestProcessor(input, func(cfg *config.Config) {
		cfg.Read.ErrorPolicy = config.SkipTurn
		cfg.Output.TitlesOnly = false
	})

	testutil.AssertNoError(t, p.Run(context.Background(), nil))
	testutil.AssertContains(t, out.String(), "\n\n1. Nf3 Nc6 *")
}

func TestProcessorNoRules(t *testing.T) {
	p, out := newTestProcessor(broken, func(cfg *config.Config) {
		cfg.Read.Rules = false
		cfg.Output.KeepResults = false
	})

	testutil.AssertNoError(t, p.Run(context.Background(), nil))
	testutil.AssertContains(t, out.String(), "\n\n1. e4 e5 2. Ke3\n")
}

func TestProcessorFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	var names []string
	for i, content := range []string{italian + fools, fools, italian} {
		names = append(names, writeInput(t, dir, string(rune('a'+i))+".pgn", content))
	}

	p, out := newTestProcessor("", func(cfg *config.Config) {
		cfg.Output.TitlesOnly = true
		cfg.Workers = 4
	})
	testutil.AssertNoError(t, p.Run(context.Background(), names))

	want := strings.Join([]string{
		"2024.01.01 Club: Smith vs. Doe 1-0",
		"2024.01.01 Club: Doe vs. Smith 0-1",
		"2024.01.01 Club: Doe vs. Smith 0-1",
		"2024.01.01 Club: Smith vs. Doe 1-0",
		"",
	}, "\n")
	testutil.AssertLines(t, out.String(), want)
	testutil.AssertEqual(t, p.Stats().Inputs, 3)
}

func TestProcessorMissingFile(t *testing.T) {
	dir := t.TempDir()
	good := writeInput(t, dir, "good.pgn", fools)
	missing := filepath.Join(dir, "missing.pgn")

	p, out := newTestProcessor("", nil)
	if err := p.Run(context.Background(), []string{good, missing}); err == nil {
		t.Error("strict run accepted a missing input")
	}
	testutil.AssertEqual(t, out.Len(), 0)

	p, out = newTestProcessor("", func(cfg *config.Config) {
		cfg.Read.ErrorPolicy = config.SkipRecord
	})
	testutil.AssertNoError(t, p.Run(context.Background(), []string{good, missing}))
	testutil.AssertContains(t, out.String(), "Qh4#")
}

func TestProcessorReadError(t *testing.T) {
	errDisk := errors.New("disk gone")
	truncated := func() io.Reader {
		return io.MultiReader(strings.NewReader(fools), iotest.ErrReader(errDisk))
	}

	p, out := newTestProcessor("", nil)
	p.stdin = truncated()
	err := p.Run(context.Background(), nil)
	testutil.AssertErrorIs(t, err, errDisk)
	testutil.AssertEqual(t, out.Len(), 0)

	core, logs := observer.New(zapcore.WarnLevel)
	p, out = newTestProcessor("", func(cfg *config.Config) {
		cfg.Read.ErrorPolicy = config.SkipRecord
	})
	p.logger = zap.New(core)
	p.stdin = truncated()
	testutil.AssertNoError(t, p.Run(context.Background(), nil))
	testutil.AssertContains(t, out.String(), "Qh4#")
	testutil.AssertEqual(t, logs.FilterMessage("input truncated").Len(), 1)
	testutil.AssertEqual(t, p.Stats(), Stats{Inputs: 1, Games: 1, Output: 1})
}

func TestProcessorJSON(t *testing.T) {
	p, out := newTestProcessor(fools, func(cfg *config.Config) {
		cfg.Output.Format = config.JSON
	})
	testutil.AssertNoError(t, p.Run(context.Background(), nil))

	var doc output.ExportOutput
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if len(doc.Games) != 1 {
		t.Fatalf("got %d games, want 1", len(doc.Games))
	}
	game := doc.Games[0]
	testutil.AssertEqual(t, game.PlyCount, 4)
	testutil.AssertEqual(t, game.Result, "0-1")
	testutil.AssertContains(t, game.FinalFEN, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w")
}

func TestProcessorCancelled(t *testing.T) {
	dir := t.TempDir()
	name := writeInput(t, dir, "a.pgn", fools)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, out := newTestProcessor("", nil)
	if err := p.Run(ctx, []string{name}); err == nil {
		t.Error("Run ignored a cancelled context")
	}
	testutil.AssertEqual(t, out.Len(), 0)
}

func TestReportStatistics(t *testing.T) {
	var buf bytes.Buffer
	reportStatistics(&buf, Stats{Inputs: 2, Games: 5, Output: 4, Skipped: 1})
	testutil.AssertEqual(t, buf.String(), "4 game(s) output, 1 skipped out of 5 in 2 input(s).\n")
}
