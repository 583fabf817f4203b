// pgnfmt reads PGN game records, replays their moves and writes them back
// out as normalized PGN, JSON or YAML.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/lgbarn/pgnfmt-go/internal/config"
	"github.com/lgbarn/pgnfmt-go/internal/logging"
)

const programVersion = "0.1.0"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if *version {
		fmt.Printf("pgnfmt version %s\n", programVersion)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, flag.Args())
	stop()
	os.Exit(code)
}

// run loads the configuration, processes every input and returns the exit
// status.
func run(ctx context.Context, args []string) int {
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return 1
	}
	if err := applyFlags(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	closeOutput, err := setupOutputFile(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file %s: %v\n", *outputFile, err)
		return 1
	}
	defer closeOutput() //nolint:errcheck // output errors surface through WriteGame

	logger, closeLog := logging.New(cfg)
	defer closeLog() //nolint:errcheck // nothing left to report to

	proc := NewProcessor(cfg, logger)
	if err := proc.Run(ctx, args); err != nil {
		logger.Error("processing failed", zap.Error(err))
		return 1
	}

	if cfg.Verbosity > 0 {
		reportStatistics(cfg.LogFile, proc.Stats())
	}
	return 0
}

// setupOutputFile points cfg at the -o file when one was given.
func setupOutputFile(cfg *config.Config) (func() error, error) {
	if *outputFile == "" {
		return func() error { return nil }, nil
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if *appendOutput {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(*outputFile, flags, 0644) //nolint:gosec // G302: 0644 is appropriate for user-created output files
	if err != nil {
		return nil, err
	}
	cfg.SetOutput(file)
	return file.Close, nil
}

// reportStatistics prints the final counts.
func reportStatistics(w io.Writer, s Stats) {
	fmt.Fprintf(w, "%d game(s) output, %d skipped out of %d in %d input(s).\n",
		s.Output, s.Skipped, s.Games, s.Inputs)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: pgnfmt [options] [input-files...]\n\n")
	fmt.Fprintf(os.Stderr, "Reads PGN records (stdin when no files are given), replays the moves\n")
	fmt.Fprintf(os.Stderr, "and writes the games back out with normalized move text.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
	fmt.Fprintf(os.Stderr, "  %s_<KEY>  overrides a configuration key, e.g. %s_LINE_LENGTH=72\n",
		config.EnvPrefix, config.EnvPrefix)
}
