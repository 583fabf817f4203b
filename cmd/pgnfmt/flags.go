// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"

	"github.com/lgbarn/pgnfmt-go/internal/config"
)

var (
	// Configuration
	configFile = flag.String("config", "", "Configuration file (YAML, TOML or JSON)")

	// Output options
	outputFile   = flag.String("o", "", "Output file (default: stdout)")
	appendOutput = flag.Bool("a", false, "Append to output file instead of overwrite")
	lineLength   = flag.Uint("w", 80, "Column limit for move text")
	outputFormat = flag.String("format", "pgn", "Output format: pgn, json, yaml")
	titlesOnly   = flag.Bool("titles", false, "Print one title line per game instead of the game")

	// Content options
	noComments = flag.Bool("C", false, "Don't output comments")
	noResults  = flag.Bool("noresults", false, "Don't append the result to the move text")

	// Reading options
	onError      = flag.String("onerror", "abort", "Unparsable input: abort, skip-turn or skip-record")
	noSemicolons = flag.Bool("nosemicolons", false, "Treat ';' as move text instead of a comment")
	noRules      = flag.Bool("norules", false, "Record moves verbatim without checking legality")

	// Logging
	logFile  = flag.String("l", "", "Also write diagnostics to this rotated log file")
	logLevel = flag.String("loglevel", "info", "Log level: debug, info, warn, error")

	// Other options
	quiet   = flag.Bool("s", false, "Silent mode (no game count)")
	help    = flag.Bool("h", false, "Show help")
	version = flag.Bool("version", false, "Show version")

	// Performance options
	workers = flag.Int("workers", 1, "Number of goroutines replaying games")
)

// applyFlags applies the command-line flags that were set explicitly, so
// values from the configuration file and environment survive otherwise.
func applyFlags(cfg *config.Config) error {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return applyFlagSet(cfg, set)
}

func applyFlagSet(cfg *config.Config, set map[string]bool) error {
	if set["format"] {
		format, err := config.ParseOutputFormat(*outputFormat)
		if err != nil {
			return err
		}
		cfg.Output.Format = format
	}
	if set["onerror"] {
		policy, err := config.ParseErrorPolicy(*onError)
		if err != nil {
			return err
		}
		cfg.Read.ErrorPolicy = policy
	}

	applyContentFlags(cfg, set)
	applyReadFlags(cfg, set)

	if set["workers"] {
		cfg.Workers = *workers
	}
	if set["l"] {
		cfg.Log.File = *logFile
	}
	if set["loglevel"] {
		cfg.Log.Level = *logLevel
	}
	if *quiet {
		cfg.Verbosity = 0
	}
	return cfg.Validate()
}

// applyContentFlags configures content output settings.
func applyContentFlags(cfg *config.Config, set map[string]bool) {
	if set["w"] {
		cfg.Output.MaxLineLength = *lineLength
	}
	if set["titles"] {
		cfg.Output.TitlesOnly = *titlesOnly
	}
	if set["C"] {
		cfg.Output.KeepComments = !*noComments
	}
	if set["noresults"] {
		cfg.Output.KeepResults = !*noResults
	}
}

// applyReadFlags configures record reading settings.
func applyReadFlags(cfg *config.Config, set map[string]bool) {
	if set["nosemicolons"] {
		cfg.Read.SemicolonComments = !*noSemicolons
	}
	if set["norules"] {
		cfg.Read.Rules = !*noRules
	}
}
