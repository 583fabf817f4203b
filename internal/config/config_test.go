package config

import (
	"bytes"
	"errors"
	"testing"

	pgnerrors "github.com/lgbarn/pgnfmt-go/internal/errors"
)

// TestOutputConfig_Defaults verifies OutputConfig has sensible defaults
func TestOutputConfig_Defaults(t *testing.T) {
	cfg := NewOutputConfig()

	if cfg.Format != PGN {
		t.Errorf("Format = %v, want %v", cfg.Format, PGN)
	}
	if cfg.MaxLineLength != 80 {
		t.Errorf("MaxLineLength = %d, want 80", cfg.MaxLineLength)
	}
	if !cfg.KeepResults {
		t.Error("KeepResults should be true by default")
	}
	if !cfg.KeepComments {
		t.Error("KeepComments should be true by default")
	}
	if cfg.TitlesOnly {
		t.Error("TitlesOnly should be false by default")
	}
}

// TestReadConfig_Defaults verifies ReadConfig has sensible defaults
func TestReadConfig_Defaults(t *testing.T) {
	cfg := NewReadConfig()

	if !cfg.SemicolonComments {
		t.Error("SemicolonComments should be true by default")
	}
	if cfg.ErrorPolicy != Abort {
		t.Errorf("ErrorPolicy = %v, want abort", cfg.ErrorPolicy)
	}
	if !cfg.Rules {
		t.Error("Rules should be true by default")
	}
}

func TestParseErrorPolicy(t *testing.T) {
	tests := []struct {
		name    string
		want    ErrorPolicy
		wantErr bool
	}{
		{"abort", Abort, false},
		{"skip-turn", SkipTurn, false},
		{" Skip-Record ", SkipRecord, false},
		{"retry", Abort, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseErrorPolicy(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseErrorPolicy(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, pgnerrors.ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
			if got != tt.want {
				t.Errorf("ParseErrorPolicy(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestErrorPolicyString(t *testing.T) {
	for _, p := range []ErrorPolicy{Abort, SkipTurn, SkipRecord} {
		got, err := ParseErrorPolicy(p.String())
		if err != nil || got != p {
			t.Errorf("round trip of %v gave %v, %v", p, got, err)
		}
	}
	if !Abort.Strict() || SkipTurn.Strict() || SkipRecord.Strict() {
		t.Error("only Abort should be strict")
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := map[string]OutputFormat{
		"":     PGN,
		"pgn":  PGN,
		"JSON": JSON,
		"yml":  YAML,
		"yaml": YAML,
	}
	for name, want := range tests {
		got, err := ParseOutputFormat(name)
		if err != nil {
			t.Errorf("ParseOutputFormat(%q) error: %v", name, err)
		}
		if got != want {
			t.Errorf("ParseOutputFormat(%q) = %v, want %v", name, got, want)
		}
	}

	if _, err := ParseOutputFormat("xml"); !errors.Is(err, pgnerrors.ErrInvalidConfig) {
		t.Errorf("ParseOutputFormat(xml) error = %v, want ErrInvalidConfig", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"zero line length", func(c *Config) { c.Output.MaxLineLength = 0 }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"negative verbosity", func(c *Config) { c.Verbosity = -1 }, true},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"debug log level", func(c *Config) { c.Log.Level = "debug" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, pgnerrors.ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigBuilder(t *testing.T) {
	var out, log bytes.Buffer

	cfg := NewConfigBuilder().
		WithOutputFormat(JSON).
		WithMaxLineLength(60).
		WithErrorPolicy(SkipTurn).
		WithSemicolonComments(false).
		WithRules(false).
		WithWorkers(4).
		WithOutput(&out).
		WithLog(&log).
		WithVerbosity(2).
		KeepComments(false).
		KeepResults(false).
		Build()

	if cfg.Output.Format != JSON || cfg.Output.MaxLineLength != 60 {
		t.Errorf("output settings not applied: %+v", cfg.Output)
	}
	if cfg.Read.ErrorPolicy != SkipTurn || cfg.Read.SemicolonComments || cfg.Read.Rules {
		t.Errorf("read settings not applied: %+v", cfg.Read)
	}
	if cfg.Workers != 4 || cfg.Verbosity != 2 {
		t.Errorf("Workers = %d, Verbosity = %d", cfg.Workers, cfg.Verbosity)
	}
	if cfg.Output.KeepComments || cfg.Output.KeepResults {
		t.Error("Keep* settings not applied")
	}
	if cfg.OutputFile != &out || cfg.LogFile != &log {
		t.Error("writers not applied")
	}
}
