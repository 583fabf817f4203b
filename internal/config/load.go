package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lgbarn/pgnfmt-go/internal/errors"
)

// EnvPrefix is prepended to environment overrides, e.g. PGNFMT_LINE_LENGTH.
const EnvPrefix = "PGNFMT"

// Keys understood in configuration files and the environment.
const (
	keyVerbosity         = "verbosity"
	keyWorkers           = "workers"
	keyFormat            = "format"
	keyLineLength        = "line_length"
	keyKeepResults       = "keep_results"
	keyKeepComments      = "keep_comments"
	keyTitles            = "titles"
	keySemicolonComments = "semicolon_comments"
	keyOnError           = "on_error"
	keyRules             = "rules"
	keyLogLevel          = "log.level"
	keyLogFile           = "log.file"
)

// Load builds a Config from defaults, an optional configuration file and
// PGNFMT_* environment variables, in increasing order of precedence. An
// empty path skips the file. Any format viper understands may be used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, NewConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %v: %w", path, err, errors.ErrInvalidConfig)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault(keyVerbosity, cfg.Verbosity)
	v.SetDefault(keyWorkers, cfg.Workers)
	v.SetDefault(keyFormat, cfg.Output.Format.String())
	v.SetDefault(keyLineLength, cfg.Output.MaxLineLength)
	v.SetDefault(keyKeepResults, cfg.Output.KeepResults)
	v.SetDefault(keyKeepComments, cfg.Output.KeepComments)
	v.SetDefault(keyTitles, cfg.Output.TitlesOnly)
	v.SetDefault(keySemicolonComments, cfg.Read.SemicolonComments)
	v.SetDefault(keyOnError, cfg.Read.ErrorPolicy.String())
	v.SetDefault(keyRules, cfg.Read.Rules)
	v.SetDefault(keyLogLevel, cfg.Log.Level)
	v.SetDefault(keyLogFile, cfg.Log.File)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := NewConfig()

	format, err := ParseOutputFormat(v.GetString(keyFormat))
	if err != nil {
		return nil, err
	}
	policy, err := ParseErrorPolicy(v.GetString(keyOnError))
	if err != nil {
		return nil, err
	}

	cfg.Verbosity = v.GetInt(keyVerbosity)
	cfg.Workers = v.GetInt(keyWorkers)
	cfg.Output.Format = format
	cfg.Output.MaxLineLength = v.GetUint(keyLineLength)
	cfg.Output.KeepResults = v.GetBool(keyKeepResults)
	cfg.Output.KeepComments = v.GetBool(keyKeepComments)
	cfg.Output.TitlesOnly = v.GetBool(keyTitles)
	cfg.Read.SemicolonComments = v.GetBool(keySemicolonComments)
	cfg.Read.ErrorPolicy = policy
	cfg.Read.Rules = v.GetBool(keyRules)
	cfg.Log.Level = strings.ToLower(v.GetString(keyLogLevel))
	cfg.Log.File = v.GetString(keyLogFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
