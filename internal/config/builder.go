package config

import "io"

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithOutputFormat sets the output format.
func (b *ConfigBuilder) WithOutputFormat(format OutputFormat) *ConfigBuilder {
	b.cfg.Output.Format = format
	return b
}

// WithMaxLineLength sets the maximum line length.
func (b *ConfigBuilder) WithMaxLineLength(length uint) *ConfigBuilder {
	b.cfg.Output.MaxLineLength = length
	return b
}

// WithErrorPolicy sets the recovery policy for unparsable input.
func (b *ConfigBuilder) WithErrorPolicy(policy ErrorPolicy) *ConfigBuilder {
	b.cfg.Read.ErrorPolicy = policy
	return b
}

// WithSemicolonComments enables or disables "; comment" recognition.
func (b *ConfigBuilder) WithSemicolonComments(enabled bool) *ConfigBuilder {
	b.cfg.Read.SemicolonComments = enabled
	return b
}

// WithRules enables or disables move legality checking.
func (b *ConfigBuilder) WithRules(enabled bool) *ConfigBuilder {
	b.cfg.Read.Rules = enabled
	return b
}

// WithWorkers sets the number of replay workers.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.cfg.Workers = n
	return b
}

// WithOutput sets the output writer.
func (b *ConfigBuilder) WithOutput(w io.Writer) *ConfigBuilder {
	b.cfg.OutputFile = w
	return b
}

// WithLog sets the log writer.
func (b *ConfigBuilder) WithLog(w io.Writer) *ConfigBuilder {
	b.cfg.LogFile = w
	return b
}

// WithVerbosity sets the verbosity level.
func (b *ConfigBuilder) WithVerbosity(level int) *ConfigBuilder {
	b.cfg.Verbosity = level
	return b
}

// KeepComments controls whether comments are kept.
func (b *ConfigBuilder) KeepComments(keep bool) *ConfigBuilder {
	b.cfg.Output.KeepComments = keep
	return b
}

// KeepResults controls whether the result is appended to move text.
func (b *ConfigBuilder) KeepResults(keep bool) *ConfigBuilder {
	b.cfg.Output.KeepResults = keep
	return b
}
