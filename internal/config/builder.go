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

// WithMoveFormat sets the move notation format.
func (b *ConfigBuilder) WithMoveFormat(format MoveFormat) *ConfigBuilder {
	b.cfg.Output.Format = format
	return b
}

// WithMaxLineLength sets the maximum line length.
func (b *ConfigBuilder) WithMaxLineLength(length uint) *ConfigBuilder {
	b.cfg.Output.MaxLineLength = length
	return b
}

// WithJSONOutput enables JSON output.
func (b *ConfigBuilder) WithJSONOutput(enabled bool) *ConfigBuilder {
	b.cfg.Output.JSONFormat = enabled
	return b
}

// WithLenient enables lenient parsing.
func (b *ConfigBuilder) WithLenient(enabled bool) *ConfigBuilder {
	b.cfg.Lenient = enabled
	return b
}

// WithWorkers sets the number of parallel file workers.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.cfg.Workers = n
	return b
}

// WithECOBook sets the opening book and enables ECO tagging.
func (b *ConfigBuilder) WithECOBook(path string) *ConfigBuilder {
	b.cfg.ECO.BookFile = path
	b.cfg.ECO.AddTags = true
	return b
}

// WithCollection sets the game collection directory.
func (b *ConfigBuilder) WithCollection(path string) *ConfigBuilder {
	b.cfg.Collection.Path = path
	return b
}

// WithOutput sets the output stream.
func (b *ConfigBuilder) WithOutput(w io.Writer) *ConfigBuilder {
	b.cfg.OutputFile = w
	return b
}

// WithVerbosity sets the verbosity level.
func (b *ConfigBuilder) WithVerbosity(level int) *ConfigBuilder {
	b.cfg.Verbosity = level
	return b
}

// KeepComments controls comment output.
func (b *ConfigBuilder) KeepComments(keep bool) *ConfigBuilder {
	b.cfg.Output.KeepComments = keep
	return b
}

// KeepVariations controls variation output.
func (b *ConfigBuilder) KeepVariations(keep bool) *ConfigBuilder {
	b.cfg.Output.KeepVariations = keep
	return b
}

// KeepNAGs controls NAG output.
func (b *ConfigBuilder) KeepNAGs(keep bool) *ConfigBuilder {
	b.cfg.Output.KeepNAGs = keep
	return b
}
