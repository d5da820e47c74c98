// Package config provides runtime configuration for the chesskit
// command and its processing pipeline.
package config

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/kjmartin/chesskit/internal/errors"
)

// Config holds all settings for a chesskit run. Library packages take
// the sub-configs or plain values they need; Config aggregates them
// for flag binding in cmd.
type Config struct {
	// Verbosity: 0=nothing, 1=summary, 2=running commentary.
	Verbosity int

	// Lenient switches the PGN parser from strict failure to
	// skip-and-diagnose recovery.
	Lenient bool

	// Workers is the number of input files processed in parallel.
	Workers int

	// SkipDuplicates drops parsed games whose mainline was already
	// seen in this run, keeping the first copy.
	SkipDuplicates bool

	Output     OutputConfig
	ECO        ECOConfig
	Collection CollectionConfig

	// Output streams
	OutputFile io.Writer
	LogFile    io.Writer
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Verbosity:  1,
		Workers:    runtime.NumCPU(),
		Output:     *NewOutputConfig(),
		Collection: *NewCollectionConfig(),
		OutputFile: os.Stdout,
		LogFile:    os.Stderr,
	}
}

// SetOutput sets the output stream.
func (c *Config) SetOutput(w io.Writer) {
	c.OutputFile = w
}

// SetLog sets the diagnostic stream.
func (c *Config) SetLog(w io.Writer) {
	c.LogFile = w
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d: %w",
			c.Workers, errors.ErrInvalidConfig)
	}
	return c.Output.Validate()
}
