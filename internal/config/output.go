package config

import (
	"fmt"

	"github.com/kjmartin/chesskit/internal/errors"
)

// MoveFormat selects the notation used for moves in PGN output.
type MoveFormat int

const (
	SAN  MoveFormat = iota // standard algebraic, as recorded
	LALG                   // long algebraic (Ng1f3, e2e4, e7e8=Q)
	UCI                    // coordinate notation (g1f3, e7e8q)
)

// TagOutputForm specifies which tags to output.
type TagOutputForm int

const (
	AllTags        TagOutputForm = 0
	SevenTagRoster TagOutputForm = 1
	NoTags         TagOutputForm = 2
)

// OutputConfig holds settings related to output formatting.
type OutputConfig struct {
	// Format specifies the move notation (SAN, LALG, UCI)
	Format MoveFormat

	// MaxLineLength is the maximum line length for PGN movetext
	MaxLineLength uint

	// JSONFormat enables JSON output instead of PGN
	JSONFormat bool

	// KeepMoveNumbers controls whether move numbers are included
	KeepMoveNumbers bool

	// KeepResults controls whether game results are included
	KeepResults bool

	// KeepNAGs controls whether Numeric Annotation Glyphs are kept
	KeepNAGs bool

	// KeepComments controls whether comments are kept in output
	KeepComments bool

	// KeepVariations controls whether variations (RAV) are kept
	KeepVariations bool

	// StripClockAnnotations removes clock annotations from comments
	StripClockAnnotations bool

	// FENComments adds the position FEN after each mainline move
	FENComments bool

	// TagFormat specifies which tags to output (AllTags, SevenTagRoster, NoTags)
	TagFormat TagOutputForm
}

// NewOutputConfig creates an OutputConfig with default values.
func NewOutputConfig() *OutputConfig {
	return &OutputConfig{
		Format:          SAN,
		MaxLineLength:   80,
		KeepMoveNumbers: true,
		KeepResults:     true,
		KeepNAGs:        true,
		KeepComments:    true,
		KeepVariations:  true,
		TagFormat:       AllTags,
	}
}

// Validate checks that the output configuration is valid.
func (o *OutputConfig) Validate() error {
	if o.Format < SAN || o.Format > UCI {
		return fmt.Errorf("unknown move format %d: %w", o.Format, errors.ErrInvalidConfig)
	}
	if o.TagFormat < AllTags || o.TagFormat > NoTags {
		return fmt.Errorf("unknown tag format %d: %w", o.TagFormat, errors.ErrInvalidConfig)
	}
	return nil
}
