// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"

	"github.com/kjmartin/chesskit/internal/config"
)

var (
	// Output options
	outputFile   = flag.String("o", "", "Output file (default: stdout)")
	appendOutput = flag.Bool("a", false, "Append to output file instead of overwrite")
	sevenTagOnly = flag.Bool("7", false, "Output only the seven tag roster")
	noTags       = flag.Bool("notags", false, "Don't output any tags")
	lineLength   = flag.Int("w", 80, "Maximum line length")
	outputFormat = flag.String("W", "", "Output format: san, lalg, uci")
	jsonOutput   = flag.Bool("J", false, "Output in JSON format")

	// Content options
	noComments   = flag.Bool("C", false, "Don't output comments")
	noNAGs       = flag.Bool("N", false, "Don't output NAGs")
	noVariations = flag.Bool("V", false, "Don't output variations")
	noResults    = flag.Bool("noresults", false, "Don't output results")
	noClocks     = flag.Bool("noclocks", false, "Strip clock annotations from comments")
	fenComments  = flag.Bool("fencomments", false, "Add a FEN comment after each mainline move")

	// Parsing
	lenientMode = flag.Bool("lenient", false, "Recover from input defects instead of failing")
	skipDupes   = flag.Bool("D", false, "Drop games whose mainline repeats an earlier input game")

	// Position inspection
	startFEN  = flag.String("fen", "", "Starting position for -moves/-legal/-board (default: initial position)")
	moveList  = flag.String("moves", "", "SAN moves to apply to the starting position")
	showBoard = flag.Bool("board", false, "Print the resulting position as a text board")
	listLegal = flag.Bool("legal", false, "List the legal moves in the resulting position")

	// Opening classification
	ecoFile = flag.String("e", "", "YAML opening book; tags games with ECO and Opening")

	// Game collection
	dbPath     = flag.String("db", "", "Game collection directory")
	importMode = flag.Bool("import", false, "Import parsed games into the collection")
	listMode   = flag.Bool("list", false, "List the games stored in the collection")
	exportMode = flag.Bool("export", false, "Export the collection through the output pipeline")
	keepDupes  = flag.Bool("keepdupes", false, "Store duplicate games instead of skipping them")

	// Logging
	logFile = flag.String("l", "", "Write parser diagnostics to log file")

	// Other options
	quiet   = flag.Bool("s", false, "Silent mode (no game count)")
	help    = flag.Bool("h", false, "Show help")
	version = flag.Bool("version", false, "Show version")

	// Performance options
	workers = flag.Int("workers", 0, "Number of parallel file workers (0 = one per CPU core)")
)

// applyFlags applies command-line flags to the configuration.
func applyFlags(cfg *config.Config) {
	applyTagOutputFlags(cfg)
	applyContentFlags(cfg)
	applyOutputFormatFlags(cfg)
	applyCollectionFlags(cfg)

	cfg.Lenient = *lenientMode
	cfg.SkipDuplicates = *skipDupes
	if *ecoFile != "" {
		cfg.ECO.BookFile = *ecoFile
		cfg.ECO.AddTags = true
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *quiet {
		cfg.Verbosity = 0
	}
}

// applyTagOutputFlags configures tag output settings.
func applyTagOutputFlags(cfg *config.Config) {
	switch {
	case *noTags:
		cfg.Output.TagFormat = config.NoTags
	case *sevenTagOnly:
		cfg.Output.TagFormat = config.SevenTagRoster
	}
}

// applyContentFlags configures content output settings.
func applyContentFlags(cfg *config.Config) {
	cfg.Output.KeepComments = !*noComments
	cfg.Output.KeepNAGs = !*noNAGs
	cfg.Output.KeepVariations = !*noVariations
	cfg.Output.KeepResults = !*noResults
	cfg.Output.StripClockAnnotations = *noClocks
	cfg.Output.FENComments = *fenComments
	cfg.Output.JSONFormat = *jsonOutput
	cfg.Output.MaxLineLength = uint(*lineLength)
}

// applyOutputFormatFlags configures the output format.
func applyOutputFormatFlags(cfg *config.Config) {
	formatMap := map[string]config.MoveFormat{
		"lalg": config.LALG,
		"uci":  config.UCI,
	}

	if format, ok := formatMap[*outputFormat]; ok {
		cfg.Output.Format = format
	} else {
		cfg.Output.Format = config.SAN
	}
}

// applyCollectionFlags configures the game collection settings.
func applyCollectionFlags(cfg *config.Config) {
	cfg.Collection.Path = *dbPath
	cfg.Collection.SkipDuplicates = !*keepDupes
}
