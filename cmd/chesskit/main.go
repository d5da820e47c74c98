// chesskit is a tool for inspecting, reformatting and collecting chess
// games in PGN form. Every move in every game it handles has been
// checked for legality by the engine; what comes out is canonical.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kjmartin/chesskit/internal/chess"
	"github.com/kjmartin/chesskit/internal/config"
	"github.com/kjmartin/chesskit/internal/eco"
	"github.com/kjmartin/chesskit/internal/hashing"
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
		fmt.Printf("chesskit version %s\n", programVersion)
		os.Exit(0)
	}

	cfg := config.NewConfig()
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogFile(cfg)
	setupOutputFile(cfg)

	// Position inspection runs on flags alone, without input files.
	if *moveList != "" || *startFEN != "" || *showBoard || *listLegal {
		if err := runPosition(cfg.OutputFile, *startFEN, *moveList, *showBoard, *listLegal); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *importMode || *listMode || *exportMode {
		runCollection(cfg)
		return
	}

	runReformat(cfg)
}

// runReformat parses the inputs, applies opening classification when a
// book is configured, and writes every game back out.
func runReformat(cfg *config.Config) {
	games := readInputs(cfg)
	tagged := -1
	if book := loadBook(cfg); book != nil {
		tagged = classifyGames(games, book)
	}

	if err := writeGames(games, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}

	if cfg.Verbosity > 0 {
		if tagged >= 0 {
			fmt.Fprintf(os.Stderr, "%d game(s) output, %d tagged with openings.\n", len(games), tagged)
		} else {
			fmt.Fprintf(os.Stderr, "%d game(s) output.\n", len(games))
		}
	}
}

// runCollection dispatches the game collection operations.
func runCollection(cfg *config.Config) {
	if cfg.Collection.Path == "" {
		fmt.Fprintln(os.Stderr, "Error: -import, -list and -export require -db")
		os.Exit(1)
	}

	switch {
	case *importMode:
		games := readInputs(cfg)
		if book := loadBook(cfg); book != nil {
			classifyGames(games, book)
		}
		stats, err := importGames(games, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing games: %v\n", err)
			os.Exit(1)
		}
		if cfg.Verbosity > 0 {
			fmt.Fprintf(os.Stderr, "Stored %d game(s), skipped %d duplicate(s).\n", stats.Stored, stats.Duplicates)
		}
	case *listMode:
		if err := listCollection(cfg.OutputFile, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error listing collection: %v\n", err)
			os.Exit(1)
		}
	case *exportMode:
		if err := exportCollection(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting collection: %v\n", err)
			os.Exit(1)
		}
	}
}

// readInputs parses the named input files, or stdin when none are
// given.
func readInputs(cfg *config.Config) []*chess.Game {
	files := flag.Args()
	if len(files) == 0 {
		games, err := parseReader(os.Stdin, "stdin", cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		if cfg.SkipDuplicates {
			games = filterDuplicates(games, hashing.NewThreadSafeDuplicateDetector(0))
		}
		return games
	}
	return collectGames(files, cfg)
}

// loadBook loads the opening book if one is configured.
func loadBook(cfg *config.Config) *eco.Book {
	if cfg.ECO.BookFile == "" {
		return nil
	}
	book, err := eco.Load(cfg.ECO.BookFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading opening book: %v\n", err)
		os.Exit(1)
	}
	if cfg.Verbosity > 1 {
		log.Info("opening book loaded", "file", cfg.ECO.BookFile, "entries", book.Len())
	}
	return book
}

// setupLogFile redirects parser diagnostics to a file when requested.
func setupLogFile(cfg *config.Config) {
	if *logFile == "" {
		return
	}
	file, err := os.Create(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating log file %s: %v\n", *logFile, err)
		os.Exit(1)
	}
	cfg.LogFile = file
}

// setupOutputFile configures the output file based on command-line flags.
func setupOutputFile(cfg *config.Config) {
	if *outputFile == "" {
		return
	}

	var file *os.File
	var err error

	if *appendOutput {
		file, err = os.OpenFile(*outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	} else {
		file, err = os.Create(*outputFile)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file %s: %v\n", *outputFile, err)
		os.Exit(1)
	}
	cfg.OutputFile = file
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: chesskit [options] [input-files...]\n\n")
	fmt.Fprintf(os.Stderr, "A tool for inspecting, reformatting and collecting chess games in PGN format.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nOutput formats (-W):\n")
	fmt.Fprintf(os.Stderr, "  san    Standard Algebraic Notation (default)\n")
	fmt.Fprintf(os.Stderr, "  lalg   Long algebraic (Ng1f3, e7e8=Q)\n")
	fmt.Fprintf(os.Stderr, "  uci    Coordinate notation (g1f3, e7e8q)\n")
}
