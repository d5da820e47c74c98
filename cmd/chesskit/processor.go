// processor.go - The file processing pipeline
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kjmartin/chesskit/internal/chess"
	"github.com/kjmartin/chesskit/internal/config"
	"github.com/kjmartin/chesskit/internal/eco"
	"github.com/kjmartin/chesskit/internal/gamedb"
	"github.com/kjmartin/chesskit/internal/hashing"
	"github.com/kjmartin/chesskit/internal/output"
	"github.com/kjmartin/chesskit/internal/parser"
	"github.com/kjmartin/chesskit/internal/worker"
)

var log = slog.Default().With("package", "chesskit")

// parseReader parses a stream of games with the run's parser options.
func parseReader(r io.Reader, name string, cfg *config.Config) ([]*chess.Game, error) {
	opts := &parser.Options{
		Lenient: cfg.Lenient,
		File:    name,
	}
	if cfg.Lenient && cfg.Verbosity > 0 {
		opts.Log = cfg.LogFile
	}
	return parser.NewParser(r, opts).ParseAll()
}

// parseFile opens and parses one PGN file.
func parseFile(path string, cfg *config.Config) ([]*chess.Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseReader(f, path, cfg)
}

// collectGames parses every input file through the worker pool. A file
// that fails to open or parse is logged and skipped; the surviving
// games keep the input order. With SkipDuplicates set, a detector
// shared across the workers drops repeated games as their files parse.
func collectGames(files []string, cfg *config.Config) []*chess.Game {
	var dupes *hashing.ThreadSafeDuplicateDetector
	if cfg.SkipDuplicates {
		dupes = hashing.NewThreadSafeDuplicateDetector(0)
	}

	processFunc := func(item worker.WorkItem) worker.ProcessResult {
		res := worker.ProcessResult{File: item.File, Index: item.Index}
		res.Games, res.Err = parseFile(item.File, cfg)
		if res.Err == nil && dupes != nil {
			res.Games = filterDuplicates(res.Games, dupes)
		}
		return res
	}

	pool := worker.NewPoolWithOptions(processFunc, worker.WithWorkers(cfg.Workers))
	var games []*chess.Game
	for _, res := range pool.ProcessFiles(files) {
		if res.Err != nil {
			log.Error("skipping input file", "file", res.File, "err", res.Err)
			continue
		}
		games = append(games, res.Games...)
	}

	if dupes != nil && dupes.DuplicateCount() > 0 {
		log.Info("duplicate games dropped", "count", dupes.DuplicateCount())
	}
	return games
}

// filterDuplicates keeps the games the detector has not seen before.
func filterDuplicates(games []*chess.Game, dupes *hashing.ThreadSafeDuplicateDetector) []*chess.Game {
	kept := games[:0]
	for _, g := range games {
		if !dupes.CheckAndAdd(g) {
			kept = append(kept, g)
		}
	}
	return kept
}

// classifyGames tags every game with its deepest opening book match
// and returns how many games matched.
func classifyGames(games []*chess.Game, book *eco.Book) int {
	tagged := 0
	for _, g := range games {
		if book.AddOpeningTags(g) {
			tagged++
		}
	}
	return tagged
}

// writeGames sends the games through the configured output writer.
func writeGames(games []*chess.Game, cfg *config.Config) error {
	gw := output.NewGameWriter(cfg.OutputFile, cfg)
	for _, g := range games {
		if err := gw.WriteGame(g); err != nil {
			return err
		}
	}
	return gw.Close()
}

// importGames stores the games in the collection and reports the
// import statistics.
func importGames(games []*chess.Game, cfg *config.Config) (gamedb.ImportStats, error) {
	db, err := gamedb.Open(cfg.Collection.Path)
	if err != nil {
		return gamedb.ImportStats{}, err
	}
	defer db.Close()
	return db.Import(games, cfg.Collection.SkipDuplicates)
}

// listCollection prints one summary line per stored game.
func listCollection(w io.Writer, cfg *config.Config) error {
	db, err := gamedb.Open(cfg.Collection.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.List()
	if err != nil {
		return err
	}
	for _, rec := range records {
		fmt.Fprintf(w, "%d\t%s\t%s - %s\t%s\t%d plies\n",
			rec.ID, rec.Event, rec.White, rec.Black, rec.Result, rec.PlyCount)
	}
	return nil
}

// exportCollection writes every stored game through the output
// pipeline in the configured format.
func exportCollection(cfg *config.Config) error {
	db, err := gamedb.Open(cfg.Collection.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Export(cfg.OutputFile, cfg)
}
