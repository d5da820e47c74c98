package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kjmartin/chesskit/internal/chess"
	"github.com/kjmartin/chesskit/internal/config"
	"github.com/kjmartin/chesskit/internal/eco"
	"github.com/kjmartin/chesskit/internal/testutil"
)

const gameAlpha = `[Event "Alpha"]
[Site "?"]
[Date "2024.03.01"]
[Round "1"]
[White "Adams"]
[Black "Baker"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 1-0
`

const gameBeta = `[Event "Beta"]
[Site "?"]
[Date "2024.03.02"]
[Round "2"]
[White "Clark"]
[Black "Davis"]
[Result "0-1"]

1. d4 Nf6 2. c4 e6 0-1
`

const gameGamma = `[Event "Gamma"]
[Site "?"]
[Date "2024.03.03"]
[Round "3"]
[White "Evans"]
[Black "Frank"]
[Result "1/2-1/2"]

1. c4 c5 1/2-1/2
`

const bookRuyYAML = `- eco: C60
  name: Ruy Lopez
  moves: e4 e5 Nf3 Nc6 Bb5
`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCollectGames(t *testing.T) {
	dir := t.TempDir()
	first := writeTestFile(t, dir, "first.pgn", gameAlpha+"\n"+gameBeta)
	second := writeTestFile(t, dir, "second.pgn", gameGamma)
	missing := filepath.Join(dir, "missing.pgn")

	cfg := config.NewConfig()
	cfg.Workers = 2

	games := collectGames([]string{first, missing, second}, cfg)
	if len(games) != 3 {
		t.Fatalf("games = %d; want 3", len(games))
	}

	// The missing file is skipped; surviving games keep input order.
	events := []string{games[0].Tags.Event, games[1].Tags.Event, games[2].Tags.Event}
	testutil.AssertEqual(t, events, []string{"Alpha", "Beta", "Gamma"})
}

func TestCollectGamesSkipDuplicates(t *testing.T) {
	dir := t.TempDir()
	first := writeTestFile(t, dir, "first.pgn", gameAlpha+"\n"+gameBeta)
	second := writeTestFile(t, dir, "second.pgn", gameAlpha+"\n"+gameGamma)

	cfg := config.NewConfig()
	cfg.SkipDuplicates = true
	cfg.Workers = 1

	games := collectGames([]string{first, second}, cfg)
	if len(games) != 3 {
		t.Fatalf("games = %d; want 3", len(games))
	}
	events := []string{games[0].Tags.Event, games[1].Tags.Event, games[2].Tags.Event}
	testutil.AssertEqual(t, events, []string{"Alpha", "Beta", "Gamma"})
}

func TestCollectGamesKeepsDuplicatesByDefault(t *testing.T) {
	dir := t.TempDir()
	doubled := writeTestFile(t, dir, "doubled.pgn", gameAlpha+"\n"+gameAlpha)

	cfg := config.NewConfig()
	if games := collectGames([]string{doubled}, cfg); len(games) != 2 {
		t.Errorf("games = %d; want 2", len(games))
	}
}

func TestCollectGamesStrictSkipsBadFile(t *testing.T) {
	dir := t.TempDir()
	mixed := writeTestFile(t, dir, "mixed.pgn", `[Event "Bad"]
[Result "*"]

1. e5 *

[Event "Good"]
[Result "*"]

1. e4 *
`)

	cfg := config.NewConfig()
	cfg.SetLog(io.Discard)

	if games := collectGames([]string{mixed}, cfg); len(games) != 0 {
		t.Errorf("strict mode kept %d game(s) from a defective file; want 0", len(games))
	}
}

func TestCollectGamesLenientRecovers(t *testing.T) {
	dir := t.TempDir()
	mixed := writeTestFile(t, dir, "mixed.pgn", `[Event "Bad"]
[Result "*"]

1. e5 *

[Event "Good"]
[Result "*"]

1. e4 *
`)

	cfg := config.NewConfig()
	cfg.Lenient = true
	cfg.SetLog(io.Discard)

	// The unplayable move is dropped; both games survive.
	games := collectGames([]string{mixed}, cfg)
	if len(games) != 2 {
		t.Fatalf("lenient mode kept %d game(s); want 2", len(games))
	}
	testutil.AssertEqual(t, games[0].Tags.Event, "Bad")
	if got := games[0].PlyCount(); got != 0 {
		t.Errorf("defective game kept %d plies; want 0", got)
	}
	testutil.AssertEqual(t, games[1].Tags.Event, "Good")
	testutil.AssertEqual(t, games[1].PlyCount(), 1)
}

func TestWriteGamesPGN(t *testing.T) {
	games := testutil.MustParseGames(t, gameAlpha+"\n"+gameBeta)

	var buf bytes.Buffer
	cfg := config.NewConfig()
	cfg.SetOutput(&buf)

	testutil.AssertNoError(t, writeGames(games, cfg))

	out := buf.String()
	testutil.AssertContains(t, out, `[Event "Alpha"]`)
	testutil.AssertContains(t, out, "3. Bb5 1-0")
	testutil.AssertContains(t, out, `[Event "Beta"]`)

	// The output must parse back to the same games.
	again := testutil.MustParseGames(t, out)
	if len(again) != 2 {
		t.Fatalf("reparsed games = %d; want 2", len(again))
	}
}

func TestWriteGamesJSON(t *testing.T) {
	games := testutil.MustParseGames(t, gameAlpha)

	var buf bytes.Buffer
	cfg := config.NewConfig()
	cfg.SetOutput(&buf)
	cfg.Output.JSONFormat = true

	testutil.AssertNoError(t, writeGames(games, cfg))

	if !json.Valid(buf.Bytes()) {
		t.Fatalf("output is not valid JSON: %s", buf.String())
	}
	testutil.AssertContains(t, buf.String(), `"games"`)
	testutil.AssertContains(t, buf.String(), `"Adams"`)
}

func TestClassifyGames(t *testing.T) {
	book, err := eco.LoadReader(strings.NewReader(bookRuyYAML))
	testutil.AssertNoError(t, err)

	games := testutil.MustParseGames(t, gameAlpha+"\n"+gameBeta)
	tagged := classifyGames(games, book)

	testutil.AssertEqual(t, tagged, 1, "tagged count")
	testutil.AssertEqual(t, games[0].Tags.ECO, "C60")
	testutil.AssertEqual(t, games[0].Tags.Opening, "Ruy Lopez")
	testutil.AssertEqual(t, games[1].Tags.ECO, "", "Beta must stay untagged")
}

func TestImportListExport(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Collection.Path = filepath.Join(t.TempDir(), "collection")

	games := testutil.MustParseGames(t, gameAlpha+"\n"+gameBeta)

	stats, err := importGames(games, cfg)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, stats.Stored, 2, "stored")
	testutil.AssertEqual(t, stats.Duplicates, 0, "duplicates")

	// A second import of the same games only finds duplicates.
	stats, err = importGames(games, cfg)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, stats.Stored, 0, "stored on reimport")
	testutil.AssertEqual(t, stats.Duplicates, 2, "duplicates on reimport")

	var listBuf bytes.Buffer
	testutil.AssertNoError(t, listCollection(&listBuf, cfg))
	lines := strings.Split(strings.TrimRight(listBuf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("list lines = %d; want 2", len(lines))
	}
	testutil.AssertContains(t, lines[0], "Adams - Baker")
	testutil.AssertContains(t, lines[0], "1-0")
	testutil.AssertContains(t, lines[0], "5 plies")
	testutil.AssertContains(t, lines[1], "Clark - Davis")

	var exportBuf bytes.Buffer
	cfg.SetOutput(&exportBuf)
	testutil.AssertNoError(t, exportCollection(cfg))

	exported := testutil.MustParseGames(t, exportBuf.String())
	if len(exported) != 2 {
		t.Fatalf("exported games = %d; want 2", len(exported))
	}
	testutil.AssertEqual(t, exported[0].Tags.White, "Adams")
	testutil.AssertEqual(t, exported[1].Tags.White, "Clark")
}

func TestImportKeepDuplicates(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Collection.Path = filepath.Join(t.TempDir(), "collection")
	cfg.Collection.SkipDuplicates = false

	game := testutil.MustParseGame(t, gameAlpha)
	stats, err := importGames([]*chess.Game{game, game}, cfg)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, stats.Stored, 2, "stored")
	testutil.AssertEqual(t, stats.Duplicates, 0, "duplicates")

	var listBuf bytes.Buffer
	testutil.AssertNoError(t, listCollection(&listBuf, cfg))
	if got := strings.Count(listBuf.String(), "Adams - Baker"); got != 2 {
		t.Errorf("stored copies = %d; want 2", got)
	}
}
