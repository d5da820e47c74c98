package eco

import (
	"bytes"
	"strings"
	"testing"

	kiterr "github.com/kjmartin/chesskit/internal/errors"
	"github.com/kjmartin/chesskit/internal/testutil"
)

const testBookYAML = `
- eco: B90
  name: "Sicilian Defense: Najdorf Variation"
  moves: e4 c5 Nf3 d6 d4 cxd4 Nxd4 Nf6 Nc3 a6
- eco: B20
  name: Sicilian Defense
  moves: e4 c5
- eco: C50
  name: Giuoco Piano
  moves: e4 e5 Nf3 Nc6 Bc4 Bc5
- eco: D35
  name: "Queen's Gambit Declined: Exchange Variation"
  moves: d4 d5 c4 e6 Nc3 Nf6 cxd5 exd5
`

const basePGNTags = `[Event "Test"]
[Site "Test"]
[Date "2024.01.01"]
[Round "1"]
[White "A"]
[Black "B"]
[Result "*"]

`

const sicilianNajdorfPGN = basePGNTags + `1. e4 c5 2. Nf3 d6 3. d4 cxd4 4. Nxd4 Nf6 5. Nc3 a6 6. Be2 e5 7. Nb3 Be7 *`

const qgdTransposedPGN = basePGNTags + `1. c4 e6 2. Nc3 d5 3. d4 Nf6 4. cxd5 exd5 *`

const noMatchPGN = basePGNTags + `1. a3 *`

func newTestBook(t *testing.T) *Book {
	t.Helper()
	b, err := LoadReader(strings.NewReader(testBookYAML))
	if err != nil {
		t.Fatalf("failed to load book: %v", err)
	}
	return b
}

func TestBookLoad(t *testing.T) {
	b := newTestBook(t)

	if got := b.Len(); got != 4 {
		t.Errorf("Len() = %d; want 4", got)
	}

	e, ok := b.GetByMoves([]string{"e4", "c5"})
	if !ok {
		t.Fatal("GetByMoves(e4 c5) missed")
	}
	if e.ECO != "B20" {
		t.Errorf("ECO = %q; want B20", e.ECO)
	}
	want := "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6"
	if e.FEN != want {
		t.Errorf("derived FEN = %q; want %q", e.FEN, want)
	}
}

func TestBookSearch(t *testing.T) {
	b := newTestBook(t)

	tests := []struct {
		name string
		sans []string
		eco  string
		ok   bool
	}{
		{
			name: "exact line",
			sans: []string{"e4", "c5", "Nf3", "d6", "d4", "cxd4", "Nxd4", "Nf6", "Nc3", "a6"},
			eco:  "B90",
			ok:   true,
		},
		{
			name: "past the book",
			sans: []string{"e4", "c5", "Nf3", "d6", "d4", "cxd4", "Nxd4", "Nf6", "Nc3", "a6", "Be2", "e5"},
			eco:  "B90",
			ok:   true,
		},
		{
			name: "shortens to parent line",
			sans: []string{"e4", "c5", "Nf3"},
			eco:  "B20",
			ok:   true,
		},
		{
			name: "no match",
			sans: []string{"a3"},
		},
		{
			name: "empty",
			sans: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := b.Search(tt.sans)
			if ok != tt.ok {
				t.Fatalf("Search() ok = %v; want %v", ok, tt.ok)
			}
			if ok && e.ECO != tt.eco {
				t.Errorf("ECO = %q; want %q", e.ECO, tt.eco)
			}
		})
	}
}

func TestBookGetByMoves(t *testing.T) {
	b := newTestBook(t)

	if _, ok := b.GetByMoves([]string{"e4", "c5", "Nf3"}); ok {
		t.Error("GetByMoves should not shorten; e4 c5 Nf3 is not a line")
	}
	if _, ok := b.GetByMoves([]string{"e4", "c5"}); !ok {
		t.Error("GetByMoves(e4 c5) missed")
	}
}

func TestBookGetByFEN(t *testing.T) {
	b := newTestBook(t)

	e, ok := b.GetByFEN("rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2")
	if !ok {
		t.Fatal("GetByFEN missed; counters should be ignored")
	}
	if e.ECO != "B20" {
		t.Errorf("ECO = %q; want B20", e.ECO)
	}

	if _, ok := b.GetByFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1"); ok {
		t.Error("GetByFEN matched a position not in the book")
	}
}

func TestBookGetByName(t *testing.T) {
	b := newTestBook(t)

	e, ok := b.GetByName("Giuoco Piano")
	if !ok {
		t.Fatal("GetByName(Giuoco Piano) missed")
	}
	if e.ECO != "C50" {
		t.Errorf("ECO = %q; want C50", e.ECO)
	}

	if _, ok := b.GetByName("Nonexistent Gambit"); ok {
		t.Error("GetByName matched an unknown name")
	}
}

func TestBookClassifyDeepest(t *testing.T) {
	b := newTestBook(t)
	game := testutil.MustParseGame(t, sicilianNajdorfPGN)

	// The game matches both the two-ply Sicilian entry and the full
	// Najdorf line; the deeper one wins.
	e, ok := b.Classify(game)
	if !ok {
		t.Fatal("Classify missed")
	}
	if e.ECO != "B90" {
		t.Errorf("ECO = %q; want B90", e.ECO)
	}
}

func TestBookClassifyTransposition(t *testing.T) {
	b := newTestBook(t)
	game := testutil.MustParseGame(t, qgdTransposedPGN)

	// The move order is not in the book, so a text search misses.
	if _, ok := b.Search(game.MainlineSAN()); ok {
		t.Fatal("Search matched a transposed move order")
	}

	// The positions transpose into the QGD exchange line.
	e, ok := b.Classify(game)
	if !ok {
		t.Fatal("Classify missed the transposition")
	}
	if e.ECO != "D35" {
		t.Errorf("ECO = %q; want D35", e.ECO)
	}
}

func TestBookClassifyNoMatch(t *testing.T) {
	b := newTestBook(t)
	game := testutil.MustParseGame(t, noMatchPGN)

	if e, ok := b.Classify(game); ok {
		t.Errorf("Classify = %q; want miss", e.ECO)
	}
}

func TestBookAddOpeningTags(t *testing.T) {
	b := newTestBook(t)
	game := testutil.MustParseGame(t, sicilianNajdorfPGN)

	if game.Tags.ECO != "" {
		t.Fatal("game should not have an ECO tag initially")
	}
	if !b.AddOpeningTags(game) {
		t.Fatal("AddOpeningTags() = false; want true")
	}
	if game.Tags.ECO != "B90" {
		t.Errorf("Tags.ECO = %q; want B90", game.Tags.ECO)
	}
	if game.Tags.Opening != "Sicilian Defense: Najdorf Variation" {
		t.Errorf("Tags.Opening = %q", game.Tags.Opening)
	}
}

func TestBookAddOpeningTagsReplaces(t *testing.T) {
	b := newTestBook(t)
	game := testutil.MustParseGame(t, `[Event "Test"]
[ECO "A00"]
[Opening "Mislabeled"]

1. e4 c5 2. Nf3 d6 3. d4 cxd4 4. Nxd4 Nf6 5. Nc3 a6 *
`)

	if !b.AddOpeningTags(game) {
		t.Fatal("AddOpeningTags() = false; want true")
	}
	if game.Tags.ECO != "B90" {
		t.Errorf("Tags.ECO = %q; want B90", game.Tags.ECO)
	}
	if game.Tags.Opening != "Sicilian Defense: Najdorf Variation" {
		t.Errorf("Tags.Opening = %q", game.Tags.Opening)
	}
}

func TestBookAddOpeningTagsNoMatch(t *testing.T) {
	b := newTestBook(t)
	game := testutil.MustParseGame(t, noMatchPGN)

	if b.AddOpeningTags(game) {
		t.Error("AddOpeningTags() = true; want false")
	}
	if game.Tags.ECO != "" {
		t.Errorf("Tags.ECO = %q; want unchanged", game.Tags.ECO)
	}
}

func TestBookCanonicalSpelling(t *testing.T) {
	b, err := LoadReader(strings.NewReader(`
- eco: C55
  name: Italian Game
  moves: e4 e5 Nf3 Nc6 Bc4 Nf6 0-0
`))
	if err != nil {
		t.Fatalf("failed to load book: %v", err)
	}

	// The index uses the engine's spelling even though the book was
	// written with zero castles.
	e, ok := b.GetByMoves([]string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Nf6", "O-O"})
	if !ok {
		t.Fatal("GetByMoves missed the canonical spelling")
	}
	if e.Moves != "e4 e5 Nf3 Nc6 Bc4 Nf6 0-0" {
		t.Errorf("authored move text changed: %q", e.Moves)
	}
}

func TestBookSave(t *testing.T) {
	b := newTestBook(t)

	var buf bytes.Buffer
	if err := b.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	again, err := LoadReader(&buf)
	if err != nil {
		t.Fatalf("reloading saved book failed: %v", err)
	}
	if again.Len() != b.Len() {
		t.Errorf("reloaded Len() = %d; want %d", again.Len(), b.Len())
	}
	e, ok := again.GetByMoves([]string{"e4", "c5"})
	if !ok || e.FEN == "" {
		t.Error("saved book should carry derived FENs")
	}
}

func TestBookEmpty(t *testing.T) {
	b, err := LoadReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty book should load: %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d; want 0", b.Len())
	}
	if _, ok := b.Search([]string{"e4"}); ok {
		t.Error("Search matched in an empty book")
	}
}

func TestBookLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing eco", "- name: X\n  moves: e4\n"},
		{"missing moves", "- eco: A00\n"},
		{"illegal line", "- eco: A00\n  moves: e4 e4\n"},
		{"fen mismatch", "- eco: B20\n  moves: e4 c5\n  fen: 8/4k3/8/8/8/8/4K3/8 w - -\n"},
		{"duplicate line", "- eco: B20\n  moves: e4 c5\n- eco: B99\n  moves: e4 c5\n"},
		{"malformed yaml", "hello: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadReader(strings.NewReader(tt.yaml))
			testutil.AssertIsError(t, err, kiterr.ErrInvalidBook)
		})
	}
}
