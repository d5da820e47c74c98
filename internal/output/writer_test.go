package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/kjmartin/chesskit/internal/config"
	"github.com/kjmartin/chesskit/internal/testutil"
)

const writerTestPGN = `[Event "Test"]
[Site "Test"]
[Date "2024.01.01"]
[Round "1"]
[White "Fischer"]
[Black "Spassky"]
[Result "1-0"]

1. e4 e5 2. Nf3 1-0
`

// TestPGNWriter_WriteGame verifies PGN writer outputs correct format
func TestPGNWriter_WriteGame(t *testing.T) {
	game := testutil.MustParseGame(t, writerTestPGN)

	var buf bytes.Buffer
	cfg := config.NewConfig()

	writer := NewPGNWriter(&buf, cfg)
	if err := writer.WriteGame(game); err != nil {
		t.Fatalf("WriteGame failed: %v", err)
	}

	output := buf.String()
	testutil.AssertContains(t, output, `[Event "Test"]`)
	testutil.AssertContains(t, output, `[White "Fischer"]`)
	testutil.AssertContains(t, output, "1. e4 e5 2. Nf3 1-0")
}

// TestJSONWriter_WriteGame verifies JSON writer outputs correct format
func TestJSONWriter_WriteGame(t *testing.T) {
	game := testutil.MustParseGame(t, writerTestPGN)

	var buf bytes.Buffer
	cfg := config.NewConfig()

	writer := NewJSONWriter(&buf, cfg)
	if err := writer.WriteGame(game); err != nil {
		t.Fatalf("WriteGame failed: %v", err)
	}
	if err := writer.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	output := buf.String()
	testutil.AssertContains(t, output, `"games"`)
	testutil.AssertContains(t, output, `"tags"`)
	testutil.AssertContains(t, output, `"Fischer"`)

	var decoded JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Games) != 1 {
		t.Fatalf("decoded %d games, want 1", len(decoded.Games))
	}
	if decoded.Games[0].Result != "1-0" {
		t.Errorf("Result = %q, want 1-0", decoded.Games[0].Result)
	}
}

// TestJSONWriter_Single verifies immediate-mode JSON output
func TestJSONWriter_Single(t *testing.T) {
	game := testutil.MustParseGame(t, writerTestPGN)

	var buf bytes.Buffer
	cfg := config.NewConfig()

	writer := NewJSONWriterSingle(&buf, cfg)
	if err := writer.WriteGame(game); err != nil {
		t.Fatalf("WriteGame failed: %v", err)
	}
	if err := writer.WriteGame(game); err != nil {
		t.Fatalf("WriteGame failed: %v", err)
	}

	output := buf.String()
	testutil.AssertNotContains(t, output, `"games"`)
	if got := strings.Count(output, `"tags"`); got != 2 {
		t.Errorf("wrote %d game objects, want 2", got)
	}
}

// TestGameWriter_Interface verifies that writers implement the interface
func TestGameWriter_Interface(t *testing.T) {
	cfg := config.NewConfig()
	var buf bytes.Buffer

	// Verify PGNWriter implements GameWriter
	var _ GameWriter = NewPGNWriter(&buf, cfg)

	// Verify JSONWriter implements GameWriter
	var _ GameWriter = NewJSONWriter(&buf, cfg)
}

// TestNewGameWriter verifies format dispatch
func TestNewGameWriter(t *testing.T) {
	var buf bytes.Buffer

	cfg := config.NewConfig()
	if _, ok := NewGameWriter(&buf, cfg).(*PGNWriter); !ok {
		t.Error("default config should produce a PGNWriter")
	}

	cfg.Output.JSONFormat = true
	if _, ok := NewGameWriter(&buf, cfg).(*JSONWriter); !ok {
		t.Error("JSONFormat should produce a JSONWriter")
	}
}

// TestPGNWriter_Close verifies Close doesn't error
func TestPGNWriter_Close(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewConfig()

	writer := NewPGNWriter(&buf, cfg)
	if err := writer.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

// TestJSONWriter_Close verifies Close flushes pending games
func TestJSONWriter_Close(t *testing.T) {
	game := testutil.MustParseGame(t, writerTestPGN)

	var buf bytes.Buffer
	cfg := config.NewConfig()

	writer := NewJSONWriter(&buf, cfg)
	writer.WriteGame(game)
	if err := writer.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	// Output should have content after close
	if buf.Len() == 0 {
		t.Error("Expected output after Close")
	}
}

// TestPGNWriter_Flush verifies Flush works correctly
func TestPGNWriter_Flush(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewConfig()

	writer := NewPGNWriter(&buf, cfg)
	if err := writer.Flush(); err != nil {
		t.Errorf("Flush failed: %v", err)
	}
}

func TestGameToJSON_Structure(t *testing.T) {
	game := testutil.MustParseGame(t, `[Event "JSON"]
[Site "Here"]
[Date "2024.01.01"]
[Round "1"]
[White "A"]
[Black "B"]
[Result "1-0"]

1. e4 d5 2. exd5 $2 {Central grab.} Qxd5 (2... Nf6) 3. Nc3 1-0
`)

	jg := GameToJSON(game, config.NewConfig())

	if jg.Tags["White"] != "A" {
		t.Errorf(`Tags["White"] = %q, want "A"`, jg.Tags["White"])
	}
	if jg.PlyCount != 5 {
		t.Errorf("PlyCount = %d, want 5", jg.PlyCount)
	}
	if jg.Result != "1-0" {
		t.Errorf("Result = %q, want 1-0", jg.Result)
	}
	if jg.InitialFEN != "" {
		t.Errorf("InitialFEN = %q, want empty for a standard game", jg.InitialFEN)
	}
	if jg.FinalFEN == "" {
		t.Error("FinalFEN should be set")
	}
	if len(jg.Moves) != 5 {
		t.Fatalf("len(Moves) = %d, want 5", len(jg.Moves))
	}

	first := jg.Moves[0]
	testutil.AssertEqual(t, first, JSONMove{
		MoveNumber: 1,
		Color:      "white",
		SAN:        "e4",
		UCI:        "e2e4",
		From:       "e2",
		To:         "e4",
		Piece:      "pawn",
	})

	grab := jg.Moves[2]
	if grab.SAN != "exd5" || grab.Captured != "pawn" {
		t.Errorf("Moves[2] = %+v, want exd5 capturing a pawn", grab)
	}
	testutil.AssertEqual(t, grab.NAGs, []int{2})
	testutil.AssertEqual(t, grab.Comments, []string{"Central grab."})

	recapture := jg.Moves[3]
	if recapture.SAN != "Qxd5" || recapture.Captured != "pawn" {
		t.Errorf("Moves[3] = %+v, want Qxd5 capturing a pawn", recapture)
	}
	if recapture.MoveNumber != 0 {
		t.Errorf("black move carries MoveNumber %d, want 0", recapture.MoveNumber)
	}
	if len(recapture.Variations) != 1 || len(recapture.Variations[0]) != 1 {
		t.Fatalf("Moves[3].Variations = %+v, want one single-move line", recapture.Variations)
	}
	if recapture.Variations[0][0].SAN != "Nf6" {
		t.Errorf("variation move = %q, want Nf6", recapture.Variations[0][0].SAN)
	}
}

func TestGameToJSON_Promotion(t *testing.T) {
	game := testutil.MustParseGame(t, `[Event "Promo"]

1. e4 d5 2. exd5 c6 3. dxc6 Nf6 4. cxb7 Nbd7 5. bxa8=Q *
`)

	jg := GameToJSON(game, config.NewConfig())
	if len(jg.Moves) != 9 {
		t.Fatalf("len(Moves) = %d, want 9", len(jg.Moves))
	}

	promo := jg.Moves[8]
	if promo.SAN != "bxa8=Q" {
		t.Errorf("SAN = %q, want bxa8=Q", promo.SAN)
	}
	if promo.UCI != "b7a8q" {
		t.Errorf("UCI = %q, want b7a8q", promo.UCI)
	}
	if promo.Promotion != "queen" {
		t.Errorf("Promotion = %q, want queen", promo.Promotion)
	}
	if promo.Captured != "rook" {
		t.Errorf("Captured = %q, want rook", promo.Captured)
	}
}

func TestGameToJSON_SetupAndFEN(t *testing.T) {
	game := testutil.MustParseGame(t, `[Event "Endgame"]
[SetUp "1"]
[FEN "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"]

1. e4 *
`)

	cfg := config.NewConfig()
	cfg.Output.FENComments = true
	jg := GameToJSON(game, cfg)

	if jg.InitialFEN != "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1" {
		t.Errorf("InitialFEN = %q", jg.InitialFEN)
	}
	if len(jg.Moves) != 1 {
		t.Fatalf("len(Moves) = %d, want 1", len(jg.Moves))
	}
	if jg.Moves[0].FEN == "" {
		t.Error("per-move FEN should be set when FENComments is enabled")
	}
	if jg.FinalFEN != jg.Moves[0].FEN {
		t.Errorf("FinalFEN = %q, last move FEN = %q; want equal", jg.FinalFEN, jg.Moves[0].FEN)
	}
}

func TestGameToJSON_EmptyGame(t *testing.T) {
	game := testutil.MustParseGame(t, `[Event "Empty"]

*
`)

	jg := GameToJSON(game, config.NewConfig())
	if jg.PlyCount != 0 {
		t.Errorf("PlyCount = %d, want 0", jg.PlyCount)
	}
	if len(jg.Moves) != 0 {
		t.Errorf("len(Moves) = %d, want 0", len(jg.Moves))
	}
	if jg.Result != "*" {
		t.Errorf("Result = %q, want *", jg.Result)
	}
	if jg.FinalFEN == "" {
		t.Error("FinalFEN should describe the starting position")
	}
}
