package engine

import (
	"testing"

	"github.com/kjmartin/chesskit/internal/chess"
)

var benchFENs = map[string]string{
	"Initial":   "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"Midgame":   "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4",
	"Endgame":   "8/5k2/8/8/8/8/5K2/4R3 w - - 0 1",
	"Complex":   "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"EnPassant": "rnbqkbnr/pppp1ppp/8/4pP2/8/8/PPPPP1PP/RNBQKBNR w KQkq e6 0 3",
	"Castling":  "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1",
}

func BenchmarkParseFEN(b *testing.B) {
	for name, fen := range benchFENs {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				ParseFEN(fen)
			}
		})
	}
}

func BenchmarkFormatFEN(b *testing.B) {
	for name, fen := range benchFENs {
		b.Run(name, func(b *testing.B) {
			pos, _ := ParseFEN(fen)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				FormatFEN(&pos)
			}
		})
	}
}

func BenchmarkFEN_RoundTrip(b *testing.B) {
	fen := benchFENs["Midgame"]
	for i := 0; i < b.N; i++ {
		pos, _ := ParseFEN(fen)
		FormatFEN(&pos)
	}
}

func BenchmarkLegalMoves(b *testing.B) {
	positions := []string{"Initial", "Midgame", "Endgame", "Complex"}
	for _, name := range positions {
		b.Run(name, func(b *testing.B) {
			pos, _ := ParseFEN(benchFENs[name])
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				LegalMoves(&pos)
			}
		})
	}
}

func BenchmarkApply(b *testing.B) {
	cases := []struct {
		name string
		fen  string
		san  string
	}{
		{"PawnMove", benchFENs["Initial"], "e4"},
		{"PieceMove", benchFENs["Initial"], "Nf3"},
		{"KingsideCastle", benchFENs["Castling"], "O-O"},
		{"QueensideCastle", benchFENs["Castling"], "O-O-O"},
		{"EnPassant", benchFENs["EnPassant"], "fxe6"},
		{"Promotion", "8/P7/8/8/8/8/8/4K2k w - - 0 1", "a8=Q"},
	}

	for _, tt := range cases {
		b.Run(tt.name, func(b *testing.B) {
			pos, _ := ParseFEN(tt.fen)
			mv, err := ParseSAN(&pos, tt.san)
			if err != nil {
				b.Fatalf("ParseSAN(%q): %v", tt.san, err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				Apply(pos, mv)
			}
		})
	}
}

func BenchmarkParseSAN(b *testing.B) {
	cases := []struct {
		name string
		fen  string
		san  string
	}{
		{"PawnPush", benchFENs["Initial"], "e4"},
		{"Knight", benchFENs["Initial"], "Nf3"},
		{"Capture", benchFENs["Complex"], "Nxf7"},
		{"Castle", benchFENs["Complex"], "O-O"},
	}

	for _, tt := range cases {
		b.Run(tt.name, func(b *testing.B) {
			pos, _ := ParseFEN(tt.fen)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ParseSAN(&pos, tt.san)
			}
		})
	}
}

func BenchmarkToSAN(b *testing.B) {
	pos, _ := ParseFEN(benchFENs["Complex"])
	moves := LegalMoves(&pos)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ToSAN(&pos, moves[i%len(moves)])
	}
}

func BenchmarkGameReplay_ItalianOpening(b *testing.B) {
	sans := []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5"}
	for i := 0; i < b.N; i++ {
		g := NewStandardGame()
		if _, err := PushLine(g, g.Tree.Root(), sans); err != nil {
			b.Fatalf("PushLine: %v", err)
		}
	}
}

func BenchmarkIsInCheck(b *testing.B) {
	checkFEN := "rnb1kbnr/pppp1ppp/8/4p3/7q/5P2/PPPPP1PP/RNBQKBNR w KQkq - 1 3"

	b.Run("NoCheck", func(b *testing.B) {
		pos, _ := ParseFEN(benchFENs["Initial"])
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			IsInCheck(&pos, chess.White)
		}
	})

	b.Run("InCheck", func(b *testing.B) {
		pos, _ := ParseFEN(checkFEN)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			IsInCheck(&pos, chess.White)
		}
	})
}

func BenchmarkHasLegalMoves(b *testing.B) {
	positions := []string{"Initial", "Midgame", "Endgame"}
	for _, name := range positions {
		b.Run(name, func(b *testing.B) {
			pos, _ := ParseFEN(benchFENs[name])
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				HasLegalMoves(&pos)
			}
		})
	}
}

func BenchmarkPerft(b *testing.B) {
	pos, _ := ParseFEN(benchFENs["Initial"])
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Perft(&pos, 3)
	}
}

func BenchmarkComputeHash(b *testing.B) {
	pos, _ := ParseFEN(benchFENs["Midgame"])
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ComputeHash(&pos)
	}
}
