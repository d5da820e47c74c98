// board.go - Text board rendering and position inspection
package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kjmartin/chesskit/internal/chess"
	"github.com/kjmartin/chesskit/internal/engine"
)

// renderBoard draws the position as a rank/file grid with FEN piece
// letters, rank 8 at the top.
func renderBoard(pos *chess.Position) string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			piece := pos.PieceAt(chess.NewSquare(uint8(file), uint8(rank)))
			if piece == chess.NoPiece {
				sb.WriteByte('.')
			} else {
				sb.WriteString(piece.String())
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}

// moveTokens splits a -moves argument into SAN tokens. Move numbers
// are dropped so numbered lines paste straight from a PGN; "0-0" is a
// castle, not a number.
func moveTokens(arg string) []string {
	var sans []string
	for _, tok := range strings.Fields(arg) {
		if strings.Trim(tok, "0123456789.") == "" {
			continue
		}
		sans = append(sans, tok)
	}
	return sans
}

// buildGame applies the SAN moves to the starting position. An empty
// fen means the standard initial position.
func buildGame(fen string, moves []string) (*chess.Game, error) {
	var g *chess.Game
	if fen == "" {
		g = engine.NewStandardGame()
	} else {
		var err error
		g, err = engine.NewGameFromFEN(fen)
		if err != nil {
			return nil, err
		}
	}
	if _, err := engine.PushLine(g, g.Tree.Root(), moves); err != nil {
		return nil, err
	}
	return g, nil
}

// legalSANs lists the legal moves of the position in canonical SAN,
// sorted for stable output.
func legalSANs(pos *chess.Position) []string {
	moves := engine.LegalMoves(pos)
	sans := make([]string, len(moves))
	for i, mv := range moves {
		sans[i] = engine.ToSAN(pos, mv)
	}
	sort.Strings(sans)
	return sans
}

// numberedSAN renders the game's mainline as numbered movetext, for
// example "1. e4 e5 2. Nf3". A game starting from a black-to-move
// position opens with "N... san".
func numberedSAN(g *chess.Game) string {
	sans := g.MainlineSAN()
	if len(sans) == 0 {
		return ""
	}

	start := g.Start()
	num := start.FullMoveNumber
	color := start.SideToMove

	var sb strings.Builder
	for i, san := range sans {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case color == chess.White:
			fmt.Fprintf(&sb, "%d. %s", num, san)
		case i == 0:
			fmt.Fprintf(&sb, "%d... %s", num, san)
		default:
			sb.WriteString(san)
		}
		if color == chess.Black {
			num++
		}
		color = color.Other()
	}
	return sb.String()
}

// runPosition implements the position inspection flags: apply the
// moves to the starting position, then print the requested views of
// the result. The FEN of the final position always comes last.
func runPosition(w io.Writer, fen, moves string, board, legal bool) error {
	g, err := buildGame(fen, moveTokens(moves))
	if err != nil {
		return err
	}
	final := g.FinalPosition()

	if line := numberedSAN(g); line != "" {
		fmt.Fprintln(w, line)
	}
	if board {
		fmt.Fprint(w, renderBoard(&final))
	}
	if legal {
		fmt.Fprintln(w, strings.Join(legalSANs(&final), " "))
	}
	fmt.Fprintln(w, engine.FormatFEN(&final))
	return nil
}
