package chess

import (
	"fmt"
	"strings"
)

// Position is the full board state needed to determine legal moves and
// game outcome. It is a plain value: move application produces a new
// Position and never mutates the old one, so snapshots can be stored
// and shared freely.
type Position struct {
	// Occupancy per (colour, kind).
	Pieces [2][6]Bitboard

	// Derived occupancy, maintained by Put/Remove.
	Occupied [2]Bitboard
	All      Bitboard

	SideToMove Color
	Castling   CastlingRights

	// En passant target square, NoSquare when absent. Valid for exactly
	// one ply after a two-square pawn advance.
	EnPassant Square

	// Plies since the last capture or pawn move.
	HalfMoveClock int

	// Starts at 1, incremented after Black's move.
	FullMoveNumber int

	// Zobrist hash, maintained by the engine package.
	Hash uint64

	// King square cache per colour.
	KingSq [2]Square
}

// PieceAt returns the piece on the square, or NoPiece.
func (p *Position) PieceAt(s Square) Piece {
	bb := SquareBB(s)
	if p.All&bb == 0 {
		return NoPiece
	}
	c := White
	if p.Occupied[Black]&bb != 0 {
		c = Black
	}
	for k := Pawn; k <= King; k++ {
		if p.Pieces[c][k]&bb != 0 {
			return NewPiece(k, c)
		}
	}
	return NoPiece
}

// KingSquare returns the square of the colour's king.
func (p *Position) KingSquare(c Color) Square {
	return p.KingSq[c]
}

// Put places a piece on an empty square, maintaining the occupancy
// masks and the king cache.
func (p *Position) Put(piece Piece, s Square) {
	c := piece.Color()
	k := piece.Kind()
	bb := SquareBB(s)
	p.Pieces[c][k] |= bb
	p.Occupied[c] |= bb
	p.All |= bb
	if k == King {
		p.KingSq[c] = s
	}
}

// Remove takes the piece off the square, maintaining the occupancy masks.
func (p *Position) Remove(piece Piece, s Square) {
	c := piece.Color()
	k := piece.Kind()
	bb := SquareBB(s)
	p.Pieces[c][k] &^= bb
	p.Occupied[c] &^= bb
	p.All &^= bb
}

// Validate checks the structural invariants of a position: exactly one
// king per side, side totals within the sixteen-piece complement, no
// pawns on the first or last rank, and occupancy masks consistent with
// the per-piece boards. Positions are only built through validated
// parses or legal transitions, so a failure here is a programming
// error, not an input error.
func (p *Position) Validate() error {
	for c := White; c <= Black; c++ {
		if n := p.Pieces[c][King].Count(); n != 1 {
			return fmt.Errorf("%v has %d kings", c, n)
		}
		if n := p.Occupied[c].Count(); n > 16 {
			return fmt.Errorf("%v has %d pieces", c, n)
		}
		if p.KingSq[c] != p.Pieces[c][King].LSB() {
			return fmt.Errorf("%v king cache out of date", c)
		}
		var all Bitboard
		for k := Pawn; k <= King; k++ {
			if all&p.Pieces[c][k] != 0 {
				return fmt.Errorf("%v has overlapping piece boards", c)
			}
			all |= p.Pieces[c][k]
		}
		if all != p.Occupied[c] {
			return fmt.Errorf("%v occupancy mask out of date", c)
		}
	}
	if p.Occupied[White]&p.Occupied[Black] != 0 {
		return fmt.Errorf("colour occupancy masks overlap")
	}
	if p.All != p.Occupied[White]|p.Occupied[Black] {
		return fmt.Errorf("global occupancy mask out of date")
	}
	if pawns := p.Pieces[White][Pawn] | p.Pieces[Black][Pawn]; pawns&(Rank1BB|Rank8BB) != 0 {
		return fmt.Errorf("pawn on first or last rank")
	}
	if p.SideToMove >= NoColor {
		return fmt.Errorf("invalid side to move")
	}
	return nil
}

// String renders the board as a text diagram, rank 8 first, with file
// letters underneath. This is the CLI's board display.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for file := 0; file <= 7; file++ {
			piece := p.PieceAt(NewSquare(uint8(file), uint8(rank)))
			if piece == NoPiece {
				sb.WriteByte('.')
			} else {
				sb.WriteString(piece.String())
			}
			if file < 7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
