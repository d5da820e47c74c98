// Package engine implements the rules of chess over the chess
// package's types: attack computation, legal move generation, move
// application, game state classification and the FEN and SAN codecs.
package engine

import "github.com/kjmartin/chesskit/internal/chess"

// Pre-computed attack tables for the non-sliding pieces.
var (
	knightAttacks [64]chess.Bitboard
	kingAttacks   [64]chess.Bitboard
	pawnAttacks   [2][64]chess.Bitboard // [colour][square]
)

// File masks used when shifting bitboards sideways, so pieces do not
// wrap from the a-file to the h-file and back.
const (
	notFileA  = ^chess.FileABB
	notFileH  = ^chess.FileHBB
	notFileAB = ^(chess.FileABB | chess.FileBBB)
	notFileGH = ^(chess.FileGBB | chess.FileHBB)
)

func init() {
	initKnightAttacks()
	initKingAttacks()
	initPawnAttacks()
	initMagics()  // from magic.go
	initZobrist() // from zobrist.go
}

func initKnightAttacks() {
	for sq := chess.A1; sq <= chess.H8; sq++ {
		bb := chess.SquareBB(sq)

		var attacks chess.Bitboard

		// Two ranks, one file.
		attacks |= (bb << 17) & notFileA
		attacks |= (bb << 15) & notFileH
		attacks |= (bb >> 17) & notFileH
		attacks |= (bb >> 15) & notFileA

		// One rank, two files.
		attacks |= (bb << 10) & notFileAB
		attacks |= (bb << 6) & notFileGH
		attacks |= (bb >> 10) & notFileGH
		attacks |= (bb >> 6) & notFileAB

		knightAttacks[sq] = attacks
	}
}

func initKingAttacks() {
	for sq := chess.A1; sq <= chess.H8; sq++ {
		bb := chess.SquareBB(sq)

		attacks := bb<<8 | bb>>8
		attacks |= (bb << 1) & notFileA
		attacks |= (bb >> 1) & notFileH
		attacks |= (bb << 9) & notFileA
		attacks |= (bb << 7) & notFileH
		attacks |= (bb >> 7) & notFileA
		attacks |= (bb >> 9) & notFileH

		kingAttacks[sq] = attacks
	}
}

func initPawnAttacks() {
	for sq := chess.A1; sq <= chess.H8; sq++ {
		bb := chess.SquareBB(sq)

		pawnAttacks[chess.White][sq] = (bb<<9)&notFileA | (bb<<7)&notFileH
		pawnAttacks[chess.Black][sq] = (bb>>7)&notFileA | (bb>>9)&notFileH
	}
}

// KnightAttacks returns the knight attack set for a square.
func KnightAttacks(sq chess.Square) chess.Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack set for a square.
func KingAttacks(sq chess.Square) chess.Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of the colour attacks from a
// square. Attacks only; pushes are not included.
func PawnAttacks(c chess.Color, sq chess.Square) chess.Bitboard {
	return pawnAttacks[c][sq]
}

// QueenAttacks returns the queen attack set for a square under the
// given occupancy.
func QueenAttacks(sq chess.Square, occupied chess.Bitboard) chess.Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// AttackersTo returns every piece of the given colour that attacks the
// square. A pawn of colour c attacks sq exactly when a pawn of the
// other colour on sq would attack the pawn's square, which is why the
// pawn lookup runs through the opposite table.
func AttackersTo(pos *chess.Position, sq chess.Square, by chess.Color) chess.Bitboard {
	return (pawnAttacks[by.Other()][sq] & pos.Pieces[by][chess.Pawn]) |
		(knightAttacks[sq] & pos.Pieces[by][chess.Knight]) |
		(kingAttacks[sq] & pos.Pieces[by][chess.King]) |
		(BishopAttacks(sq, pos.All) & (pos.Pieces[by][chess.Bishop] | pos.Pieces[by][chess.Queen])) |
		(RookAttacks(sq, pos.All) & (pos.Pieces[by][chess.Rook] | pos.Pieces[by][chess.Queen]))
}

// IsSquareAttacked reports whether the colour attacks the square.
func IsSquareAttacked(pos *chess.Position, sq chess.Square, by chess.Color) bool {
	return AttackersTo(pos, sq, by) != 0
}

// IsInCheck reports whether the colour's king is attacked.
func IsInCheck(pos *chess.Position, c chess.Color) bool {
	return IsSquareAttacked(pos, pos.KingSquare(c), c.Other())
}

// InCheck reports whether the side to move is in check.
func InCheck(pos *chess.Position) bool {
	return IsInCheck(pos, pos.SideToMove)
}
