package chess

import (
	"math/bits"
	"strings"
)

// Bitboard is a 64-bit set of squares. Bit n corresponds to Square n.
type Bitboard uint64

// File and rank masks.
const (
	FileABB Bitboard = 0x0101010101010101
	FileBBB Bitboard = FileABB << 1
	FileCBB Bitboard = FileABB << 2
	FileDBB Bitboard = FileABB << 3
	FileEBB Bitboard = FileABB << 4
	FileFBB Bitboard = FileABB << 5
	FileGBB Bitboard = FileABB << 6
	FileHBB Bitboard = FileABB << 7

	Rank1BB Bitboard = 0x00000000000000FF
	Rank2BB Bitboard = Rank1BB << 8
	Rank3BB Bitboard = Rank1BB << 16
	Rank4BB Bitboard = Rank1BB << 24
	Rank5BB Bitboard = Rank1BB << 32
	Rank6BB Bitboard = Rank1BB << 40
	Rank7BB Bitboard = Rank1BB << 48
	Rank8BB Bitboard = Rank1BB << 56
)

// SquareBB returns a bitboard with only the given square set.
func SquareBB(s Square) Bitboard {
	return Bitboard(1) << s
}

// Has reports whether the square is in the set.
func (b Bitboard) Has(s Square) bool {
	return b&SquareBB(s) != 0
}

// Set returns the bitboard with the square added.
func (b Bitboard) Set(s Square) Bitboard {
	return b | SquareBB(s)
}

// Clear returns the bitboard with the square removed.
func (b Bitboard) Clear(s Square) Bitboard {
	return b &^ SquareBB(s)
}

// Count returns the number of set squares.
func (b Bitboard) Count() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the lowest set square. The bitboard must be non-empty.
func (b Bitboard) LSB() Square {
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB removes and returns the lowest set square.
func (b *Bitboard) PopLSB() Square {
	s := b.LSB()
	*b &= *b - 1
	return s
}

// Squares returns the set squares in ascending order.
func (b Bitboard) Squares() []Square {
	sqs := make([]Square, 0, b.Count())
	for bb := b; bb != 0; {
		sqs = append(sqs, bb.PopLSB())
	}
	return sqs
}

// String renders the bitboard as an 8x8 grid, rank 8 first.
// Useful when debugging move generation.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file <= 7; file++ {
			if b.Has(NewSquare(uint8(file), uint8(rank))) {
				sb.WriteByte('X')
			} else {
				sb.WriteByte('.')
			}
			if file < 7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
