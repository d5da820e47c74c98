package chess

import "fmt"

// Square identifies a board square as an index 0-63.
// A1 = 0, B1 = 1, ..., H8 = 63 (little-endian rank-file mapping).
type Square uint8

// NoSquare marks the absence of a square, e.g. no en passant target.
const NoSquare Square = 64

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// NewSquare builds a square from file and rank indices (0-7 each).
func NewSquare(file, rank uint8) Square {
	return Square(rank*8 + file)
}

// File returns the file index of the square (0 = a, 7 = h).
func (s Square) File() uint8 {
	return uint8(s) & 7
}

// Rank returns the rank index of the square (0 = rank 1, 7 = rank 8).
func (s Square) Rank() uint8 {
	return uint8(s) >> 3
}

// IsValid reports whether the square is on the board.
func (s Square) IsValid() bool {
	return s < NoSquare
}

// String returns the algebraic name of the square, e.g. "e4".
// NoSquare renders as "-".
func (s Square) String() string {
	if !s.IsValid() {
		return "-"
	}
	return string([]byte{'a' + s.File(), '1' + s.Rank()})
}

// ParseSquare converts algebraic text like "e4" to a Square.
func ParseSquare(text string) (Square, error) {
	if len(text) != 2 {
		return NoSquare, fmt.Errorf("invalid square %q", text)
	}
	file := text[0]
	rank := text[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return NoSquare, fmt.Errorf("invalid square %q", text)
	}
	return NewSquare(file-'a', rank-'1'), nil
}
