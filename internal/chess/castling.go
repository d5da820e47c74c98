package chess

import "fmt"

// CastlingRights is a bitmask of the four castling permissions.
// Rights are monotonic: they are only ever cleared during a game,
// never re-granted.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoRights  CastlingRights = 0
	AllRights CastlingRights = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

// Has reports whether every right in r2 is held.
func (r CastlingRights) Has(r2 CastlingRights) bool {
	return r&r2 == r2
}

// Clear returns the rights with r2 removed.
func (r CastlingRights) Clear(r2 CastlingRights) CastlingRights {
	return r &^ r2
}

// ClearColor returns the rights with both of the colour's rights removed.
func (r CastlingRights) ClearColor(c Color) CastlingRights {
	if c == White {
		return r.Clear(WhiteKingside | WhiteQueenside)
	}
	return r.Clear(BlackKingside | BlackQueenside)
}

// String returns the FEN castling field in fixed KQkq order,
// or "-" when no rights remain.
func (r CastlingRights) String() string {
	if r == NoRights {
		return "-"
	}
	buf := make([]byte, 0, 4)
	if r.Has(WhiteKingside) {
		buf = append(buf, 'K')
	}
	if r.Has(WhiteQueenside) {
		buf = append(buf, 'Q')
	}
	if r.Has(BlackKingside) {
		buf = append(buf, 'k')
	}
	if r.Has(BlackQueenside) {
		buf = append(buf, 'q')
	}
	return string(buf)
}

// ParseCastlingRights converts a FEN castling field to rights.
// Letters must appear in KQkq order without repeats.
func ParseCastlingRights(text string) (CastlingRights, error) {
	if text == "-" {
		return NoRights, nil
	}
	if text == "" || len(text) > 4 {
		return NoRights, fmt.Errorf("invalid castling field %q", text)
	}
	order := "KQkq"
	rights := NoRights
	pos := 0
	for i := 0; i < len(text); i++ {
		idx := -1
		for j := pos; j < len(order); j++ {
			if order[j] == text[i] {
				idx = j
				break
			}
		}
		if idx < 0 {
			return NoRights, fmt.Errorf("invalid castling field %q", text)
		}
		rights |= 1 << idx
		pos = idx + 1
	}
	return rights, nil
}
