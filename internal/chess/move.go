package chess

import "strings"

// Move describes a single ply: the origin and destination squares, the
// moving piece, an optional capture, an optional promotion and the
// special-move flags. A move is meaningful only relative to the
// position it was generated from; it does not reference that position.
//
// Promotion uses the zero value Pawn to mean "no promotion", since
// promoting to a pawn is impossible.
type Move struct {
	From      Square
	To        Square
	Piece     Piece
	Captured  Piece // NoPiece when the move is quiet
	Promotion PieceKind
	Castle    bool
	EnPassant bool

	// Notation fields, amendable after the move is recorded.
	SAN      string
	NAGs     []int
	Comments []string
}

// NewMove builds a plain move of piece from one square to another.
// captured is NoPiece for quiet moves.
func NewMove(piece Piece, from, to Square, captured Piece) Move {
	return Move{From: from, To: to, Piece: piece, Captured: captured}
}

// NewPromotion builds a pawn promotion move.
func NewPromotion(piece Piece, from, to Square, captured Piece, promo PieceKind) Move {
	return Move{From: from, To: to, Piece: piece, Captured: captured, Promotion: promo}
}

// NewEnPassant builds an en passant capture. The captured pawn sits on
// a different square than the destination.
func NewEnPassant(piece Piece, from, to Square, captured Piece) Move {
	return Move{From: from, To: to, Piece: piece, Captured: captured, EnPassant: true}
}

// NewCastle builds a castling move described by the king's travel.
func NewCastle(king Piece, from, to Square) Move {
	return Move{From: from, To: to, Piece: king, Captured: NoPiece, Castle: true}
}

// Promotes reports whether the move is a promotion.
func (m Move) Promotes() bool {
	return m.Promotion != Pawn
}

// IsCapture reports whether the move captures a piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoPiece
}

// Matches reports whether two moves denote the same ply. Only origin,
// destination and promotion take part, so a replayed move matches the
// recorded one regardless of notation fields.
func (m Move) Matches(other Move) bool {
	return m.From == other.From && m.To == other.To && m.Promotion == other.Promotion
}

// String returns the move in coordinate form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	var sb strings.Builder
	sb.WriteString(m.From.String())
	sb.WriteString(m.To.String())
	if m.Promotes() {
		sb.WriteByte(m.Promotion.Letter() | 0x20)
	}
	return sb.String()
}

// MoveList is a reusable container for generated moves. A position has
// at most 218 legal moves; 256 avoids reallocation.
type MoveList struct {
	Moves [256]Move
	Count int
}

// Add appends a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.Moves[ml.Count] = m
	ml.Count++
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.Count = 0
}

// Slice returns the filled portion of the list.
func (ml *MoveList) Slice() []Move {
	return ml.Moves[:ml.Count]
}
