package engine

import "github.com/kjmartin/chesskit/internal/chess"

// Status classifies a position for the side to move.
type Status int

const (
	Normal Status = iota
	Check
	Checkmate
	Stalemate
	DrawFiftyMove
	DrawInsufficientMaterial
	DrawRepetition
)

// String returns a readable status name.
func (s Status) String() string {
	switch s {
	case Normal:
		return "normal"
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case DrawFiftyMove:
		return "draw by fifty-move rule"
	case DrawInsufficientMaterial:
		return "draw by insufficient material"
	case DrawRepetition:
		return "draw by repetition"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the status ends the game.
func (s Status) IsTerminal() bool {
	return s != Normal && s != Check
}

// Classify returns the status of the position for the side to move.
// history carries the zobrist hashes of every position the game has
// passed through, the current one included; pass nil when repetition
// does not matter. Mate and stalemate outrank the draw rules: a move
// that mates as the half-move clock reaches a hundred still mates.
func Classify(pos *chess.Position, history []uint64) Status {
	inCheck := InCheck(pos)
	if !HasLegalMoves(pos) {
		if inCheck {
			return Checkmate
		}
		return Stalemate
	}
	switch {
	case pos.HalfMoveClock >= 100:
		return DrawFiftyMove
	case IsInsufficientMaterial(pos):
		return DrawInsufficientMaterial
	case IsRepetition(pos, history):
		return DrawRepetition
	case inCheck:
		return Check
	}
	return Normal
}

// IsCheckmate reports whether the side to move is checkmated.
func IsCheckmate(pos *chess.Position) bool {
	return InCheck(pos) && !HasLegalMoves(pos)
}

// IsStalemate reports whether the side to move is stalemated.
func IsStalemate(pos *chess.Position) bool {
	return !InCheck(pos) && !HasLegalMoves(pos)
}

// IsFiftyMoveDraw reports whether a hundred plies have passed without
// a capture or pawn move.
func IsFiftyMoveDraw(pos *chess.Position) bool {
	return pos.HalfMoveClock >= 100
}

// IsInsufficientMaterial reports whether neither side can possibly
// deliver mate: bare kings, a lone minor piece, or bishops all on one
// square colour.
func IsInsufficientMaterial(pos *chess.Position) bool {
	heavy := pos.Pieces[chess.White][chess.Pawn] | pos.Pieces[chess.Black][chess.Pawn] |
		pos.Pieces[chess.White][chess.Rook] | pos.Pieces[chess.Black][chess.Rook] |
		pos.Pieces[chess.White][chess.Queen] | pos.Pieces[chess.Black][chess.Queen]
	if heavy != 0 {
		return false
	}

	knights := (pos.Pieces[chess.White][chess.Knight] | pos.Pieces[chess.Black][chess.Knight]).Count()
	bishops := pos.Pieces[chess.White][chess.Bishop] | pos.Pieces[chess.Black][chess.Bishop]

	switch {
	case knights == 0 && bishops == 0:
		return true
	case knights == 1 && bishops == 0:
		return true
	case knights == 0:
		// Any number of bishops confined to one square colour cannot
		// mate, whoever owns them.
		const dark chess.Bitboard = 0xAA55AA55AA55AA55
		return bishops&dark == bishops || bishops&dark == 0
	}
	return false
}

// IsRepetition reports whether the position's hash occurs at least
// three times in the history. The history must include the current
// position.
func IsRepetition(pos *chess.Position, history []uint64) bool {
	n := 0
	for _, h := range history {
		if h == pos.Hash {
			n++
		}
	}
	return n >= 3
}
