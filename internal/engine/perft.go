package engine

import "github.com/kjmartin/chesskit/internal/chess"

// Perft counts the leaf nodes of the legal move tree to the given
// depth. It is the standard cross-check for move generation: any
// generation or application bug shows up as a wrong count against the
// published tables.
func Perft(pos *chess.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := LegalMoves(pos)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, mv := range moves {
		next := Apply(*pos, mv)
		nodes += Perft(&next, depth-1)
	}
	return nodes
}

// Divide returns the perft count under each root move, keyed by the
// move's coordinate form. Comparing a divide against a known-good
// engine pins a wrong total to the branch that causes it.
func Divide(pos *chess.Position, depth int) map[string]uint64 {
	counts := make(map[string]uint64)
	for _, mv := range LegalMoves(pos) {
		next := Apply(*pos, mv)
		counts[mv.String()] = Perft(&next, depth-1)
	}
	return counts
}
