package engine

import "github.com/kjmartin/chesskit/internal/chess"

// Zobrist keys for position hashing. The keys come from a PRNG with a
// fixed seed, so hashes are stable across runs and can be persisted.
var (
	zobristPiece      [2][6][64]uint64 // [colour][kind][square]
	zobristEnPassant  [8]uint64        // one per file
	zobristCastling   [16]uint64       // all castling combinations
	zobristSideToMove uint64           // xored in when black moves
)

// prng is an xorshift64* generator for reproducible keys.
type prng struct {
	state uint64
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := prng{state: 0x98F107A2BEEF1234}

	for c := chess.White; c <= chess.Black; c++ {
		for k := chess.Pawn; k <= chess.King; k++ {
			for sq := chess.A1; sq <= chess.H8; sq++ {
				zobristPiece[c][k][sq] = rng.next()
			}
		}
	}
	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}
	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// ComputeHash returns the zobrist hash of the position, computed from
// scratch. Apply maintains the hash incrementally; this is the
// reference for freshly parsed positions and for consistency checks.
// Two positions hash equal exactly when they have the same piece
// placement, side to move, castling rights and en passant file, which
// is the identity the repetition rule uses.
func ComputeHash(pos *chess.Position) uint64 {
	var h uint64
	for c := chess.White; c <= chess.Black; c++ {
		for k := chess.Pawn; k <= chess.King; k++ {
			for bb := pos.Pieces[c][k]; bb != 0; {
				h ^= zobristPiece[c][k][bb.PopLSB()]
			}
		}
	}
	h ^= zobristCastling[pos.Castling]
	if pos.EnPassant.IsValid() {
		h ^= zobristEnPassant[pos.EnPassant.File()]
	}
	if pos.SideToMove == chess.Black {
		h ^= zobristSideToMove
	}
	return h
}
