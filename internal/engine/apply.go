package engine

import "github.com/kjmartin/chesskit/internal/chess"

// Apply plays a move on the position and returns the resulting
// position. The input is taken by value and never modified, so every
// position a game passes through can be kept. Apply trusts its caller:
// the move must be one generated for this exact position, and feeding
// it anything else corrupts the returned state. The zobrist hash is
// maintained incrementally and always matches ComputeHash of the
// result.
func Apply(pos chess.Position, mv chess.Move) chess.Position {
	us := pos.SideToMove

	// The old en passant file leaves the hash whether or not a new one
	// appears below.
	if pos.EnPassant.IsValid() {
		pos.Hash ^= zobristEnPassant[pos.EnPassant.File()]
	}
	pos.EnPassant = chess.NoSquare

	switch {
	case mv.Castle:
		applyCastle(&pos, mv, us)
	case mv.EnPassant:
		removePiece(&pos, mv.Captured, epVictim(mv.To, us))
		movePiece(&pos, mv.Piece, mv.From, mv.To)
	default:
		if mv.Captured != chess.NoPiece {
			removePiece(&pos, mv.Captured, mv.To)
		}
		movePiece(&pos, mv.Piece, mv.From, mv.To)
		if mv.Promotes() {
			removePiece(&pos, mv.Piece, mv.To)
			putPiece(&pos, chess.NewPiece(mv.Promotion, us), mv.To)
		}
	}

	if oldRights := pos.Castling; oldRights != chess.NoRights {
		pos.Castling = rightsAfterTouch(rightsAfterTouch(oldRights, mv.From), mv.To)
		if pos.Castling != oldRights {
			pos.Hash ^= zobristCastling[oldRights] ^ zobristCastling[pos.Castling]
		}
	}

	if mv.Piece.Kind() == chess.Pawn {
		if d := int(mv.To) - int(mv.From); d == 16 || d == -16 {
			ep := chess.Square((int(mv.To) + int(mv.From)) / 2)
			pos.EnPassant = ep
			pos.Hash ^= zobristEnPassant[ep.File()]
		}
	}

	if mv.Piece.Kind() == chess.Pawn || mv.IsCapture() {
		pos.HalfMoveClock = 0
	} else {
		pos.HalfMoveClock++
	}
	if us == chess.Black {
		pos.FullMoveNumber++
	}
	pos.SideToMove = us.Other()
	pos.Hash ^= zobristSideToMove

	return pos
}

// applyCastle moves the king along mv and brings the rook to the
// square the king crossed.
func applyCastle(pos *chess.Position, mv chess.Move, us chess.Color) {
	movePiece(pos, mv.Piece, mv.From, mv.To)

	rook := chess.NewPiece(chess.Rook, us)
	rank := mv.To.Rank()
	if mv.To.File() == 6 {
		movePiece(pos, rook, chess.NewSquare(7, rank), chess.NewSquare(5, rank))
	} else {
		movePiece(pos, rook, chess.NewSquare(0, rank), chess.NewSquare(3, rank))
	}
}

// epVictim returns the square of the pawn an en passant capture on
// `to` removes.
func epVictim(to chess.Square, us chess.Color) chess.Square {
	if us == chess.White {
		return to - 8
	}
	return to + 8
}

// rightsAfterTouch clears the castling rights a move touching the
// square forfeits: the king square drops both rights of its colour, a
// rook home square drops its one. Captures clear through the move's
// destination the same way.
func rightsAfterTouch(r chess.CastlingRights, sq chess.Square) chess.CastlingRights {
	switch sq {
	case chess.E1:
		return r.ClearColor(chess.White)
	case chess.H1:
		return r.Clear(chess.WhiteKingside)
	case chess.A1:
		return r.Clear(chess.WhiteQueenside)
	case chess.E8:
		return r.ClearColor(chess.Black)
	case chess.H8:
		return r.Clear(chess.BlackKingside)
	case chess.A8:
		return r.Clear(chess.BlackQueenside)
	}
	return r
}

func movePiece(pos *chess.Position, piece chess.Piece, from, to chess.Square) {
	pos.Remove(piece, from)
	pos.Put(piece, to)
	keys := &zobristPiece[piece.Color()][piece.Kind()]
	pos.Hash ^= keys[from] ^ keys[to]
}

func removePiece(pos *chess.Position, piece chess.Piece, sq chess.Square) {
	pos.Remove(piece, sq)
	pos.Hash ^= zobristPiece[piece.Color()][piece.Kind()][sq]
}

func putPiece(pos *chess.Position, piece chess.Piece, sq chess.Square) {
	pos.Put(piece, sq)
	pos.Hash ^= zobristPiece[piece.Color()][piece.Kind()][sq]
}
