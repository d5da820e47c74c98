package engine

import "github.com/kjmartin/chesskit/internal/chess"

// Move generation is pseudo-legal first: every move that obeys piece
// movement, capture and castling transit rules is generated, then a
// single legality filter applies each candidate to a scratch position
// and discards it if the mover's king is attacked. Pins, en passant
// discoveries and king walks into rays all fall out of that one rule;
// there is no special-cased pin detection to keep in sync with it.

var promotionKinds = [4]chess.PieceKind{chess.Queen, chess.Rook, chess.Bishop, chess.Knight}

// LegalMoves returns every legal move in the position.
func LegalMoves(pos *chess.Position) []chess.Move {
	var ml chess.MoveList
	pseudoLegal(pos, &ml)
	moves := make([]chess.Move, 0, ml.Count)
	for _, mv := range ml.Slice() {
		if isLegal(pos, mv) {
			moves = append(moves, mv)
		}
	}
	return moves
}

// HasLegalMoves reports whether the side to move has at least one
// legal move. It stops at the first one found.
func HasLegalMoves(pos *chess.Position) bool {
	var ml chess.MoveList
	pseudoLegal(pos, &ml)
	for _, mv := range ml.Slice() {
		if isLegal(pos, mv) {
			return true
		}
	}
	return false
}

// IsLegal reports whether the move is legal in the position. Only
// origin, destination and promotion identify the move; the generated
// equivalent is what gets judged.
func IsLegal(pos *chess.Position, mv chess.Move) bool {
	for _, legal := range LegalMoves(pos) {
		if legal.Matches(mv) {
			return true
		}
	}
	return false
}

// isLegal applies the move to a scratch copy and rejects it if the
// mover's king ends up attacked.
func isLegal(pos *chess.Position, mv chess.Move) bool {
	next := Apply(*pos, mv)
	return !IsInCheck(&next, pos.SideToMove)
}

func pseudoLegal(pos *chess.Position, ml *chess.MoveList) {
	us := pos.SideToMove
	own := pos.Occupied[us]

	genPawnMoves(pos, us, ml)

	knight := chess.NewPiece(chess.Knight, us)
	for bb := pos.Pieces[us][chess.Knight]; bb != 0; {
		from := bb.PopLSB()
		addMoves(pos, ml, knight, from, knightAttacks[from]&^own)
	}

	bishop := chess.NewPiece(chess.Bishop, us)
	for bb := pos.Pieces[us][chess.Bishop]; bb != 0; {
		from := bb.PopLSB()
		addMoves(pos, ml, bishop, from, BishopAttacks(from, pos.All)&^own)
	}

	rook := chess.NewPiece(chess.Rook, us)
	for bb := pos.Pieces[us][chess.Rook]; bb != 0; {
		from := bb.PopLSB()
		addMoves(pos, ml, rook, from, RookAttacks(from, pos.All)&^own)
	}

	queen := chess.NewPiece(chess.Queen, us)
	for bb := pos.Pieces[us][chess.Queen]; bb != 0; {
		from := bb.PopLSB()
		addMoves(pos, ml, queen, from, QueenAttacks(from, pos.All)&^own)
	}

	king := chess.NewPiece(chess.King, us)
	kingSq := pos.KingSquare(us)
	addMoves(pos, ml, king, kingSq, kingAttacks[kingSq]&^own)

	genCastles(pos, us, ml)
}

// addMoves records a move from `from` to every square of `targets`.
func addMoves(pos *chess.Position, ml *chess.MoveList, piece chess.Piece, from chess.Square, targets chess.Bitboard) {
	for targets != 0 {
		to := targets.PopLSB()
		ml.Add(chess.NewMove(piece, from, to, pos.PieceAt(to)))
	}
}

// genPawnMoves generates pushes, captures, promotions and en passant
// captures with bitboard-parallel shifts. The from square of a shifted
// target is recovered by subtracting the shift delta.
func genPawnMoves(pos *chess.Position, us chess.Color, ml *chess.MoveList) {
	them := us.Other()
	pawns := pos.Pieces[us][chess.Pawn]
	empty := ^pos.All
	theirs := pos.Occupied[them]
	pawn := chess.NewPiece(chess.Pawn, us)

	var push1, push2, capA, capH chess.Bitboard
	var up, dA, dH int
	var promoRank chess.Bitboard
	if us == chess.White {
		push1 = (pawns << 8) & empty
		push2 = ((push1 & chess.Rank3BB) << 8) & empty
		capA = ((pawns &^ chess.FileABB) << 7) & theirs
		capH = ((pawns &^ chess.FileHBB) << 9) & theirs
		up, dA, dH = 8, 7, 9
		promoRank = chess.Rank8BB
	} else {
		push1 = (pawns >> 8) & empty
		push2 = ((push1 & chess.Rank6BB) >> 8) & empty
		capA = ((pawns &^ chess.FileABB) >> 9) & theirs
		capH = ((pawns &^ chess.FileHBB) >> 7) & theirs
		up, dA, dH = -8, -9, -7
		promoRank = chess.Rank1BB
	}

	for bb := push1; bb != 0; {
		to := bb.PopLSB()
		from := chess.Square(int(to) - up)
		if chess.SquareBB(to)&promoRank != 0 {
			addPromotions(ml, pawn, from, to, chess.NoPiece)
		} else {
			ml.Add(chess.NewMove(pawn, from, to, chess.NoPiece))
		}
	}
	for bb := push2; bb != 0; {
		to := bb.PopLSB()
		from := chess.Square(int(to) - 2*up)
		ml.Add(chess.NewMove(pawn, from, to, chess.NoPiece))
	}
	for bb := capA; bb != 0; {
		to := bb.PopLSB()
		from := chess.Square(int(to) - dA)
		if chess.SquareBB(to)&promoRank != 0 {
			addPromotions(ml, pawn, from, to, pos.PieceAt(to))
		} else {
			ml.Add(chess.NewMove(pawn, from, to, pos.PieceAt(to)))
		}
	}
	for bb := capH; bb != 0; {
		to := bb.PopLSB()
		from := chess.Square(int(to) - dH)
		if chess.SquareBB(to)&promoRank != 0 {
			addPromotions(ml, pawn, from, to, pos.PieceAt(to))
		} else {
			ml.Add(chess.NewMove(pawn, from, to, pos.PieceAt(to)))
		}
	}

	if pos.EnPassant.IsValid() {
		ep := pos.EnPassant
		victim := chess.NewPiece(chess.Pawn, them)
		// Squares from which our pawns attack the target are exactly
		// the squares a pawn of the other colour on the target would
		// attack.
		for bb := pawnAttacks[them][ep] & pawns; bb != 0; {
			from := bb.PopLSB()
			ml.Add(chess.NewEnPassant(pawn, from, ep, victim))
		}
	}
}

func addPromotions(ml *chess.MoveList, pawn chess.Piece, from, to chess.Square, captured chess.Piece) {
	for _, k := range promotionKinds {
		ml.Add(chess.NewPromotion(pawn, from, to, captured, k))
	}
}

// genCastles generates the castling moves whose transit rules hold:
// rights intact, squares between king and rook empty, and neither the
// king's square nor the squares it crosses attacked. King safety on
// the arrival square is the legality filter's business like for every
// other move.
func genCastles(pos *chess.Position, us chess.Color, ml *chess.MoveList) {
	them := us.Other()
	king := chess.NewPiece(chess.King, us)

	if us == chess.White {
		if pos.Castling.Has(chess.WhiteKingside) &&
			pos.All&(chess.SquareBB(chess.F1)|chess.SquareBB(chess.G1)) == 0 &&
			!IsSquareAttacked(pos, chess.E1, them) &&
			!IsSquareAttacked(pos, chess.F1, them) {
			ml.Add(chess.NewCastle(king, chess.E1, chess.G1))
		}
		if pos.Castling.Has(chess.WhiteQueenside) &&
			pos.All&(chess.SquareBB(chess.B1)|chess.SquareBB(chess.C1)|chess.SquareBB(chess.D1)) == 0 &&
			!IsSquareAttacked(pos, chess.E1, them) &&
			!IsSquareAttacked(pos, chess.D1, them) {
			ml.Add(chess.NewCastle(king, chess.E1, chess.C1))
		}
		return
	}

	if pos.Castling.Has(chess.BlackKingside) &&
		pos.All&(chess.SquareBB(chess.F8)|chess.SquareBB(chess.G8)) == 0 &&
		!IsSquareAttacked(pos, chess.E8, them) &&
		!IsSquareAttacked(pos, chess.F8, them) {
		ml.Add(chess.NewCastle(king, chess.E8, chess.G8))
	}
	if pos.Castling.Has(chess.BlackQueenside) &&
		pos.All&(chess.SquareBB(chess.B8)|chess.SquareBB(chess.C8)|chess.SquareBB(chess.D8)) == 0 &&
		!IsSquareAttacked(pos, chess.E8, them) &&
		!IsSquareAttacked(pos, chess.D8, them) {
		ml.Add(chess.NewCastle(king, chess.E8, chess.C8))
	}
}
