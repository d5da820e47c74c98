package engine

import (
	"strings"

	"github.com/kjmartin/chesskit/internal/chess"
	"github.com/kjmartin/chesskit/internal/errors"
)

// ParseSAN resolves a move in standard algebraic notation against the
// position. Check and mate marks are accepted and ignored; castling is
// recognized in both the "O-O" and "0-0" spellings; promotions may
// omit the "=". A token that resolves to no legal move wraps
// errors.ErrInvalidSAN and one that resolves to more than one wraps
// errors.ErrAmbiguousMove, both naming the offending text.
func ParseSAN(pos *chess.Position, san string) (chess.Move, error) {
	text := strings.TrimRight(san, "+#")
	if text == "" {
		return chess.Move{}, errors.Wrapf(errors.ErrInvalidSAN, "%q", san)
	}

	switch text {
	case "O-O", "0-0":
		return findCastle(pos, san, true)
	case "O-O-O", "0-0-0":
		return findCastle(pos, san, false)
	}

	kind := chess.Pawn
	rest := text
	if k := chess.KindFromLetter(rest[0]); k != chess.NoPieceKind {
		kind = k
		rest = rest[1:]
	}

	promotion := chess.Pawn
	if i := strings.IndexByte(rest, '='); i >= 0 {
		if kind != chess.Pawn || i != len(rest)-2 {
			return chess.Move{}, errors.Wrapf(errors.ErrInvalidSAN, "%q", san)
		}
		promotion = chess.KindFromLetter(rest[len(rest)-1])
		if promotion == chess.NoPieceKind || promotion == chess.King {
			return chess.Move{}, errors.Wrapf(errors.ErrInvalidSAN, "%q", san)
		}
		rest = rest[:i]
	} else if kind == chess.Pawn && len(rest) >= 3 {
		// "e8Q" style promotions without the equals sign.
		if k := chess.KindFromLetter(rest[len(rest)-1]); k != chess.NoPieceKind && k != chess.King {
			promotion = k
			rest = rest[:len(rest)-1]
		}
	}

	capture := false
	if i := strings.IndexByte(rest, 'x'); i >= 0 {
		capture = true
		rest = rest[:i] + rest[i+1:]
	}

	if len(rest) < 2 {
		return chess.Move{}, errors.Wrapf(errors.ErrInvalidSAN, "%q", san)
	}
	to, err := chess.ParseSquare(rest[len(rest)-2:])
	if err != nil {
		return chess.Move{}, errors.Wrapf(errors.ErrInvalidSAN, "%q", san)
	}

	// Whatever precedes the destination is disambiguation: a file, a
	// rank, or both.
	fromFile, fromRank := -1, -1
	switch disambig := rest[:len(rest)-2]; len(disambig) {
	case 0:
	case 1:
		switch c := disambig[0]; {
		case c >= 'a' && c <= 'h':
			fromFile = int(c - 'a')
		case c >= '1' && c <= '8':
			fromRank = int(c - '1')
		default:
			return chess.Move{}, errors.Wrapf(errors.ErrInvalidSAN, "%q", san)
		}
	case 2:
		sq, err := chess.ParseSquare(disambig)
		if err != nil {
			return chess.Move{}, errors.Wrapf(errors.ErrInvalidSAN, "%q", san)
		}
		fromFile = int(sq.File())
		fromRank = int(sq.Rank())
	default:
		return chess.Move{}, errors.Wrapf(errors.ErrInvalidSAN, "%q", san)
	}

	var found chess.Move
	matches := 0
	for _, mv := range LegalMoves(pos) {
		if mv.Castle || mv.Piece.Kind() != kind || mv.To != to || mv.Promotion != promotion {
			continue
		}
		if mv.IsCapture() != capture {
			continue
		}
		if fromFile >= 0 && int(mv.From.File()) != fromFile {
			continue
		}
		if fromRank >= 0 && int(mv.From.Rank()) != fromRank {
			continue
		}
		found = mv
		matches++
	}

	switch matches {
	case 1:
		return found, nil
	case 0:
		return chess.Move{}, errors.Wrapf(errors.ErrInvalidSAN, "%q", san)
	default:
		return chess.Move{}, errors.Wrapf(errors.ErrAmbiguousMove, "%q", san)
	}
}

func findCastle(pos *chess.Position, san string, kingside bool) (chess.Move, error) {
	for _, mv := range LegalMoves(pos) {
		if mv.Castle && (mv.To.File() == 6) == kingside {
			return mv, nil
		}
	}
	return chess.Move{}, errors.Wrapf(errors.ErrInvalidSAN, "%q", san)
}

// ToSAN renders a legal move in standard algebraic notation with the
// minimal disambiguation the position requires, "+" appended when the
// move gives check and "#" when it mates.
func ToSAN(pos *chess.Position, mv chess.Move) string {
	var sb strings.Builder

	switch {
	case mv.Castle && mv.To.File() == 6:
		sb.WriteString("O-O")
	case mv.Castle:
		sb.WriteString("O-O-O")
	case mv.Piece.Kind() == chess.Pawn:
		if mv.IsCapture() {
			sb.WriteByte('a' + mv.From.File())
			sb.WriteByte('x')
		}
		sb.WriteString(mv.To.String())
		if mv.Promotes() {
			sb.WriteByte('=')
			sb.WriteByte(mv.Promotion.Letter())
		}
	default:
		sb.WriteByte(mv.Piece.Kind().Letter())
		sb.WriteString(disambiguation(pos, mv))
		if mv.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(mv.To.String())
	}

	next := Apply(*pos, mv)
	if InCheck(&next) {
		if HasLegalMoves(&next) {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('#')
		}
	}
	return sb.String()
}

// disambiguation returns the origin qualifier the move needs: nothing
// when no other piece of the same kind reaches the destination, the
// file when it is unique, the rank when the file is shared, the full
// square when both are.
func disambiguation(pos *chess.Position, mv chess.Move) string {
	var others, sameFile, sameRank bool
	for _, m := range LegalMoves(pos) {
		if m.To != mv.To || m.From == mv.From || m.Piece != mv.Piece {
			continue
		}
		others = true
		if m.From.File() == mv.From.File() {
			sameFile = true
		}
		if m.From.Rank() == mv.From.Rank() {
			sameRank = true
		}
	}
	switch {
	case !others:
		return ""
	case !sameFile:
		return string('a' + rune(mv.From.File()))
	case !sameRank:
		return string('1' + rune(mv.From.Rank()))
	default:
		return mv.From.String()
	}
}
