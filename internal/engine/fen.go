package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kjmartin/chesskit/internal/chess"
	"github.com/kjmartin/chesskit/internal/errors"
)

// StartFEN is the FEN record of the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// StartPos returns the standard starting position.
func StartPos() chess.Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic("engine: start position: " + err.Error())
	}
	return pos
}

// ParseFEN converts a six-field FEN record into a position. The record
// is validated strictly, structure and placement both, and every
// failure wraps errors.ErrInvalidFEN. A position that parses is safe
// to generate moves for.
func ParseFEN(fen string) (chess.Position, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return chess.Position{}, errors.Wrapf(errors.ErrInvalidFEN, "want 6 fields, got %d", len(fields))
	}

	var pos chess.Position
	pos.EnPassant = chess.NoSquare

	if err := parsePlacement(&pos, fields[0]); err != nil {
		return chess.Position{}, err
	}
	if err := parseSideToMove(&pos, fields[1]); err != nil {
		return chess.Position{}, err
	}
	if err := parseCastling(&pos, fields[2]); err != nil {
		return chess.Position{}, err
	}
	if err := parseEnPassant(&pos, fields[3]); err != nil {
		return chess.Position{}, err
	}
	if err := parseClocks(&pos, fields[4], fields[5]); err != nil {
		return chess.Position{}, err
	}

	if err := pos.Validate(); err != nil {
		return chess.Position{}, errors.Wrapf(errors.ErrInvalidFEN, "%v", err)
	}
	if err := validateCastlingPlacement(&pos); err != nil {
		return chess.Position{}, err
	}
	if IsInCheck(&pos, pos.SideToMove.Other()) {
		return chess.Position{}, errors.Wrap(errors.ErrInvalidFEN, "side not to move is in check")
	}

	pos.Hash = ComputeHash(&pos)
	return pos, nil
}

func parsePlacement(pos *chess.Position, field string) error {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return errors.Wrapf(errors.ErrInvalidFEN, "want 8 ranks, got %d", len(ranks))
	}
	for i, text := range ranks {
		rank := uint8(7 - i)
		file := uint8(0)
		lastWasDigit := false
		for j := 0; j < len(text); j++ {
			ch := text[j]
			if ch >= '1' && ch <= '8' {
				if lastWasDigit {
					return errors.Wrapf(errors.ErrInvalidFEN, "adjacent digits in rank %d", rank+1)
				}
				file += ch - '0'
				lastWasDigit = true
				continue
			}
			lastWasDigit = false
			piece := chess.PieceFromChar(ch)
			if piece == chess.NoPiece {
				return errors.Wrapf(errors.ErrInvalidFEN, "bad piece %q in rank %d", ch, rank+1)
			}
			if file > 7 {
				return errors.Wrapf(errors.ErrInvalidFEN, "rank %d overflows", rank+1)
			}
			pos.Put(piece, chess.NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return errors.Wrapf(errors.ErrInvalidFEN, "rank %d covers %d files", rank+1, file)
		}
	}
	return nil
}

func parseSideToMove(pos *chess.Position, field string) error {
	switch field {
	case "w":
		pos.SideToMove = chess.White
	case "b":
		pos.SideToMove = chess.Black
	default:
		return errors.Wrapf(errors.ErrInvalidFEN, "bad side to move %q", field)
	}
	return nil
}

func parseCastling(pos *chess.Position, field string) error {
	rights, err := chess.ParseCastlingRights(field)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidFEN, "%v", err)
	}
	pos.Castling = rights
	return nil
}

func parseEnPassant(pos *chess.Position, field string) error {
	if field == "-" {
		return nil
	}
	sq, err := chess.ParseSquare(field)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidFEN, "%v", err)
	}
	wantRank := uint8(5)
	if pos.SideToMove == chess.Black {
		wantRank = 2
	}
	if sq.Rank() != wantRank {
		return errors.Wrapf(errors.ErrInvalidFEN, "en passant square %s on wrong rank", sq)
	}
	if pos.All.Has(sq) {
		return errors.Wrapf(errors.ErrInvalidFEN, "en passant square %s is occupied", sq)
	}
	// The pawn that just double-pushed must actually be there.
	them := pos.SideToMove.Other()
	if !pos.Pieces[them][chess.Pawn].Has(epVictim(sq, pos.SideToMove)) {
		return errors.Wrapf(errors.ErrInvalidFEN, "en passant square %s has no pawn to capture", sq)
	}
	pos.EnPassant = sq
	return nil
}

func parseClocks(pos *chess.Position, halfField, fullField string) error {
	half, err := strconv.Atoi(halfField)
	if err != nil || half < 0 {
		return errors.Wrapf(errors.ErrInvalidFEN, "bad half-move clock %q", halfField)
	}
	full, err := strconv.Atoi(fullField)
	if err != nil || full < 1 {
		return errors.Wrapf(errors.ErrInvalidFEN, "bad full-move number %q", fullField)
	}
	pos.HalfMoveClock = half
	pos.FullMoveNumber = full
	return nil
}

// validateCastlingPlacement checks that every castling right still has
// its king and rook at home.
func validateCastlingPlacement(pos *chess.Position) error {
	checks := []struct {
		right chess.CastlingRights
		king  chess.Square
		rook  chess.Square
		color chess.Color
	}{
		{chess.WhiteKingside, chess.E1, chess.H1, chess.White},
		{chess.WhiteQueenside, chess.E1, chess.A1, chess.White},
		{chess.BlackKingside, chess.E8, chess.H8, chess.Black},
		{chess.BlackQueenside, chess.E8, chess.A8, chess.Black},
	}
	for _, c := range checks {
		if !pos.Castling.Has(c.right) {
			continue
		}
		if pos.KingSquare(c.color) != c.king || !pos.Pieces[c.color][chess.Rook].Has(c.rook) {
			return errors.Wrapf(errors.ErrInvalidFEN, "castling right %s without king and rook at home", c.right)
		}
	}
	return nil
}

// FormatFEN renders the position as a six-field FEN record. Formatting
// a parsed record reproduces it byte for byte.
func FormatFEN(pos *chess.Position) string {
	var sb strings.Builder
	writePlacement(&sb, pos)
	sb.WriteByte(' ')
	if pos.SideToMove == chess.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(pos.Castling.String())
	sb.WriteByte(' ')
	sb.WriteString(pos.EnPassant.String())
	fmt.Fprintf(&sb, " %d %d", pos.HalfMoveClock, pos.FullMoveNumber)
	return sb.String()
}

func writePlacement(sb *strings.Builder, pos *chess.Position) {
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file <= 7; file++ {
			piece := pos.PieceAt(chess.NewSquare(uint8(file), uint8(rank)))
			if piece == chess.NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
}

// StartingPosition resolves a game's starting position from its SetUp
// and FEN tags. SetUp "1" with a valid FEN selects that position;
// SetUp "0", or neither tag present, selects the standard start. Any
// other combination wraps errors.ErrInvalidSetup. Lenient mode honours
// a FEN tag without SetUp, which many real-world files emit.
func StartingPosition(tags *chess.Tags, lenient bool) (chess.Position, error) {
	setup, hasSetup := tags.Get("SetUp")
	fen, hasFEN := tags.Get("FEN")

	switch {
	case !hasSetup && !hasFEN:
		return StartPos(), nil
	case hasSetup && setup == "0":
		return StartPos(), nil
	case hasSetup && setup == "1" && hasFEN:
		pos, err := ParseFEN(fen)
		if err != nil {
			return chess.Position{}, errors.Wrapf(errors.ErrInvalidSetup, "%v", err)
		}
		return pos, nil
	case !hasSetup && lenient:
		pos, err := ParseFEN(fen)
		if err != nil {
			return chess.Position{}, errors.Wrapf(errors.ErrInvalidSetup, "%v", err)
		}
		return pos, nil
	case !hasSetup:
		return chess.Position{}, errors.Wrap(errors.ErrInvalidSetup, "FEN tag without SetUp")
	case setup == "1":
		return chess.Position{}, errors.Wrap(errors.ErrInvalidSetup, "SetUp is 1 but FEN tag is missing")
	default:
		return chess.Position{}, errors.Wrapf(errors.ErrInvalidSetup, "SetUp is %q", setup)
	}
}
