package engine

import (
	"github.com/kjmartin/chesskit/internal/chess"
	"github.com/kjmartin/chesskit/internal/errors"
)

// NewStandardGame returns a game starting from the standard position.
func NewStandardGame() *chess.Game {
	return chess.NewGame(StartPos())
}

// NewGameFromFEN returns a game starting from the given position, with
// its SetUp and FEN tags filled in.
func NewGameFromFEN(fen string) (*chess.Game, error) {
	pos, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	g := chess.NewGame(pos)
	g.Tags.Set("SetUp", "1")
	g.Tags.Set("FEN", FormatFEN(&pos))
	return g, nil
}

// PushSAN resolves the SAN against the position at the index, applies
// it and records it in the game's tree, returning the new move's
// index. Replaying a move already recorded at the index returns the
// existing node, and a different move where a continuation exists
// opens a variation. The recorded SAN is the canonical rendering, not
// the input text.
func PushSAN(g *chess.Game, at chess.Index, san string) (chess.Index, error) {
	pos, ok := g.Tree.Position(at)
	if !ok {
		return chess.Index{}, errors.Wrapf(errors.ErrNoSuchIndex, "push %q at %s", san, at)
	}
	mv, err := ParseSAN(&pos, san)
	if err != nil {
		return chess.Index{}, err
	}
	return record(g, at, &pos, mv)
}

// PushMove validates the move against the position at the index and
// records it like PushSAN. Only origin, destination and promotion are
// consulted, so a bare coordinate move resolves to the fully described
// generated move. Illegal moves wrap errors.ErrIllegalMove.
func PushMove(g *chess.Game, at chess.Index, mv chess.Move) (chess.Index, error) {
	pos, ok := g.Tree.Position(at)
	if !ok {
		return chess.Index{}, errors.Wrapf(errors.ErrNoSuchIndex, "push %s at %s", mv, at)
	}
	for _, legal := range LegalMoves(&pos) {
		if legal.Matches(mv) {
			return record(g, at, &pos, legal)
		}
	}
	return chess.Index{}, errors.Wrapf(errors.ErrIllegalMove, "%s", mv)
}

// PushLine pushes a SAN sequence starting at the index and returns the
// index of the last move.
func PushLine(g *chess.Game, at chess.Index, sans []string) (chess.Index, error) {
	for _, san := range sans {
		ix, err := PushSAN(g, at, san)
		if err != nil {
			return chess.Index{}, err
		}
		at = ix
	}
	return at, nil
}

func record(g *chess.Game, at chess.Index, pos *chess.Position, mv chess.Move) (chess.Index, error) {
	san := ToSAN(pos, mv)
	after := Apply(*pos, mv)
	ix, err := g.Tree.MakeMove(mv, after, at)
	if err != nil {
		return chess.Index{}, err
	}
	if err := g.Tree.SetSAN(ix, san); err != nil {
		return chess.Index{}, err
	}
	return ix, nil
}

// GameStatus classifies the position after the last mainline move,
// with repetition counted over the whole mainline.
func GameStatus(g *chess.Game) Status {
	final := g.FinalPosition()
	return Classify(&final, g.MainlineHashes())
}
