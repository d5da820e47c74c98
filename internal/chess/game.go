package chess

// Game represents a complete chess game: a tag set, the starting
// position, and the move history tree. A Game owns its tree and tags
// exclusively; it is not safe for concurrent mutation and callers
// sharing one Game across goroutines must serialize access.
type Game struct {
	// Tags for this game (Event, Site, Date, White, Black, Result, ...).
	Tags Tags

	// Any comments between the tag section and the first move.
	PrefixComments []string

	// The move history: mainline plus nested variations.
	Tree *MoveTree

	// Line numbers of the start and end of the game in the input file.
	StartLine int
	EndLine   int

	start Position
}

// NewGame creates a game rooted at the given starting position.
func NewGame(start Position) *Game {
	return &Game{
		Tree:  NewMoveTree(start),
		start: start,
	}
}

// Start returns the starting position of the game.
func (g *Game) Start() Position {
	return g.start
}

// Result returns the game result tag, "*" when absent.
func (g *Game) Result() string {
	if g.Tags.Result == "" {
		return "*"
	}
	return g.Tags.Result
}

// PlyCount returns the number of mainline moves in the game.
func (g *Game) PlyCount() int {
	return len(g.Tree.Mainline())
}

// FinalPosition returns the position after the last mainline move.
func (g *Game) FinalPosition() Position {
	line := g.Tree.Mainline()
	if len(line) == 0 {
		return g.start
	}
	pos, _ := g.Tree.Position(line[len(line)-1])
	return pos
}

// MainlineSAN returns the SAN text of the mainline moves in order.
func (g *Game) MainlineSAN() []string {
	line := g.Tree.Mainline()
	sans := make([]string, 0, len(line))
	for _, ix := range line {
		mv, ok := g.Tree.Move(ix)
		if !ok {
			break
		}
		sans = append(sans, mv.SAN)
	}
	return sans
}

// MainlineHashes returns the zobrist hashes of the starting position and
// every mainline position, in game order. This is the history input for
// repetition detection.
func (g *Game) MainlineHashes() []uint64 {
	line := g.Tree.Mainline()
	hashes := make([]uint64, 0, len(line)+1)
	hashes = append(hashes, g.start.Hash)
	for _, ix := range line {
		pos, ok := g.Tree.Position(ix)
		if !ok {
			break
		}
		hashes = append(hashes, pos.Hash)
	}
	return hashes
}
