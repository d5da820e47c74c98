package chess

import (
	"fmt"
	"strings"

	"github.com/kjmartin/chesskit/internal/errors"
)

// PathStep records one branch taken off a line: the ply at which the
// branch starts and the 1-based ordinal of the variation among its
// siblings.
type PathStep struct {
	Number    int
	Color     Color
	Variation int
}

// Index names one node of a MoveTree by structure rather than by
// reference: the fullmove number of the move, the colour that played
// it, and the path of variation branches leading to its line. Indices
// are stable for the life of the tree, comparable via Key, and
// serializable. The root of a standard game is (0, Black) with an
// empty path, so the first move is (1, White).
type Index struct {
	Number int
	Color  Color
	Path   []PathStep
}

func colorChar(c Color) byte {
	if c == White {
		return 'w'
	}
	return 'b'
}

// Key returns a canonical string form of the index, usable as a map
// key: "3w", "3b[3b.1]", "4w[3b.1 4w.2]".
func (ix Index) Key() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d%c", ix.Number, colorChar(ix.Color))
	if len(ix.Path) > 0 {
		sb.WriteByte('[')
		for i, step := range ix.Path {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d%c.%d", step.Number, colorChar(step.Color), step.Variation)
		}
		sb.WriteByte(']')
	}
	return sb.String()
}

// String returns the same form as Key.
func (ix Index) String() string {
	return ix.Key()
}

// Equal reports whether two indices name the same node.
func (ix Index) Equal(other Index) bool {
	if ix.Number != other.Number || ix.Color != other.Color || len(ix.Path) != len(other.Path) {
		return false
	}
	for i := range ix.Path {
		if ix.Path[i] != other.Path[i] {
			return false
		}
	}
	return true
}

// next returns the index of the mainline continuation of ix.
func (ix Index) next() Index {
	if ix.Color == White {
		return Index{Number: ix.Number, Color: Black, Path: ix.Path}
	}
	return Index{Number: ix.Number + 1, Color: White, Path: ix.Path}
}

// variation returns the index of the n-th alternative (n >= 1) to the
// mainline continuation of ix.
func (ix Index) variation(n int) Index {
	nx := ix.next()
	path := make([]PathStep, len(ix.Path), len(ix.Path)+1)
	copy(path, ix.Path)
	nx.Path = append(path, PathStep{Number: nx.Number, Color: nx.Color, Variation: n})
	return nx
}

type treeNode struct {
	move     Move
	position Position // position after move; the starting position at the root
	parent   int      // -1 at the root
	children []int    // first child is the mainline continuation
	index    Index
}

// MoveTree is an append-only arena of (move, position-after) nodes
// forming a mainline with arbitrarily nested variations. Nodes are
// addressed by Index, never by pointer; they are write-once after
// creation except for the move's notation fields, which may be amended
// in place. Indices are never reused and stay valid for the life of
// the tree.
//
// The invariant that every node's position equals its move applied to
// the parent's position is maintained by the callers that record moves
// (the engine package's push helpers and the PGN parser), which only
// record legality-checked transitions.
type MoveTree struct {
	nodes []treeNode
	byKey map[string]int
}

// NewMoveTree builds a tree rooted at the given starting position.
// The root index is derived from the position's side to move and
// fullmove number, so the first recorded move carries the number the
// game actually continues from.
func NewMoveTree(start Position) *MoveTree {
	root := Index{Number: start.FullMoveNumber, Color: White}
	if start.SideToMove == White {
		root = Index{Number: start.FullMoveNumber - 1, Color: Black}
	}
	t := &MoveTree{
		nodes: []treeNode{{position: start, parent: -1, index: root}},
		byKey: make(map[string]int),
	}
	t.byKey[root.Key()] = 0
	return t
}

// Root returns the index of the starting position node.
func (t *MoveTree) Root() Index {
	return t.nodes[0].index
}

// Len returns the number of recorded moves (nodes minus the root).
func (t *MoveTree) Len() int {
	return len(t.nodes) - 1
}

func (t *MoveTree) lookup(ix Index) (int, bool) {
	id, ok := t.byKey[ix.Key()]
	return id, ok
}

// MakeMove records a move under the node at `at` and returns the new
// node's index. The caller supplies the position after the move. If a
// child with a matching move already exists, its index is returned and
// nothing is added, so replaying a known line is idempotent. The first
// child recorded at a point is the mainline continuation; later
// children are variations in insertion order.
func (t *MoveTree) MakeMove(mv Move, after Position, at Index) (Index, error) {
	id, ok := t.lookup(at)
	if !ok {
		return Index{}, errors.Wrapf(errors.ErrNoSuchIndex, "make move at %s", at)
	}
	for _, child := range t.nodes[id].children {
		if t.nodes[child].move.Matches(mv) {
			return t.nodes[child].index, nil
		}
	}
	var ix Index
	if n := len(t.nodes[id].children); n == 0 {
		ix = at.next()
	} else {
		ix = at.variation(n)
	}
	childID := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{
		move:     mv,
		position: after,
		parent:   id,
		index:    ix,
	})
	t.nodes[id].children = append(t.nodes[id].children, childID)
	t.byKey[ix.Key()] = childID
	return ix, nil
}

// Position returns the position after the move at the index (the
// starting position for the root index). Absence is reported, not an
// error.
func (t *MoveTree) Position(at Index) (Position, bool) {
	id, ok := t.lookup(at)
	if !ok {
		return Position{}, false
	}
	return t.nodes[id].position, true
}

// Move returns the move at the index. The root index has no move.
func (t *MoveTree) Move(at Index) (Move, bool) {
	id, ok := t.lookup(at)
	if !ok || t.nodes[id].parent == -1 {
		return Move{}, false
	}
	return t.nodes[id].move, true
}

// Prev returns the index of the node the move at `at` was played from.
func (t *MoveTree) Prev(at Index) (Index, bool) {
	id, ok := t.lookup(at)
	if !ok || t.nodes[id].parent == -1 {
		return Index{}, false
	}
	return t.nodes[t.nodes[id].parent].index, true
}

// MainNext returns the index of the mainline continuation at `at`.
func (t *MoveTree) MainNext(at Index) (Index, bool) {
	id, ok := t.lookup(at)
	if !ok || len(t.nodes[id].children) == 0 {
		return Index{}, false
	}
	return t.nodes[t.nodes[id].children[0]].index, true
}

// Variations returns the indices of the alternatives to the mainline
// continuation at `at`, in insertion order.
func (t *MoveTree) Variations(at Index) []Index {
	id, ok := t.lookup(at)
	if !ok || len(t.nodes[id].children) < 2 {
		return nil
	}
	vars := make([]Index, 0, len(t.nodes[id].children)-1)
	for _, child := range t.nodes[id].children[1:] {
		vars = append(vars, t.nodes[child].index)
	}
	return vars
}

// Mainline returns the indices of the mainline moves from the root.
func (t *MoveTree) Mainline() []Index {
	var line []Index
	id := 0
	for len(t.nodes[id].children) > 0 {
		id = t.nodes[id].children[0]
		line = append(line, t.nodes[id].index)
	}
	return line
}

// SetSAN amends the recorded SAN text of the move at the index.
func (t *MoveTree) SetSAN(at Index, san string) error {
	id, ok := t.lookup(at)
	if !ok || t.nodes[id].parent == -1 {
		return errors.Wrapf(errors.ErrNoSuchIndex, "set SAN at %s", at)
	}
	t.nodes[id].move.SAN = san
	return nil
}

// AddNAG amends the move at the index with a numeric annotation glyph.
func (t *MoveTree) AddNAG(at Index, nag int) error {
	id, ok := t.lookup(at)
	if !ok || t.nodes[id].parent == -1 {
		return errors.Wrapf(errors.ErrNoSuchIndex, "add NAG at %s", at)
	}
	t.nodes[id].move.NAGs = append(t.nodes[id].move.NAGs, nag)
	return nil
}

// AddComment amends the move at the index with a comment.
func (t *MoveTree) AddComment(at Index, comment string) error {
	id, ok := t.lookup(at)
	if !ok || t.nodes[id].parent == -1 {
		return errors.Wrapf(errors.ErrNoSuchIndex, "add comment at %s", at)
	}
	t.nodes[id].move.Comments = append(t.nodes[id].move.Comments, comment)
	return nil
}

// WalkEvent classifies the items produced by Walk.
type WalkEvent int

const (
	// VisitMove delivers a move in playing order within its line.
	VisitMove WalkEvent = iota
	// EnterVariation marks the start of an alternative line.
	EnterVariation
	// ExitVariation marks the end of an alternative line.
	ExitVariation
)

// WalkItem is one traversal step: a move visit or a variation boundary.
type WalkItem struct {
	Event WalkEvent
	Index Index
	Move  Move // set for VisitMove
}

// Walk traverses the tree in PGN emission order: each mainline move is
// delivered first, then each variation replacing it, parenthesized by
// Enter/Exit events and recursively walked, then the mainline resumes.
// The walk is finite and restartable; returning false from fn stops it.
func (t *MoveTree) Walk(fn func(WalkItem) bool) {
	t.walkFrom(0, fn)
}

func (t *MoveTree) walkFrom(id int, fn func(WalkItem) bool) bool {
	children := t.nodes[id].children
	if len(children) == 0 {
		return true
	}
	main := children[0]
	if !fn(WalkItem{Event: VisitMove, Index: t.nodes[main].index, Move: t.nodes[main].move}) {
		return false
	}
	for _, v := range children[1:] {
		if !fn(WalkItem{Event: EnterVariation, Index: t.nodes[v].index}) {
			return false
		}
		if !fn(WalkItem{Event: VisitMove, Index: t.nodes[v].index, Move: t.nodes[v].move}) {
			return false
		}
		if !t.walkFrom(v, fn) {
			return false
		}
		if !fn(WalkItem{Event: ExitVariation, Index: t.nodes[v].index}) {
			return false
		}
	}
	return t.walkFrom(main, fn)
}
