// Package hashing provides game signatures and duplicate detection.
package hashing

import (
	"fmt"

	"github.com/kjmartin/chesskit/internal/chess"
)

// GameSignature identifies a game by the positions its mainline
// visits. Two games share a signature exactly when they play the same
// line from the same starting position. Transpositions reaching the
// same final position keep distinct signatures because Line folds in
// every intermediate position in order.
type GameSignature struct {
	// Final is the hash of the last mainline position.
	Final uint64
	// Line chains the hashes of every position from start to final.
	Line uint64
	// Plies is the mainline length in half-moves.
	Plies int
}

// Signature computes the signature of g's mainline. Variations do not
// contribute; two games with the same moves but different annotations
// are the same game.
func Signature(g *chess.Game) GameSignature {
	hashes := g.MainlineHashes()
	var line uint64
	for _, h := range hashes {
		line = mix(line ^ h)
	}
	return GameSignature{
		Final: hashes[len(hashes)-1],
		Line:  line,
		Plies: len(hashes) - 1,
	}
}

// Key renders the signature in a fixed text form usable as a database
// key.
func (s GameSignature) Key() string {
	return fmt.Sprintf("%016x-%016x-%d", s.Final, s.Line, s.Plies)
}

// mix is an xorshift64* step. The chain stays stable across runs, so
// signatures can be persisted.
func mix(x uint64) uint64 {
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	return x * 0x2545F4914F6CDD1D
}

// DuplicateDetector remembers the signatures it has seen.
type DuplicateDetector struct {
	seen       map[GameSignature]struct{}
	duplicates int
	capacity   int
}

// NewDuplicateDetector creates a detector. A capacity of 0 means
// unlimited. A detector at capacity stops remembering new games and
// passes them through as non-duplicates.
func NewDuplicateDetector(capacity int) *DuplicateDetector {
	return &DuplicateDetector{
		seen:     make(map[GameSignature]struct{}),
		capacity: capacity,
	}
}

// CheckAndAdd reports whether g was seen before, remembering it
// otherwise.
func (d *DuplicateDetector) CheckAndAdd(g *chess.Game) bool {
	sig := Signature(g)
	if _, ok := d.seen[sig]; ok {
		d.duplicates++
		return true
	}
	if !d.IsFull() {
		d.seen[sig] = struct{}{}
	}
	return false
}

// DuplicateCount returns the number of duplicates detected.
func (d *DuplicateDetector) DuplicateCount() int {
	return d.duplicates
}

// UniqueCount returns the number of distinct games remembered.
func (d *DuplicateDetector) UniqueCount() int {
	return len(d.seen)
}

// IsFull reports whether the detector reached its capacity limit.
func (d *DuplicateDetector) IsFull() bool {
	return d.capacity > 0 && len(d.seen) >= d.capacity
}

// Reset clears the detector.
func (d *DuplicateDetector) Reset() {
	d.seen = make(map[GameSignature]struct{})
	d.duplicates = 0
}
