package hashing

import (
	"sync"

	"github.com/kjmartin/chesskit/internal/chess"
)

// ThreadSafeDuplicateDetector wraps DuplicateDetector with mutex
// protection for concurrent use, typically shared across a worker
// pool.
type ThreadSafeDuplicateDetector struct {
	detector *DuplicateDetector
	mu       sync.RWMutex
}

// NewThreadSafeDuplicateDetector creates a thread-safe detector.
// A capacity of 0 means unlimited.
func NewThreadSafeDuplicateDetector(capacity int) *ThreadSafeDuplicateDetector {
	return &ThreadSafeDuplicateDetector{
		detector: NewDuplicateDetector(capacity),
	}
}

// CheckAndAdd atomically checks whether g was seen before, remembering
// it otherwise.
func (d *ThreadSafeDuplicateDetector) CheckAndAdd(g *chess.Game) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detector.CheckAndAdd(g)
}

// DuplicateCount returns the number of duplicates detected.
func (d *ThreadSafeDuplicateDetector) DuplicateCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.detector.DuplicateCount()
}

// UniqueCount returns the number of distinct games remembered.
func (d *ThreadSafeDuplicateDetector) UniqueCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.detector.UniqueCount()
}

// IsFull reports whether the detector reached its capacity limit.
func (d *ThreadSafeDuplicateDetector) IsFull() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.detector.IsFull()
}

// Reset clears the detector.
func (d *ThreadSafeDuplicateDetector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Reset()
}

// LoadFromDetector copies signatures from an existing detector, for
// example one rebuilt from a stored collection. Call before concurrent
// use.
func (d *ThreadSafeDuplicateDetector) LoadFromDetector(other *DuplicateDetector) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for sig := range other.seen {
		if d.detector.IsFull() {
			return
		}
		d.detector.seen[sig] = struct{}{}
	}
}
