package worker

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kjmartin/chesskit/internal/parser"
)

// noopProcessFunc returns a basic process function that does nothing.
func noopProcessFunc() ProcessFunc {
	return func(item WorkItem) ProcessResult {
		return ProcessResult{File: item.File, Index: item.Index}
	}
}

// countingProcessFunc returns a process function that increments a counter.
func countingProcessFunc(counter *int32) ProcessFunc {
	return func(item WorkItem) ProcessResult {
		atomic.AddInt32(counter, 1)
		return ProcessResult{File: item.File, Index: item.Index}
	}
}

// collectResults drains the result channel and returns the count.
func collectResults(pool *Pool) int {
	count := 0
	for range pool.Results() {
		count++
	}
	return count
}

// TestPoolBasic tests basic worker pool functionality.
func TestPoolBasic(t *testing.T) {
	var processed int32
	pool := NewPool(4, 10, countingProcessFunc(&processed))
	pool.Start()

	const numItems = 10
	for i := 0; i < numItems; i++ {
		pool.Submit(WorkItem{File: fmt.Sprintf("games%d.pgn", i), Index: i})
	}

	go pool.Close()

	resultCount := collectResults(pool)
	if resultCount != numItems {
		t.Errorf("results = %d; want %d", resultCount, numItems)
	}
	if got := atomic.LoadInt32(&processed); got != numItems {
		t.Errorf("processed = %d; want %d", got, numItems)
	}
}

// TestPoolSingleWorker tests pool with single worker.
func TestPoolSingleWorker(t *testing.T) {
	pool := NewPool(1, 5, noopProcessFunc())
	pool.Start()

	const numItems = 5
	for i := 0; i < numItems; i++ {
		pool.Submit(WorkItem{File: "games.pgn", Index: i})
	}

	go pool.Close()

	if got := collectResults(pool); got != numItems {
		t.Errorf("results = %d; want %d", got, numItems)
	}
}

// TestPoolEarlyStop tests early termination with Stop().
func TestPoolEarlyStop(t *testing.T) {
	var processedCount int32

	slowProcessFunc := func(item WorkItem) ProcessResult {
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&processedCount, 1)
		return ProcessResult{File: item.File, Index: item.Index}
	}

	pool := NewPool(2, 100, slowProcessFunc)
	pool.Start()

	const numItems = 50
	for i := 0; i < numItems; i++ {
		pool.Submit(WorkItem{File: "games.pgn", Index: i})
	}

	time.Sleep(30 * time.Millisecond)
	pool.Stop()

	go pool.Close()
	collectResults(pool)

	// Should have processed fewer than total due to early stop
	if processed := atomic.LoadInt32(&processedCount); processed >= numItems {
		t.Logf("early stop may not have prevented all processing: %d processed", processed)
	}
}

// TestPoolIsStopped tests the IsStopped method.
func TestPoolIsStopped(t *testing.T) {
	pool := NewPool(2, 10, noopProcessFunc())
	pool.Start()

	if pool.IsStopped() {
		t.Error("pool should not be stopped initially")
	}

	pool.Stop()

	if !pool.IsStopped() {
		t.Error("pool should be stopped after Stop()")
	}

	pool.Close()
}

// TestPoolTrySubmit tests non-blocking submission.
func TestPoolTrySubmit(t *testing.T) {
	slowProcessFunc := func(item WorkItem) ProcessResult {
		time.Sleep(100 * time.Millisecond)
		return ProcessResult{}
	}

	// Small buffer to test blocking behavior
	pool := NewPool(1, 2, slowProcessFunc)
	pool.Start()

	// First two should succeed (buffer size 2)
	if !pool.TrySubmit(WorkItem{File: "a.pgn", Index: 0}) {
		t.Error("first TrySubmit should succeed")
	}
	if !pool.TrySubmit(WorkItem{File: "b.pgn", Index: 1}) {
		t.Error("second TrySubmit should succeed")
	}

	// Third might fail if buffer is full (timing-dependent, just verify no panic)
	pool.TrySubmit(WorkItem{File: "c.pgn", Index: 2})

	// After stop, TrySubmit should return false
	pool.Stop()
	if pool.TrySubmit(WorkItem{File: "d.pgn", Index: 3}) {
		t.Error("TrySubmit after Stop should return false")
	}

	pool.Close()
}

// TestPoolNumWorkers tests NumWorkers method.
func TestPoolNumWorkers(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"valid workers", 4, 4},
		{"minimum workers", 1, 1},
		{"zero defaults to 1", 0, 1},
		{"negative defaults to 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(tt.input, 10, noopProcessFunc())
			if got := pool.NumWorkers(); got != tt.expected {
				t.Errorf("NumWorkers() = %d; want %d", got, tt.expected)
			}
		})
	}
}

// TestPoolResultOrder tests that all results are received regardless of order.
func TestPoolResultOrder(t *testing.T) {
	variableDelayFunc := func(item WorkItem) ProcessResult {
		if item.Index%2 == 0 {
			time.Sleep(10 * time.Millisecond)
		}
		return ProcessResult{File: item.File, Index: item.Index}
	}

	pool := NewPool(4, 20, variableDelayFunc)
	pool.Start()

	const numItems = 10
	for i := 0; i < numItems; i++ {
		pool.Submit(WorkItem{File: "games.pgn", Index: i})
	}

	go pool.Close()

	// Collect all result indices
	seen := make(map[int]bool)
	for result := range pool.Results() {
		seen[result.Index] = true
	}

	if len(seen) != numItems {
		t.Errorf("received %d results; want %d", len(seen), numItems)
	}

	// Verify all indices are present
	for i := 0; i < numItems; i++ {
		if !seen[i] {
			t.Errorf("missing index %d in results", i)
		}
	}
}

// TestPoolNoRace is designed to be run with -race flag.
func TestPoolNoRace(t *testing.T) {
	var counter int32
	pool := NewPool(8, 50, countingProcessFunc(&counter))
	pool.Start()

	const numItems = 100
	go func() {
		for i := 0; i < numItems; i++ {
			pool.Submit(WorkItem{File: "games.pgn", Index: i})
		}
		pool.Close()
	}()

	collectResults(pool)

	if got := atomic.LoadInt32(&counter); got != numItems {
		t.Errorf("processed = %d; want %d", got, numItems)
	}
}

// TestNewPoolWithOptions tests the functional options constructor.
func TestNewPoolWithOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		pool := NewPoolWithOptions(noopProcessFunc())
		if pool.NumWorkers() != 1 {
			t.Errorf("default workers = %d; want 1", pool.NumWorkers())
		}
		if pool.bufferSize != 10 {
			t.Errorf("default bufferSize = %d; want 10", pool.bufferSize)
		}
	})

	t.Run("with workers", func(t *testing.T) {
		pool := NewPoolWithOptions(noopProcessFunc(), WithWorkers(4))
		if pool.NumWorkers() != 4 {
			t.Errorf("NumWorkers() = %d; want 4", pool.NumWorkers())
		}
	})

	t.Run("with buffer size", func(t *testing.T) {
		pool := NewPoolWithOptions(noopProcessFunc(), WithBufferSize(50))
		if pool.bufferSize != 50 {
			t.Errorf("bufferSize = %d; want 50", pool.bufferSize)
		}
	})

	t.Run("with multiple options", func(t *testing.T) {
		pool := NewPoolWithOptions(noopProcessFunc(), WithWorkers(8), WithBufferSize(100))
		if pool.NumWorkers() != 8 {
			t.Errorf("NumWorkers() = %d; want 8", pool.NumWorkers())
		}
		if pool.bufferSize != 100 {
			t.Errorf("bufferSize = %d; want 100", pool.bufferSize)
		}
	})

	t.Run("invalid workers ignored", func(t *testing.T) {
		pool := NewPoolWithOptions(noopProcessFunc(), WithWorkers(0))
		if pool.NumWorkers() != 1 {
			t.Errorf("NumWorkers() = %d; want 1 (default)", pool.NumWorkers())
		}
	})

	t.Run("invalid buffer size ignored", func(t *testing.T) {
		pool := NewPoolWithOptions(noopProcessFunc(), WithBufferSize(-5))
		if pool.bufferSize != 10 {
			t.Errorf("bufferSize = %d; want 10 (default)", pool.bufferSize)
		}
	})
}

// TestPoolProcessFiles tests that ProcessFiles returns results in input order.
func TestPoolProcessFiles(t *testing.T) {
	variableDelayFunc := func(item WorkItem) ProcessResult {
		if item.Index%2 == 0 {
			time.Sleep(5 * time.Millisecond)
		}
		res := ProcessResult{File: item.File, Index: item.Index}
		if item.File == "bad.pgn" {
			res.Err = fmt.Errorf("open %s: no such file", item.File)
		}
		return res
	}

	files := []string{"a.pgn", "bad.pgn", "c.pgn", "d.pgn", "e.pgn"}
	pool := NewPool(4, 2, variableDelayFunc)
	results := pool.ProcessFiles(files)

	if len(results) != len(files) {
		t.Fatalf("results = %d; want %d", len(results), len(files))
	}
	for i, res := range results {
		if res.Index != i {
			t.Errorf("results[%d].Index = %d; want %d", i, res.Index, i)
		}
		if res.File != files[i] {
			t.Errorf("results[%d].File = %q; want %q", i, res.File, files[i])
		}
	}
	if results[1].Err == nil {
		t.Error("results[1].Err = nil; want the injected error")
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Error("errors leaked into the wrong slots")
	}
}

// TestPoolProcessFilesEmpty tests ProcessFiles with no input files.
func TestPoolProcessFilesEmpty(t *testing.T) {
	pool := NewPool(2, 10, noopProcessFunc())
	if results := pool.ProcessFiles(nil); len(results) != 0 {
		t.Errorf("results = %d; want 0", len(results))
	}
}

// TestPoolProcessFilesParse tests the pool with a real file-parsing function.
func TestPoolProcessFilesParse(t *testing.T) {
	dir := t.TempDir()

	twoGames := `[Event "First"]
[Result "*"]

1. e4 e5 *

[Event "Second"]
[Result "*"]

1. d4 d5 *
`
	oneGame := `[Event "Third"]
[Result "1-0"]

1. f4 1-0
`
	first := filepath.Join(dir, "two.pgn")
	second := filepath.Join(dir, "one.pgn")
	if err := os.WriteFile(first, []byte(twoGames), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte(oneGame), 0o644); err != nil {
		t.Fatal(err)
	}

	parseFile := func(item WorkItem) ProcessResult {
		res := ProcessResult{File: item.File, Index: item.Index}
		f, err := os.Open(item.File)
		if err != nil {
			res.Err = err
			return res
		}
		defer f.Close()
		res.Games, res.Err = parser.NewParser(f, nil).ParseAll()
		return res
	}

	pool := NewPoolWithOptions(parseFile, WithWorkers(2))
	results := pool.ProcessFiles([]string{first, second, filepath.Join(dir, "missing.pgn")})

	if results[0].Err != nil {
		t.Fatalf("parsing %s failed: %v", first, results[0].Err)
	}
	if got := len(results[0].Games); got != 2 {
		t.Errorf("games in %s = %d; want 2", first, got)
	}
	if results[1].Err != nil {
		t.Fatalf("parsing %s failed: %v", second, results[1].Err)
	}
	if got := len(results[1].Games); got != 1 {
		t.Errorf("games in %s = %d; want 1", second, got)
	}
	if results[1].Games[0].Tags.Event != "Third" {
		t.Errorf("Event = %q; want Third", results[1].Games[0].Tags.Event)
	}
	if results[2].Err == nil {
		t.Error("missing file should report an error")
	}
}
