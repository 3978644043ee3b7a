package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// noopProcessor returns a processor factory that echoes the item.
func noopProcessor() ProcessorFactory {
	return func() ProcessFunc {
		return func(_ context.Context, item WorkItem) ProcessResult {
			return ProcessResult{FEN: item.FEN, Index: item.Index}
		}
	}
}

// countingProcessor returns a processor factory that increments a counter.
func countingProcessor(counter *int32) ProcessorFactory {
	return func() ProcessFunc {
		return func(_ context.Context, item WorkItem) ProcessResult {
			atomic.AddInt32(counter, 1)
			return ProcessResult{FEN: item.FEN, Index: item.Index, Move: "e2e4"}
		}
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
	pool := NewPool(4, 10, countingProcessor(&processed))
	pool.Start(context.Background())

	const numItems = 10
	for i := 0; i < numItems; i++ {
		pool.Submit(WorkItem{FEN: "8/8/8/8/8/8/8/8 w - - 0 1", Index: i})
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

// TestPoolProcessorPerWorker checks that every worker builds its own processor.
func TestPoolProcessorPerWorker(t *testing.T) {
	var built int32
	factory := func() ProcessFunc {
		atomic.AddInt32(&built, 1)
		return noopProcessor()()
	}

	pool := NewPool(3, 5, factory)
	pool.Start(context.Background())
	pool.Submit(WorkItem{Index: 0})
	go pool.Close()
	collectResults(pool)

	if got := atomic.LoadInt32(&built); got != 3 {
		t.Errorf("processors built = %d; want 3", got)
	}
}

// TestPoolEarlyStop tests early termination with Stop().
func TestPoolEarlyStop(t *testing.T) {
	var processedCount int32

	slow := func() ProcessFunc {
		return func(_ context.Context, item WorkItem) ProcessResult {
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&processedCount, 1)
			return ProcessResult{Index: item.Index}
		}
	}

	pool := NewPool(2, 100, slow)
	pool.Start(context.Background())

	const numItems = 50
	for i := 0; i < numItems; i++ {
		pool.Submit(WorkItem{Index: i})
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

// TestPoolCancelledContext checks that items are drained once ctx is done.
func TestPoolCancelledContext(t *testing.T) {
	var processed int32
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewPool(2, 10, countingProcessor(&processed))
	pool.Start(ctx)
	for i := 0; i < 5; i++ {
		pool.Submit(WorkItem{Index: i})
	}
	go pool.Close()

	if got := collectResults(pool); got != 0 {
		t.Errorf("results = %d; want 0", got)
	}
	if got := atomic.LoadInt32(&processed); got != 0 {
		t.Errorf("processed = %d; want 0", got)
	}
}

// TestPoolIsStopped tests the IsStopped method.
func TestPoolIsStopped(t *testing.T) {
	pool := NewPool(2, 10, noopProcessor())
	pool.Start(context.Background())

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
	slow := func() ProcessFunc {
		return func(context.Context, WorkItem) ProcessResult {
			time.Sleep(100 * time.Millisecond)
			return ProcessResult{}
		}
	}

	// Small buffer to test blocking behavior
	pool := NewPool(1, 2, slow)
	pool.Start(context.Background())

	// First two should succeed (buffer size 2)
	if !pool.TrySubmit(WorkItem{Index: 0}) {
		t.Error("first TrySubmit should succeed")
	}
	if !pool.TrySubmit(WorkItem{Index: 1}) {
		t.Error("second TrySubmit should succeed")
	}

	// Third might fail if buffer is full (timing-dependent, just verify no panic)
	pool.TrySubmit(WorkItem{Index: 2})

	// After stop, TrySubmit should return false
	pool.Stop()
	if pool.TrySubmit(WorkItem{Index: 3}) {
		t.Error("TrySubmit after Stop should return false")
	}

	go pool.Close()
	collectResults(pool)
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
			pool := NewPool(tt.input, 10, noopProcessor())
			if got := pool.NumWorkers(); got != tt.expected {
				t.Errorf("NumWorkers() = %d; want %d", got, tt.expected)
			}
		})
	}
}

// TestPoolResultOrder tests that Collect restores input order.
func TestPoolResultOrder(t *testing.T) {
	variableDelay := func() ProcessFunc {
		return func(_ context.Context, item WorkItem) ProcessResult {
			if item.Index%2 == 0 {
				time.Sleep(10 * time.Millisecond)
			}
			return ProcessResult{Index: item.Index}
		}
	}

	pool := NewPool(4, 20, variableDelay)
	pool.Start(context.Background())

	const numItems = 10
	for i := 0; i < numItems; i++ {
		pool.Submit(WorkItem{Index: i})
	}

	go pool.Close()

	results := Collect(pool.Results())
	if len(results) != numItems {
		t.Fatalf("received %d results; want %d", len(results), numItems)
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("results[%d].Index = %d", i, r.Index)
		}
	}
}

// TestPoolNoRace is designed to be run with -race flag.
func TestPoolNoRace(t *testing.T) {
	var counter int32
	pool := NewPool(8, 50, countingProcessor(&counter))
	pool.Start(context.Background())

	const numItems = 100
	go func() {
		for i := 0; i < numItems; i++ {
			pool.Submit(WorkItem{Index: i})
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
		pool := NewPoolWithOptions(noopProcessor())
		if pool.NumWorkers() != 1 {
			t.Errorf("default workers = %d; want 1", pool.NumWorkers())
		}
		if pool.bufferSize != 10 {
			t.Errorf("default bufferSize = %d; want 10", pool.bufferSize)
		}
	})

	t.Run("with multiple options", func(t *testing.T) {
		pool := NewPoolWithOptions(noopProcessor(), WithWorkers(8), WithBufferSize(100))
		if pool.NumWorkers() != 8 {
			t.Errorf("NumWorkers() = %d; want 8", pool.NumWorkers())
		}
		if pool.bufferSize != 100 {
			t.Errorf("bufferSize = %d; want 100", pool.bufferSize)
		}
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		pool := NewPoolWithOptions(noopProcessor(), WithWorkers(0), WithBufferSize(-5))
		if pool.NumWorkers() != 1 {
			t.Errorf("NumWorkers() = %d; want 1 (default)", pool.NumWorkers())
		}
		if pool.bufferSize != 10 {
			t.Errorf("bufferSize = %d; want 10 (default)", pool.bufferSize)
		}
	})
}
