// Package worker provides a worker pool for analysing batches of positions
// in parallel.
package worker

import (
	"context"
	"sync"
	"sync/atomic"
)

// WorkItem is one position to analyse.
type WorkItem struct {
	FEN   string
	ID    string // EPD "id" opcode, if any
	Index int    // Original index for tracking
}

// ProcessResult is the outcome of analysing one position.
type ProcessResult struct {
	Index int      `json:"index"`
	ID    string   `json:"id,omitempty"`
	FEN   string   `json:"fen"`
	Move  string   `json:"move,omitempty"`
	Eval  int      `json:"eval"`
	Depth int      `json:"depth"`
	Mate  string   `json:"mate,omitempty"`
	PV    []string `json:"pv,omitempty"`
	Nodes uint64   `json:"nodes,omitempty"`

	// Skipped is set for a repeat of an earlier position; DuplicateOf is that
	// position's index
	Skipped     bool `json:"skipped,omitempty"`
	DuplicateOf int  `json:"duplicate_of,omitempty"`

	Err error `json:"-"`
}

// ProcessFunc analyses one work item.
type ProcessFunc func(ctx context.Context, item WorkItem) ProcessResult

// ProcessorFactory is called once per worker, so each worker can own state
// that is not safe to share, such as a board and its searcher.
type ProcessorFactory func() ProcessFunc

// Pool manages a pool of workers for parallel analysis.
type Pool struct {
	numWorkers   int
	bufferSize   int
	workChan     chan WorkItem
	resultChan   chan ProcessResult
	newProcessor ProcessorFactory
	wg           sync.WaitGroup
	stopFlag     atomic.Bool // Early termination
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 1 {
			p.bufferSize = size
		}
	}
}

// NewPool creates a new worker pool with the specified number of workers and buffer size.
func NewPool(numWorkers, bufferSize int, newProcessor ProcessorFactory) *Pool {
	return NewPoolWithOptions(newProcessor, WithWorkers(numWorkers), WithBufferSize(bufferSize))
}

// NewPoolWithOptions creates a new worker pool using functional options.
// Default: 1 worker, buffer size of 10.
func NewPoolWithOptions(newProcessor ProcessorFactory, opts ...PoolOption) *Pool {
	p := &Pool{
		numWorkers:   1,
		bufferSize:   10,
		newProcessor: newProcessor,
	}
	for _, opt := range opts {
		opt(p)
	}
	// Create channels after options are applied
	p.workChan = make(chan WorkItem, p.bufferSize)
	p.resultChan = make(chan ProcessResult, p.bufferSize)
	return p
}

// Start starts the worker goroutines. ctx is passed to every ProcessFunc call.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

// worker processes items from the work channel until it is closed.
func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	process := p.newProcessor()
	for item := range p.workChan {
		if p.IsStopped() || ctx.Err() != nil {
			continue // Drain channel without processing
		}
		p.resultChan <- process(ctx, item)
	}
}

// Submit submits a work item for processing.
// This may block if the work channel buffer is full.
func (p *Pool) Submit(item WorkItem) {
	p.workChan <- item
}

// TrySubmit attempts to submit a work item without blocking.
// Returns false if the work channel is full or the pool is stopped.
func (p *Pool) TrySubmit(item WorkItem) bool {
	if p.IsStopped() {
		return false
	}
	select {
	case p.workChan <- item:
		return true
	default:
		return false
	}
}

// Stop signals workers to stop processing new items.
// Items already in the channel will be drained but not processed.
func (p *Pool) Stop() {
	p.stopFlag.Store(true)
}

// IsStopped returns true if the pool has been stopped.
func (p *Pool) IsStopped() bool {
	return p.stopFlag.Load()
}

// Close closes the work channel and waits for all workers to finish.
// After calling Close, the result channel will be closed when all workers are done.
func (p *Pool) Close() {
	close(p.workChan)
	p.wg.Wait()
	close(p.resultChan)
}

// Results returns the result channel for reading processed results.
func (p *Pool) Results() <-chan ProcessResult {
	return p.resultChan
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}
