// Package parallel runs per-column conversion work on a bounded set of
// goroutines while keeping results in column order.
//
// Conversions switch to the pool once a table holds at least
// DefaultThreshold cells and more than one column; smaller inputs are
// converted sequentially.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// DefaultThreshold is the number of cells (rows x columns) from which column
// conversion runs in parallel.
const DefaultThreshold = 100_000

// ShouldParallelize reports whether a conversion of the given size is worth
// spreading across workers.
func ShouldParallelize(rows, columns int) bool {
	return columns > 1 && rows*columns >= DefaultThreshold
}

// WorkerPool bounds the number of goroutines used by ProcessIndexed.
type WorkerPool struct {
	numWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWorkerPool creates a pool; numWorkers <= 0 uses runtime.NumCPU().
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		numWorkers: numWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Workers returns the pool size.
func (wp *WorkerPool) Workers() int {
	return wp.numWorkers
}

// ProcessIndexed runs worker for 0..n-1 and returns the results in index
// order. The first error cancels the remaining items and is returned without
// results.
func ProcessIndexed[R any](wp *WorkerPool, n int, worker func(int) (R, error)) ([]R, error) {
	if n == 0 {
		return []R{}, nil
	}

	ctx, cancel := context.WithCancel(wp.ctx)
	defer cancel()

	indexCh := make(chan int, n)
	for i := range n {
		indexCh <- i
	}
	close(indexCh)

	results := make([]R, n)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for range min(wp.numWorkers, n) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexCh {
				if ctx.Err() != nil {
					return
				}
				r, err := worker(i)
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					return
				}
				results[i] = r
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := wp.ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close shuts down the worker pool; later calls to ProcessIndexed fail.
func (wp *WorkerPool) Close() {
	wp.cancel()
}
