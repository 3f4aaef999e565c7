package renderer

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// WorkerPool renders tiles in parallel with at most numWorkers in flight
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run calls render once for every tile and waits for all of them. The first
// error cancels the context handed to the remaining tiles and is returned.
func (wp *WorkerPool) Run(ctx context.Context, tiles []*Tile, render func(ctx context.Context, tile *Tile) error) error {
	eg, ctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(wp.numWorkers))

	for _, tile := range tiles {
		tile := tile

		if err := sem.Acquire(ctx, 1); err != nil {
			// Keep the error from whichever tile failed first
			if waitErr := eg.Wait(); waitErr != nil {
				return waitErr
			}
			return fmt.Errorf("while acquiring worker semaphore: %w", err)
		}

		eg.Go(func() error {
			defer sem.Release(1)
			return render(ctx, tile)
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("while waiting for tile workers: %w", err)
	}
	return nil
}
