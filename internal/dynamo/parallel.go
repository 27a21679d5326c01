package dynamo

import (
	"context"
	"sync"
)

// RunFunc generates one run. idx is the run position in the batch and seed
// the run's private random seed.
type RunFunc func(ctx context.Context, idx int, seed int64) error

// Ensemble fans independent runs out over a bounded set of workers. Run i is
// always seeded seedStart+i so results do not depend on scheduling.
type Ensemble struct {
	numRuns   int
	workers   int
	seedStart int64
}

func NewEnsemble(numRuns, workers int, seedStart int64) *Ensemble {
	if workers < 1 {
		workers = 1
	}
	if workers > numRuns && numRuns > 0 {
		workers = numRuns
	}
	return &Ensemble{numRuns: numRuns, workers: workers, seedStart: seedStart}
}

// Run executes fn for every run and returns one error slot per run.
func (e *Ensemble) Run(ctx context.Context, fn RunFunc) []error {
	errs := make([]error, e.numRuns)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					errs[idx] = err
					continue
				}
				errs[idx] = fn(ctx, idx, e.seedStart+int64(idx))
			}
		}()
	}

	for i := 0; i < e.numRuns; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return errs
}

