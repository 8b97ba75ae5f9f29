package pipeline

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// OrderedPool runs index-addressed tasks on a bounded number of goroutines.
// Tasks write their results into caller-owned slots keyed by index, so the
// caller can consume them in input order regardless of completion order.
type OrderedPool struct {
	workers int
}

// NewOrderedPool creates a pool; workers <= 0 means one per CPU.
func NewOrderedPool(workers int) *OrderedPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &OrderedPool{workers: workers}
}

// Workers returns the concurrency limit.
func (p *OrderedPool) Workers() int {
	return p.workers
}

// Run calls fn(ctx, i) for every i in [0, n). A failing task does not cancel
// the others; once all have finished the error of the lowest failing index
// is returned, which keeps the outcome independent of scheduling. Dispatch
// stops early if ctx is done.
func (p *OrderedPool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	errs := make([]error, n)

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			break
		}
		g.Go(func() error {
			errs[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
