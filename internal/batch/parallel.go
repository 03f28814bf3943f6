package batch

import (
	"context"
	"errors"
	"sync"
)

// runParallel fans the thetas out to r.workers goroutines. The summary
// keeps file order. The first failure cancels the thetas not yet started.
func (r *Runner) runParallel(ctx context.Context, f *File) (*Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make([]outcome, len(f.Thetas))
	started := make([]bool, len(f.Thetas))
	sem := make(chan struct{}, r.workers)

	var wg sync.WaitGroup
	for i, theta := range f.Thetas {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
		started[i] = true

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			outcomes[idx] = r.one(ctx, theta, f.Skip())
			if outcomes[idx].err != nil {
				cancel()
			}
		}(i)
	}
	wg.Wait()

	sum := &Summary{}
	var first error
	for i, o := range outcomes {
		if !started[i] {
			break
		}
		if o.err != nil {
			// prefer the failure over the cancellations it caused
			if first == nil || errors.Is(first, context.Canceled) {
				first = o.err
			}
			continue
		}
		sum.add(f.Thetas[i], o)
	}
	if first != nil {
		return sum, first
	}
	return sum, ctx.Err()
}
