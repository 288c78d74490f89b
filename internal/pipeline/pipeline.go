// internal/pipeline/pipeline.go
package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Partition returns the half-open index range [lo, hi) of part p when n items
// are split into k contiguous, near-equal blocks.
func Partition(n, k, p int) (lo, hi int) {
	if k < 1 {
		k = 1
	}
	size, rem := n/k, n%k
	lo = p*size + min(p, rem)
	hi = lo + size
	if p < rem {
		hi++
	}
	return lo, hi
}

// Owner returns the part that Partition(n, k, ·) assigns index i to.
func Owner(n, k, i int) int {
	if k < 1 {
		k = 1
	}
	size, rem := n/k, n%k
	if cut := rem * (size + 1); i < cut {
		return i / (size + 1)
	} else if size > 0 {
		return rem + (i-cut)/size
	}
	return 0
}

// RunPhase calls fn once per part and waits for all of them. With a single
// worker fn runs on the calling goroutine. The first error is returned and
// the context passed to the other parts is cancelled.
func RunPhase(ctx context.Context, workers int, fn func(ctx context.Context, part int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if workers <= 1 {
		return fn(ctx, 0)
	}
	g, gctx := errgroup.WithContext(ctx)
	for p := 0; p < workers; p++ {
		p := p
		g.Go(func() error { return fn(gctx, p) })
	}
	return g.Wait()
}
