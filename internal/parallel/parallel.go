// Package parallel provides the single fork-join primitive the RMM
// builder needs: split a contiguous index range into disjoint,
// per-worker sub-ranges and run a callback over each one concurrently,
// joining before returning.
//
// Grounded on the perf-analysis pack's worker-pool and errgroup-based
// fan-out (pkg/parallel.PoolConfig, internal/parser/hprof.parallel.go):
// same contiguous-range partitioning, same errgroup join, generalized
// here to the generic range shape the RMM pipeline's three parallel
// regions (chunk summarising, prefix-fixup shift, internal-node
// subtrees) all share.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Range splits [0, n) into at most workers contiguous, disjoint
// sub-ranges of ceil(n/workers) items each and calls fn(lo, hi) once
// per sub-range; when that stride yields fewer than workers ranges,
// only that many goroutines run. If there is only one sub-range
// (workers <= 1, or n == 1), fn runs inline on the full range with no
// goroutines spawned, so callers never have to special-case the
// sequential case.
//
// fn must only touch indices in [lo, hi); sub-ranges are disjoint so no
// synchronization is required between concurrent calls.
func Range(ctx context.Context, n, workers int, fn func(lo, hi int) error) error {
	if n <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	perWorker := (n + workers - 1) / workers
	if perWorker <= 0 {
		perWorker = n
	}
	actualWorkers := (n + perWorker - 1) / perWorker

	if actualWorkers <= 1 {
		return fn(0, n)
	}

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < actualWorkers; w++ {
		lo := w * perWorker
		hi := min(lo+perWorker, n)
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return fn(lo, hi)
		})
	}
	return g.Wait()
}

// Bounds returns the contiguous, disjoint [lo, hi) sub-range owned by
// worker w of workers total over [0, n), the same partitioning Range
// uses internally. Exposed so callers that need the partitioning
// without the fan-out (e.g. to compute a per-worker base offset
// serially) stay consistent with Range's split.
func Bounds(n, workers, w int) (lo, hi int) {
	if workers < 1 {
		workers = 1
	}
	perWorker := (n + workers - 1) / workers
	if perWorker <= 0 {
		perWorker = n
	}
	lo = w * perWorker
	hi = min(lo+perWorker, n)
	if lo > n {
		lo = n
	}
	if hi > n {
		hi = n
	}
	return lo, hi
}

// NumWorkers returns the actual number of non-empty sub-ranges Range
// would create for n items split across workers.
func NumWorkers(n, workers int) int {
	if n <= 0 {
		return 0
	}
	if workers < 1 {
		workers = 1
	}
	perWorker := (n + workers - 1) / workers
	if perWorker <= 0 {
		perWorker = n
	}
	return (n + perWorker - 1) / perWorker
}
