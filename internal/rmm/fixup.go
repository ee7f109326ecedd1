package rmm

import (
	"context"

	"github.com/balanced-tree/rmmtree/internal/parallel"
)

// fixupPrefix is component C4: it turns the per-worker-local ePrime,
// mPrime, MPrime values summarizeChunks produced into global,
// absolute-excess values.
//
// Phase A runs serially over the numWorkers worker boundaries and is
// O(numWorkers): it reads each worker's own last chunk (its local total
// excess) off ePrime and turns that into an exclusive prefix sum,
// globalBase. This mirrors the source algorithm's serial first phase,
// but computes every worker's base from its own [lo, hi) slice instead
// of a fixed chunks-per-thread stride. The source's stride arithmetic
// reads a ragged last worker's boundary chunk out of its valid range
// whenever numChunks does not divide evenly by the worker count, and
// separately leaves the very last worker's own last-chunk entry
// un-shifted; both are bugs in the ragged-tail case, not an intentional
// exception. Computing globalBase from each worker's real bounds
// sidesteps the first bug, and shifting every worker (including the
// last) in Phase B below sidesteps the second: ePrime[numChunks-1]
// always ends up the true, fully-global total excess.
//
// Phase B runs in parallel, one task per worker: it adds that worker's
// globalBase to every chunk it owns, across all three arrays.
func fixupPrefix(ctx context.Context, numChunks, workers, offset int, ePrime, mPrime, MPrime []int16) error {
	numWorkers := parallel.NumWorkers(numChunks, workers)
	if numWorkers <= 1 {
		return nil
	}

	globalBase := make([]int16, numWorkers)
	var running int16
	for t := 0; t < numWorkers; t++ {
		globalBase[t] = running
		_, hi := parallel.Bounds(numChunks, workers, t)
		running += ePrime[hi-1]
	}

	return parallel.Range(ctx, numChunks, workers, func(lo, hi int) error {
		t := workerIndexOf(lo, numChunks, workers)
		base := globalBase[t]
		if base == 0 {
			return nil
		}
		for c := lo; c < hi; c++ {
			ePrime[c] += base
			mPrime[offset+c] += base
			MPrime[offset+c] += base
		}
		return nil
	})
}

// workerIndexOf recovers which worker owns the sub-range starting at
// lo, the inverse of parallel.Bounds. Range and Bounds share the same
// perWorker stride, so this is exact, not a search.
func workerIndexOf(lo, numChunks, workers int) int {
	if workers < 1 {
		workers = 1
	}
	perWorker := (numChunks + workers - 1) / workers
	if perWorker <= 0 {
		return 0
	}
	return lo / perWorker
}
