package rmm

import (
	"context"

	"github.com/balanced-tree/rmmtree/internal/parallel"
)

// buildInternalNodes is component C5: given the leaf RMM values already
// written at indices [offset, offset+numChunks) of mPrime, MPrime and
// nPrime, it fills in every internal node's values at [0, offset),
// level by level from the bottom up.
//
// Each level's offsetFor(lvl)..offsetFor(lvl+1) nodes depend only on
// the level below, already fully computed, so a level can be built
// with one parallel.Range pass; levels themselves are processed
// serially, bottom to top, which is the dependency order the RMM tree
// requires. This is a level-order reading of the source algorithm's
// subtree-recursive parallel build: same bottom-up shape and same
// per-node reduction, restructured around plain level ranges because
// chunk count rarely makes a perfectly balanced subtree partition
// pay off at realistic worker counts.
//
// The child bound used throughout is child < numChunks+offset, i.e.
// child must name an existing node (internal or leaf). The source
// bounds this by child < n, the bit count, which is the wrong unit
// entirely (n counts bits, not RMM nodes) and under-covers every tree
// with offset > 0; using the total node count is the only bound that
// is dimensionally consistent with the arrays being indexed.
func buildInternalNodes(ctx context.Context, numChunks, workers, height, offset int, mPrime, MPrime, nPrime []int16) error {
	total := offset + numChunks

	for lvl := height - 1; lvl >= 0; lvl-- {
		levelLo := (1 << uint(lvl)) - 1
		levelHi := (1 << uint(lvl+1)) - 1
		if levelHi > offset {
			levelHi = offset
		}
		if levelLo >= levelHi {
			continue
		}

		span := levelHi - levelLo
		err := parallel.Range(ctx, span, workers, func(lo, hi int) error {
			for node := levelLo + lo; node < levelLo+hi; node++ {
				combineChildren(node, total, mPrime, MPrime, nPrime)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// combineChildren writes node's RMM values from its children's values,
// already present at mPrime/MPrime/nPrime. Only children that exist
// (index < total) contribute. A node in [0, offset) is not guaranteed
// to have even its left child: whenever numChunks isn't exactly
// 2^height or 2^height-1, the deepest internal level can contain nodes
// whose entire leaf-pair falls past total, so both existence checks
// must happen before either child is read, exactly like descendTo in
// search.go. A node with neither child present is left at its zero
// value, matching invariant 4: every index at or past total is absent.
//
// nPrime counts how many of node's children attain node's min, one per
// matching child (n_prime[node]++), not the sum of each matching
// child's own n_prime. That is the source algorithm's actual behavior;
// spec.md flags it as surprising, since "number of positions attaining
// the min" reads as if it should recurse, but the per-child count is
// kept as-is here. Nothing in search.go reads nPrime.
func combineChildren(node, total int, mPrime, MPrime, nPrime []int16) {
	left := leftChildOf(node)
	right := rightSiblingOf(left)

	haveLeft := left < total
	haveRight := right < total
	if !haveLeft && !haveRight {
		return
	}

	var m, M, n int16
	switch {
	case haveLeft && haveRight:
		m, M = mPrime[left], MPrime[left]
		if mPrime[right] < m {
			m = mPrime[right]
		}
		if MPrime[right] > M {
			M = MPrime[right]
		}
		if mPrime[left] == m {
			n++
		}
		if mPrime[right] == m {
			n++
		}
	case haveLeft:
		m, M, n = mPrime[left], MPrime[left], 1
	default:
		m, M, n = mPrime[right], MPrime[right], 1
	}

	mPrime[node] = m
	MPrime[node] = M
	nPrime[node] = n
}
