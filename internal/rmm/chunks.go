package rmm

import "github.com/balanced-tree/rmmtree/internal/bitvec"

// summarizeChunks is component C3: it computes, for every chunk in
// [lo, hi), the chunk's local excess at its end, local min/max excess,
// and the number of positions attaining that local min.
//
// "Local" here means local to the worker owning [lo, hi), not to each
// individual chunk: partialExcess carries across every chunk this one
// worker owns (never resets to zero mid-range), exactly as in the
// source algorithm's per-thread partial_excess. Min/max tracking does
// reset at each chunk boundary, but to whatever partialExcess already
// is at that point, not to zero. The two-phase fixup in fixup.go later
// shifts every worker's values by the total excess of all earlier
// workers, turning these into absolute (global) quantities.
func summarizeChunks(bv bitvec.Vector, n, lo, hi, offset int, ePrime, mPrime, MPrime, nPrime []int16) {
	var partialExcess int16
	var lmin, lmax int16
	var numMins int16

	for c := lo; c < hi; c++ {
		chunkStart := c * ChunkBits
		chunkEnd := min(chunkStart+ChunkBits, n)

		for pos := chunkStart; pos < chunkEnd; pos++ {
			if bv.Bit(pos) == 0 {
				partialExcess--
			} else {
				partialExcess++
			}

			if pos == chunkStart {
				lmin = partialExcess
				lmax = partialExcess
				numMins = 1
			} else {
				switch {
				case partialExcess < lmin:
					lmin = partialExcess
					numMins = 1
				case partialExcess == lmin:
					numMins++
				}
				if partialExcess > lmax {
					lmax = partialExcess
				}
			}
		}

		ePrime[c] = partialExcess
		mPrime[offset+c] = lmin
		MPrime[offset+c] = lmax
		nPrime[offset+c] = numMins
	}
}
