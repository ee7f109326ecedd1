package rmm

import (
	"context"

	"github.com/balanced-tree/rmmtree/internal/bitvec"
	"github.com/balanced-tree/rmmtree/internal/lut"
	"github.com/balanced-tree/rmmtree/internal/parallel"
	"github.com/balanced-tree/rmmtree/internal/rmmerr"
)

// Build constructs an *Index over the first n bits of bv, the RMM
// pipeline's orchestration façade: C3 (per-chunk summaries) feeding C4
// (prefix fixup) feeding C5 (internal nodes), C3 and C5 fanned out
// across workers goroutines via package parallel, C4's second phase
// likewise.
//
// n must exceed ChunkBits: an RMM tree over a single chunk (or less)
// has no internal nodes and is not a case this package supports: bv
// itself already answers every query a one-chunk tree could.
func Build(ctx context.Context, bv bitvec.Vector, n, workers int) (*Index, error) {
	if n <= ChunkBits {
		return nil, rmmerr.ErrInputTooSmall
	}
	if bv.Len() < n {
		return nil, rmmerr.Wrap(rmmerr.CodeInputTooSmall, "bit vector shorter than n", nil)
	}

	numChunks := numChunksFor(n)
	height := heightFor(numChunks)
	offset := offsetFor(height)
	total := offset + numChunks

	ePrime := make([]int16, numChunks)
	mPrime := make([]int16, total)
	MPrime := make([]int16, total)
	nPrime := make([]int16, total)

	err := parallel.Range(ctx, numChunks, workers, func(lo, hi int) error {
		summarizeChunks(bv, n, lo, hi, offset, ePrime, mPrime, MPrime, nPrime)
		return nil
	})
	if err != nil {
		return nil, rmmerr.Wrap(rmmerr.CodeAllocationFailed, "chunk summarisation failed", err)
	}

	if err := fixupPrefix(ctx, numChunks, workers, offset, ePrime, mPrime, MPrime); err != nil {
		return nil, rmmerr.Wrap(rmmerr.CodeAllocationFailed, "prefix fixup failed", err)
	}

	if err := buildInternalNodes(ctx, numChunks, workers, height, offset, mPrime, MPrime, nPrime); err != nil {
		return nil, rmmerr.Wrap(rmmerr.CodeAllocationFailed, "internal node build failed", err)
	}

	return &Index{
		n:         n,
		numChunks: numChunks,
		height:    height,
		offset:    offset,
		ePrime:    ePrime,
		mPrime:    mPrime,
		MPrime:    MPrime,
		nPrime:    nPrime,
		tables:    lut.Get(),
	}, nil
}
