package rmm

import (
	"github.com/balanced-tree/rmmtree/internal/bitvec"
	"github.com/balanced-tree/rmmtree/internal/lut"
	"github.com/balanced-tree/rmmtree/internal/rmmerr"
)

// FwdSearch is component C6: it returns the smallest position j > i at
// which the absolute excess equals the excess at i plus d, or
// rmmerr.ErrNoMatch if no such position exists before the end of bv.
//
// Every RMM array here already holds global, absolute excess values
// (fixupPrefix's job), so the search never needs to track a
// relative-to-i running total across chunk boundaries: it converts the
// query to a single absolute target once, up front, and from then on
// only ever compares that target against absolute [m', M'] ranges.
//
// The search has three stages, read off spec.md's three cases:
//
//  1. scan the remainder of i's own chunk;
//  2. if that fails, check the immediate sibling subtree at each level
//     while climbing from i's chunk toward the root, stopping at the
//     first ancestor whose right sibling's range covers the target;
//  3. descend from that sibling into the exact chunk, then scan it
//     like stage 1.
//
// Climbing only ever inspects a *right* sibling after ascending from a
// *left* child: a right child's only sibling is on its left, and
// everything under that left sibling already lies behind i in bit
// order and can never contain the answer, so ascending from a right
// child checks nothing and simply continues upward.
func FwdSearch(idx *Index, bv bitvec.Vector, i, d int) (int, error) {
	n := idx.n
	if i < 0 || i >= n {
		return 0, rmmerr.Wrap(rmmerr.CodeNoMatch, "position out of range", nil)
	}

	tables := idx.tables
	c := i / ChunkBits
	chunkStart := c * ChunkBits
	chunkEnd := min(chunkStart+ChunkBits, n)

	prefExcess := idx.excessBeforeChunk(c)
	excessAtI := computeExcess(tables, bv, chunkStart, i+1, prefExcess)
	absTarget := excessAtI + int16(d)

	if pos, ok := scanBits(tables, bv, i+1, chunkEnd, excessAtI, absTarget); ok {
		return pos, nil
	}

	total := idx.offset + idx.numChunks
	node := idx.offset + c
	for node != 0 {
		parent := parentOf(node)
		if isLeftChildNode(node) {
			sibling := rightSiblingOf(node)
			if sibling < total && idx.mPrime[sibling] <= absTarget && absTarget <= idx.MPrime[sibling] {
				chunkIdx, err := idx.descendTo(sibling, absTarget)
				if err != nil {
					return 0, err
				}
				return idx.scanChunk(bv, chunkIdx, absTarget)
			}
		}
		node = parent
	}

	return 0, rmmerr.ErrNoMatch
}

// FindClose is component C7: it returns the position of the
// parenthesis matching the opening parenthesis at i, via
// FwdSearch(idx, bv, i, -1).
func FindClose(idx *Index, bv bitvec.Vector, i int) (int, error) {
	return FwdSearch(idx, bv, i, -1)
}

// excessBeforeChunk returns the absolute excess at the position just
// before chunk c starts, i.e. ePrime[c-1], or 0 for chunk 0.
func (idx *Index) excessBeforeChunk(c int) int16 {
	if c == 0 {
		return 0
	}
	return idx.ePrime[c-1]
}

// descendTo walks from an internal node known to cover absTarget down
// to its leaf, choosing the left child first and falling back to the
// right, mirroring combineChildren's own left-first preference so the
// leaf reached is always the leftmost (i.e. earliest) chunk that can
// contain the answer.
func (idx *Index) descendTo(node int, absTarget int16) (int, error) {
	total := idx.offset + idx.numChunks
	for node < idx.offset {
		left := leftChildOf(node)
		right := rightSiblingOf(left)

		if left < total && idx.mPrime[left] <= absTarget && absTarget <= idx.MPrime[left] {
			node = left
			continue
		}
		if right < total && idx.mPrime[right] <= absTarget && absTarget <= idx.MPrime[right] {
			node = right
			continue
		}
		return 0, rmmerr.ErrDescentInconsistency
	}
	return node - idx.offset, nil
}

// scanChunk scans chunk chunkIdx in full, looking for the position
// whose absolute excess equals absTarget. Callers only reach here once
// an ancestor's [m', M'] range has already confirmed the chunk holds
// the answer, so a miss is a construction or search inconsistency, not
// a legitimate ErrNoMatch.
func (idx *Index) scanChunk(bv bitvec.Vector, chunkIdx int, absTarget int16) (int, error) {
	chunkStart := chunkIdx * ChunkBits
	chunkEnd := min(chunkStart+ChunkBits, idx.n)
	enterExcess := idx.excessBeforeChunk(chunkIdx)

	if pos, ok := scanBits(idx.tables, bv, chunkStart, chunkEnd, enterExcess, absTarget); ok {
		return pos, nil
	}
	return 0, rmmerr.ErrDescentInconsistency
}

// computeExcess returns the absolute excess at position to-1, given
// that the absolute excess just before position from is base. It
// splits the range into an unaligned head, a run of whole bytes, and
// an unaligned tail, using byte position (p%8) and remaining length
// (to-p) directly rather than masking with a byte-sized constant: the
// source algorithm's equivalent loop tests a position with "& 0xFF"
// where it means to test alignment within a single byte ("& 7"), which
// only happens to work when a chunk boundary lines up with a 256-bit
// boundary. Driving the loop off p%8 sidesteps that distinction
// entirely.
func computeExcess(tables *lut.Tables, bv bitvec.Vector, from, to int, base int16) int16 {
	e := base
	p := from

	for p < to && (p%8 != 0 || to-p < 8) {
		e = stepBit(e, bv.Bit(p))
		p++
	}
	for p < to && to-p >= 8 {
		e += int16(tables.WordSum[bv.Byte(p/8)])
		p += 8
	}
	for p < to {
		e = stepBit(e, bv.Bit(p))
		p++
	}
	return e
}

// scanBits finds the smallest position p in [from, to) at which the
// absolute excess equals absTarget, given that the absolute excess
// just before position from is enterExcess. It reframes the search as
// tracking v = excess - absTarget, looking for v == 0: v updates by
// exactly the same +1/-1 steps as excess itself, so the lookup tables
// (built around a counter that hits zero) apply with no additional
// offset, for either the byte-aligned fast path or the per-bit
// fallback outside the tables' domain.
func scanBits(tables *lut.Tables, bv bitvec.Vector, from, to int, enterExcess, absTarget int16) (int, bool) {
	v := enterExcess - absTarget
	p := from

	for p < to && (p%8 != 0 || to-p < 8) {
		v = stepBit(v, bv.Bit(p))
		if v == 0 {
			return p, true
		}
		p++
	}

	for p < to && to-p >= 8 {
		b := bv.Byte(p / 8)
		if v >= 0 && int(v) <= lut.MaxStartExcess {
			np := tables.NearFwdPos[v][b]
			if np < 8 {
				return p + int(np), true
			}
			v += int16(tables.WordSum[b])
			p += 8
			continue
		}
		pos, found, next := scanByteManual(v, b)
		if found {
			return p + pos, true
		}
		v = next
		p += 8
	}

	for p < to {
		v = stepBit(v, bv.Bit(p))
		if v == 0 {
			return p, true
		}
		p++
	}

	return 0, false
}

// stepBit applies one bit's contribution to a running excess-like
// counter: +1 for a set bit (an opening parenthesis), -1 for a clear
// bit (a closing parenthesis).
func stepBit(counter int16, bit int) int16 {
	if bit == 1 {
		return counter + 1
	}
	return counter - 1
}

// scanByteManual is scanBits' fallback for starting counters outside
// the precomputed NearFwdPos domain: the same walk nearFwdPos performs
// inside package lut, but parameterized over the counter's full int16
// range instead of [0, lut.MaxStartExcess].
func scanByteManual(counter int16, b byte) (pos int, found bool, final int16) {
	for p := 0; p < 8; p++ {
		counter = stepBit(counter, int(b>>uint(p))&1)
		if counter == 0 {
			return p, true, counter
		}
	}
	return 8, false, counter
}
