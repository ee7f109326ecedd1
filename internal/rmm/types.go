// Package rmm builds and queries a range min-max tree (RMM) over the
// excess function of a balanced-parenthesis bit sequence, in parallel.
//
// The four RMM arrays (ePrime, mPrime, MPrime, nPrime) replace the
// source algorithm's process-wide mutable globals: an *Index owns them,
// plus a borrowed reference to the process-wide lookup tables in
// package lut, and is immutable once Build returns.
package rmm

import (
	"math/bits"

	"github.com/balanced-tree/rmmtree/internal/lut"
)

// ChunkBits is the chunk size in bits (s in spec.md).
const ChunkBits = 256

// arity is the RMM's branching factor (k in spec.md); fixed at 2
// (binary tree) per spec.
const arity = 2

// Index is the immutable result of Build: the four RMM arrays plus the
// parameters needed to interpret them.
type Index struct {
	n         int
	numChunks int
	height    int
	offset    int

	ePrime []int16 // [0, numChunks)
	mPrime []int16 // [0, numChunks+offset)
	MPrime []int16 // [0, numChunks+offset)
	nPrime []int16 // [0, numChunks+offset)

	tables *lut.Tables
}

// Len returns the number of bits the Index was built over.
func (idx *Index) Len() int { return idx.n }

// NumChunks returns the number of 256-bit chunks.
func (idx *Index) NumChunks() int { return idx.numChunks }

// Height returns the RMM tree height (levels of internal nodes).
func (idx *Index) Height() int { return idx.height }

// Offset returns the number of internal RMM nodes, i.e. the index of
// the first leaf (chunk 0's RMM node is at Offset()).
func (idx *Index) Offset() int { return idx.offset }

// numChunksFor computes ceil(n / ChunkBits).
func numChunksFor(n int) int {
	return (n + ChunkBits - 1) / ChunkBits
}

// heightFor computes ceil(log2(numChunks)), the shallowest height whose
// 2^height leaves can hold numChunks chunks.
func heightFor(numChunks int) int {
	if numChunks <= 1 {
		return 0
	}
	return bits.Len(uint(numChunks - 1))
}

// offsetFor computes (2^height - 1), the number of internal nodes of a
// complete binary RMM tree of the given height.
func offsetFor(height int) int {
	return (1 << uint(height)) - 1
}

// --- implicit k-ary heap arithmetic, 0-based, k = arity = 2 ---
//
// These mirror the trivial helper spec.md assumes is available: parent,
// children and siblings of a node index in a 0-based complete binary
// tree, expressed as arithmetic rather than allocated tree nodes (the
// RMM never materializes node objects, only these four flat arrays).

func parentOf(node int) int {
	return (node - 1) / arity
}

func leftChildOf(node int) int {
	return node*arity + 1
}

func rightSiblingOf(node int) int {
	// For a left child at 2p+1, the right sibling is 2p+2 = node+1.
	return node + 1
}

func isRootNode(node int) bool {
	return node == 0
}

func isLeftChildNode(node int) bool {
	return node != 0 && (node-1)%arity == 0
}

func isLeafLevelNode(node, height int) bool {
	return node >= offsetFor(height)
}
