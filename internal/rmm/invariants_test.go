package rmm

import "testing"

// TestLeafMinMatchesNaive checks invariant 1: every leaf's m_prime
// equals the minimum prefix excess over its own chunk, computed by a
// straight-line scan with no tables or tree.
func TestLeafMinMatchesNaive(t *testing.T) {
	rng := newRand(7)
	s := genBalanced(rng, 1000)
	idx, bv := buildIndex(t, s, 4)

	var excess int16
	for c := 0; c < idx.numChunks; c++ {
		chunkStart := c * ChunkBits
		chunkEnd := min(chunkStart+ChunkBits, idx.n)

		naiveMin := int16(1 << 14)
		for p := chunkStart; p < chunkEnd; p++ {
			if bv.Bit(p) == 1 {
				excess++
			} else {
				excess--
			}
			if excess < naiveMin {
				naiveMin = excess
			}
		}

		if got := idx.mPrime[idx.offset+c]; got != naiveMin {
			t.Errorf("chunk %d: mPrime = %d, want %d", c, got, naiveMin)
		}
	}
}

// TestInternalNodesReduceChildren checks invariant 2: every internal
// node's m_prime/M_prime equal the min/max over its existing children.
func TestInternalNodesReduceChildren(t *testing.T) {
	rng := newRand(8)
	s := genBalanced(rng, 2000)
	idx, _ := buildIndex(t, s, 4)

	total := idx.offset + idx.numChunks
	for node := 0; node < idx.offset; node++ {
		left := leftChildOf(node)
		right := rightSiblingOf(left)

		wantM := idx.mPrime[left]
		wantMax := idx.MPrime[left]
		if right < total {
			if idx.mPrime[right] < wantM {
				wantM = idx.mPrime[right]
			}
			if idx.MPrime[right] > wantMax {
				wantMax = idx.MPrime[right]
			}
		}

		if idx.mPrime[node] != wantM {
			t.Errorf("node %d: mPrime = %d, want %d", node, idx.mPrime[node], wantM)
		}
		if idx.MPrime[node] != wantMax {
			t.Errorf("node %d: MPrime = %d, want %d", node, idx.MPrime[node], wantMax)
		}
	}
}

// TestFindCloseProducesWellNestedStructure checks invariant 4 and the
// close-bit part of invariant 3: every match lands on a 0 bit, and the
// collected (open, close) pairs are non-crossing. The excess at each
// match is not checked here.
func TestFindCloseProducesWellNestedStructure(t *testing.T) {
	rng := newRand(9)
	s := genBalanced(rng, 600)
	idx, bv := buildIndex(t, s, 4)

	type pair struct{ open, close int }
	var pairs []pair

	for i := 0; i < len(s); i++ {
		if s[i] != '(' {
			continue
		}
		j, err := FindClose(idx, bv, i)
		if err != nil {
			t.Fatalf("FindClose(%d): %v", i, err)
		}
		if s[j] != ')' {
			t.Fatalf("FindClose(%d) = %d, but bit there is not a close", i, j)
		}
		pairs = append(pairs, pair{i, j})
	}

	for a := range pairs {
		for b := range pairs {
			if a == b {
				continue
			}
			p, q := pairs[a], pairs[b]
			crosses := (p.open < q.open && q.open < p.close && p.close < q.close) ||
				(q.open < p.open && p.open < q.close && q.close < p.close)
			if crosses {
				t.Fatalf("crossing pairs: (%d,%d) and (%d,%d)", p.open, p.close, q.open, q.close)
			}
		}
	}
}
