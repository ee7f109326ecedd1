package rmm

import (
	"context"
	"math/rand"
	"testing"

	"github.com/balanced-tree/rmmtree/internal/bitvec"
)

// genBalanced generates a uniformly-shaped random balanced parenthesis
// string of the given number of pairs, via the standard recursive
// split: pick how many pairs nest inside the first pair, recurse on
// that, then recurse on the remainder as siblings.
func genBalanced(rng *rand.Rand, pairs int) string {
	if pairs == 0 {
		return ""
	}
	inside := rng.Intn(pairs)
	return "(" + genBalanced(rng, inside) + ")" + genBalanced(rng, pairs-1-inside)
}

// referenceFindClose is a brute-force stack-free reference matcher:
// walk forward from i tracking depth, return the position depth first
// returns to 0.
func referenceFindClose(s string, i int) (int, bool) {
	if s[i] != '(' {
		return 0, false
	}
	depth := 0
	for j := i; j < len(s); j++ {
		if s[j] == '(' {
			depth++
		} else {
			depth--
		}
		if depth == 0 {
			return j, true
		}
	}
	return 0, false
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func buildIndex(t *testing.T, s string, workers int) (*Index, bitvec.Vector) {
	t.Helper()
	bv, err := bitvec.NewFromParenString(s)
	if err != nil {
		t.Fatalf("NewFromParenString: %v", err)
	}
	idx, err := Build(context.Background(), bv, bv.Len(), workers)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return idx, bv
}
