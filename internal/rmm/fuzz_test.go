package rmm

import "testing"

// TestFuzzFindCloseMatchesReference runs random balanced sequences of
// varying sizes and worker counts against the stack-based reference
// matcher, covering sizes that cross several chunk and subtree
// boundaries.
func TestFuzzFindCloseMatchesReference(t *testing.T) {
	sizes := []int{200, 600, 2500, 10000}
	workerCounts := []int{1, 3, 8}

	for seed, pairs := range sizes {
		rng := newRand(int64(seed) + 1000)
		s := genBalanced(rng, pairs)

		for _, workers := range workerCounts {
			idx, bv := buildIndex(t, s, workers)

			for i := 0; i < len(s); i++ {
				if s[i] != '(' {
					continue
				}
				want, ok := referenceFindClose(s, i)
				if !ok {
					t.Fatalf("pairs=%d workers=%d: reference matcher failed at %d", pairs, workers, i)
				}
				got, err := FindClose(idx, bv, i)
				if err != nil {
					t.Fatalf("pairs=%d workers=%d: FindClose(%d): %v", pairs, workers, i, err)
				}
				if got != want {
					t.Fatalf("pairs=%d workers=%d: FindClose(%d) = %d, want %d", pairs, workers, i, got, want)
				}
			}
		}
	}
}

// Fuzz target, for go test -fuzz: seeds with a few (rng seed, pair
// count) inputs, generates a balanced string from each via genBalanced
// (pair count clamped to [ChunkBits, 20000]), and checks every opening
// position agrees with the reference matcher.
func FuzzFindClose(f *testing.F) {
	f.Add(int64(1), 50)
	f.Add(int64(2), 200)
	f.Add(int64(3), 1000)

	f.Fuzz(func(t *testing.T, seed int64, pairs int) {
		if pairs < ChunkBits { // need n > ChunkBits for Build to accept it
			pairs = ChunkBits
		}
		if pairs > 20000 {
			pairs = 20000
		}
		rng := newRand(seed)
		s := genBalanced(rng, pairs)
		idx, bv := buildIndex(t, s, 4)

		for i := 0; i < len(s); i++ {
			if s[i] != '(' {
				continue
			}
			want, ok := referenceFindClose(s, i)
			if !ok {
				t.Fatalf("reference matcher failed at %d", i)
			}
			got, err := FindClose(idx, bv, i)
			if err != nil {
				t.Fatalf("FindClose(%d): %v", i, err)
			}
			if got != want {
				t.Fatalf("FindClose(%d) = %d, want %d", i, got, want)
			}
		}
	})
}
