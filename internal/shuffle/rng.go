// Package shuffle randomizes the order of lines in training corpora
// under bounded memory. It provides two algorithms: an in-memory
// reservoir shuffle for small-to-medium streams (Reservoir) and a
// disk-backed chunk-and-bucket shuffle for streams too large to fit in
// memory (External). Both are deterministic for a given seed string.
package shuffle

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// rngDomain separates the two PCG seed halves derived from one string.
const rngDomain = "\x00pcg"

// NewRand returns a pseudo-random generator deterministically derived
// from an arbitrary string seed, typically a dataset key.
//
// The seeding scheme is pinned: the two 64-bit PCG state words are
// xxhash.Sum64String(seed) and xxhash.Sum64String(seed + "\x00pcg").
// Changing either the hash or the generator breaks reproducibility of
// every previously shuffled dataset, so neither may change without a
// corresponding data version bump.
func NewRand(seed string) *rand.Rand {
	hi := xxhash.Sum64String(seed)
	lo := xxhash.Sum64String(seed + rngDomain)
	return rand.New(rand.NewPCG(hi, lo))
}

// shuffleStrings permutes s in place using a Fisher-Yates shuffle drawn
// from rng.
func shuffleStrings(rng *rand.Rand, s []string) {
	rng.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
