package router

import (
	"math"

	"github.com/mitchellh/hashstructure"
)

type keyedLabel struct {
	Label string
	Seed  int64
}

// tiebreak orders labels pseudo-randomly but reproducibly for a seed.
func tiebreak(label Label, seed int64) uint64 {
	h, err := hashstructure.Hash(keyedLabel{Label: string(label), Seed: seed}, nil)
	if err != nil {
		// Only unsupported kinds fail to hash; keyedLabel has none.
		return 0
	}
	return h
}

type attemptKey struct {
	Seed    int64
	Attempt int
}

// attemptSeed derives the RNG seed of the given attempt. The first
// attempt uses the route seed itself.
func attemptSeed(seed int64, attempt int) int64 {
	if attempt == 0 {
		return seed
	}
	h, err := hashstructure.Hash(attemptKey{Seed: seed, Attempt: attempt}, nil)
	if err != nil {
		return seed + int64(attempt)
	}
	return int64(h)
}

// linearIndex maps a uniform draw r in [0, 1) to an index in [0, n).
// The density of r^(1/linearity) piles up near 0 as linearity falls:
// at 1 every index is equally likely, at 0 the first index always wins.
func linearIndex(n int, r, linearity float64) int {
	if n <= 1 || linearity <= 0 {
		return 0
	}
	i := int(float64(n) * math.Pow(r, 1/linearity))
	if i >= n {
		return n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}
