package internal

import "math/rand"

// Rand is a seedable random source used by the statistics package to draw
// reservoir samples.
type Rand = rand.Rand

// NewRand returns a seeded random number generator.
func NewRand(seed int64) *Rand {
	return rand.New(rand.NewSource(seed))
}
