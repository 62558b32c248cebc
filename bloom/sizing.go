package bloom

import "math"

// OptimalBits returns the membership-filter bit-array size that holds n
// elements at no more than maxFPR false-positive probability, the standard
// m = -n*ln(p)/(ln2)^2 sizing formula. Returns 0 if n is 0 or maxFPR is not
// in (0, 1).
func OptimalBits(n uint64, maxFPR float64) uint64 {
	if n == 0 || maxFPR <= 0 || maxFPR >= 1 {
		return 0
	}
	m := -float64(n) * math.Log(maxFPR) / (math.Ln2 * math.Ln2)
	return uint64(math.Ceil(m))
}

// BitsForMemory converts a target backing-array size in bytes to the
// equivalent number of bits, for callers that size a filter by a memory
// budget rather than by an expected element count and target FPR.
func BitsForMemory(targetBytes uint64) uint64 {
	return targetBytes * 8
}
