// Package hash implements the canonical rolling k-mer hash family described
// in the population core: a constant-time-per-shift forward/reverse-
// complement hash pair, an array of m independent Bloom-filter positions
// derived from the canonical hash, and incremental predecessor/successor,
// paired, and strobe hash operations that never materialize a k-mer's byte
// string.
//
// The recurrences are the ntHash rolling-hash recurrences (Mohamadi et al.),
// generalized here to also run backwards (for predecessor enumeration)
// starting from the forward/reverse-complement hash state alone.
package hash

// Family fixes the parameters shared by every Iterator built from it: the
// k-mer length, the number of independent hash values to derive per k-mer,
// and whether hashing is strand-agnostic (canonical) or stranded.
type Family struct {
	K        int
	NumHash  int
	Stranded bool
}

// NewFamily validates k and numHash and returns a Family. Invalid parameters
// are a configuration error (a fatal construction error) and are reported to the
// caller rather than panicking, since Family is typically constructed from
// user-supplied flags.
func NewFamily(k, numHash int, stranded bool) (*Family, error) {
	if k <= 0 || k > 32*maxKmerWords {
		return nil, ErrInvalidK
	}
	if numHash <= 0 {
		return nil, ErrInvalidNumHash
	}
	return &Family{K: k, NumHash: numHash, Stranded: stranded}, nil
}

// maxKmerWords bounds k defensively; nothing in this package stores k-mers
// as fixed-width words, but callers that do (e.g. a 2-bit packed byte slice)
// need a sane upper bound to reject configuration mistakes early.
const maxKmerWords = 8

// Seeds derives the two independent 64-bit seeds used to generate the m
// Bloom-filter positions for a canonical hash value, via SplitMix64-style
// finalization so that h1 and h2 are independent even though they are both
// deterministic functions of the same input.
func (f *Family) Seeds(canonical uint64) (h1, h2 uint64) {
	h1 = splitmix64(canonical)
	h2 = splitmix64(canonical ^ 0x9e3779b97f4a7c15)
	if h2 == 0 {
		h2 = 1
	}
	return h1, h2
}

// Positions fills dst (len(dst) == f.NumHash) with the double-hashed Bloom
// filter bit positions for canonical, modulo mBits.
func (f *Family) Positions(canonical uint64, mBits uint64, dst []uint64) {
	h1, h2 := f.Seeds(canonical)
	for i := range dst {
		dst[i] = (h1 + uint64(i)*h2) % mBits
	}
}

// RawPositions fills dst (len(dst) == f.NumHash) with the unreduced h1+i*h2
// values for canonical, the same computation Iterator.MultiHash performs for
// the k-mer currently under the cursor. Callers that only have a canonical
// hash in hand (graph.Successors/Predecessors results, a Kmer looked up by
// value) use this instead of re-deriving it from an Iterator.
func (f *Family) RawPositions(canonical uint64, dst []uint64) {
	h1, h2 := f.Seeds(canonical)
	for i := range dst {
		dst[i] = h1 + uint64(i)*h2
	}
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x = x ^ (x >> 31)
	return x
}
