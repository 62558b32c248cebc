package hash

// Iterator is a cursor that rolls a canonical k-mer hash pair across a
// sequence in O(1) per shift. A zero Iterator is not usable; construct one
// with NewIterator and call Start before Next/CanonicalHash/etc.
type Iterator struct {
	fam            *Family
	seq            []byte
	begin, end     int
	pos            int
	fHash, rHash   uint64
	ok             bool
}

// NewIterator returns an Iterator bound to fam. The same Iterator can be
// reused across many calls to Start, avoiding an allocation per sequence.
func NewIterator(fam *Family) *Iterator {
	return &Iterator{fam: fam}
}

// Start initializes the iterator at position begin within seq, scanning no
// further than end. It returns false, and leaves the iterator unusable until
// the next Start call, iff the window [begin, begin+k) contains a byte
// outside {A,C,G,T} (case-insensitive) or the window does not fit before
// end.
func (it *Iterator) Start(seq []byte, begin, end int) bool {
	k := it.fam.K
	it.ok = false
	if end-begin < k {
		return false
	}
	var fHash, rHash uint64
	for j := 0; j < k; j++ {
		c, valid := code(seq[begin+j])
		if !valid {
			return false
		}
		fHash ^= rotSeed(c, k-1-j)
		rHash ^= rotSeed(complementCode(c), j)
	}
	it.seq, it.begin, it.end, it.pos = seq, begin, end, begin
	it.fHash, it.rHash = fHash, rHash
	it.ok = true
	return true
}

// Valid reports whether the iterator currently holds a k-mer.
func (it *Iterator) Valid() bool { return it.ok }

// Pos returns the start offset of the current window within the sequence
// passed to Start.
func (it *Iterator) Pos() int { return it.pos }

// Bytes returns the k bases of the current window. The returned slice
// aliases the sequence passed to Start and must not be retained past the
// next call to Start.
func (it *Iterator) Bytes() []byte {
	k := it.fam.K
	return it.seq[it.pos : it.pos+k]
}

// Next advances the window by one base. It returns false, leaving the
// iterator unusable until the next Start call, when the window would run
// past end or the incoming base is outside {A,C,G,T}.
func (it *Iterator) Next() bool {
	if !it.ok {
		return false
	}
	k := it.fam.K
	if it.pos+k >= it.end {
		it.ok = false
		return false
	}
	outCode, _ := code(it.seq[it.pos])
	inCode, valid := code(it.seq[it.pos+k])
	if !valid {
		it.ok = false
		return false
	}
	it.fHash = rotl(it.fHash, 1) ^ rotSeed(outCode, k) ^ seedOf(inCode)
	it.rHash = rotr(it.rHash, 1) ^ rotr(seedOf(complementCode(outCode)), 1) ^ rotSeed(complementCode(inCode), k-1)
	it.pos++
	return true
}

// ForwardHash returns the strand-specific forward hash of the current
// window.
func (it *Iterator) ForwardHash() uint64 { return it.fHash }

// ReverseHash returns the reverse-complement hash of the current window.
func (it *Iterator) ReverseHash() uint64 { return it.rHash }

// CanonicalHash returns min(ForwardHash, ReverseHash) unless the family is
// stranded, in which case it returns ForwardHash unconditionally.
func (it *Iterator) CanonicalHash() uint64 {
	if it.fam.Stranded {
		return it.fHash
	}
	return canonicalOf(it.fHash, it.rHash)
}

func canonicalOf(f, r uint64) uint64 {
	if f < r {
		return f
	}
	return r
}

// MultiHash fills dst (len(dst) == fam.NumHash) with the m independent hash
// values used as Bloom-filter positions for the current window's canonical
// hash. The caller (bloom.PlainFilter et al.) reduces each entry modulo the
// filter's bit count.
func (it *Iterator) MultiHash(dst []uint64) {
	h1, h2 := it.fam.Seeds(it.CanonicalHash())
	for i := range dst {
		dst[i] = h1 + uint64(i)*h2
	}
}

// Successors returns the canonical hashes of the four k-mers obtainable by
// dropping the current window's first base and appending each of A, C, G, T,
// in that order, without materializing any k-mer byte string.
func (it *Iterator) Successors() [4]uint64 {
	var out [4]uint64
	k := it.fam.K
	dropped, _ := code(it.seq[it.pos])
	for c := int8(0); c < 4; c++ {
		nf := rotl(it.fHash, 1) ^ rotSeed(dropped, k) ^ seedOf(c)
		nr := rotr(it.rHash, 1) ^ rotr(seedOf(complementCode(dropped)), 1) ^ rotSeed(complementCode(c), k-1)
		if it.fam.Stranded {
			out[c] = nf
		} else {
			out[c] = canonicalOf(nf, nr)
		}
	}
	return out
}

// Predecessors returns the canonical hashes of the four k-mers obtainable by
// dropping the current window's last base and prepending each of A, C, G, T,
// in that order, without materializing any k-mer byte string.
func (it *Iterator) Predecessors() [4]uint64 {
	var out [4]uint64
	k := it.fam.K
	last, _ := code(it.seq[it.pos+k-1])
	for c := int8(0); c < 4; c++ {
		nf := rotSeed(c, k-1) ^ rotr(it.fHash^seedOf(last), 1)
		nr := seedOf(complementCode(c)) ^ rotl(it.rHash^rotSeed(complementCode(last), k-1), 1)
		if it.fam.Stranded {
			out[c] = nf
		} else {
			out[c] = canonicalOf(nf, nr)
		}
	}
	return out
}
