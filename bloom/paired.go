package bloom

// PairedKeysFilter tracks a combined key (the mixed hash of two k-mers at a
// fixed sequence distance apart) across three plain filters sharing an
// index: one over the key's high 32 bits, one over its low 32 bits, and one
// over the full combined key. Testing all three catches spurious agreement
// between two unrelated pairs that happen to share only one half.
type PairedKeysFilter struct {
	left, right, combined *PlainFilter
	m                     int
}

// NewPairedKeysFilter allocates a PairedKeysFilter whose three constituent
// PlainFilters each have nBits bits and are sized for m hash positions.
func NewPairedKeysFilter(nBits uint64, m int) (*PairedKeysFilter, error) {
	left, err := NewPlainFilter(nBits, m)
	if err != nil {
		return nil, err
	}
	right, err := NewPlainFilter(nBits, m)
	if err != nil {
		return nil, err
	}
	combined, err := NewPlainFilter(nBits, m)
	if err != nil {
		return nil, err
	}
	return &PairedKeysFilter{left: left, right: right, combined: combined, m: m}, nil
}

func leftHalf(h uint64) uint64  { return h >> 32 }
func rightHalf(h uint64) uint64 { return h & 0xffffffff }

// Add records the combined key h.
func (p *PairedKeysFilter) Add(h uint64) {
	p.left.Add(expand(leftHalf(h), p.m))
	p.right.Add(expand(rightHalf(h), p.m))
	p.combined.Add(expand(h, p.m))
}

// Contains reports whether h's high half, low half, and full value are all
// present in their respective filters.
func (p *PairedKeysFilter) Contains(h uint64) bool {
	return p.left.Contains(expand(leftHalf(h), p.m)) &&
		p.right.Contains(expand(rightHalf(h), p.m)) &&
		p.combined.Contains(expand(h, p.m))
}

// N returns the bit count of each of the three constituent filters.
func (p *PairedKeysFilter) N() uint64 { return p.left.n }

// M returns the hash count the filter was constructed with.
func (p *PairedKeysFilter) M() int { return p.m }

// Health reports the combined filter's occupancy, the component most
// exposed to collisions since it carries the full 64-bit key space.
func (p *PairedKeysFilter) Health() Health { return p.combined.Health() }

// Reset clears all three constituent filters.
func (p *PairedKeysFilter) Reset() {
	p.left.Reset()
	p.right.Reset()
	p.combined.Reset()
}
