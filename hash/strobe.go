package hash

// StrobeIterator walks a sequence emitting, for each anchor position, the
// combined hash of the anchor k-mer and a "strobe" k-mer chosen within a
// downstream window [pos+wMin, pos+wMax] to minimize a secondary hash. This
// is the strobemer construction used by the redundancy screening component.
type StrobeIterator struct {
	fam        *Family
	hashes     []uint64 // canonical hash of the k-mer starting at each valid position
	starts     []int    // sequence offset each entry of hashes corresponds to
	wMin, wMax int
	idx        int // index into hashes/starts of the current anchor
	strobeIdx  int // index into hashes/starts of the chosen strobe for the current anchor
}

// NewStrobeIterator returns a StrobeIterator bound to fam.
func NewStrobeIterator(fam *Family) *StrobeIterator {
	return &StrobeIterator{fam: fam}
}

// Start precomputes canonical hashes for every valid k-mer window in
// [begin, end) and positions the iterator before the first anchor. wMin and
// wMax bound the downstream offset (in k-mer positions, not bases) searched
// for a strobe partner for each anchor.
func (s *StrobeIterator) Start(seq []byte, begin, end, wMin, wMax int) bool {
	s.wMin, s.wMax = wMin, wMax
	s.hashes = s.hashes[:0]
	s.starts = s.starts[:0]

	it := NewIterator(s.fam)
	pos := begin
	for pos+s.fam.K <= end {
		if !it.Start(seq, pos, end) {
			pos++
			continue
		}
		s.hashes = append(s.hashes, it.CanonicalHash())
		s.starts = append(s.starts, pos)
		pos++
	}
	s.idx = -1
	return len(s.hashes) > 0
}

// Next advances to the next anchor that has at least one candidate strobe
// position within its downstream window, selecting the candidate that
// minimizes a secondary hash of the canonical hash. It returns false once no
// such anchor remains.
func (s *StrobeIterator) Next() bool {
	for {
		s.idx++
		if s.idx >= len(s.hashes) {
			return false
		}
		lo := s.idx + s.wMin
		hi := s.idx + s.wMax
		if hi >= len(s.hashes) {
			hi = len(s.hashes) - 1
		}
		if lo > hi || lo >= len(s.hashes) {
			continue
		}
		best := lo
		bestKey := splitmix64(s.hashes[lo])
		for j := lo + 1; j <= hi; j++ {
			key := splitmix64(s.hashes[j])
			if key < bestKey {
				best, bestKey = j, key
			}
		}
		s.strobeIdx = best
		return true
	}
}

// AnchorPos and StrobePos return the sequence offsets of the current
// anchor's and strobe's k-mer windows.
func (s *StrobeIterator) AnchorPos() int { return s.starts[s.idx] }
func (s *StrobeIterator) StrobePos() int { return s.starts[s.strobeIdx] }

// AnchorHash and StrobeHash return the canonical hashes of the current
// anchor and strobe k-mers.
func (s *StrobeIterator) AnchorHash() uint64 { return s.hashes[s.idx] }
func (s *StrobeIterator) StrobeHash() uint64 { return s.hashes[s.strobeIdx] }

// CombinedHash returns Combine(AnchorHash(), StrobeHash()), the hash stored
// for this strobemer.
func (s *StrobeIterator) CombinedHash() uint64 {
	return Combine(s.AnchorHash(), s.StrobeHash())
}
