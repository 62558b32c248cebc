package hash

// Combine mixes two canonical k-mer hashes into the single combined hash
// used to represent a paired k-mer. It is a fixed rotate-and-xor mixing
// function: deterministic and cheap, but not required to be commutative -
// Combine(a, b) and Combine(b, a) intentionally differ so that (head, tail)
// and (tail, head) do not collide.
func Combine(head, tail uint64) uint64 {
	return rotl(head, 31) ^ tail
}

// PairedIterator walks two k-mer windows at a fixed distance d apart within
// the same sequence: a tail cursor and a head cursor that leads it by d
// bases. At each step it can report the combined hash used as a PKBF/RPKBF
// key.
type PairedIterator struct {
	tail, head *Iterator
	d          int
}

// NewPairedIterator returns a PairedIterator bound to fam.
func NewPairedIterator(fam *Family) *PairedIterator {
	return &PairedIterator{
		tail: NewIterator(fam),
		head: NewIterator(fam),
	}
}

// Start initializes both cursors: tail at begin, head at begin+d. It returns
// false if either window is invalid (out of alphabet or out of range).
func (p *PairedIterator) Start(seq []byte, begin, end, d int) bool {
	if d <= 0 {
		return false
	}
	p.d = d
	if !p.tail.Start(seq, begin, end) {
		return false
	}
	if !p.head.Start(seq, begin+d, end) {
		return false
	}
	return true
}

// Next advances both cursors by one base. It returns false, leaving the pair
// unusable until the next Start, when either cursor runs out.
func (p *PairedIterator) Next() bool {
	if !p.tail.Next() {
		return false
	}
	if !p.head.Next() {
		return false
	}
	return true
}

// TailHash and HeadHash return the canonical hashes of the trailing and
// leading k-mers of the current pair.
func (p *PairedIterator) TailHash() uint64 { return p.tail.CanonicalHash() }
func (p *PairedIterator) HeadHash() uint64 { return p.head.CanonicalHash() }

// TailPos and HeadPos return the sequence offsets of the trailing and
// leading windows of the current pair.
func (p *PairedIterator) TailPos() int { return p.tail.Pos() }
func (p *PairedIterator) HeadPos() int { return p.head.Pos() }

// CombinedHash returns Combine(HeadHash(), TailHash()), the single hash
// stored in PKBF/RPKBF for this paired k-mer.
func (p *PairedIterator) CombinedHash() uint64 {
	return Combine(p.HeadHash(), p.TailHash())
}

// PairedHash is a convenience for one-shot computation of the combined hash
// of the k-mer at seq[i:i+k] and the k-mer at seq[i+d:i+d+k].
func PairedHash(fam *Family, seq []byte, i, d, end int) (combined uint64, ok bool) {
	pit := NewPairedIterator(fam)
	if !pit.Start(seq, i, end, d) {
		return 0, false
	}
	return pit.CombinedHash(), true
}
