package hash

import (
	"bytes"
	"testing"
)

func revComp(s []byte) []byte {
	out := make([]byte, len(s))
	for i, b := range s {
		c, _ := code(b)
		out[len(s)-1-i] = "ACGT"[complementCode(c)]
	}
	return out
}

func TestCanonicalMatchesReverseComplement(t *testing.T) {
	fam, err := NewFamily(5, 3, false)
	if err != nil {
		t.Fatal(err)
	}
	seqs := [][]byte{
		[]byte("AAACC"),
		[]byte("ACGTA"),
		[]byte("GGGTT"),
		[]byte("TTTTT"),
	}
	for _, s := range seqs {
		it := NewIterator(fam)
		if !it.Start(s, 0, len(s)) {
			t.Fatalf("Start(%s) failed", s)
		}
		h1 := it.CanonicalHash()

		rc := revComp(s)
		it2 := NewIterator(fam)
		if !it2.Start(rc, 0, len(rc)) {
			t.Fatalf("Start(%s) failed", rc)
		}
		h2 := it2.CanonicalHash()

		if h1 != h2 {
			t.Errorf("canonical(%s)=%d != canonical(revcomp)=%d", s, h1, h2)
		}
	}
}

func TestStrandedEmitsForwardOnly(t *testing.T) {
	fam, _ := NewFamily(4, 2, true)
	it := NewIterator(fam)
	seq := []byte("ACGTAC")
	if !it.Start(seq, 0, len(seq)) {
		t.Fatal("Start failed")
	}
	if it.CanonicalHash() != it.ForwardHash() {
		t.Error("stranded mode must emit forward hash")
	}
}

func TestNextMatchesFreshStart(t *testing.T) {
	fam, _ := NewFamily(4, 2, false)
	seq := []byte("ACGTACGTAC")

	it := NewIterator(fam)
	if !it.Start(seq, 0, len(seq)) {
		t.Fatal("start failed")
	}
	pos := 0
	for {
		fresh := NewIterator(fam)
		if !fresh.Start(seq, pos, len(seq)) {
			t.Fatalf("fresh start at %d failed", pos)
		}
		if fresh.ForwardHash() != it.ForwardHash() || fresh.ReverseHash() != it.ReverseHash() {
			t.Fatalf("rolled hash at pos %d diverges from fresh start", pos)
		}
		pos++
		if !it.Next() {
			break
		}
	}
}

func TestSuccessorsMatchFreshStart(t *testing.T) {
	fam, _ := NewFamily(4, 2, false)
	seq := []byte("ACGTACGT")
	it := NewIterator(fam)
	it.Start(seq, 0, len(seq))

	succ := it.Successors()
	bases := []byte{'A', 'C', 'G', 'T'}
	for i, b := range bases {
		extended := append(append([]byte{}, it.Bytes()[1:]...), b)
		fresh := NewIterator(fam)
		fresh.Start(extended, 0, len(extended))
		if fresh.CanonicalHash() != succ[i] {
			t.Errorf("successor %c: got %d want %d", b, succ[i], fresh.CanonicalHash())
		}
	}
}

func TestPredecessorsMatchFreshStart(t *testing.T) {
	fam, _ := NewFamily(4, 2, false)
	seq := []byte("ACGTACGT")
	it := NewIterator(fam)
	it.Start(seq, 2, len(seq))

	pred := it.Predecessors()
	bases := []byte{'A', 'C', 'G', 'T'}
	for i, b := range bases {
		prepended := append([]byte{b}, it.Bytes()[:len(it.Bytes())-1]...)
		fresh := NewIterator(fam)
		fresh.Start(prepended, 0, len(prepended))
		if fresh.CanonicalHash() != pred[i] {
			t.Errorf("predecessor %c: got %d want %d", b, pred[i], fresh.CanonicalHash())
		}
	}
}

func TestBoundaryLengths(t *testing.T) {
	fam, _ := NewFamily(5, 2, false)

	// Exactly k bases: exactly one k-mer.
	it := NewIterator(fam)
	if !it.Start([]byte("AAACC"), 0, 5) {
		t.Fatal("expected one k-mer for length-k sequence")
	}
	if it.Next() {
		t.Error("expected no further k-mers for a length-k sequence")
	}

	// Shorter than k: no k-mer, no error (Start just returns false).
	it2 := NewIterator(fam)
	if it2.Start([]byte("AAA"), 0, 3) {
		t.Error("expected Start to fail for a sequence shorter than k")
	}
}

func TestNBaseSplitsWindow(t *testing.T) {
	fam, _ := NewFamily(3, 2, false)
	seq := []byte("AAACCCNGGGTTT")
	it := NewIterator(fam)
	if !it.Start(seq, 0, len(seq)) {
		t.Fatal("expected first window to start cleanly")
	}
	count := 1
	for it.Next() {
		count++
	}
	// AAACCC (indices 0..5) yields k-mers at 0,1,2,3 (4 total) before hitting N at index 6.
	if count != 4 {
		t.Errorf("got %d k-mers before N, want 4", count)
	}
	// After the N, a fresh Start past it must succeed independently.
	it2 := NewIterator(fam)
	if !it2.Start(seq, 7, len(seq)) {
		t.Fatal("expected window after N to start cleanly")
	}
}

func TestMultiHashIndependence(t *testing.T) {
	fam, _ := NewFamily(4, 4, false)
	it := NewIterator(fam)
	it.Start([]byte("ACGT"), 0, 4)
	dst := make([]uint64, fam.NumHash)
	it.MultiHash(dst)
	seen := map[uint64]bool{}
	for _, h := range dst {
		if seen[h] {
			t.Errorf("duplicate hash value %d among m positions", h)
		}
		seen[h] = true
	}
}

func TestPairedIteratorCombinesExpectedKmers(t *testing.T) {
	fam, _ := NewFamily(4, 2, false)
	seq := []byte("AAAACCCCGGGG")
	pit := NewPairedIterator(fam)
	if !pit.Start(seq, 0, len(seq), 3) {
		t.Fatal("paired start failed")
	}

	tailIt := NewIterator(fam)
	tailIt.Start(seq, 0, len(seq))
	headIt := NewIterator(fam)
	headIt.Start(seq, 3, len(seq))

	if pit.TailHash() != tailIt.CanonicalHash() {
		t.Error("tail hash mismatch")
	}
	if pit.HeadHash() != headIt.CanonicalHash() {
		t.Error("head hash mismatch")
	}
	want := Combine(headIt.CanonicalHash(), tailIt.CanonicalHash())
	if pit.CombinedHash() != want {
		t.Error("combined hash mismatch")
	}
}

func TestCombineNotSymmetric(t *testing.T) {
	if Combine(1, 2) == Combine(2, 1) {
		t.Error("Combine should not be commutative for nonzero rotate")
	}
}

func TestStrobeIteratorPicksDownstreamStrobe(t *testing.T) {
	fam, _ := NewFamily(3, 2, false)
	seq := []byte("AAACCCGGGTTTACGT")
	sit := NewStrobeIterator(fam)
	if !sit.Start(seq, 0, len(seq), 1, 3) {
		t.Fatal("strobe start failed")
	}
	count := 0
	for sit.Next() {
		count++
		if sit.StrobePos() <= sit.AnchorPos() {
			t.Error("strobe must be downstream of anchor")
		}
	}
	if count == 0 {
		t.Error("expected at least one anchor with a strobe candidate")
	}
}

func TestAssembleRoundTripHelper(t *testing.T) {
	// Sanity-check the byte-slicing invariant that graph.Assemble relies on:
	// concatenating the first k bases of the head with the last base of every
	// subsequent k-mer reproduces the original sequence.
	seq := []byte("AAACCCGGGTTT")
	k := 5
	var kmers [][]byte
	for i := 0; i+k <= len(seq); i++ {
		kmers = append(kmers, seq[i:i+k])
	}
	var buf bytes.Buffer
	buf.Write(kmers[0])
	for _, km := range kmers[1:] {
		buf.WriteByte(km[len(km)-1])
	}
	if buf.String() != string(seq) {
		t.Errorf("assemble helper mismatch: got %s want %s", buf.String(), seq)
	}
}
