package graph

import (
	"bytes"
	"testing"

	"github.com/kmnip/rnabloom/bloom"
	"github.com/kmnip/rnabloom/hash"
)

func newTestGraph(t *testing.T, k, m int, dRead, dFrag int) (*Graph, *hash.Family) {
	t.Helper()
	fam, err := hash.NewFamily(k, m, false)
	if err != nil {
		t.Fatal(err)
	}
	dbg, err := bloom.NewPlainFilter(1<<16, m)
	if err != nil {
		t.Fatal(err)
	}
	cbf, err := bloom.NewCountingFilter(1<<16, m)
	if err != nil {
		t.Fatal(err)
	}
	pkbf, err := bloom.NewPairedKeysFilter(1<<16, m)
	if err != nil {
		t.Fatal(err)
	}
	rpkbf, err := bloom.NewPairedKeysFilter(1<<16, m)
	if err != nil {
		t.Fatal(err)
	}
	g, err := New(fam, dbg, cbf, pkbf, rpkbf, Config{DRead: dRead, DFrag: dFrag})
	if err != nil {
		t.Fatal(err)
	}
	return g, fam
}

func populateSequence(t *testing.T, g *Graph, fam *hash.Family, seq []byte) {
	t.Helper()
	it := hash.NewIterator(fam)
	if !it.Start(seq, 0, len(seq)) {
		t.Fatalf("Start failed for %s", seq)
	}
	for {
		g.AddKmer(it.CanonicalHash())
		if !it.Next() {
			break
		}
	}
}

func TestGraphContainsAfterAddKmer(t *testing.T) {
	g, fam := newTestGraph(t, 4, 3, 5, 10)
	seq := []byte("ACGTACGTAC")
	populateSequence(t, g, fam, seq)

	it := hash.NewIterator(fam)
	it.Start(seq, 0, len(seq))
	for {
		if !g.Contains(it.CanonicalHash()) {
			t.Errorf("Contains false for k-mer at pos %d after population", it.Pos())
		}
		if !it.Next() {
			break
		}
	}
}

func TestGraphAddKmerIfPresent(t *testing.T) {
	g, fam := newTestGraph(t, 4, 3, 5, 10)
	seq := []byte("ACGTACGTAC")
	it := hash.NewIterator(fam)
	it.Start(seq, 0, len(seq))
	h := it.CanonicalHash()

	if got := g.AddKmerIfPresent(h); got != 0 {
		t.Errorf("AddKmerIfPresent on absent k-mer = %d, want 0", got)
	}
	g.AddKmer(h)
	if got := g.AddKmerIfPresent(h); got == 0 {
		t.Error("AddKmerIfPresent on present k-mer returned 0")
	}
}

func TestGraphSuccessorsMatchActualExtension(t *testing.T) {
	g, fam := newTestGraph(t, 4, 3, 5, 10)
	seq := []byte("ACGTACGTACGT")
	populateSequence(t, g, fam, seq)

	it := hash.NewIterator(fam)
	it.Start(seq, 0, len(seq))
	// the actual next base at pos+k must be among the reported successors
	nextByte := seq[it.Pos()+fam.K]
	succ := g.Successors(it)
	freshNext := hash.NewIterator(fam)
	freshNext.Start(append(append([]byte{}, it.Bytes()[1:]...), nextByte), 0, fam.K)
	want := freshNext.CanonicalHash()

	found := false
	for _, s := range succ {
		if s.Hash == want {
			found = true
		}
	}
	if !found {
		t.Error("actual successor not present among reported Successors")
	}
}

func TestGraphPredecessorsMatchActualExtension(t *testing.T) {
	g, fam := newTestGraph(t, 4, 3, 5, 10)
	seq := []byte("ACGTACGTACGT")
	populateSequence(t, g, fam, seq)

	it := hash.NewIterator(fam)
	it.Start(seq, 4, len(seq))
	// the actual base one before pos must be among the reported predecessors
	prevByte := seq[it.Pos()-1]
	pred := g.Predecessors(it)
	freshPrev := hash.NewIterator(fam)
	window := append([]byte{prevByte}, it.Bytes()[:fam.K-1]...)
	freshPrev.Start(window, 0, fam.K)
	want := freshPrev.CanonicalHash()

	found := false
	for _, p := range pred {
		if p.Hash == want {
			found = true
		}
	}
	if !found {
		t.Error("actual predecessor not present among reported Predecessors")
	}
}

func TestGraphPairedFragRoundTrip(t *testing.T) {
	g, fam := newTestGraph(t, 4, 3, 5, 10)
	seq := []byte("AAAACCCCGGGGTTTT")
	pit := hash.NewPairedIterator(fam)
	if !pit.Start(seq, 0, len(seq), g.Config().DFrag) {
		t.Fatal("paired start failed")
	}
	g.AddPairedFrag(pit.HeadHash(), pit.TailHash())
	if !g.ContainsPairedFrag(pit.HeadHash(), pit.TailHash()) {
		t.Error("ContainsPairedFrag false after AddPairedFrag")
	}
	if g.ContainsPairedRead(pit.HeadHash(), pit.TailHash()) {
		t.Error("ContainsPairedRead true for a pair only added to PKBF")
	}
}

func TestAssembleRoundTrip(t *testing.T) {
	fam, _ := hash.NewFamily(5, 2, false)
	seq := []byte("AAACCCGGGTTTACGT")
	it := hash.NewIterator(fam)
	if !it.Start(seq, 0, len(seq)) {
		t.Fatal("start failed")
	}
	var kmers [][]byte
	kmers = append(kmers, append([]byte{}, it.Bytes()...))
	for it.Next() {
		kmers = append(kmers, append([]byte{}, it.Bytes()...))
	}
	got := Assemble(kmers)
	if !bytes.Equal(got, seq) {
		t.Errorf("Assemble round trip: got %s want %s", got, seq)
	}
}

func TestGraphConfigConstructionRejectsMismatch(t *testing.T) {
	fam, _ := hash.NewFamily(4, 3, false)
	dbg, _ := bloom.NewPlainFilter(1<<10, 2) // wrong m
	cbf, _ := bloom.NewCountingFilter(1<<10, 3)
	if _, err := New(fam, dbg, cbf, nil, nil, Config{}); err == nil {
		t.Error("expected ErrConfiguration for mismatched hash counts")
	}
}
