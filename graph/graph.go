// Package graph implements the implicit de Bruijn graph: a thin composition
// of a rolling k-mer hash family (package hash) and the Bloom filter family
// (package bloom) that never materializes explicit nodes or edges. An edge
// u -> v exists iff v is one of u's four one-base-shifted successors and the
// membership filter contains v.
package graph

import (
	"sync"

	"github.com/kmnip/rnabloom/bloom"
	"github.com/kmnip/rnabloom/hash"
)

// Config carries the graph-level parameters that are not owned by any
// individual filter: the two paired-k-mer distances used when inserting or
// querying PKBF/RPKBF.
type Config struct {
	DRead int
	DFrag int
}

// Graph composes a membership filter (DBG), a counting filter (CBF), and up
// to two paired-keys filters (PKBF for fragment-distance pairs, RPKBF for
// read-distance pairs) with the hash family that indexes them. A Graph
// exclusively owns its filters; Close releases them exactly once.
type Graph struct {
	fam   *hash.Family
	dbg   *bloom.PlainFilter
	cbf   *bloom.CountingFilter
	pkbf  *bloom.PairedKeysFilter
	rpkbf *bloom.PairedKeysFilter
	cfg   Config

	closeOnce sync.Once
	closeErr  error
}

// New composes a Graph. pkbf and rpkbf may be nil if fragment- or
// read-distance paired-k-mer links are not tracked.
func New(fam *hash.Family, dbg *bloom.PlainFilter, cbf *bloom.CountingFilter, pkbf, rpkbf *bloom.PairedKeysFilter, cfg Config) (*Graph, error) {
	if fam == nil || dbg == nil || cbf == nil {
		return nil, ErrConfiguration
	}
	if dbg.M() != fam.NumHash || cbf.M() != fam.NumHash {
		return nil, ErrConfiguration
	}
	return &Graph{fam: fam, dbg: dbg, cbf: cbf, pkbf: pkbf, rpkbf: rpkbf, cfg: cfg}, nil
}

// Family returns the hash family the graph was constructed with.
func (g *Graph) Family() *hash.Family { return g.fam }

// Config returns the graph's paired-distance configuration.
func (g *Graph) Config() Config { return g.cfg }

// Kmer is a transient view over a canonical hash: its hash value and its
// coverage estimate at the moment it was looked up. It does not carry the
// k-mer's byte string; callers that need bytes retain the hash.Iterator
// window that produced the hash.
type Kmer struct {
	Hash  uint64
	Count uint8
}

func (g *Graph) positions(h uint64) []uint64 {
	dst := make([]uint64, g.fam.NumHash)
	g.fam.RawPositions(h, dst)
	return dst
}

// Contains reports whether canonical hash h is a member of the graph
// (modulo the DBG filter's false-positive rate).
func (g *Graph) Contains(h uint64) bool {
	return g.dbg.Contains(g.positions(h))
}

// Count returns the CBF's coverage estimate for h, biased upward by its
// false-positive rate.
func (g *Graph) Count(h uint64) uint8 {
	return g.cbf.Count(g.positions(h))
}

// AddKmer inserts h into DBG and increments its CBF count, the "add" mode of
// the population pipeline (spec: insert unconditionally).
func (g *Graph) AddKmer(h uint64) {
	pos := g.positions(h)
	g.dbg.Add(pos)
	g.cbf.Increment(pos)
}

// AddKmerIfPresent increments h's CBF count only if DBG already contains it,
// returning the new count, or 0 if h was not already a member. This is the
// "addIfPresent" population mode used to merge secondary datasets without
// growing the graph's k-mer set.
func (g *Graph) AddKmerIfPresent(h uint64) uint8 {
	pos := g.positions(h)
	if !g.dbg.Contains(pos) {
		return 0
	}
	return g.cbf.Increment(pos)
}

// AddPairedFrag records a fragment-distance paired k-mer in PKBF. It is a
// no-op if the graph was constructed without a PKBF.
func (g *Graph) AddPairedFrag(headHash, tailHash uint64) {
	if g.pkbf != nil {
		g.pkbf.Add(hash.Combine(headHash, tailHash))
	}
}

// AddPairedRead records a read-distance paired k-mer in RPKBF. It is a no-op
// if the graph was constructed without an RPKBF.
func (g *Graph) AddPairedRead(headHash, tailHash uint64) {
	if g.rpkbf != nil {
		g.rpkbf.Add(hash.Combine(headHash, tailHash))
	}
}

// ContainsPairedFrag reports whether (headHash, tailHash) is a present
// fragment-distance pair link.
func (g *Graph) ContainsPairedFrag(headHash, tailHash uint64) bool {
	return g.pkbf != nil && g.pkbf.Contains(hash.Combine(headHash, tailHash))
}

// ContainsPairedRead reports whether (headHash, tailHash) is a present
// read-distance pair link.
func (g *Graph) ContainsPairedRead(headHash, tailHash uint64) bool {
	return g.rpkbf != nil && g.rpkbf.Contains(hash.Combine(headHash, tailHash))
}

// Successors returns, in A,C,G,T order, the Kmer views for the up-to-four
// one-base extensions of its current window that the graph contains. it
// must be positioned (Start/Next already called successfully) on the k-mer
// whose successors are wanted.
func (g *Graph) Successors(it *hash.Iterator) []Kmer {
	cands := it.Successors()
	out := make([]Kmer, 0, 4)
	for _, h := range cands {
		if g.Contains(h) {
			out = append(out, Kmer{Hash: h, Count: g.Count(h)})
		}
	}
	return out
}

// Predecessors returns, in A,C,G,T order, the Kmer views for the up-to-four
// one-base prepensions of its current window that the graph contains.
func (g *Graph) Predecessors(it *hash.Iterator) []Kmer {
	cands := it.Predecessors()
	out := make([]Kmer, 0, 4)
	for _, h := range cands {
		if g.Contains(h) {
			out = append(out, Kmer{Hash: h, Count: g.Count(h)})
		}
	}
	return out
}

// Close releases the graph's counting filter (and, transitively, any mmap it
// holds). It is safe to call multiple times; only the first call has effect,
// and only after every worker referencing the graph has joined.
func (g *Graph) Close() error {
	g.closeOnce.Do(func() {
		g.closeErr = g.cbf.Close()
	})
	return g.closeErr
}
