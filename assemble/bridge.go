package assemble

import (
	"bytes"
	"fmt"

	"github.com/kmnip/rnabloom/graph"
	"github.com/kmnip/rnabloom/hash"
)

// tryOverlap looks for the longest suffix of left equal to a prefix of
// right, of at least minOverlap bases, and joins them on it.
func tryOverlap(left, right []byte, minOverlap int) ([]byte, int, bool) {
	maxLen := len(left)
	if len(right) < maxLen {
		maxLen = len(right)
	}
	for l := maxLen; l >= minOverlap; l-- {
		if bytes.Equal(left[len(left)-l:], right[:l]) {
			merged := make([]byte, 0, len(left)+len(right)-l)
			merged = append(merged, left...)
			merged = append(merged, right[l:]...)
			return merged, l, true
		}
	}
	return nil, 0, false
}

// greedyBridge extends left's tip toward any k-mer window of right, up to
// cfg.Bound k-mers, using the same branch-resolution rules as Extend.
func greedyBridge(g *graph.Graph, cfg Config, left, right []byte) ([]byte, bool) {
	fam := g.Family()
	k := fam.K

	rightOffsets := make(map[uint64]int, len(right))
	it := hash.NewIterator(fam)
	for i := 0; i+k <= len(right); i++ {
		if it.Start(right, i, len(right)) {
			rightOffsets[it.CanonicalHash()] = i
		}
	}

	walk := append([]byte(nil), left...)
	visited := make(map[uint64]bool, len(walk))
	for i := 0; i+k <= len(walk); i++ {
		if it.Start(walk, i, len(walk)) {
			visited[it.CanonicalHash()] = true
		}
	}

	tipStart := len(walk) - k
	for step := 0; step < cfg.Bound; step++ {
		exts := candidateExtensions(g, fam, walk[tipStart:])
		chosen, ok := pickExtension(g, fam, cfg, walk, tipStart, exts, visited)
		if !ok {
			return nil, false
		}
		walk = append(walk, chosen.base)
		tipStart++
		visited[chosen.hash] = true

		if offset, hit := rightOffsets[chosen.hash]; hit {
			merged := append(walk, right[offset+k:]...)
			return merged, true
		}
	}
	return nil, false
}

// Bridge reconstructs a fragment from two k-mer-list reads. It first tries a
// direct overlap join, then falls back to a bounded greedy bridge, and
// finally validates the result against RPKBF.
func Bridge(g *graph.Graph, cfg Config, left, right Candidate) (Candidate, error) {
	fam := g.Family()
	if len(left.Seq) < fam.K || len(right.Seq) < fam.K {
		return Candidate{}, ErrConfiguration
	}

	if merged, overlapLen, ok := tryOverlap(left.Seq, right.Seq, cfg.MinOverlap); ok {
		c := Candidate{ID: left.ID, Seq: merged, State: StateBridged, FragInfo: fmt.Sprintf("overlap=%d", overlapLen)}
		return validateFragment(g, cfg, c, left)
	}

	bridged, ok := greedyBridge(g, cfg, left.Seq, right.Seq)
	if !ok {
		c := Candidate{ID: left.ID, Seq: left.Seq, State: StateRejectedTipOnly}
		return c, ErrNoPath
	}
	c := Candidate{ID: left.ID, Seq: bridged, State: StateBridged, FragInfo: "bridged"}
	return validateFragment(g, cfg, c, left)
}

// validateFragment scans c's read-distance paired k-mers for a contiguous
// consistent segment that covers the junction where left
// ended before bridging. Graphs constructed without RPKBF skip validation
// entirely, since there is nothing to check.
func validateFragment(g *graph.Graph, cfg Config, c Candidate, left Candidate) (Candidate, error) {
	fam := g.Family()
	gc := g.Config()
	if gc.DRead <= 0 {
		c.State = StateValidated
		return c, nil
	}

	n := len(c.Seq) - gc.DRead - fam.K + 1
	if n <= 0 {
		return c, ErrInconsistentFragment
	}
	consistent := make([]bool, n)
	it := hash.NewIterator(fam)
	for i := 0; i < n; i++ {
		if !it.Start(c.Seq, i, i+fam.K) {
			continue
		}
		tailHash := it.CanonicalHash()
		if !it.Start(c.Seq, i+gc.DRead, i+gc.DRead+fam.K) {
			continue
		}
		headHash := it.CanonicalHash()
		consistent[i] = g.ContainsPairedRead(headHash, tailHash)
	}

	bestStart, bestLen, curStart, curLen := 0, 0, 0, 0
	for i, ok := range consistent {
		if ok {
			if curLen == 0 {
				curStart = i
			}
			curLen++
			if curLen > bestLen {
				bestStart, bestLen = curStart, curLen
			}
		} else {
			curLen = 0
		}
	}

	junction := len(left.Seq) - fam.K
	if junction < 0 {
		junction = 0
	}
	if junction >= n {
		junction = n - 1
	}
	covers := bestLen >= cfg.MinNumKmerPairs && bestStart <= junction && junction <= bestStart+bestLen-1
	if !covers {
		return c, ErrInconsistentFragment
	}
	c.State = StateValidated
	return c, nil
}
