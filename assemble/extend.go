package assemble

import (
	"github.com/kmnip/rnabloom/graph"
	"github.com/kmnip/rnabloom/hash"
)

// extension is one surviving one-base extension of a tip window: the
// appended base, the resulting canonical hash, and its CBF coverage
// estimate.
type extension struct {
	base  byte
	hash  uint64
	count uint8
}

// candidateExtensions tries appending each of A, C, G, T to tipWindow (after
// dropping its first base) and keeps the ones the graph contains, in
// A,C,G,T order — the fixed order the lookahead tie-break rule relies on.
func candidateExtensions(g *graph.Graph, fam *hash.Family, tipWindow []byte) []extension {
	k := len(tipWindow)
	cand := make([]byte, k)
	copy(cand, tipWindow[1:])
	it := hash.NewIterator(fam)
	out := make([]extension, 0, 4)
	for _, b := range [4]byte{'A', 'C', 'G', 'T'} {
		cand[k-1] = b
		if !it.Start(cand, 0, k) {
			continue
		}
		h := it.CanonicalHash()
		if !g.Contains(h) {
			continue
		}
		out = append(out, extension{base: b, hash: h, count: g.Count(h)})
	}
	return out
}

// pairedSupport counts, over gaps {0,1,2} added to both configured paired
// distances, how many present paired-k-mer links connect candHash to the
// k-mer of walk that starts d positions before the candidate k-mer (which
// itself starts at tipStart+1).
func pairedSupport(g *graph.Graph, fam *hash.Family, walk []byte, tipStart int, candHash uint64) int {
	gc := g.Config()
	support := 0
	it := hash.NewIterator(fam)
	test := func(d int, contains func(head, tail uint64) bool) {
		if d <= 0 {
			return
		}
		headStart := tipStart + 1 - d
		if headStart < 0 || headStart+fam.K > len(walk) {
			return
		}
		if !it.Start(walk, headStart, headStart+fam.K) {
			return
		}
		if contains(candHash, it.CanonicalHash()) {
			support++
		}
	}
	for _, gap := range [3]int{0, 1, 2} {
		test(gc.DFrag+gap, g.ContainsPairedFrag)
		test(gc.DRead+gap, g.ContainsPairedRead)
	}
	return support
}

// lookaheadScore greedily continues past a candidate extension for up to
// lookahead more k-mers, always taking the highest-covered successor, and
// returns the cumulative coverage of the path including the candidate
// itself.
func lookaheadScore(g *graph.Graph, fam *hash.Family, e extension, tail []byte, lookahead int) int {
	window := make([]byte, fam.K)
	copy(window, tail)
	window[fam.K-1] = e.base
	score := int(e.count)
	for i := 0; i < lookahead; i++ {
		exts := candidateExtensions(g, fam, window)
		if len(exts) == 0 {
			break
		}
		best := exts[0]
		for _, x := range exts[1:] {
			if x.count > best.count {
				best = x
			}
		}
		score += int(best.count)
		copy(window, window[1:])
		window[fam.K-1] = best.base
	}
	return score
}

// pickExtension resolves the ambiguity rules in order: cycle avoidance,
// max-coverage-gradient, paired-k-mer support, lookahead, and finally
// first-seen A<C<G<T order. It returns ok=false when no live candidate
// survives cycle avoidance or the gradient rule (the kernel treats this as a
// walk termination, not a fatal error); ties that survive every other rule
// are broken by the A<C<G<T order, never reported as a failure.
func pickExtension(g *graph.Graph, fam *hash.Family, cfg Config, walk []byte, tipStart int, exts []extension, visited map[uint64]bool) (extension, bool) {
	live := make([]extension, 0, len(exts))
	for _, e := range exts {
		if !visited[e.hash] {
			live = append(live, e)
		}
	}
	if len(live) == 0 {
		return extension{}, false
	}

	var tipCount uint8
	if it := hash.NewIterator(fam); it.Start(walk, tipStart, tipStart+fam.K) {
		tipCount = g.Count(it.CanonicalHash())
	}
	gradient := live[:0:0]
	for _, e := range live {
		if tipCount == 0 || float64(e.count)/float64(tipCount) >= cfg.MaxCovGradient {
			gradient = append(gradient, e)
		}
	}
	if len(gradient) == 0 {
		return extension{}, false
	}
	if len(gradient) == 1 {
		return gradient[0], true
	}

	bestSupport := -1
	var supported []extension
	for _, e := range gradient {
		s := pairedSupport(g, fam, walk, tipStart, e.hash)
		switch {
		case s > bestSupport:
			bestSupport = s
			supported = []extension{e}
		case s == bestSupport:
			supported = append(supported, e)
		}
	}
	candidates := gradient
	if bestSupport > 0 && len(supported) < len(gradient) {
		candidates = supported
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}

	if cfg.Lookahead > 0 {
		tail := walk[tipStart+1:]
		bestScore := -1
		var scored []extension
		for _, e := range candidates {
			score := lookaheadScore(g, fam, e, tail, cfg.Lookahead)
			switch {
			case score > bestScore:
				bestScore = score
				scored = []extension{e}
			case score == bestScore:
				scored = append(scored, e)
			}
		}
		candidates = scored
	}

	return candidates[0], true
}

// Extend greedily walks c's tip forward until no surviving successor
// remains, a cycle would be revisited, or the max-coverage-gradient rule
// prunes every candidate. A candidate that never grows past MaxTipLength
// k-mers is rejected outright as a tip.
func Extend(g *graph.Graph, cfg Config, c Candidate) (Candidate, error) {
	fam := g.Family()
	if len(c.Seq) < fam.K {
		return c, ErrConfiguration
	}
	walk := append([]byte(nil), c.Seq...)
	visited := make(map[uint64]bool, len(walk))
	it := hash.NewIterator(fam)
	for i := 0; i+fam.K <= len(walk); i++ {
		if it.Start(walk, i, len(walk)) {
			visited[it.CanonicalHash()] = true
		}
	}

	tipStart := len(walk) - fam.K
	for {
		exts := candidateExtensions(g, fam, walk[tipStart:])
		chosen, ok := pickExtension(g, fam, cfg, walk, tipStart, exts, visited)
		if !ok {
			break
		}
		walk = append(walk, chosen.base)
		tipStart++
		visited[chosen.hash] = true
	}

	c.Seq = walk
	if numKmers := len(walk) - fam.K + 1; numKmers < cfg.MaxTipLength {
		c.State = StateRejectedTipOnly
		return c, nil
	}
	c.State = StateExtended
	return c, nil
}

// ExtendBothDirections extends c's tail with Extend, then extends its head
// by running Extend on the reverse complement of the seed and splicing the
// result back in original orientation.
func ExtendBothDirections(g *graph.Graph, cfg Config, c Candidate) (Candidate, error) {
	forward, err := Extend(g, cfg, c)
	if err != nil || forward.State.Rejected() {
		return forward, err
	}

	rc := Candidate{ID: forward.ID, Seq: reverseComplement(c.Seq), State: StateSeed}
	backward, err := Extend(g, cfg, rc)
	if err != nil {
		return forward, err
	}
	if backward.State.Rejected() || len(backward.Seq) <= len(c.Seq) {
		return forward, nil
	}

	prefix := reverseComplement(backward.Seq[len(c.Seq):])
	merged := make([]byte, 0, len(prefix)+len(forward.Seq))
	merged = append(merged, prefix...)
	merged = append(merged, forward.Seq...)
	forward.Seq = merged
	return forward, nil
}
