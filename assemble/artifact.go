package assemble

import (
	"github.com/kmnip/rnabloom/graph"
	"github.com/kmnip/rnabloom/hash"
)

// DetectArtifact looks for a reverse-complement palindrome: the fragment's
// first and last quarters aligning as near-reverse-complements of each
// other within cfg.MaxIndelSize positions of shift. On detection, the
// palindromic flanks are trimmed and c is marked rejected.
func DetectArtifact(cfg Config, c Candidate) (Candidate, bool) {
	n := len(c.Seq)
	w := n / 4
	if w < 4 {
		return c, false
	}
	head := c.Seq[:w]
	tailRC := reverseComplement(c.Seq[n-w:])
	if bestAlignmentIdentity(head, tailRC, cfg.MaxIndelSize) >= cfg.PercentIdentity {
		c.Seq = c.Seq[w : n-w]
		c.State = StateRejectedArtifact
		return c, true
	}
	return c, false
}

// bestAlignmentIdentity tries every offset shift within [-tolerance,
// tolerance] and returns the best fraction of matching bases over the
// overlapping region, a simple stand-in for a banded alignment.
func bestAlignmentIdentity(a, b []byte, tolerance int) float64 {
	best := 0.0
	for shift := -tolerance; shift <= tolerance; shift++ {
		matches, total := 0, 0
		for i := range a {
			j := i + shift
			if j < 0 || j >= len(b) {
				continue
			}
			total++
			if a[i] == b[j] {
				matches++
			}
		}
		if total == 0 {
			continue
		}
		if id := float64(matches) / float64(total); id > best {
			best = id
		}
	}
	return best
}

// DetectChimera flags c if its middle third has significantly less
// fragment-distance paired-k-mer support than the average of its flanks.
func DetectChimera(g *graph.Graph, cfg Config, c Candidate) bool {
	fam := g.Family()
	gc := g.Config()
	if gc.DFrag <= 0 {
		return false
	}
	n := len(c.Seq) - gc.DFrag - fam.K + 1
	if n <= 2 {
		return false
	}
	support := make([]bool, n)
	for i := 0; i < n; i++ {
		support[i] = pairSupported(g, fam, c.Seq, i, gc.DFrag)
	}

	third := n / 3
	if third == 0 {
		return false
	}
	flankAvg := (fraction(support[:third]) + fraction(support[n-third:])) / 2
	middle := fraction(support[third : n-third])
	return flankAvg > 0 && middle < flankAvg*cfg.MaxCovGradient
}

func pairSupported(g *graph.Graph, fam *hash.Family, seq []byte, i, d int) bool {
	it := hash.NewIterator(fam)
	if !it.Start(seq, i, i+fam.K) {
		return false
	}
	tailHash := it.CanonicalHash()
	if !it.Start(seq, i+d, i+d+fam.K) {
		return false
	}
	return g.ContainsPairedFrag(it.CanonicalHash(), tailHash)
}

func fraction(bs []bool) float64 {
	if len(bs) == 0 {
		return 0
	}
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return float64(n) / float64(len(bs))
}
