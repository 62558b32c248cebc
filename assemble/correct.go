package assemble

import (
	"github.com/kmnip/rnabloom/graph"
	"github.com/kmnip/rnabloom/hash"
)

// dip is a maximal run of k-mer positions (indices into the k-mer sequence,
// not bases) whose coverage falls below Config.MinKmerCov.
type dip struct {
	start, end int
}

func findDips(g *graph.Graph, cfg Config, walk []byte) []dip {
	fam := g.Family()
	n := len(walk) - fam.K + 1
	if n <= 0 {
		return nil
	}
	covs := make([]uint8, n)
	it := hash.NewIterator(fam)
	for i := 0; i < n; i++ {
		if it.Start(walk, i, len(walk)) {
			covs[i] = g.Count(it.CanonicalHash())
		}
	}
	var dips []dip
	for i := 0; i < n; {
		if covs[i] >= cfg.MinKmerCov {
			i++
			continue
		}
		j := i
		for j < n && covs[j] < cfg.MinKmerCov {
			j++
		}
		dips = append(dips, dip{start: i, end: j})
		i = j
	}
	return dips
}

// rerouteDip attempts a bounded greedy walk from the k-mer immediately
// before d, looking for a path of at most (d.end-d.start)+MaxIndelSize steps
// that reaches the exact k-mer immediately after d. On success it returns
// walk with the dip's span replaced by the rerouted bases.
func rerouteDip(g *graph.Graph, cfg Config, walk []byte, d dip) ([]byte, bool) {
	fam := g.Family()
	k := fam.K
	if d.start == 0 {
		return nil, false
	}
	anchorStart := d.start - 1
	window := append([]byte(nil), walk[anchorStart:anchorStart+k]...)

	haveRejoin := d.end+k <= len(walk)
	var rejoinHash uint64
	if haveRejoin {
		it := hash.NewIterator(fam)
		if it.Start(walk, d.end, len(walk)) {
			rejoinHash = it.CanonicalHash()
		} else {
			haveRejoin = false
		}
	}
	if !haveRejoin {
		return nil, false
	}

	bound := (d.end - d.start) + cfg.MaxIndelSize
	var reroute []byte
	for step := 0; step < bound; step++ {
		exts := candidateExtensions(g, fam, window)
		if len(exts) == 0 {
			return nil, false
		}
		best := exts[0]
		for _, e := range exts[1:] {
			if e.count > best.count {
				best = e
			}
		}
		if best.count < cfg.MinKmerCov {
			return nil, false
		}
		reroute = append(reroute, best.base)
		copy(window, window[1:])
		window[k-1] = best.base

		if best.hash == rejoinHash {
			spliced := make([]byte, 0, anchorStart+k+len(reroute)+len(walk)-(d.end+k))
			spliced = append(spliced, walk[:anchorStart+k]...)
			spliced = append(spliced, reroute...)
			spliced = append(spliced, walk[d.end+k:]...)
			return spliced, true
		}
	}
	return nil, false
}

// CorrectErrors detects low-coverage dips in c's walk and attempts to
// reroute each one through an alternative path that rejoins the original
// walk. Dips it cannot reroute are left in place; correction never fails
// outright, since a read with an unrepairable dip is still a usable
// candidate for the coverage-gradient rules downstream.
func CorrectErrors(g *graph.Graph, cfg Config, c Candidate) (Candidate, error) {
	walk := append([]byte(nil), c.Seq...)
	for iter := 0; iter < cfg.MaxErrCorrIterations; iter++ {
		dips := findDips(g, cfg, walk)
		if len(dips) == 0 {
			break
		}
		fixed := false
		for _, d := range dips {
			if spliced, ok := rerouteDip(g, cfg, walk, d); ok {
				walk = spliced
				fixed = true
				break
			}
		}
		if !fixed {
			break
		}
	}
	c.Seq = walk
	c.State = StateCorrected
	return c, nil
}

// CorrectPairedReads runs CorrectErrors on both mates independently, then
// checks that the corrected left tail and right head still form a present
// paired-k-mer link at either configured distance. ok is false when they no
// longer agree, signaling the caller to fall back to uncorrected reads.
func CorrectPairedReads(g *graph.Graph, cfg Config, left, right Candidate) (correctedLeft, correctedRight Candidate, ok bool) {
	correctedLeft, _ = CorrectErrors(g, cfg, left)
	correctedRight, _ = CorrectErrors(g, cfg, right)

	fam := g.Family()
	if len(correctedLeft.Seq) < fam.K || len(correctedRight.Seq) < fam.K {
		return correctedLeft, correctedRight, false
	}
	leftTail := correctedLeft.Seq[len(correctedLeft.Seq)-fam.K:]
	rightHead := correctedRight.Seq[:fam.K]

	itL := hash.NewIterator(fam)
	itR := hash.NewIterator(fam)
	if !itL.Start(leftTail, 0, fam.K) || !itR.Start(rightHead, 0, fam.K) {
		return correctedLeft, correctedRight, false
	}
	consistent := g.ContainsPairedFrag(itR.CanonicalHash(), itL.CanonicalHash()) ||
		g.ContainsPairedRead(itR.CanonicalHash(), itL.CanonicalHash())
	return correctedLeft, correctedRight, consistent
}
