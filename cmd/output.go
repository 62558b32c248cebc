package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/kmnip/rnabloom/assemble"
	"github.com/kmnip/rnabloom/graph"
	"github.com/kmnip/rnabloom/hash"
)

// medianCoverage walks seq's k-mers under fam and returns the median CBF
// count, the "c=" figure in the output header.
func medianCoverage(g *graph.Graph, fam *hash.Family, seq []byte) uint8 {
	it := hash.NewIterator(fam)
	if !it.Start(seq, 0, len(seq)) {
		return 0
	}
	counts := make([]uint8, 0, len(seq)-fam.K+1)
	for {
		counts = append(counts, g.Count(it.CanonicalHash()))
		if !it.Next() {
			break
		}
	}
	if len(counts) == 0 {
		return 0
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i] < counts[j] })
	return counts[len(counts)/2]
}

// writeFasta writes one candidate as a two-line FASTA record with the
// header grammar "<prefix><id> l=<length> c=<median-coverage>
// [F=[<frag-info>]] [PAS=[<pos>:<cov>:<motif>, ...]]".
func writeFasta(w io.Writer, prefix string, c assemble.Candidate, cov uint8) error {
	header := fmt.Sprintf("%s%s l=%d c=%d", prefix, c.ID, len(c.Seq), cov)
	if c.FragInfo != "" {
		header += " F=[" + c.FragInfo + "]"
	}
	if len(c.PAS) > 0 {
		header += " PAS=["
		for i, p := range c.PAS {
			if i > 0 {
				header += ", "
			}
			header += fmt.Sprintf("%d:%d:%s", p.Position, p.Coverage, p.Motif)
		}
		header += "]"
	}
	if _, err := fmt.Fprintln(w, ">"+header); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, string(c.Seq))
	return err
}
