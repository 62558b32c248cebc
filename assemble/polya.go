package assemble

import (
	"bytes"

	"github.com/kmnip/rnabloom/graph"
	"github.com/kmnip/rnabloom/hash"
)

// PolyASignal records one detected poly-A tail: where it starts, the
// coverage of the k-mer immediately preceding it, and which canonical
// polyadenylation motif preceded the run.
type PolyASignal struct {
	Position int
	Coverage uint8
	Motif    string
}

var polyadenylationMotifs = []string{"AATAAA", "ATTAAA"}

// minPolyARun is the shortest trailing A-run counted as a poly-A tail.
const minPolyARun = 8

// motifSearchWindow bounds how far upstream of the A-run a motif is sought.
const motifSearchWindow = 20

// DetectPolyA scans the tail of seq for a run of A bases preceded by a
// canonical polyadenylation motif. On a hit, the run is lowercased in the
// returned copy and one PolyASignal describes it; DetectPolyA leaves seq
// untouched and returns no signal otherwise.
func DetectPolyA(g *graph.Graph, seq []byte) ([]byte, []PolyASignal) {
	n := len(seq)
	runStart := n
	for runStart > 0 && isA(seq[runStart-1]) {
		runStart--
	}
	if n-runStart < minPolyARun {
		return seq, nil
	}

	searchStart := runStart - motifSearchWindow
	if searchStart < 0 {
		searchStart = 0
	}
	upstream := bytes.ToUpper(seq[searchStart:runStart])
	motif := ""
	for _, m := range polyadenylationMotifs {
		if bytes.Contains(upstream, []byte(m)) {
			motif = m
			break
		}
	}
	if motif == "" {
		return seq, nil
	}

	out := append([]byte(nil), seq...)
	for i := runStart; i < n; i++ {
		out[i] = toLowerBase(out[i])
	}

	var cov uint8
	if g != nil {
		fam := g.Family()
		if runStart >= fam.K {
			it := hash.NewIterator(fam)
			if it.Start(out, runStart-fam.K, len(out)) {
				cov = g.Count(it.CanonicalHash())
			}
		}
	}
	return out, []PolyASignal{{Position: runStart, Coverage: cov, Motif: motif}}
}

func isA(b byte) bool { return b == 'A' || b == 'a' }

func toLowerBase(b byte) byte {
	switch b {
	case 'A':
		return 'a'
	case 'C':
		return 'c'
	case 'G':
		return 'g'
	case 'T':
		return 't'
	default:
		return b
	}
}

// ApplyBaseMode rewrites T/t to U/u when mode is BaseModeRNA. It is applied
// after poly-A masking, so a lowercased tail becomes lowercase 'u'.
func ApplyBaseMode(seq []byte, mode BaseMode) []byte {
	if mode != BaseModeRNA {
		return seq
	}
	out := make([]byte, len(seq))
	for i, b := range seq {
		switch b {
		case 'T':
			out[i] = 'U'
		case 't':
			out[i] = 'u'
		default:
			out[i] = b
		}
	}
	return out
}
