package assemble

import (
	"github.com/kmnip/rnabloom/bloom"
	"github.com/kmnip/rnabloom/hash"
)

func positionsFor(fam *hash.Family, h uint64) []uint64 {
	dst := make([]uint64, fam.NumHash)
	fam.RawPositions(h, dst)
	return dst
}

// ScreenAndEmit checks c against the screening filter: if at least
// cfg.PercentIdentity of its k-mers are already present, c is "already
// represented" and rejected. Otherwise it is accepted, marked Emitted, and
// every one of its k-mers is added to the screening filter — the online
// deduplication the representation check depends on.
func ScreenAndEmit(screen *bloom.PlainFilter, fam *hash.Family, cfg Config, c Candidate) Candidate {
	hashes := make([]uint64, 0, len(c.Seq))
	present := 0
	it := hash.NewIterator(fam)
	for i := 0; i+fam.K <= len(c.Seq); i++ {
		if !it.Start(c.Seq, i, len(c.Seq)) {
			continue
		}
		h := it.CanonicalHash()
		hashes = append(hashes, h)
		if screen.Contains(positionsFor(fam, h)) {
			present++
		}
	}
	if len(hashes) == 0 {
		c.State = StateRejectedLowCoverage
		return c
	}
	if float64(present)/float64(len(hashes)) >= cfg.PercentIdentity {
		c.State = StateRejectedRepresented
		return c
	}
	for _, h := range hashes {
		screen.Add(positionsFor(fam, h))
	}
	c.State = StateEmitted
	return c
}

// ResetScreening clears screen when cfg says the screening filter should
// not persist across strata (see Config.ResetScreeningPerStratum).
func ResetScreening(screen *bloom.PlainFilter, cfg Config) {
	if cfg.ResetScreeningPerStratum {
		screen.Reset()
	}
}
