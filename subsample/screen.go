package subsample

import (
	"github.com/kmnip/rnabloom/bloom"
	"github.com/kmnip/rnabloom/hash"
)

func rawPositionsFor(fam *hash.Family, h uint64) []uint64 {
	dst := make([]uint64, fam.NumHash)
	fam.RawPositions(h, dst)
	return dst
}

// keepCriterion reports whether chain, the run of signature hashes checked
// for novelty, satisfies both halves of the keep policy: enough of it is
// novel, and no run of already-represented hashes is too long.
func keepCriterion(cf *bloom.CountingFilter, fam *hash.Family, chain []uint64, cfg Config) bool {
	if len(chain) == 0 {
		return false
	}
	novel := 0
	longestSeenRun, curSeenRun := 0, 0
	for _, h := range chain {
		if cf.Count(rawPositionsFor(fam, h)) <= cfg.MaxMultiplicity {
			novel++
			curSeenRun = 0
		} else {
			curSeenRun++
			if curSeenRun > longestSeenRun {
				longestSeenRun = curSeenRun
			}
		}
	}
	proportion := float64(novel) / float64(len(chain))
	return proportion >= cfg.MinMatchingProportion && longestSeenRun <= cfg.MaxNonMatchingChainLength
}

func addSignature(cf *bloom.CountingFilter, fam *hash.Family, sig []uint64) {
	for _, h := range sig {
		cf.Increment(rawPositionsFor(fam, h))
	}
}

// Keep decides whether seq should be retained under cfg's strategy against
// the shared counting Bloom filter cf. When seq is kept, every hash in its
// full signature is folded into cf before Keep returns, so the filter is a
// monotone coverage tracker regardless of how many sequences pass through
// it before or after.
func Keep(cf *bloom.CountingFilter, fam *hash.Family, cfg Config, seq []byte) bool {
	var chain, full []uint64
	switch cfg.Strategy {
	case StrategyMinimizer:
		chain = minimizerSignature(fam, seq, cfg)
		full = chain
	case StrategyKmerPair:
		chain, full = kmerPairSignature(fam, seq, cfg)
	case StrategyStrobemer:
		chain = strobemerSignature(fam, seq, cfg)
		full = chain
	default:
		return false
	}

	if !keepCriterion(cf, fam, chain, cfg) {
		return false
	}
	addSignature(cf, fam, full)
	return true
}
