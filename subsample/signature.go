package subsample

import "github.com/kmnip/rnabloom/hash"

// combine folds two canonical hashes into one, the same role
// HashFunction.combineHashValues plays for paired-k-mer and strobemer keys:
// a cheap, well-mixed 64-bit combiner (the boost::hash_combine formula).
func combine(a, b uint64) uint64 {
	return a ^ (b + 0x9e3779b97f4a7c15 + (a << 6) + (a >> 2))
}

func kmerHashes(fam *hash.Family, seq []byte) []uint64 {
	numKmers := len(seq) - fam.K + 1
	if numKmers <= 0 {
		return nil
	}
	out := make([]uint64, numKmers)
	it := hash.NewIterator(fam)
	for i := 0; i < numKmers; i++ {
		if it.Start(seq, i, len(seq)) {
			out[i] = it.CanonicalHash()
		}
	}
	return out
}

// clipRange returns the [start, end) window of k-mer indices a strategy
// should build its signature from: unclipped when the sequence is too
// short relative to the requested clip to leave anything in the middle.
func clipRange(numKmers, clip int) (start, end int) {
	if numKmers < 3*clip {
		return 0, numKmers
	}
	return clip, numKmers - clip
}

// minimizerSignature returns the deduplicated run of per-window minimum
// k-mer hashes: the same value as consecutive identical minimizers collapse
// to one entry, matching the sliding-window minimizer definition.
func minimizerSignature(fam *hash.Family, seq []byte, cfg Config) []uint64 {
	hashes := kmerHashes(fam, seq)
	start, end := clipRange(len(hashes), cfg.MaxEdgeClip)
	hashes = hashes[start:end]
	w := cfg.WindowSize
	if w <= 0 || len(hashes) < w {
		return nil
	}
	var sig []uint64
	var prev uint64
	havePrev := false
	for i := 0; i+w <= len(hashes); i++ {
		min := hashes[i]
		for _, h := range hashes[i+1 : i+w] {
			if h < min {
				min = h
			}
		}
		if !havePrev || min != prev {
			sig = append(sig, min)
			prev = min
			havePrev = true
		}
	}
	return sig
}

// kmerPairSignature returns two things: the primary (gap-1) chain used for
// the keep decision, and the full three-gap signature added to the filter
// on keep. Gaps of {0, 1, 2} between k-mer positions mirror the redundancy filter's
// offsets {k, k+1, k+2}.
func kmerPairSignature(fam *hash.Family, seq []byte, cfg Config) (chain, full []uint64) {
	hashes := kmerHashes(fam, seq)
	k := fam.K
	shiftGap0, shiftGap1, shiftGap2 := k, k+1, k+2
	start, end := clipRange(len(hashes)-shiftGap1, cfg.MaxEdgeClip)
	if end <= start {
		return nil, nil
	}

	for i := start; i < end; i++ {
		chain = append(chain, combine(hashes[i], hashes[i+shiftGap1]))
	}
	full = append(full, chain...)
	for i := start; i < end-1 && i+shiftGap2 < len(hashes); i++ {
		full = append(full, combine(hashes[i], hashes[i+shiftGap2]))
	}
	for i := start; i < end+1 && i+shiftGap0 < len(hashes); i++ {
		full = append(full, combine(hashes[i], hashes[i+shiftGap0]))
	}
	return chain, full
}

// strobemerSignature pairs each k-mer with the k-mer of smallest secondary
// (splitmix64) hash found in the downstream span [i+StrobeMinSpan, i+StrobeMaxSpan], delegating the
// anchor/strobe selection to hash.StrobeIterator so this package and the
// hash tests exercise the same strobe-picking logic.
func strobemerSignature(fam *hash.Family, seq []byte, cfg Config) []uint64 {
	numKmers := len(seq) - fam.K + 1
	if numKmers <= 0 {
		return nil
	}
	start, end := clipRange(numKmers, cfg.MaxEdgeClip)
	if end <= start {
		return nil
	}
	it := hash.NewStrobeIterator(fam)
	if !it.Start(seq, 0, len(seq), cfg.StrobeMinSpan, cfg.StrobeMaxSpan) {
		return nil
	}
	var sig []uint64
	for it.Next() {
		if pos := it.AnchorPos(); pos < start || pos >= end {
			continue
		}
		sig = append(sig, it.CombinedHash())
	}
	return sig
}
