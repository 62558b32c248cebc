// Package subsample implements redundancy screening for assembled or
// pre-assembled sequences: a sequence is kept only if enough of its
// signature hashes are novel against a shared counting Bloom filter, and
// on being kept every one of its signature hashes is folded into the
// filter, making the filter a monotone coverage tracker across a run.
package subsample

// Strategy selects which family of signature hashes a sequence is
// screened by.
type Strategy int

const (
	// StrategyMinimizer keys on the minimum-hash k-mer of each sliding
	// window of Config.WindowSize k-mers.
	StrategyMinimizer Strategy = iota
	// StrategyKmerPair keys on combined hashes of k-mer pairs at gaps
	// {k, k+1, k+2}.
	StrategyKmerPair
	// StrategyStrobemer keys on combined hashes of a k-mer and a second,
	// best-scoring k-mer chosen from a downstream span.
	StrategyStrobemer
)

// Config carries the tunables shared by all three screening strategies.
type Config struct {
	Strategy Strategy

	// WindowSize is the minimizer sliding-window width (StrategyMinimizer
	// only).
	WindowSize int

	// StrobeMinSpan and StrobeMaxSpan bound how far downstream of the
	// first k-mer a strobemer's second k-mer may be chosen from
	// (StrategyStrobemer only).
	StrobeMinSpan int
	StrobeMaxSpan int

	// MaxEdgeClip excludes this many k-mer positions from each end of a
	// sequence before building its signature, avoiding spurious flagging
	// from low-coverage read ends.
	MaxEdgeClip int

	// MaxMultiplicity is the filter count at or below which a signature
	// hash is considered novel.
	MaxMultiplicity uint8

	// MinMatchingProportion is the minimum fraction of a sequence's
	// signature hashes that must be novel for it to be kept.
	MinMatchingProportion float64

	// MaxNonMatchingChainLength bounds the longest consecutive run of
	// already-represented signature hashes a kept sequence may contain.
	MaxNonMatchingChainLength int
}
