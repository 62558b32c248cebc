package assemble

// BaseMode selects the alphabet a candidate's bytes are rewritten to on
// emission.
type BaseMode int

const (
	// BaseModeDNA leaves T as T.
	BaseModeDNA BaseMode = iota
	// BaseModeRNA rewrites T to U after poly-A masking.
	BaseModeRNA
)

// Config carries every kernel tunable named in the configuration surface
// that governs traversal, error correction, bridging, and screening.
type Config struct {
	// MaxTipLength: branches shorter than this many k-mers are tips and are
	// pruned rather than emitted as standalone candidates.
	MaxTipLength int
	// Lookahead: number of k-mers scored ahead on each candidate's best path
	// when the immediate successor set is ambiguous.
	Lookahead int
	// MaxCovGradient: a successor whose count relative to the current tip's
	// count falls below this ratio is rejected as a likely error branch.
	MaxCovGradient float64
	// MaxIndelSize bounds the length of an error-correction reroute and the
	// alignment tolerance used by artifact/chimera detection.
	MaxIndelSize int
	// PercentIdentity is the representation-screening and artifact-alignment
	// identity threshold, in [0,1].
	PercentIdentity float64
	// MinNumKmerPairs is the minimum length of a contiguous RPKBF-consistent
	// segment required to validate a bridged fragment.
	MinNumKmerPairs int
	// MinOverlap is the minimum suffix/prefix overlap tested before falling
	// back to bridging in fragment reconstruction.
	MinOverlap int
	// Bound caps how many k-mers a bridge may extend before giving up.
	Bound int
	// MaxErrCorrIterations bounds how many correction passes CorrectErrors
	// attempts before giving up on a read.
	MaxErrCorrIterations int
	// MinKmerCov is the coverage threshold below which a run of k-mers is
	// considered a "dip" subject to error correction.
	MinKmerCov uint8
	// ResetScreeningPerStratum resolves the open question of whether the
	// representation-screening filter persists across strata (successive
	// rounds of candidate emission, e.g. per chromosome/per length-class) or
	// is cleared at the start of each. False (the default) matches a single
	// global online-deduplication filter for the whole run; true clears the
	// filter at the start of each stratum, so representation is judged only
	// against transcripts already emitted within the current stratum.
	ResetScreeningPerStratum bool
	// Mode controls whether T is rewritten to U on emission.
	Mode BaseMode
}
