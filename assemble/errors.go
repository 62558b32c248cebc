package assemble

import "errors"

// Local errors from traversal. ErrAmbiguousBranch and ErrCycle are not
// returned by any kernel function: pickExtension drops revisited candidates
// and breaks surviving ties in A<C<G<T order. Bridge returns ErrNoPath
// together with a candidate in
// StateRejectedTipOnly, for the caller to tally in Stats.
var (
	ErrNoPath          = errors.New("assemble: no surviving successor")
	ErrAmbiguousBranch = errors.New("assemble: ambiguous branch not resolved by coverage, lookahead, or paired support")
	ErrCycle           = errors.New("assemble: canonical hash revisited within current walk")
)

// ErrInconsistentFragment reports that a bridged fragment failed
// RPKBF-validation. Bridge returns it together with the candidate, whose
// state is left at StateBridged.
var ErrInconsistentFragment = errors.New("assemble: fragment failed paired-k-mer consistency validation")

// ErrConfiguration reports invalid kernel configuration.
var ErrConfiguration = errors.New("assemble: invalid configuration")
