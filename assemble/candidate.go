package assemble

import "github.com/google/uuid"

// Candidate is one transcript under construction. Its Seq is the concrete
// byte sequence assembled so far — the kernel never carries a hash-only
// walk, since only literal bytes let Bridge, ScreenAndEmit, and the final
// output writer reconstruct an actual transcript.
type Candidate struct {
	ID    uuid.UUID
	Seq   []byte
	State State

	// FragInfo carries a human-readable connection summary for candidates
	// produced by Bridge (overlap vs. bridged, and by how much), surfaced in
	// the output header's F=[...] field. Empty for candidates that were
	// never bridged.
	FragInfo string

	// PAS holds any poly-A signal triples detected by DetectPolyA, surfaced
	// in the output header's PAS=[...] field.
	PAS []PolyASignal
}

// NewSeed starts a Candidate from a single seed window.
func NewSeed(seed []byte) Candidate {
	return Candidate{
		ID:    uuid.New(),
		Seq:   append([]byte(nil), seed...),
		State: StateSeed,
	}
}

func reverseComplement(seq []byte) []byte {
	out := make([]byte, len(seq))
	for i, b := range seq {
		out[len(seq)-1-i] = complementBase(b)
	}
	return out
}

func complementBase(b byte) byte {
	switch b {
	case 'A', 'a':
		return 'T'
	case 'C', 'c':
		return 'G'
	case 'G', 'g':
		return 'C'
	case 'T', 't':
		return 'A'
	default:
		return b
	}
}
