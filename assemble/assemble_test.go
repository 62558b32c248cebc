package assemble

import (
	"testing"

	"github.com/kmnip/rnabloom/bloom"
	"github.com/kmnip/rnabloom/graph"
	"github.com/kmnip/rnabloom/hash"
)

func newTestGraph(t *testing.T, k, m, dRead, dFrag int) (*graph.Graph, *hash.Family) {
	t.Helper()
	fam, err := hash.NewFamily(k, m, false)
	if err != nil {
		t.Fatalf("hash.NewFamily: %v", err)
	}
	dbg, err := bloom.NewPlainFilter(1<<16, m)
	if err != nil {
		t.Fatalf("bloom.NewPlainFilter: %v", err)
	}
	cbf, err := bloom.NewCountingFilter(1<<16, m)
	if err != nil {
		t.Fatalf("bloom.NewCountingFilter: %v", err)
	}
	var pkbf, rpkbf *bloom.PairedKeysFilter
	if dFrag > 0 {
		pkbf, err = bloom.NewPairedKeysFilter(1<<16, m)
		if err != nil {
			t.Fatalf("bloom.NewPairedKeysFilter (frag): %v", err)
		}
	}
	if dRead > 0 {
		rpkbf, err = bloom.NewPairedKeysFilter(1<<16, m)
		if err != nil {
			t.Fatalf("bloom.NewPairedKeysFilter (read): %v", err)
		}
	}
	g, err := graph.New(fam, dbg, cbf, pkbf, rpkbf, graph.Config{DRead: dRead, DFrag: dFrag})
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	return g, fam
}

func populate(t *testing.T, g *graph.Graph, fam *hash.Family, seq []byte) {
	t.Helper()
	it := hash.NewIterator(fam)
	for i := 0; i+fam.K <= len(seq); i++ {
		if !it.Start(seq, i, len(seq)) {
			t.Fatalf("invalid window at %d in %q", i, seq)
		}
		g.AddKmer(it.CanonicalHash())
	}
}

func permissiveConfig() Config {
	return Config{
		MaxTipLength:         0,
		Lookahead:            0,
		MaxCovGradient:       0,
		MaxIndelSize:         4,
		PercentIdentity:      0.9,
		MinNumKmerPairs:      1,
		MinOverlap:           4,
		Bound:                20,
		MaxErrCorrIterations: 3,
		MinKmerCov:           1,
	}
}

// Spec scenario 1: k=5, single sequence "AAACCCGGGTTT", stranded=false.
// The sequence is its own reverse complement, so CCGGG has the same
// canonical hash as CCCGG: the walk from AAACC stops there as a canonical
// revisit, after "AAACCCGG".
func TestExtendReproducesLinearWalk(t *testing.T) {
	g, fam := newTestGraph(t, 5, 3, 0, 0)
	defer g.Close()

	seq := []byte("AAACCCGGGTTT")
	populate(t, g, fam, seq)

	seed := NewSeed(seq[:fam.K])
	result, err := Extend(g, permissiveConfig(), seed)
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if result.State != StateExtended {
		t.Fatalf("state = %v, want Extended", result.State)
	}
	if want := "AAACCCGG"; string(result.Seq) != want {
		t.Errorf("Extend result = %q, want %q", result.Seq, want)
	}
}

func TestExtendRejectsBareTipUnderMaxTipLength(t *testing.T) {
	g, fam := newTestGraph(t, 4, 3, 0, 0)
	defer g.Close()

	seq := []byte("ACGTA")
	populate(t, g, fam, seq)

	cfg := permissiveConfig()
	cfg.MaxTipLength = 100
	seed := NewSeed(seq[:fam.K])
	result, err := Extend(g, cfg, seed)
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if result.State != StateRejectedTipOnly {
		t.Errorf("state = %v, want Rejected(tipOnly)", result.State)
	}
}

// Spec scenario 6: fragment reconstruction via direct overlap.
func TestBridgeOverlapJoin(t *testing.T) {
	g, _ := newTestGraph(t, 4, 3, 0, 0)
	defer g.Close()

	left := NewSeed([]byte("AAAACCCC"))
	right := NewSeed([]byte("CCCCGGGG"))

	cfg := permissiveConfig()
	result, err := Bridge(g, cfg, left, right)
	if err != nil {
		t.Fatalf("Bridge: %v", err)
	}
	if want := "AAAACCCCGGGG"; string(result.Seq) != want {
		t.Errorf("Bridge result = %q, want %q", result.Seq, want)
	}
	if result.State != StateValidated {
		t.Errorf("state = %v, want Validated", result.State)
	}
}

func TestBridgeFallsBackToGreedyWhenNoOverlap(t *testing.T) {
	g, fam := newTestGraph(t, 4, 3, 0, 0)
	defer g.Close()

	// Every 4-mer of full has a distinct canonical hash, so no step of the
	// bridge is dropped as a canonical revisit of a left-read k-mer.
	full := []byte("AAAACGTCTGGG")
	populate(t, g, fam, full)

	left := NewSeed(full[:8])
	right := NewSeed(full[len(full)-8:])

	cfg := permissiveConfig()
	cfg.MinOverlap = 100 // force the overlap fast-path to fail
	result, err := Bridge(g, cfg, left, right)
	if err != nil {
		t.Fatalf("Bridge: %v", err)
	}
	if string(result.Seq) != string(full) {
		t.Errorf("Bridge result = %q, want %q", result.Seq, full)
	}
}

// Spec scenario 5: screening filter idempotence.
func TestScreenAndEmitIdempotence(t *testing.T) {
	_, fam := newTestGraph(t, 4, 3, 0, 0)
	screen, err := bloom.NewPlainFilter(1<<16, fam.NumHash)
	if err != nil {
		t.Fatalf("bloom.NewPlainFilter: %v", err)
	}

	cfg := permissiveConfig()
	transcript := NewSeed([]byte("ACGTACGTAC"))

	first := ScreenAndEmit(screen, fam, cfg, transcript)
	if first.State != StateEmitted {
		t.Fatalf("first emission state = %v, want Emitted", first.State)
	}

	second := ScreenAndEmit(screen, fam, cfg, NewSeed(transcript.Seq))
	if second.State != StateRejectedRepresented {
		t.Errorf("second emission state = %v, want Rejected(represented)", second.State)
	}
}

func TestResetScreeningClearsWhenConfigured(t *testing.T) {
	_, fam := newTestGraph(t, 4, 3, 0, 0)
	screen, err := bloom.NewPlainFilter(1<<16, fam.NumHash)
	if err != nil {
		t.Fatalf("bloom.NewPlainFilter: %v", err)
	}
	cfg := permissiveConfig()
	cfg.ResetScreeningPerStratum = true

	transcript := NewSeed([]byte("ACGTACGTAC"))
	ScreenAndEmit(screen, fam, cfg, transcript)

	ResetScreening(screen, cfg)

	again := ScreenAndEmit(screen, fam, cfg, NewSeed(transcript.Seq))
	if again.State != StateEmitted {
		t.Errorf("state after reset = %v, want Emitted", again.State)
	}
}

func TestDetectArtifactTrimsPalindrome(t *testing.T) {
	// The first half is the exact reverse complement of the second half.
	seq := append(append([]byte{}, []byte("ACGTACGTAC")...), reverseComplement([]byte("ACGTACGTAC"))...)
	cfg := permissiveConfig()
	cfg.PercentIdentity = 1.0
	cfg.MaxIndelSize = 0

	trimmed, ok := DetectArtifact(cfg, NewSeed(seq))
	if !ok {
		t.Fatal("expected a perfect palindrome to be detected as an artifact")
	}
	if trimmed.State != StateRejectedArtifact {
		t.Errorf("state = %v, want Rejected(artifact)", trimmed.State)
	}
}

func TestDetectArtifactIgnoresNonPalindrome(t *testing.T) {
	seq := []byte("AAAACCCCGGGGTTTTACGT")
	cfg := permissiveConfig()
	cfg.PercentIdentity = 1.0
	cfg.MaxIndelSize = 0

	if _, ok := DetectArtifact(cfg, NewSeed(seq)); ok {
		t.Error("non-palindromic sequence flagged as an artifact")
	}
}

func TestDetectPolyAFindsMotifAndRun(t *testing.T) {
	// Motif, then a short non-A spacer, then a poly-A run: the spacer keeps
	// the motif's own trailing A's from being swallowed into the run scan.
	seq := []byte("ACGTAATAAAGCGCAAAAAAAA")
	out, signals := DetectPolyA(nil, seq)
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	if signals[0].Motif != "AATAAA" {
		t.Errorf("motif = %q, want AATAAA", signals[0].Motif)
	}
	tail := out[signals[0].Position:]
	for _, b := range tail {
		if b != 'a' {
			t.Errorf("expected lowercased poly-A tail, got %q", tail)
			break
		}
	}
}

func TestDetectPolyARequiresMotif(t *testing.T) {
	seq := []byte("ACGTACGTACGCGCAAAAAAAA")
	_, signals := DetectPolyA(nil, seq)
	if signals != nil {
		t.Errorf("expected no signal without an upstream motif, got %v", signals)
	}
}

func TestApplyBaseModeRNA(t *testing.T) {
	seq := []byte("ACGTacgt")
	out := ApplyBaseMode(seq, BaseModeRNA)
	if string(out) != "ACGUacgu" {
		t.Errorf("ApplyBaseMode = %q, want ACGUacgu", out)
	}
	if out := ApplyBaseMode(seq, BaseModeDNA); string(out) != string(seq) {
		t.Errorf("BaseModeDNA should leave T alone, got %q", out)
	}
}

func TestCorrectErrorsLeavesCleanSequenceUnchanged(t *testing.T) {
	g, fam := newTestGraph(t, 4, 3, 0, 0)
	defer g.Close()

	seq := []byte("ACGTACGTAC")
	// Insert every k-mer 5 times so nothing looks like a low-coverage dip.
	for i := 0; i < 5; i++ {
		populate(t, g, fam, seq)
	}

	cfg := permissiveConfig()
	cfg.MinKmerCov = 1
	result, err := CorrectErrors(g, cfg, NewSeed(seq))
	if err != nil {
		t.Fatalf("CorrectErrors: %v", err)
	}
	if string(result.Seq) != string(seq) {
		t.Errorf("CorrectErrors changed a clean sequence: got %q, want %q", result.Seq, seq)
	}
	if result.State != StateCorrected {
		t.Errorf("state = %v, want Corrected", result.State)
	}
}

func TestStatsRecord(t *testing.T) {
	var s Stats
	s.Record(Candidate{State: StateEmitted})
	s.Record(Candidate{State: StateRejectedArtifact})
	s.Record(Candidate{State: StateRejectedRepresented})
	if s.Emitted != 1 {
		t.Errorf("Emitted = %d, want 1", s.Emitted)
	}
	if s.Rejected() != 2 {
		t.Errorf("Rejected() = %d, want 2", s.Rejected())
	}
}
