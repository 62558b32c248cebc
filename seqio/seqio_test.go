package seqio

import (
	"bytes"
	"strings"
	"testing"
)

func TestLineSourceFastq(t *testing.T) {
	data := "@read1\nACGTACGT\n+\nIIIIIIII\n@read2\nTTTT\n+comment\nJJJJ\n"
	src := NewLineSource(strings.NewReader(data))

	seq, qual, ok := src.Next()
	if !ok {
		t.Fatalf("first record: %v", src.Err())
	}
	if string(seq) != "ACGTACGT" || string(qual) != "IIIIIIII" {
		t.Errorf("got seq=%s qual=%s", seq, qual)
	}

	seq, qual, ok = src.Next()
	if !ok {
		t.Fatalf("second record: %v", src.Err())
	}
	if string(seq) != "TTTT" || string(qual) != "JJJJ" {
		t.Errorf("got seq=%s qual=%s", seq, qual)
	}

	if _, _, ok := src.Next(); ok {
		t.Error("expected exhaustion after two records")
	}
	if src.Err() != nil {
		t.Errorf("unexpected error at clean EOF: %v", src.Err())
	}
}

func TestLineSourceFasta(t *testing.T) {
	data := ">seq1 description\nACGT\nACGT\n>seq2\nTTTTGGGG\n"
	src := NewLineSource(strings.NewReader(data))

	seq, qual, ok := src.Next()
	if !ok {
		t.Fatalf("first record: %v", src.Err())
	}
	if string(seq) != "ACGTACGT" {
		t.Errorf("got seq=%s, want wrapped lines concatenated", seq)
	}
	if qual != nil {
		t.Error("FASTA records must not carry a quality string")
	}

	seq, _, ok = src.Next()
	if !ok {
		t.Fatalf("second record: %v", src.Err())
	}
	if string(seq) != "TTTTGGGG" {
		t.Errorf("got seq=%s", seq)
	}
}

func TestLineSourceRejectsBadFastqSeparator(t *testing.T) {
	data := "@read1\nACGT\nnotplus\nIIII\n"
	src := NewLineSource(strings.NewReader(data))
	if _, _, ok := src.Next(); ok {
		t.Fatal("expected rejection of malformed separator line")
	}
	if src.Err() == nil {
		t.Error("expected a non-nil format error")
	}
}

func TestLineSourceRejectsMismatchedQualityLength(t *testing.T) {
	data := "@read1\nACGTACGT\n+\nIII\n"
	src := NewLineSource(strings.NewReader(data))
	if _, _, ok := src.Next(); ok {
		t.Fatal("expected rejection of mismatched quality length")
	}
}

func TestBitPackedRoundTrip(t *testing.T) {
	seqs := [][]byte{
		[]byte("ACGTACGTAC"),
		[]byte("TTTT"),
		[]byte("GGGGCCCCAAAA"),
	}
	var buf bytes.Buffer
	w := NewBitPackedWriter(&buf)
	for _, s := range seqs {
		if err := w.Write(s); err != nil {
			t.Fatal(err)
		}
	}

	src := NewBitPackedSource(&buf)
	for _, want := range seqs {
		got, qual, ok := src.Next()
		if !ok {
			t.Fatalf("unexpected exhaustion: %v", src.Err())
		}
		if qual != nil {
			t.Error("bit-packed records must not carry a quality string")
		}
		if string(got) != string(want) {
			t.Errorf("round trip mismatch: got %s want %s", got, want)
		}
	}
	if _, _, ok := src.Next(); ok {
		t.Error("expected exhaustion after all records read back")
	}
	if src.Err() != nil {
		t.Errorf("unexpected error at clean EOF: %v", src.Err())
	}
}

func TestBitPackedRejectsNBase(t *testing.T) {
	var buf bytes.Buffer
	w := NewBitPackedWriter(&buf)
	if err := w.Write([]byte("ACGTN")); err == nil {
		t.Error("expected an error for an N-base, which the bit-packed format disallows")
	}
}
