// Package seqio implements the two sequence-record formats named in the
// external interfaces: line-oriented plain-text records (a FASTA/FASTQ-style
// header plus sequence and optional quality lines) and an internal
// bit-packed format (2 bits per base, framed by a 32-bit length prefix).
// Both satisfy the same Next()/Err() shape the population pipeline consumes,
// so a Pipeline never distinguishes which format a given source is reading.
package seqio

import (
	"bufio"
	"fmt"
	"io"
)

// initialLineBuffer and maxLineSize bound bufio.Scanner's internal buffer:
// long-read sequences run well past bufio's 64KiB default token size.
const (
	initialLineBuffer = 64 * 1024
	maxLineSize       = 16 * 1024 * 1024
)

// LineSource reads line-oriented records from r, auto-detecting each
// record's format from its header line: '@' begins a four-line FASTQ record
// (header, sequence, '+'-prefixed separator, quality), '>' begins a FASTA
// record (header followed by one or more sequence lines up to the next '>'
// or EOF).
type LineSource struct {
	sc            *bufio.Scanner
	pendingHeader []byte
	err           error
}

// NewLineSource returns a LineSource reading from r.
func NewLineSource(r io.Reader) *LineSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialLineBuffer), maxLineSize)
	return &LineSource{sc: sc}
}

// Next returns the next record's sequence and, for FASTQ records, its
// per-base quality string. qual is nil for FASTA records. ok is false once
// the source is exhausted or a malformed record was encountered; Err
// distinguishes the two.
func (s *LineSource) Next() (seq []byte, qual []byte, ok bool) {
	if s.err != nil {
		return nil, nil, false
	}
	for s.pendingHeader == nil {
		if !s.sc.Scan() {
			s.err = s.sc.Err()
			return nil, nil, false
		}
		line := s.sc.Bytes()
		if len(line) == 0 {
			continue
		}
		s.pendingHeader = append([]byte(nil), line...)
	}
	header := s.pendingHeader
	s.pendingHeader = nil

	switch header[0] {
	case '@':
		return s.nextFastq()
	case '>':
		return s.nextFasta()
	default:
		s.err = fmt.Errorf("%w: header line does not start with '@' or '>': %q", ErrFormat, header)
		return nil, nil, false
	}
}

func (s *LineSource) nextFastq() ([]byte, []byte, bool) {
	if !s.sc.Scan() {
		s.err = s.formatOrTruncated("missing sequence line")
		return nil, nil, false
	}
	seq := append([]byte(nil), s.sc.Bytes()...)

	if !s.sc.Scan() {
		s.err = s.formatOrTruncated("missing '+' separator line")
		return nil, nil, false
	}
	plus := s.sc.Bytes()
	if len(plus) == 0 || plus[0] != '+' {
		s.err = fmt.Errorf("%w: expected '+' separator line, got %q", ErrFormat, plus)
		return nil, nil, false
	}

	if !s.sc.Scan() {
		s.err = s.formatOrTruncated("missing quality line")
		return nil, nil, false
	}
	qual := append([]byte(nil), s.sc.Bytes()...)

	if len(qual) != len(seq) {
		s.err = fmt.Errorf("%w: quality length %d does not match sequence length %d", ErrFormat, len(qual), len(seq))
		return nil, nil, false
	}
	return seq, qual, true
}

func (s *LineSource) nextFasta() ([]byte, []byte, bool) {
	var seq []byte
	for s.sc.Scan() {
		line := s.sc.Bytes()
		if len(line) > 0 && line[0] == '>' {
			s.pendingHeader = append([]byte(nil), line...)
			break
		}
		seq = append(seq, line...)
	}
	if s.err = s.sc.Err(); s.err != nil {
		return nil, nil, false
	}
	if len(seq) == 0 {
		s.err = fmt.Errorf("%w: empty FASTA record", ErrFormat)
		return nil, nil, false
	}
	return seq, nil, true
}

func (s *LineSource) formatOrTruncated(what string) error {
	if err := s.sc.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%w: truncated FASTQ record: %s", ErrFormat, what)
}

// Err returns the error that stopped Next, or nil if the source was simply
// exhausted.
func (s *LineSource) Err() error { return s.err }
