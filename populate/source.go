// Package populate implements the concurrent population pipeline: draining
// one or more sequence sources into a graph.Graph's membership and counting
// filters. It is a thin pargo/pipeline wiring over the per-record hashing
// done in package hash, following the same Source/Filter/Receiver shape the
// upstream alignment pipeline uses for SAM/BAM records.
package populate

// Source yields sequence records one at a time. Next returns ok=false once
// the source is exhausted or a record could not be produced; Err
// distinguishes the two, matching io.Reader's convention. qual is nil for
// sources that carry no per-base quality (FASTA, the internal bit-packed
// format).
//
// seqio.LineSource and seqio.BitPackedSource both satisfy this shape without
// either package depending on the other.
type Source interface {
	Next() (seq []byte, qual []byte, ok bool)
	Err() error
}
