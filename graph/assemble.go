package graph

// Assemble concatenates the first k bases of kmers[0] with the last base of
// every subsequent window into a single sequence. It is the graph's only
// operation that reconstructs bytes rather than hashes, and it is the
// caller's job to supply the actual walked windows (typically the
// hash.Iterator.Bytes() slice retained at each step of a traversal), since a
// canonical hash alone cannot be inverted back to a k-mer's bytes.
//
// Contract: Assemble(kmers) reproduces the original sequence s exactly when
// kmers is the list of every k-length window of s in order and s contains
// no bases outside {A,C,G,T}.
func Assemble(kmers [][]byte) []byte {
	if len(kmers) == 0 {
		return nil
	}
	out := make([]byte, 0, len(kmers[0])+len(kmers)-1)
	out = append(out, kmers[0]...)
	for _, km := range kmers[1:] {
		out = append(out, km[len(km)-1])
	}
	return out
}
