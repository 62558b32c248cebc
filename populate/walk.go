package populate

import "github.com/kmnip/rnabloom/hash"

// walkKmers scans seq for every valid k-mer window and calls visit with each
// window's canonical hash, in order. A window that straddles a non-ACGT base
// is skipped; scanning resumes independently one base past the failure, so a
// single N only costs the k windows that actually overlap it.
func walkKmers(fam *hash.Family, it *hash.Iterator, seq []byte, visit func(canonical uint64)) {
	pos := 0
	for pos+fam.K <= len(seq) {
		if !it.Start(seq, pos, len(seq)) {
			pos++
			continue
		}
		visit(it.CanonicalHash())
		for it.Next() {
			visit(it.CanonicalHash())
		}
		pos = it.Pos() + 1
	}
}

// walkPairs scans seq for every valid pair of k-mer windows d bases apart
// and calls visit with each pair's head and tail canonical hashes.
func walkPairs(fam *hash.Family, pit *hash.PairedIterator, seq []byte, d int, visit func(headHash, tailHash uint64)) {
	pos := 0
	for pos+fam.K+d <= len(seq) {
		if !pit.Start(seq, pos, len(seq), d) {
			pos++
			continue
		}
		visit(pit.HeadHash(), pit.TailHash())
		for pit.Next() {
			visit(pit.HeadHash(), pit.TailHash())
		}
		pos = pit.TailPos() + 1
	}
}
