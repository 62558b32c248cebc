package graph

import "errors"

var (
	// ErrConfiguration is returned by New when the supplied filters and hash
	// family are inconsistent (e.g. a family sized for a different m than
	// the filters it is paired with).
	ErrConfiguration = errors.New("graph: inconsistent filter/hash configuration")

	// ErrNoPairedFilter reports that the PKBF/RPKBF for a paired distance was
	// not provided at construction. AddPairedFrag/AddPairedRead do not return
	// it: they are no-ops when the filter is absent.
	ErrNoPairedFilter = errors.New("graph: no paired-keys filter configured for this distance")
)
