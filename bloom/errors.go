package bloom

import "errors"

var (
	// ErrConfiguration is returned when a filter is constructed with an
	// invalid size or hash count: fatal at construction.
	ErrConfiguration = errors.New("bloom: invalid configuration")

	// ErrResource is returned when backing storage (a plain allocation or an
	// mmap) cannot be obtained for a filter of the requested size (spec error
	// kind 3: fatal, no partial filter is exposed).
	ErrResource = errors.New("bloom: could not allocate filter storage")

	// ErrCorruptSnapshot is returned by ReadSnapshot when the magic, version,
	// or declared sizes of a sidecar file are inconsistent with what was
	// read.
	ErrCorruptSnapshot = errors.New("bloom: corrupt or unrecognized snapshot")

	// ErrDimensionMismatch is returned when a filter is asked to combine with
	// or unmarshal into a filter of a different N or m.
	ErrDimensionMismatch = errors.New("bloom: dimension mismatch")
)
