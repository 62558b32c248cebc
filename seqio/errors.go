package seqio

import "errors"

// ErrFormat wraps every rejected-record condition. The first rejected record
// stops its source: Next returns false from then on and Err returns the
// wrapped error. The error is local to that source and never fatal to the
// pipeline.
var ErrFormat = errors.New("seqio: malformed input record")
