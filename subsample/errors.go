package subsample

import "errors"

// ErrConfiguration names the case of a Config value that cannot support the
// requested strategy (e.g. a sequence shorter than the window or span it
// names). Keep does not return it: it reports such a sequence as not kept.
var ErrConfiguration = errors.New("subsample: sequence too short for configured strategy")
