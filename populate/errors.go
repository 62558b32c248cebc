package populate

import "errors"

// ErrConfiguration reports invalid pipeline configuration.
var ErrConfiguration = errors.New("populate: invalid configuration")
