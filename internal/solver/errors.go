package solver

import "errors"

// ErrInvalidConfig marks a configuration rejected before any solver runs.
var ErrInvalidConfig = errors.New("invalid configuration")
