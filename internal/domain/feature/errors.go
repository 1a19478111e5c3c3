package feature

import "errors"

// Sentinel kinds for feature errors. Sparse-but-valid data is not an
// error; it degrades to neutral defaults with the LowData flag set.
var (
	ErrInvalidInput = errors.New("invalid player input")
)
