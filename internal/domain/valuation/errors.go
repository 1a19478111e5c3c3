package valuation

import "errors"

// Sentinel kinds for valuation errors.
var (
	ErrInvalidInput = errors.New("invalid player input")
)
