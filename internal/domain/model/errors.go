package model

import "errors"

// Sentinel kinds for model invariant violations.
var (
	ErrBudgetInvariant = errors.New("squad budget invariant violated")
)
