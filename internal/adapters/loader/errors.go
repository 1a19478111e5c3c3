package loader

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingPlayerID   = errors.New("player id must not be empty")
	ErrDuplicatePlayerID = errors.New("duplicate player id")
	ErrMissingManagerID  = errors.New("manager id must not be empty")
)
