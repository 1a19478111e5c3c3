package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest        = errors.New("bad request")
	ErrEmptyBatch        = errors.New("players must not be empty")
	ErrEmptySquad        = errors.New("squad players must not be empty")
	ErrMissingPlayerID   = errors.New("player id must not be empty")
	ErrDuplicatePlayerID = errors.New("duplicate player id in batch")
)

// NewKind tags a sentinel with the failing operation.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind tags a sentinel and its cause with the failing operation.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
