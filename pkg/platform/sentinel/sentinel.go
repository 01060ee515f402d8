// Package sentinel holds the infrastructure facts stores report. Services
// translate them into domain errors; handlers never see them directly.
package sentinel

import "errors"

var (
	// ErrNotFound means the store has no row for the key.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState means a stored row cannot be used as is, for example
	// a catalog value that does not convert to a finite number.
	ErrInvalidState = errors.New("invalid state")
)
