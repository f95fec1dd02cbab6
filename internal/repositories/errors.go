package repositories

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidReference is returned when a record refers to something that
	// does not exist or carries a value the store rejects.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("duplicate record")
)
