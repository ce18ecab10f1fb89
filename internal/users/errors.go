package users

import "errors"

var (
	// ErrNotFound is returned when no user has the requested id.
	ErrNotFound = errors.New("user not found")

	// ErrVersionConflict is returned when an update's expected version does
	// not match the stored one.
	ErrVersionConflict = errors.New("user version conflict")

	// ErrInvalidUser is returned when a request body fails validation.
	ErrInvalidUser = errors.New("invalid user")
)
