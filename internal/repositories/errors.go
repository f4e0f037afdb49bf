package repositories

import "errors"

var (
	// ErrDuplicateUser is returned when a create collides with an existing
	// email. The users table carries a unique index, so concurrent
	// registrations resolve at write time and the loser gets this error.
	ErrDuplicateUser = errors.New("user with this email already exists")

	// ErrNotFound is returned by updates against a missing record.
	ErrNotFound = errors.New("record not found")
)
