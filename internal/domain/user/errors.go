package user

import "errors"

var (
	// ErrNotFound is returned when user doesn't exist
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when email is already registered
	ErrEmailTaken = errors.New("email already registered")
)
