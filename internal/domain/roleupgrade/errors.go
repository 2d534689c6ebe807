package roleupgrade

import "errors"

var (
	// ErrNotFound is returned when the request doesn't exist
	ErrNotFound = errors.New("upgrade request not found")

	// ErrDuplicateRequest is returned when the user already has a pending
	// request (backed by a partial unique index)
	ErrDuplicateRequest = errors.New("a pending upgrade request already exists")

	// ErrAlreadyReviewed is returned on a second review attempt
	ErrAlreadyReviewed = errors.New("upgrade request already reviewed")

	// ErrAlreadySeller is returned when the requester already holds the role
	ErrAlreadySeller = errors.New("user already has the requested role")
)
