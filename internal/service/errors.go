package service

import "errors"

var (
	// ErrUnauthorized is returned when the backend rejects the session or
	// the supplied credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when the referenced resource does not exist.
	ErrNotFound = errors.New("not found")
)
