package service

import "errors"

// Error taxonomy shared by every service. Anything not wrapping one of these
// is a store failure.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCompleted = errors.New("session already completed")
	ErrUnauthorized     = errors.New("unauthorized")
)
