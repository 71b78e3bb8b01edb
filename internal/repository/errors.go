package repository

import "errors"

// ErrSessionCompleted is returned when a write targets a session whose
// completed_at is already set.
var ErrSessionCompleted = errors.New("exam session already completed")
