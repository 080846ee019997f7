package redis

import "errors"

var (
	// ErrNotFound is returned when a requested key does not exist
	ErrNotFound = errors.New("redis: key not found")

	// ErrConcurrencyAborted is returned when an optimistic transaction kept
	// colliding with concurrent writers after the full retry budget
	ErrConcurrencyAborted = errors.New("redis: transaction aborted after retries")
)
