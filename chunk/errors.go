package chunk

import "errors"

var (
	// ErrCounterRequired is returned when a token counter is not provided.
	ErrCounterRequired = errors.New("token counter required")
)
