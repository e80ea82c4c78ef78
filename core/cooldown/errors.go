package cooldown

import "errors"

var (
	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = errors.New("cooldown store not started")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("cooldown store already started")

	// ErrCleanupDisabled is returned when Start is called with a non-positive
	// cleanup interval.
	ErrCleanupDisabled = errors.New("cleanup interval must be positive")

	// ErrShutdownTimeout is returned when Stop exceeds its grace period.
	ErrShutdownTimeout = errors.New("shutdown timeout exceeded")

	// ErrStoreUnavailable is returned when a backing store cannot be reached.
	ErrStoreUnavailable = errors.New("cooldown store unavailable")
)
