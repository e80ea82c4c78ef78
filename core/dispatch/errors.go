package dispatch

import "errors"

var (
	// ErrInvalidConfig is returned when the engine configuration fails validation.
	ErrInvalidConfig = errors.New("invalid dispatch config")

	// ErrNilRegistry is returned when a dispatcher is constructed without a registry.
	ErrNilRegistry = errors.New("registry is required")

	// ErrNilEngine is returned when a dispatcher is constructed without an engine.
	ErrNilEngine = errors.New("engine is required")

	// ErrHandlerPanic wraps a panic recovered from a command handler.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrShutdownTimeout is returned when in-flight work does not finish
	// within the shutdown grace period and cancellation is forced.
	ErrShutdownTimeout = errors.New("dispatch shutdown timed out")
)

// errPoolClosed marks work that never ran because the pool stopped
// accepting tasks between the rejection check and submission.
var errPoolClosed = errors.New("worker pool closed")
