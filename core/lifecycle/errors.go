package lifecycle

import "errors"

var (
	// ErrNilRegistry is returned when a coordinator is constructed
	// without a registry to load into.
	ErrNilRegistry = errors.New("registry is required")

	// ErrAlreadyLoaded is returned when Load is called more than once.
	ErrAlreadyLoaded = errors.New("commands already loaded")

	// ErrNilBuilder marks an item with no build function.
	ErrNilBuilder = errors.New("item has no builder")

	// ErrBuildPanic wraps a panic recovered from an item builder.
	ErrBuildPanic = errors.New("builder panicked")
)
