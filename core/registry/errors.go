package registry

import (
	"errors"
	"fmt"

	"github.com/bunnys/nexus/core/command"
)

var (
	// ErrDuplicateCommand is returned when a registration collides with an
	// existing key in the same category. Use errors.As with *DuplicateError
	// to inspect the conflict.
	ErrDuplicateCommand = errors.New("command already registered")

	// ErrNilHandler is returned when a descriptor is registered without a handler.
	ErrNilHandler = errors.New("command handler cannot be nil")
)

// DuplicateError describes a registration conflict: the canonical key that
// collided and both competing descriptors. It unwraps to ErrDuplicateCommand.
type DuplicateError struct {
	Key      string
	Category command.Category
	Existing command.Descriptor
	Incoming command.Descriptor
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%v: key %q in %s commands (existing %q, attempted %q)",
		ErrDuplicateCommand, e.Key, e.Category, e.Existing.Name(), e.Incoming.Name())
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateCommand }
