package command

import "errors"

var (
	// ErrBlankName is returned when a command name is empty after trimming.
	ErrBlankName = errors.New("command name cannot be blank")

	// ErrBlankAlias is returned when an alias is empty after trimming.
	ErrBlankAlias = errors.New("command alias cannot be blank")

	// ErrUnknownCategory is returned when a descriptor is built with a category
	// outside the declared set.
	ErrUnknownCategory = errors.New("unknown command category")

	// ErrAliasNotAllowed is returned when a non-message descriptor declares aliases.
	ErrAliasNotAllowed = errors.New("aliases are only supported for message commands")

	// ErrDuplicateAlias is returned when an alias repeats the command name or
	// another alias of the same descriptor.
	ErrDuplicateAlias = errors.New("duplicate command alias")

	// ErrNegativeCooldown is returned when a descriptor declares a negative cooldown.
	ErrNegativeCooldown = errors.New("command cooldown cannot be negative")
)
