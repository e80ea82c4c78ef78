package command

// Category identifies how a command is surfaced by the platform transport.
type Category uint8

const (
	// CategoryMessage is a prefix-triggered text command. This is the only
	// category that supports aliases.
	CategoryMessage Category = iota

	// CategorySlash is an application slash command.
	CategorySlash

	// CategoryContext is a context-menu command (user or message target).
	CategoryContext
)

// Categories returns all known categories in declaration order.
func Categories() []Category {
	return []Category{CategoryMessage, CategorySlash, CategoryContext}
}

// Valid reports whether the category is one of the declared constants.
func (c Category) Valid() bool {
	return c <= CategoryContext
}

// String returns the lowercase category name used in logs and reports.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "message"
	case CategorySlash:
		return "slash"
	case CategoryContext:
		return "context"
	default:
		return "unknown"
	}
}
