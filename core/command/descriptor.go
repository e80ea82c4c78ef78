package command

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Permission names a platform privilege a command requires. The runtime
// treats permissions as opaque strings; the transport defines the vocabulary.
type Permission string

// Descriptor is the immutable metadata of one command: its name, category,
// aliases, gating flags, cooldown, and required permission sets. Build it
// with NewDescriptor; the zero value is not a valid descriptor.
type Descriptor struct {
	name          string
	category      Category
	aliases       []string
	testOnly      bool
	devOnly       bool
	nsfw          bool
	cooldown      time.Duration
	callerPerms   []Permission
	executorPerms []Permission
}

// DescriptorOption configures a Descriptor during construction.
type DescriptorOption func(*Descriptor)

// WithAliases declares alternative trigger tokens. Valid only for
// CategoryMessage descriptors; NewDescriptor fails otherwise.
func WithAliases(aliases ...string) DescriptorOption {
	return func(d *Descriptor) {
		d.aliases = append(d.aliases, aliases...)
	}
}

// WithTestOnly restricts the command to designated test environments.
func WithTestOnly() DescriptorOption {
	return func(d *Descriptor) {
		d.testOnly = true
	}
}

// WithDevOnly restricts the command to registered developers.
func WithDevOnly() DescriptorOption {
	return func(d *Descriptor) {
		d.devOnly = true
	}
}

// WithNSFW restricts the command to age-restricted channels.
func WithNSFW() DescriptorOption {
	return func(d *Descriptor) {
		d.nsfw = true
	}
}

// WithCooldown sets the minimum interval between uses per caller.
func WithCooldown(d time.Duration) DescriptorOption {
	return func(desc *Descriptor) {
		desc.cooldown = d
	}
}

// WithCallerPermissions lists permissions the invoking user must hold.
func WithCallerPermissions(perms ...Permission) DescriptorOption {
	return func(d *Descriptor) {
		d.callerPerms = append(d.callerPerms, perms...)
	}
}

// WithExecutorPermissions lists permissions the executing identity (the bot
// itself) must hold in the invocation context.
func WithExecutorPermissions(perms ...Permission) DescriptorOption {
	return func(d *Descriptor) {
		d.executorPerms = append(d.executorPerms, perms...)
	}
}

// NewDescriptor validates and builds an immutable command descriptor.
// The name is trimmed; blank names, aliases on non-message categories,
// blank or duplicate aliases, and negative cooldowns are rejected.
func NewDescriptor(category Category, name string, opts ...DescriptorOption) (Descriptor, error) {
	d := Descriptor{
		name:     strings.TrimSpace(name),
		category: category,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&d)
		}
	}

	if !category.Valid() {
		return Descriptor{}, fmt.Errorf("%w: %d", ErrUnknownCategory, category)
	}
	if d.name == "" {
		return Descriptor{}, ErrBlankName
	}
	if len(d.aliases) > 0 && category != CategoryMessage {
		return Descriptor{}, fmt.Errorf("%w: %q is a %s command", ErrAliasNotAllowed, d.name, category)
	}
	if d.cooldown < 0 {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNegativeCooldown, d.cooldown)
	}

	seen := map[string]struct{}{strings.ToLower(d.name): {}}
	cleaned := make([]string, 0, len(d.aliases))
	for _, alias := range d.aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			return Descriptor{}, ErrBlankAlias
		}
		key := strings.ToLower(alias)
		if _, dup := seen[key]; dup {
			return Descriptor{}, fmt.Errorf("%w: %q", ErrDuplicateAlias, alias)
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, alias)
	}
	d.aliases = cleaned
	d.callerPerms = compactPermissions(d.callerPerms)
	d.executorPerms = compactPermissions(d.executorPerms)

	return d, nil
}

// MustDescriptor is like NewDescriptor but panics on validation failure.
// Intended for static registration tables built at startup.
func MustDescriptor(category Category, name string, opts ...DescriptorOption) Descriptor {
	d, err := NewDescriptor(category, name, opts...)
	if err != nil {
		panic(fmt.Sprintf("command: invalid descriptor %q: %v", name, err))
	}
	return d
}

// compactPermissions drops empty entries and duplicates, preserving order.
func compactPermissions(perms []Permission) []Permission {
	if len(perms) == 0 {
		return nil
	}
	out := make([]Permission, 0, len(perms))
	for _, p := range perms {
		if p == "" || slices.Contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Name returns the trimmed command name as declared.
func (d Descriptor) Name() string { return d.name }

// Category returns the command's category.
func (d Descriptor) Category() Category { return d.category }

// Aliases returns a copy of the alias list.
func (d Descriptor) Aliases() []string { return slices.Clone(d.aliases) }

// TestOnly reports whether the command is restricted to test environments.
func (d Descriptor) TestOnly() bool { return d.testOnly }

// DevOnly reports whether the command is restricted to developers.
func (d Descriptor) DevOnly() bool { return d.devOnly }

// NSFW reports whether the command requires an age-restricted channel.
func (d Descriptor) NSFW() bool { return d.nsfw }

// Cooldown returns the per-caller minimum interval between uses; zero means
// no cooldown.
func (d Descriptor) Cooldown() time.Duration { return d.cooldown }

// CallerPermissions returns a copy of the permissions the invoking user must hold.
func (d Descriptor) CallerPermissions() []Permission { return slices.Clone(d.callerPerms) }

// ExecutorPermissions returns a copy of the permissions the executing
// identity must hold.
func (d Descriptor) ExecutorPermissions() []Permission { return slices.Clone(d.executorPerms) }

// String implements fmt.Stringer for log output.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s/%s", d.category, d.name)
}
