package registry

import (
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bunnys/nexus/core/command"
)

// Canonical converts a trigger token to its registry key form: trimmed and
// lowercased. It is idempotent.
func Canonical(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

// MergedKey returns the key a canonical token occupies in the merged view.
// Slash commands are prefixed with "/" so they can coexist with message and
// context commands of the same name.
func MergedKey(category command.Category, canonical string) string {
	if category == command.CategorySlash {
		return "/" + canonical
	}
	return canonical
}

// Entry binds a registered descriptor to its executable handler.
type Entry struct {
	Descriptor command.Descriptor
	Handler    command.Handler
}

// snapshot is the immutable registry state published to readers. Writers
// build a new snapshot under the registration lock and swap it in atomically,
// so a reader either sees a registration in full or not at all.
type snapshot struct {
	categories map[command.Category]map[string]Entry
	merged     map[string][]Entry
}

func emptySnapshot() *snapshot {
	s := &snapshot{
		categories: make(map[command.Category]map[string]Entry, len(command.Categories())),
		merged:     make(map[string][]Entry),
	}
	for _, c := range command.Categories() {
		s.categories[c] = make(map[string]Entry)
	}
	return s
}

func (s *snapshot) clone() *snapshot {
	next := &snapshot{
		categories: make(map[command.Category]map[string]Entry, len(s.categories)),
		merged:     make(map[string][]Entry, len(s.merged)),
	}
	for c, m := range s.categories {
		cm := make(map[string]Entry, len(m))
		for k, e := range m {
			cm[k] = e
		}
		next.categories[c] = cm
	}
	for k, list := range s.merged {
		next.merged[k] = slices.Clone(list)
	}
	return next
}

// Registry is the single source of truth mapping trigger tokens to command
// handlers. Lookups are lock-free reads of an atomically published snapshot;
// mutations serialize behind a single lock and publish a fresh snapshot, so
// concurrent readers never observe a half-applied registration or clear.
type Registry struct {
	mu     sync.Mutex
	state  atomic.Pointer[snapshot]
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger for registration events. Defaults to a
// discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger.With(slog.String("component", "registry"))
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	r.state.Store(emptySnapshot())
	return r
}

// Register adds a descriptor and its handler under the canonical key set
// {canonical(name)} plus one key per alias. If any key already exists in the
// descriptor's category, nothing is inserted and a *DuplicateError is
// returned. On success every key lands in the category map and the merged
// map in one atomic publication.
func (r *Registry) Register(desc command.Descriptor, handler command.Handler) error {
	if handler == nil {
		return ErrNilHandler
	}
	name := Canonical(desc.Name())
	if name == "" {
		return command.ErrBlankName
	}

	keys := make([]string, 0, 1+len(desc.Aliases()))
	keys = append(keys, name)
	for _, alias := range desc.Aliases() {
		key := Canonical(alias)
		if key == "" {
			return command.ErrBlankAlias
		}
		keys = append(keys, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.state.Load()
	catMap := cur.categories[desc.Category()]
	for _, key := range keys {
		if existing, ok := catMap[key]; ok {
			dup := &DuplicateError{
				Key:      key,
				Category: desc.Category(),
				Existing: existing.Descriptor,
				Incoming: desc,
			}
			r.logger.Error("duplicate command key",
				slog.String("key", key),
				slog.String("category", desc.Category().String()),
				slog.String("existing", existing.Descriptor.Name()),
				slog.String("attempted", desc.Name()),
			)
			return dup
		}
	}

	next := cur.clone()
	entry := Entry{Descriptor: desc, Handler: handler}
	nm := next.categories[desc.Category()]
	for _, key := range keys {
		nm[key] = entry
		mk := MergedKey(desc.Category(), key)
		next.merged[mk] = append(next.merged[mk], entry)
	}
	r.state.Store(next)

	r.logger.Debug("command registered",
		slog.String("command", desc.Name()),
		slog.String("category", desc.Category().String()),
		slog.Int("aliases", len(desc.Aliases())),
	)
	return nil
}

// Find looks up a token in one category. Absence is not an error.
func (r *Registry) Find(category command.Category, token string) (Entry, bool) {
	key := Canonical(token)
	if key == "" {
		return Entry{}, false
	}
	entry, ok := r.state.Load().categories[category][key]
	return entry, ok
}

// FindMerged returns every entry registered under the canonical merged key,
// possibly spanning categories. Callers pass "/name" to address slash
// commands. The returned slice is the caller's to keep.
func (r *Registry) FindMerged(token string) []Entry {
	key := Canonical(token)
	if key == "" {
		return nil
	}
	return slices.Clone(r.state.Load().merged[key])
}

// Clear removes every command of the category from both the category map and
// the merged map, leaving other categories untouched, and returns the number
// of distinct commands removed.
func (r *Registry) Clear(category command.Category) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.state.Load()
	if len(cur.categories[category]) == 0 {
		return 0
	}

	next := cur.clone()
	removed := distinctCount(next.categories[category])
	next.categories[category] = make(map[string]Entry)
	for key, list := range next.merged {
		filtered := slices.DeleteFunc(list, func(e Entry) bool {
			return e.Descriptor.Category() == category
		})
		if len(filtered) == 0 {
			delete(next.merged, key)
		} else {
			next.merged[key] = filtered
		}
	}
	r.state.Store(next)

	r.logger.Debug("category cleared",
		slog.String("category", category.String()),
		slog.Int("commands", removed),
	)
	return removed
}

// ClearAll empties the registry and returns the total number of distinct
// commands removed across all categories.
func (r *Registry) ClearAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.state.Load()
	total := 0
	for _, c := range command.Categories() {
		total += distinctCount(cur.categories[c])
	}
	if total == 0 {
		return 0
	}
	r.state.Store(emptySnapshot())

	r.logger.Debug("registry cleared", slog.Int("commands", total))
	return total
}

// Count returns the number of distinct commands in the category; aliases do
// not inflate the count.
func (r *Registry) Count(category command.Category) int {
	return distinctCount(r.state.Load().categories[category])
}

// Keys returns the sorted canonical keys (names and aliases) of the category.
func (r *Registry) Keys(category command.Category) []string {
	m := r.state.Load().categories[category]
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Entries returns the distinct entries of the category sorted by canonical
// name. The slice is a point-in-time copy.
func (r *Registry) Entries(category command.Category) []Entry {
	m := r.state.Load().categories[category]
	out := make([]Entry, 0, len(m))
	for key, e := range m {
		if Canonical(e.Descriptor.Name()) == key {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b Entry) int {
		return strings.Compare(Canonical(a.Descriptor.Name()), Canonical(b.Descriptor.Name()))
	})
	return out
}

// MergedView returns a point-in-time copy of the merged lookup table.
func (r *Registry) MergedView() map[string][]Entry {
	cur := r.state.Load()
	out := make(map[string][]Entry, len(cur.merged))
	for k, list := range cur.merged {
		out[k] = slices.Clone(list)
	}
	return out
}

// distinctCount counts primary-name keys, skipping alias keys that point at
// the same entry.
func distinctCount(m map[string]Entry) int {
	n := 0
	for key, e := range m {
		if Canonical(e.Descriptor.Name()) == key {
			n++
		}
	}
	return n
}
