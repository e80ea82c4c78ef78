// Package registry implements the thread-safe command catalog: canonical
// token keys, one map per category, a merged cross-category view, collision
// detection, and atomic registration and clearing.
//
// # Keys
//
// Every trigger token is canonicalized (trimmed, lowercased) before use, so
// "  Ping " and "PING" address the same command. A registration claims the
// canonical name plus one key per alias; if any of those keys is already
// taken in the same category the whole registration fails with a
// *DuplicateError and nothing is inserted.
//
// The merged view indexes entries across categories. Slash commands are
// keyed with a "/" prefix ("/ping") so a slash command and a message command
// may share a bare name without colliding.
//
// # Concurrency
//
// Lookups are lock-free: readers load an immutable snapshot published
// through an atomic pointer. Mutations (Register, Clear, ClearAll) serialize
// behind a single lock, build the next snapshot, and swap it in whole, so a
// concurrent reader never observes a registration applied to the category
// map but not yet to the merged map, or vice versa.
//
// # Usage
//
//	reg := registry.New(registry.WithLogger(log))
//
//	desc := command.MustDescriptor(command.CategoryMessage, "help",
//		command.WithAliases("h", "?"))
//	if err := reg.Register(desc, helpHandler); err != nil {
//		var dup *registry.DuplicateError
//		if errors.As(err, &dup) {
//			log.Error("conflict", slog.String("key", dup.Key))
//		}
//		return err
//	}
//
//	if entry, ok := reg.Find(command.CategoryMessage, "H"); ok {
//		_ = entry.Handler.Handle(ctx, payload)
//	}
package registry
