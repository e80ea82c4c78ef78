// Package command defines the data model shared by the registry and the
// dispatch engine: command categories, immutable descriptors, and the
// handler contract.
//
// # Descriptors
//
// A Descriptor captures everything the runtime needs to know about a command
// before executing it: its trigger name, optional aliases (message commands
// only), gating flags, cooldown, and the permission sets required from the
// caller and from the executing identity. Descriptors are built once through
// a validating constructor and never mutated:
//
//	desc, err := command.NewDescriptor(command.CategoryMessage, "help",
//		command.WithAliases("h", "?"),
//		command.WithCooldown(5*time.Second),
//	)
//	if err != nil {
//		return err
//	}
//
// For static registration tables where an invalid descriptor is a programming
// error, MustDescriptor panics instead of returning the error:
//
//	var ping = command.MustDescriptor(command.CategorySlash, "ping",
//		command.WithCooldown(2*time.Second),
//	)
//
// # Handlers
//
// A Handler executes one invocation. The payload is the decoded platform
// event; the context carries the invocation's trace id and is cancelled on
// timeout or shutdown:
//
//	handler := command.HandlerFunc(func(ctx context.Context, payload any) error {
//		msg := payload.(*gateway.MessageEvent)
//		return msg.Reply(ctx, "pong")
//	})
//
// Descriptors and handlers are bound together at registration time; see the
// registry package.
package command
