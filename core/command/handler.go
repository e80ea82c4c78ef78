package command

import "context"

// Handler executes one command invocation.
//
// The payload is the decoded platform event that triggered the command;
// handlers assert it to the concrete type their transport delivers. The
// context carries the invocation trace id and is cancelled when the
// invocation times out or the runtime shuts down, so long-running handlers
// should check ctx between units of work.
type Handler interface {
	Handle(ctx context.Context, payload any) error
}

// HandlerFunc adapts a plain function to the Handler interface.
//
// Example:
//
//	handler := command.HandlerFunc(func(ctx context.Context, payload any) error {
//	    event := payload.(*gateway.MessageEvent)
//	    return event.Reply(ctx, "pong")
//	})
type HandlerFunc func(ctx context.Context, payload any) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, payload any) error {
	return f(ctx, payload)
}
