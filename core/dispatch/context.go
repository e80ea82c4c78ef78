package dispatch

import "context"

type traceIDCtx struct{}

// WithTraceID attaches a trace ID to the context for logging and correlation.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDCtx{}, id)
}

// TraceID extracts the trace ID from the context.
// Returns empty string if not present.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDCtx{}).(string); ok {
		return id
	}
	return ""
}

type commandNameCtx struct{}

// WithCommandName attaches the resolved command name to the context.
func WithCommandName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandNameCtx{}, name)
}

// CommandName extracts the command name from the context.
// Returns empty string if not present.
func CommandName(ctx context.Context) string {
	if name, ok := ctx.Value(commandNameCtx{}).(string); ok {
		return name
	}
	return ""
}
