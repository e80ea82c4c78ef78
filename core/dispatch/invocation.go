package dispatch

import (
	"time"

	"github.com/google/uuid"

	"github.com/bunnys/nexus/core/command"
)

// traceIDLength is the number of UUID characters kept for user-facing
// correlation codes. Short enough to read back to support, long enough
// to be unique across a support window.
const traceIDLength = 8

// Invocation identifies a single command execution attempt. The trace ID
// ties together logs, metrics, and the correlation code shown to the user
// when something goes wrong.
type Invocation struct {
	TraceID   string
	Category  command.Category
	Command   string
	CallerID  string
	ArrivedAt time.Time
}

// NewInvocation creates an invocation for the given command with a fresh
// trace ID and the current time.
func NewInvocation(category command.Category, name, callerID string) Invocation {
	return Invocation{
		TraceID:   NewTraceID(),
		Category:  category,
		Command:   name,
		CallerID:  callerID,
		ArrivedAt: time.Now(),
	}
}

// NewTraceID returns a short correlation code derived from a random UUID.
func NewTraceID() string {
	return uuid.NewString()[:traceIDLength]
}
