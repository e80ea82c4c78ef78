package cooldown

import (
	"context"
	"time"
)

// Store persists cooldown reservations keyed by command and caller.
// Implementations must make Reserve atomic: under concurrent calls for the
// same key, exactly one caller wins the slot.
type Store interface {
	// Reserve claims the cooldown slot for key. When the key is free, or its
	// previous reservation has expired, the slot is claimed for period and ok
	// is true. Otherwise ok is false and remaining reports how long the
	// caller must wait. A non-positive period always succeeds without
	// claiming anything.
	Reserve(ctx context.Context, key string, period time.Duration) (ok bool, remaining time.Duration, err error)

	// Release drops a reservation before it expires, re-opening the slot.
	Release(ctx context.Context, key string) error
}

// Key builds the reservation key for one command and caller pair.
func Key(cmd, callerID string) string {
	return cmd + ":" + callerID
}
