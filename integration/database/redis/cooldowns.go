package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bunnys/nexus/core/cooldown"
)

// Compile-time check that CooldownStore implements the cooldown.Store interface.
var _ cooldown.Store = (*CooldownStore)(nil)

const defaultCooldownPrefix = "cooldown:"

// CooldownStore persists cooldown reservations in Redis so limits hold across
// restarts and across multiple runtime instances sharing one server. Slots are
// claimed with SET NX plus a millisecond expiry, which keeps Reserve atomic
// without scripting.
type CooldownStore struct {
	client *redis.Client
	prefix string
}

// CooldownStoreOption configures a CooldownStore.
type CooldownStoreOption func(*CooldownStore)

// WithKeyPrefix overrides the namespace prepended to reservation keys.
// The default is "cooldown:".
func WithKeyPrefix(prefix string) CooldownStoreOption {
	return func(s *CooldownStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewCooldownStore creates a Redis-backed cooldown store around an established
// client. The store does not close the client; the owner does.
func NewCooldownStore(client *redis.Client, opts ...CooldownStoreOption) *CooldownStore {
	s := &CooldownStore{
		client: client,
		prefix: defaultCooldownPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reserve claims the cooldown slot for key. The first caller for a free key
// wins and the slot expires on its own after period. Losers get the remaining
// wait reported from the key's TTL.
func (s *CooldownStore) Reserve(ctx context.Context, key string, period time.Duration) (bool, time.Duration, error) {
	if period <= 0 {
		return true, 0, nil
	}

	full := s.prefix + key
	ok, err := s.client.SetNX(ctx, full, 1, period).Result()
	if err != nil {
		return false, 0, errors.Join(cooldown.ErrStoreUnavailable, err)
	}
	if ok {
		return true, 0, nil
	}

	remaining, err := s.client.PTTL(ctx, full).Result()
	if err != nil {
		return false, 0, errors.Join(cooldown.ErrStoreUnavailable, err)
	}
	if remaining < 0 {
		// The losing reservation expired between SET and PTTL.
		return false, 0, nil
	}
	return false, remaining, nil
}

// Release drops a reservation before it expires, re-opening the slot.
func (s *CooldownStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Join(cooldown.ErrStoreUnavailable, err)
	}
	return nil
}
