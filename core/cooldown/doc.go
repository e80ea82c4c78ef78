// Package cooldown tracks per-caller command cooldowns behind a small Store
// contract: Reserve atomically claims a command+caller slot for the
// descriptor's cooldown period, and reports the remaining wait when the slot
// is still held.
//
// The in-process MemoryStore suits single-instance deployments; a
// Redis-backed implementation for multi-instance setups lives in
// integration/database/redis.
//
//	store := cooldown.NewMemoryStore(
//		cooldown.WithCleanupInterval(time.Minute),
//	)
//	go store.Start(ctx)
//	defer store.Stop()
//
//	ok, remaining, err := store.Reserve(ctx, cooldown.Key("ping", callerID), 5*time.Second)
//	if err != nil {
//		return err
//	}
//	if !ok {
//		return fmt.Errorf("on cooldown for another %s", remaining)
//	}
package cooldown
