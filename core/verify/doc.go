// Package verify implements the pre-execution gates commands pass through
// before they reach a worker: developer and test-server restrictions,
// channel age restriction, caller and executor permission checks, and
// per-caller cooldowns.
//
// Gates run in a fixed order and the first failure wins, so a caller is
// told about the most fundamental restriction first and a command blocked
// by an earlier gate never reserves a cooldown window. Every denial
// carries a stable reason used as a metric key and a message the
// dispatcher relays to the user.
//
//	verifier := verify.New(
//		verify.WithDevelopers("1096605997433847861"),
//		verify.WithTestServers("1054624372953763861"),
//		verify.WithCooldowns(store),
//	)
//
//	d, err := dispatch.NewDispatcher(reg, engine, dispatch.WithVerifier(verifier))
//
// Cooldown enforcement is the only gate with a backing service. When the
// store errors, the verifier allows the command and logs a warning rather
// than denying everything behind an unreachable store.
package verify
