// Package lifecycle loads commands into a registry in a deterministic
// order with per-item failure tolerance.
//
// Sources are grouped into three phases. Mandatory sources load first and
// cannot be switched off; default sources load next with individually
// disabled items skipped; custom sources load last. Because the registry
// rejects duplicate names, earlier phases win conflicts: a custom command
// cannot shadow a built-in.
//
// A broken item (a builder that errors or panics, or a descriptor the
// registry rejects) fails alone. The load continues, the failure is
// logged and included in the returned Report, and every other item still
// registers.
//
//	coordinator, err := lifecycle.New(reg,
//		lifecycle.WithMandatory(builtins),
//		lifecycle.WithDefaults(extras),
//		lifecycle.WithDisabledDefaults("eval"),
//		lifecycle.WithCustom(plugins...),
//		lifecycle.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//	report, err := coordinator.Load(ctx)
//
// Load runs at most once per coordinator. The command set is fixed at
// startup; registries can still be cleared and reloaded by constructing a
// fresh coordinator.
package lifecycle
