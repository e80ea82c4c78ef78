package nexus

import (
	"github.com/bunnys/nexus/core/dispatch"
)

// Config is the runtime configuration loaded from the environment.
// Dispatch settings nest under their own env variables; everything here has
// a default, so a runtime starts with an empty environment.
type Config struct {
	Dispatch dispatch.Config

	AppName  string `env:"APP_NAME" envDefault:"nexus"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Prefix is the trigger prefix hosts strip from message commands before
	// dispatching. The runtime itself never parses raw message text.
	Prefix string `env:"NEXUS_PREFIX" envDefault:"!"`

	// Developers and TestServers feed the standard verifier's developer-only
	// and test-only checks.
	Developers  []string `env:"NEXUS_DEVELOPERS" envSeparator:","`
	TestServers []string `env:"NEXUS_TEST_SERVERS" envSeparator:","`

	// DisabledDefaults names default commands skipped during loading.
	// Mandatory and custom commands cannot be disabled.
	DisabledDefaults []string `env:"NEXUS_DISABLED_DEFAULTS" envSeparator:","`
}
