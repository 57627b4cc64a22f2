package config

// DefaultConfig returns the built-in configuration defaults.
// A configuration file overlays these; check sections are never defaulted.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			IntervalSeconds:     60,
			IdleTimeSeconds:     300,
			MinSleepTimeSeconds: 1200,
			WakeupDeltaSeconds:  30,
			SuspendCmd:          "systemctl suspend",
			WokeUpFile:          "/var/run/autosleep-woke-up",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Per-check defaults applied while normalizing check sections
const (
	defaultCheckTimeoutSeconds = 30
)

// normalizeChecks fills per-check defaults for fields the file left unset
func normalizeChecks(checks []CheckConfig) {
	for i := range checks {
		if checks[i].OnError == "" {
			checks[i].OnError = OnErrorInactive
		}
		if checks[i].TimeoutSeconds == 0 {
			checks[i].TimeoutSeconds = defaultCheckTimeoutSeconds
		}
	}
}
