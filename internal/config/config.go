// Package config reads runtime configuration from environment variables with
// sensible defaults. Invalid values fall back to the default rather than
// failing startup.
package config

// Config holds runtime configuration for the server.
type Config struct {
	Port           string
	ScopeKey       string
	Schema         string
	PollInterval   Duration
	StaleAfter     Duration
	DebounceWindow Duration
	LogLevel       string
	LogFormat      string
	Database       DatabaseConfig
	Feed           FeedConfig
	Metrics        MetricsConfig
}

// DatabaseConfig controls the Postgres snapshot source.
type DatabaseConfig struct {
	DSN           string
	ScopeTTL      Duration
	MembershipTTL Duration
}

// FeedConfig controls the NATS change-notification subscription. An empty
// URL disables the feed and leaves polling as the only trigger.
type FeedConfig struct {
	URL           string
	SubjectPrefix string
}

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	OtlpEndpoint string
	ServiceName  string
	OtlpInsecure bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:           envOrDefault(envPort, defaultPort),
		ScopeKey:       envOrDefault(envScopeKey, ""),
		Schema:         envOrDefault(envSchema, defaultSchema),
		PollInterval:   durationEnvOrDefault(envPollInterval, defaultPollInterval),
		StaleAfter:     durationEnvOrDefault(envStaleAfter, defaultStaleAfter),
		DebounceWindow: durationEnvOrDefault(envDebounceWindow, defaultDebounceWindow),
		LogLevel:       envOrDefault(envLogLevel, defaultLogLevel),
		LogFormat:      envOrDefault(envLogFormat, defaultLogFormat),
		Database: DatabaseConfig{
			DSN:           envOrDefault(envDatabaseURL, ""),
			ScopeTTL:      durationEnvOrDefault(envScopeTTL, defaultScopeTTL),
			MembershipTTL: durationEnvOrDefault(envMembershipTTL, defaultMembershipTTL),
		},
		Feed: FeedConfig{
			URL:           envOrDefault(envNatsURL, defaultNatsURL),
			SubjectPrefix: envOrDefault(envSubjectPrefix, defaultSubjectPrefix),
		},
		Metrics: MetricsConfig{
			Enabled:      boolEnvOrDefault(envMetricsOn, false),
			Port:         envOrDefault(envMetricsPort, defaultMetricsPort),
			OtlpEndpoint: envOrDefault(envOtelEndpoint, ""),
			ServiceName:  envOrDefault(envOtelService, defaultOtelService),
			OtlpInsecure: boolEnvOrDefault(envOtelInsecure, false),
		},
	}
}
