package config

import "time"

const (
	envPort           = "PORT"
	envScopeKey       = "SHOW_KEY"
	envSchema         = "PROVIDER_SCHEMA"
	envPollInterval   = "POLL_INTERVAL"
	envStaleAfter     = "STALE_AFTER"
	envDebounceWindow = "DEBOUNCE_WINDOW"
	envLogLevel       = "LOG_LEVEL"
	envLogFormat      = "LOG_FORMAT"

	envDatabaseURL   = "DATABASE_URL"
	envScopeTTL      = "SCOPE_CACHE_TTL"
	envMembershipTTL = "MEMBERSHIP_CACHE_TTL"

	envNatsURL       = "NATS_URL"
	envSubjectPrefix = "NATS_SUBJECT_PREFIX"

	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort   = "4000"
	defaultSchema = "view"
	// Safety-net cadence; the change feed carries the real-time signal.
	defaultPollInterval   = Duration(time.Minute)
	defaultStaleAfter     = 5 * Duration(time.Minute)
	defaultDebounceWindow = 250 * Duration(time.Millisecond)
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"

	defaultScopeTTL      = 5 * Duration(time.Minute)
	defaultMembershipTTL = Duration(time.Minute)

	defaultNatsURL       = "nats://127.0.0.1:4222"
	defaultSubjectPrefix = "ringboard.changes"

	defaultMetricsPort = "9090"
	defaultOtelService = "ringboard-service"
)
