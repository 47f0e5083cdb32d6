package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.Schema != defaultSchema {
		t.Fatalf("expected default schema %s, got %s", defaultSchema, cfg.Schema)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("expected default poll interval %s, got %s", defaultPollInterval, cfg.PollInterval)
	}
	if cfg.StaleAfter != defaultStaleAfter {
		t.Fatalf("expected default stale-after %s, got %s", defaultStaleAfter, cfg.StaleAfter)
	}
	if cfg.DebounceWindow != defaultDebounceWindow {
		t.Fatalf("expected default debounce window %s, got %s", defaultDebounceWindow, cfg.DebounceWindow)
	}
	if cfg.Feed.URL != defaultNatsURL {
		t.Fatalf("expected default nats url %s, got %s", defaultNatsURL, cfg.Feed.URL)
	}
	if cfg.Feed.SubjectPrefix != defaultSubjectPrefix {
		t.Fatalf("expected default subject prefix %s, got %s", defaultSubjectPrefix, cfg.Feed.SubjectPrefix)
	}
	if cfg.Database.ScopeTTL != defaultScopeTTL {
		t.Fatalf("expected default scope ttl %s, got %s", defaultScopeTTL, cfg.Database.ScopeTTL)
	}
	if cfg.Metrics.Enabled {
		t.Fatal("expected metrics disabled by default")
	}
	if cfg.Metrics.ServiceName != defaultOtelService {
		t.Fatalf("expected default service name %s, got %s", defaultOtelService, cfg.Metrics.ServiceName)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "5000")
	t.Setenv(envScopeKey, "lic-2026-0314")
	t.Setenv(envSchema, "flat")
	t.Setenv(envPollInterval, "45s")
	t.Setenv(envStaleAfter, "2m")
	t.Setenv(envDebounceWindow, "500ms")
	t.Setenv(envDatabaseURL, "postgres://board:board@db/board")
	t.Setenv(envNatsURL, "nats://broker:4222")
	t.Setenv(envMetricsOn, "true")

	cfg := Load()

	if cfg.Port != "5000" {
		t.Fatalf("expected port 5000, got %s", cfg.Port)
	}
	if cfg.ScopeKey != "lic-2026-0314" {
		t.Fatalf("expected scope key override, got %s", cfg.ScopeKey)
	}
	if cfg.Schema != "flat" {
		t.Fatalf("expected schema flat, got %s", cfg.Schema)
	}
	if cfg.PollInterval != 45*time.Second {
		t.Fatalf("expected poll interval 45s, got %s", cfg.PollInterval)
	}
	if cfg.StaleAfter != 2*time.Minute {
		t.Fatalf("expected stale-after 2m, got %s", cfg.StaleAfter)
	}
	if cfg.DebounceWindow != 500*time.Millisecond {
		t.Fatalf("expected debounce window 500ms, got %s", cfg.DebounceWindow)
	}
	if cfg.Database.DSN != "postgres://board:board@db/board" {
		t.Fatalf("expected dsn override, got %s", cfg.Database.DSN)
	}
	if cfg.Feed.URL != "nats://broker:4222" {
		t.Fatalf("expected nats url override, got %s", cfg.Feed.URL)
	}
	if !cfg.Metrics.Enabled {
		t.Fatal("expected metrics enabled")
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv(envPollInterval, "not-a-duration")

	cfg := Load()

	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("expected default poll interval on invalid value, got %s", cfg.PollInterval)
	}
}

func TestLoadNonPositiveDurationFallsBack(t *testing.T) {
	t.Setenv(envDebounceWindow, "0s")

	cfg := Load()

	if cfg.DebounceWindow != defaultDebounceWindow {
		t.Fatalf("expected default debounce window on non-positive value, got %s", cfg.DebounceWindow)
	}
}
