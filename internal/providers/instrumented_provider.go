package providers

import (
	"context"
	"log/slog"
	"time"

	"ringboard-service/internal/logging"
	"ringboard-service/internal/metrics"
)

// instrumentedProvider records fetch latency and outcome per path and logs
// each attempt.
type instrumentedProvider struct {
	inner   SnapshotProvider
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// NewInstrumentedProvider wraps a provider with metrics and logging.
func NewInstrumentedProvider(inner SnapshotProvider, logger *slog.Logger, recorder *metrics.Recorder) SnapshotProvider {
	return &instrumentedProvider{inner: inner, logger: logger, metrics: recorder}
}

func (p *instrumentedProvider) FetchSnapshot(ctx context.Context, scopeKey string) (RawSnapshot, error) {
	if p.inner == nil {
		return RawSnapshot{}, ErrProviderUnavailable
	}

	start := time.Now()
	snap, err := p.inner.FetchSnapshot(ctx, scopeKey)
	elapsed := time.Since(start)

	path := snap.FetchedVia
	if path == "" {
		path = PathPrimary
	}
	p.metrics.RecordFetchAttempt(path, elapsed, err)

	if err != nil {
		logging.Error(p.logger, "snapshot fetch failed", err,
			logging.FieldScope, scopeKey,
			logging.FieldDurationMS, elapsed.Milliseconds(),
		)
		return RawSnapshot{}, err
	}

	logging.Info(p.logger, "snapshot fetched",
		logging.FieldScope, scopeKey,
		"via", path,
		"classes", len(snap.Classes),
		"entries", len(snap.Entries),
		logging.FieldDurationMS, elapsed.Milliseconds(),
	)
	return snap, nil
}
