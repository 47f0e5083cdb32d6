package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"ringboard-service/internal/logging"
)

const (
	defaultInitialBackoff = 200 * time.Millisecond
	defaultMaxElapsed     = 5 * time.Second
)

// retryingProvider wraps a SnapshotProvider with exponential backoff on
// transient failures. Scope-not-found is permanent and returns immediately.
type retryingProvider struct {
	inner      SnapshotProvider
	logger     *slog.Logger
	initial    time.Duration
	maxElapsed time.Duration
}

// NewRetryingProvider wraps the given provider with retries. Non-positive
// durations use defaults.
func NewRetryingProvider(inner SnapshotProvider, logger *slog.Logger, initial, maxElapsed time.Duration) SnapshotProvider {
	if initial <= 0 {
		initial = defaultInitialBackoff
	}
	if maxElapsed <= 0 {
		maxElapsed = defaultMaxElapsed
	}
	return &retryingProvider{inner: inner, logger: logger, initial: initial, maxElapsed: maxElapsed}
}

func (r *retryingProvider) FetchSnapshot(ctx context.Context, scopeKey string) (RawSnapshot, error) {
	if r.inner == nil {
		return RawSnapshot{}, ErrProviderUnavailable
	}

	var out RawSnapshot
	op := func() error {
		snap, err := r.inner.FetchSnapshot(ctx, scopeKey)
		if err != nil {
			if IsScopeNotFound(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		out = snap
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.initial
	bo.MaxElapsedTime = r.maxElapsed

	notify := func(err error, wait time.Duration) {
		logging.Warn(logging.FromContext(ctx, r.logger), "snapshot fetch retry",
			logging.FieldScope, scopeKey,
			"wait", wait.String(),
			"error", err,
		)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(bo, ctx), notify); err != nil {
		return RawSnapshot{}, err
	}
	return out, nil
}
