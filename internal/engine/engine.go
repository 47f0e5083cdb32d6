// Package engine wires the change feed, debouncer, snapshot fetcher,
// transformer, merger and state store into the per-scope sync pipeline.
//
// Every trigger (change notification, poll tick, manual refetch) funnels
// into the same fetch path: refetch the authoritative snapshot, normalize,
// merge, apply. Events are never patched into the snapshot.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"ringboard-service/internal/domain"
	"ringboard-service/internal/feed"
	"ringboard-service/internal/logging"
	"ringboard-service/internal/merge"
	"ringboard-service/internal/metrics"
	"ringboard-service/internal/providers"
	"ringboard-service/internal/store"
	"ringboard-service/internal/transform"
)

const (
	// DefaultPollInterval is the safety-net tick, independent of feed health.
	DefaultPollInterval = time.Minute
	// DefaultStaleAfter is the snapshot age past which a poll tick refetches
	// even while nominally connected. Prolonged silence is suspicious.
	DefaultStaleAfter = 5 * time.Minute
)

// Config controls one engine instance.
type Config struct {
	ScopeKey       string
	PollInterval   time.Duration
	StaleAfter     time.Duration
	DebounceWindow time.Duration
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = DefaultStaleAfter
	}
	if c.DebounceWindow <= 0 {
		c.DebounceWindow = feed.DefaultDebounceWindow
	}
	return c
}

// Engine synchronizes one scope. Construct per show; a scope change is a new
// engine, never a mutation of this one.
type Engine struct {
	cfg      Config
	provider providers.SnapshotProvider
	adapter  transform.SchemaAdapter
	state    *store.StateStore
	feed     feed.Subscriber
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *metrics.Recorder

	debouncer    *feed.Debouncer
	subscription feed.Subscription

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	inFlight   atomic.Bool
	generation atomic.Int64
	terminal   atomic.Bool
	started    atomic.Bool
}

// New constructs an engine. A nil clock uses the real clock; a nil adapter
// uses the view schema; the feed subscriber may be nil, leaving polling as
// the only trigger source.
func New(cfg Config, provider providers.SnapshotProvider, adapter transform.SchemaAdapter, sub feed.Subscriber, clock clockwork.Clock, logger *slog.Logger, recorder *metrics.Recorder) *Engine {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if adapter == nil {
		adapter = transform.ViewAdapter{}
	}
	e := &Engine{
		cfg:      cfg.withDefaults(),
		provider: provider,
		adapter:  adapter,
		state:    store.New(clock),
		feed:     sub,
		clock:    clock,
		logger:   logger,
		metrics:  recorder,
	}
	// Created here rather than in Start so a refetch arriving through the
	// HTTP surface before Start finds a usable engine.
	e.debouncer = feed.NewDebouncer(clock, e.cfg.DebounceWindow, func() {
		e.metrics.RecordDebounceFire()
		e.fetchOnce()
	})
	return e
}

// Start begins the pipeline: an immediate warm fetch, the change-feed pump
// and the polling fallback. Start is idempotent.
func (e *Engine) Start(ctx context.Context) {
	if !e.started.CompareAndSwap(false, true) {
		return
	}
	e.ctx, e.cancel = context.WithCancel(ctx)

	logging.Info(e.logger, "sync engine starting",
		logging.FieldScope, e.cfg.ScopeKey,
		"poll_interval", e.cfg.PollInterval.String(),
		"stale_after", e.cfg.StaleAfter.String(),
		"debounce_window", e.cfg.DebounceWindow.String(),
	)

	// Warm the board on boot.
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.fetchOnce()
	}()

	e.subscribeFeed()

	e.wg.Add(1)
	go e.pollLoop()
}

// subscribeFeed opens the change-notification stream. A subscription error
// degrades to polling only; it never halts the pipeline.
func (e *Engine) subscribeFeed() {
	if e.feed == nil {
		return
	}
	sub, err := e.feed.Subscribe(e.cfg.ScopeKey)
	if err != nil {
		logging.Error(e.logger, "change feed unavailable, relying on polling", err,
			logging.FieldScope, e.cfg.ScopeKey,
		)
		return
	}
	e.subscription = sub
	e.wg.Add(1)
	go e.pumpEvents(sub)
}

func (e *Engine) pumpEvents(sub feed.Subscription) {
	defer e.wg.Done()
	for {
		select {
		case <-e.ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				logging.Warn(e.logger, "change feed closed, relying on polling",
					logging.FieldScope, e.cfg.ScopeKey,
				)
				return
			}
			e.metrics.RecordFeedEvent(string(ev.Entity), false)
			e.debouncer.Trigger()
		}
	}
}

// pollLoop refetches on a fixed interval whenever the scope is not connected
// or the snapshot has gone stale, regardless of reported feed health.
func (e *Engine) pollLoop() {
	defer e.wg.Done()
	ticker := e.clock.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.Chan():
			snap := e.state.Snapshot()
			stale := snap.LastSuccessfulUpdate.IsZero() ||
				e.clock.Since(snap.LastSuccessfulUpdate) > e.cfg.StaleAfter
			if snap.ConnectionStatus != domain.StatusConnected || stale {
				e.metrics.RecordPollTrigger()
				e.fetchOnce()
			}
		}
	}
}

// fetchOnce runs one fetch-transform-merge-apply cycle. Overlapping calls
// for the scope are skipped, not queued: the next debounce or poll cycle
// re-requests shortly anyway, and queuing would only amplify a slow backend.
func (e *Engine) fetchOnce() {
	if e.terminal.Load() {
		return
	}
	if !e.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer e.inFlight.Store(false)

	ctx := e.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	gen := e.generation.Load()
	start := e.clock.Now()

	raw, err := e.provider.FetchSnapshot(ctx, e.cfg.ScopeKey)

	// A result arriving after teardown or restart is discarded, never applied.
	if ctx.Err() != nil || gen != e.generation.Load() {
		return
	}

	if err != nil {
		if providers.IsScopeNotFound(err) {
			e.terminal.Store(true)
			e.state.SetError(err)
			logging.Error(e.logger, "scope not found, sync halted", err,
				logging.FieldScope, e.cfg.ScopeKey,
			)
			return
		}
		e.state.SetError(err)
		logging.Warn(e.logger, "snapshot refresh failed, keeping prior data",
			logging.FieldScope, e.cfg.ScopeKey,
			"error", err,
		)
		return
	}

	groups := merge.MergeClasses(e.adapter.TransformClasses(raw.Classes))
	dogs := e.adapter.TransformEntries(raw.Entries)
	changed := e.state.Apply(groups, dogs)
	e.metrics.RecordApply(changed)

	logging.Info(e.logger, "snapshot applied",
		logging.FieldScope, e.cfg.ScopeKey,
		"via", raw.FetchedVia,
		"groups", len(groups),
		"entries", len(dogs),
		"changed", changed,
		logging.FieldDurationMS, e.clock.Since(start).Milliseconds(),
	)
}

// Refetch bypasses the debounce window and fetches immediately.
func (e *Engine) Refetch() {
	e.debouncer.Cancel()
	e.fetchOnce()
}

// Snapshot returns the current board snapshot.
func (e *Engine) Snapshot() store.Snapshot {
	return e.state.Snapshot()
}

// OnSnapshotChange registers a listener for every published snapshot and
// returns its unsubscribe function.
func (e *Engine) OnSnapshotChange(l store.Listener) func() {
	return e.state.Subscribe(l)
}

// Stop tears the engine down: pending debounce timers, the polling loop and
// the feed subscription are canceled, and any in-flight fetch result is
// discarded. The snapshot does not survive a scope change.
func (e *Engine) Stop() {
	if !e.started.Load() {
		return
	}
	e.generation.Add(1)
	if e.cancel != nil {
		e.cancel()
	}
	e.debouncer.Cancel()
	if e.subscription != nil {
		_ = e.subscription.Close()
	}
	e.wg.Wait()
	logging.Info(e.logger, "sync engine stopped", logging.FieldScope, e.cfg.ScopeKey)
}

// Terminal reports whether the engine hit a fatal scope-not-found.
func (e *Engine) Terminal() bool {
	return e.terminal.Load()
}
