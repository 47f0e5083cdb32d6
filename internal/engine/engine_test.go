package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"ringboard-service/internal/domain"
	"ringboard-service/internal/feed"
	"ringboard-service/internal/metrics"
	"ringboard-service/internal/providers"
	"ringboard-service/internal/store"
	"ringboard-service/internal/testutil"
)

const testScope = "lic-2026-0314"

func newTestEngine(t *testing.T, provider providers.SnapshotProvider, sub feed.Subscriber) (*Engine, *clockwork.FakeClock, *metrics.Recorder) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	recorder := metrics.NewRecorder()
	cfg := Config{
		ScopeKey:       testScope,
		PollInterval:   time.Second,
		StaleAfter:     30 * time.Second,
		DebounceWindow: 250 * time.Millisecond,
	}
	e := New(cfg, provider, nil, sub, clock, nil, recorder)
	return e, clock, recorder
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

func waitConnected(t *testing.T, e *Engine) store.Snapshot {
	t.Helper()
	waitFor(t, func() bool {
		return e.Snapshot().ConnectionStatus == domain.StatusConnected
	}, "snapshot never reached connected")
	return e.Snapshot()
}

func TestStartAppliesInitialSnapshot(t *testing.T) {
	provider := testutil.NewStubProvider(testutil.RawShowSnapshot())
	e, _, _ := newTestEngine(t, provider, nil)
	e.Start(context.Background())
	defer e.Stop()

	snap := waitConnected(t, e)

	if got := len(snap.ClassGroups); got != 1 {
		t.Fatalf("expected one merged group, got %d", got)
	}
	g := snap.ClassGroups[0]
	if g.TotalCount != 18 || g.CompletedCount != 13 || g.PendingCount != 5 {
		t.Errorf("merged counts = %d/%d/%d, want 18/13/5", g.TotalCount, g.CompletedCount, g.PendingCount)
	}
	if len(snap.Entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(snap.Entries))
	}
	if snap.LastSuccessfulUpdate.IsZero() {
		t.Error("expected LastSuccessfulUpdate to be set")
	}
}

func TestRefetchBeforeStartIsSafe(t *testing.T) {
	provider := testutil.NewStubProvider(testutil.RawShowSnapshot())
	e, _, _ := newTestEngine(t, provider, nil)

	// The HTTP surface may hand a refetch to an engine that has not been
	// started yet. It must fetch rather than crash.
	e.Refetch()

	if got := provider.Calls.Load(); got != 1 {
		t.Fatalf("expected one fetch, got %d", got)
	}
	if e.Snapshot().ConnectionStatus != domain.StatusConnected {
		t.Fatalf("status = %q, want connected", e.Snapshot().ConnectionStatus)
	}
}

func TestFeedEventsCoalesceIntoOneFetch(t *testing.T) {
	provider := testutil.NewStubProvider(testutil.RawShowSnapshot())
	mf := testutil.NewManualFeed()
	e, clock, recorder := newTestEngine(t, provider, mf)
	e.Start(context.Background())
	defer e.Stop()

	waitConnected(t, e)

	for i := 0; i < 3; i++ {
		mf.Push(feed.ChangeEvent{Entity: feed.EntityClass, EntityID: "c-nov-b", ScopeKey: testScope})
	}
	waitFor(t, func() bool {
		return recorder.Snapshot().FeedEvents == 3
	}, "feed events never consumed")

	// Ticker plus the armed debounce timer.
	clock.BlockUntil(2)
	clock.Advance(250 * time.Millisecond)

	waitFor(t, func() bool {
		return provider.Calls.Load() == 2
	}, "debounced fetch never fired")

	stats := recorder.Snapshot()
	if stats.DebounceFires != 1 {
		t.Errorf("DebounceFires = %d, want 1", stats.DebounceFires)
	}
}

func TestSubscribeFailureDegradesToPolling(t *testing.T) {
	provider := testutil.NewStubProvider(providers.RawSnapshot{})
	provider.SetResult(providers.RawSnapshot{}, errors.New("backend down"))
	mf := testutil.NewManualFeed()
	mf.SubscribeErr = errors.New("broker unreachable")
	e, clock, recorder := newTestEngine(t, provider, mf)
	e.Start(context.Background())
	defer e.Stop()

	waitFor(t, func() bool {
		return e.Snapshot().ConnectionStatus == domain.StatusError
	}, "initial failure never recorded")

	provider.SetResult(testutil.RawShowSnapshot(), nil)

	// Not connected, so the next tick refetches.
	clock.BlockUntil(1)
	clock.Advance(time.Second)

	waitConnected(t, e)
	if got := recorder.Snapshot().PollTriggers; got < 1 {
		t.Errorf("PollTriggers = %d, want at least 1", got)
	}
}

func TestPollRefetchesWhenStale(t *testing.T) {
	provider := testutil.NewStubProvider(testutil.RawShowSnapshot())
	e, clock, recorder := newTestEngine(t, provider, nil)
	e.Start(context.Background())
	defer e.Stop()

	waitConnected(t, e)
	before := provider.Calls.Load()

	clock.BlockUntil(1)
	clock.Advance(31 * time.Second)

	waitFor(t, func() bool {
		return provider.Calls.Load() > before
	}, "stale snapshot never refetched")
	if got := recorder.Snapshot().PollTriggers; got < 1 {
		t.Errorf("PollTriggers = %d, want at least 1", got)
	}
}

func TestScopeNotFoundIsTerminal(t *testing.T) {
	provider := testutil.NewStubProvider(providers.RawSnapshot{})
	provider.SetResult(providers.RawSnapshot{}, &providers.ScopeNotFoundError{Key: testScope})
	e, _, _ := newTestEngine(t, provider, nil)
	e.Start(context.Background())
	defer e.Stop()

	waitFor(t, e.Terminal, "scope-not-found never latched")

	snap := e.Snapshot()
	if snap.ConnectionStatus != domain.StatusError {
		t.Errorf("ConnectionStatus = %q, want %q", snap.ConnectionStatus, domain.StatusError)
	}

	// Further refetches are refused.
	e.Refetch()
	if got := provider.Calls.Load(); got != 1 {
		t.Errorf("provider calls after terminal = %d, want 1", got)
	}
}

func TestFetchErrorKeepsPriorData(t *testing.T) {
	provider := testutil.NewStubProvider(testutil.RawShowSnapshot())
	e, _, _ := newTestEngine(t, provider, nil)
	e.Start(context.Background())
	defer e.Stop()

	waitConnected(t, e)

	provider.SetResult(providers.RawSnapshot{}, errors.New("timeout"))
	e.Refetch()

	waitFor(t, func() bool {
		return e.Snapshot().ConnectionStatus == domain.StatusError
	}, "fetch error never surfaced")

	snap := e.Snapshot()
	if len(snap.ClassGroups) != 1 || len(snap.Entries) != 2 {
		t.Errorf("prior data dropped on error: %d groups, %d entries", len(snap.ClassGroups), len(snap.Entries))
	}
	if snap.LastError == "" {
		t.Error("expected LastError to be set")
	}
}

func TestOverlappingFetchIsSkipped(t *testing.T) {
	provider := testutil.NewStubProvider(testutil.RawShowSnapshot())
	provider.Block()
	e, _, _ := newTestEngine(t, provider, nil)
	e.Start(context.Background())
	defer e.Stop()

	waitFor(t, func() bool {
		return provider.Calls.Load() == 1
	}, "initial fetch never started")

	// The warm fetch is still in flight; this must be a no-op, not a queue.
	e.Refetch()
	if got := provider.Calls.Load(); got != 1 {
		t.Errorf("provider calls during in-flight fetch = %d, want 1", got)
	}

	provider.Unblock()
	waitConnected(t, e)
}

func TestStopDiscardsInFlightResult(t *testing.T) {
	provider := testutil.NewStubProvider(testutil.RawShowSnapshot())
	provider.Block()
	e, _, _ := newTestEngine(t, provider, nil)
	e.Start(context.Background())

	waitFor(t, func() bool {
		return provider.Calls.Load() == 1
	}, "initial fetch never started")

	e.Stop()

	snap := e.Snapshot()
	if snap.ConnectionStatus == domain.StatusConnected {
		t.Error("result from a torn-down fetch was applied")
	}
	if len(snap.ClassGroups) != 0 {
		t.Errorf("expected no groups after teardown, got %d", len(snap.ClassGroups))
	}
}

func TestStopClosesFeedSubscription(t *testing.T) {
	provider := testutil.NewStubProvider(testutil.RawShowSnapshot())
	mf := testutil.NewManualFeed()
	e, _, _ := newTestEngine(t, provider, mf)
	e.Start(context.Background())
	waitConnected(t, e)

	sub := mf.Active()
	e.Stop()

	if sub == nil || !sub.Closed() {
		t.Error("feed subscription not closed on stop")
	}
}

func TestOnSnapshotChangeNotifies(t *testing.T) {
	provider := testutil.NewStubProvider(testutil.RawShowSnapshot())
	e, _, _ := newTestEngine(t, provider, nil)

	got := make(chan store.Snapshot, 4)
	unsubscribe := e.OnSnapshotChange(func(s store.Snapshot) { got <- s })
	defer unsubscribe()

	e.Start(context.Background())
	defer e.Stop()

	select {
	case snap := <-got:
		if snap.ConnectionStatus != domain.StatusConnected {
			t.Errorf("notified status = %q, want %q", snap.ConnectionStatus, domain.StatusConnected)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("listener never notified")
	}
}

func TestDiagnosticsReflectsPipeline(t *testing.T) {
	provider := testutil.NewStubProvider(testutil.RawShowSnapshot())
	e, _, _ := newTestEngine(t, provider, nil)
	e.Start(context.Background())
	defer e.Stop()

	waitConnected(t, e)

	d := e.Diagnostics()
	if d.ScopeKey != testScope {
		t.Errorf("ScopeKey = %q, want %q", d.ScopeKey, testScope)
	}
	if d.ConnectionStatus != domain.StatusConnected {
		t.Errorf("ConnectionStatus = %q, want connected", d.ConnectionStatus)
	}
	if !d.Running {
		t.Error("Running = false for a started engine")
	}
	if d.GroupCount != 1 || d.EntryCount != 2 {
		t.Errorf("counts = %d groups, %d entries, want 1/2", d.GroupCount, d.EntryCount)
	}
	if d.Terminal {
		t.Error("Terminal = true for a healthy scope")
	}
	if d.Pipeline.AppliesChanged < 1 {
		t.Errorf("AppliesChanged = %d, want at least 1", d.Pipeline.AppliesChanged)
	}
}

func TestIdempotentRefreshKeepsTimestamp(t *testing.T) {
	provider := testutil.NewStubProvider(testutil.RawShowSnapshot())
	e, _, recorder := newTestEngine(t, provider, nil)
	e.Start(context.Background())
	defer e.Stop()

	first := waitConnected(t, e)

	e.Refetch()
	waitFor(t, func() bool {
		return provider.Calls.Load() == 2
	}, "refetch never ran")

	second := e.Snapshot()
	if !second.LastSuccessfulUpdate.Equal(first.LastSuccessfulUpdate) {
		t.Error("timestamp advanced on identical content")
	}
	stats := recorder.Snapshot()
	if stats.AppliesNoop < 1 {
		t.Errorf("AppliesNoop = %d, want at least 1", stats.AppliesNoop)
	}
}
