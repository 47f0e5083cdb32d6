package metrics

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecorderCounters(t *testing.T) {
	r := NewRecorder()

	r.RecordFetchAttempt("primary", 25*time.Millisecond, nil)
	r.RecordFetchAttempt("fallback", 80*time.Millisecond, errors.New("boom"))
	r.RecordFeedEvent("class", false)
	r.RecordFeedEvent("result", true)
	r.RecordDebounceFire()
	r.RecordPollTrigger()
	r.RecordApply(true)
	r.RecordApply(false)

	snap := r.Snapshot()
	if snap.FetchAttempts != 2 || snap.FetchErrors != 1 || snap.FallbackFetches != 1 {
		t.Errorf("fetch counters: %+v", snap)
	}
	if snap.FeedEvents != 2 || snap.FeedDrops != 1 {
		t.Errorf("feed counters: %+v", snap)
	}
	if snap.DebounceFires != 1 || snap.PollTriggers != 1 {
		t.Errorf("trigger counters: %+v", snap)
	}
	if snap.AppliesChanged != 1 || snap.AppliesNoop != 1 {
		t.Errorf("apply counters: %+v", snap)
	}
	if snap.LastFetchLatency != 80*time.Millisecond {
		t.Errorf("last latency = %v", snap.LastFetchLatency)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.RecordFetchAttempt("primary", 0, nil)
	r.RecordFeedEvent("class", false)
	r.RecordDebounceFire()
	r.RecordPollTrigger()
	r.RecordApply(true)
	if snap := r.Snapshot(); snap.FetchAttempts != 0 {
		t.Fatal("nil recorder should report zero counters")
	}
}

func TestSetupDisabled(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a recorder even when disabled")
	}
	if handler != nil {
		t.Fatal("disabled telemetry should not expose a handler")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupEnabled(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: true})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			t.Errorf("shutdown: %v", err)
		}
	}()
	if handler == nil {
		t.Fatal("enabled telemetry should expose the prometheus handler")
	}
	rec.RecordFetchAttempt("primary", time.Millisecond, nil)
}
