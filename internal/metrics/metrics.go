package metrics

import (
	"sync"
	"time"
)

type pipelineStats struct {
	fetchAttempts    int
	fetchErrors      int
	fallbackFetches  int
	feedEvents       int
	feedDrops        int
	debounceFires    int
	pollTriggers     int
	appliesChanged   int
	appliesNoop      int
	lastFetchLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about the sync pipeline.
// Counters are mirrored to OTel instruments when telemetry is enabled, and
// readable directly in tests.
type Recorder struct {
	mu    sync.Mutex
	stats pipelineStats
	otel  *otelInstruments
}

// NewRecorder returns a Recorder without OTel export.
func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{otel: otel}
}

// RecordFetchAttempt counts one snapshot fetch on the given path.
func (r *Recorder) RecordFetchAttempt(path string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.fetchAttempts++
	r.stats.lastFetchLatency = duration
	if err != nil {
		r.stats.fetchErrors++
	}
	if path == "fallback" {
		r.stats.fallbackFetches++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordFetchAttempt(path, duration, err)
	}
}

// RecordFeedEvent counts one change-feed event, dropped or forwarded.
func (r *Recorder) RecordFeedEvent(entity string, dropped bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.feedEvents++
	if dropped {
		r.stats.feedDrops++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordFeedEvent(entity, dropped)
	}
}

// RecordDebounceFire counts one coalesced downstream call.
func (r *Recorder) RecordDebounceFire() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.debounceFires++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordDebounceFire()
	}
}

// RecordPollTrigger counts one staleness-driven refetch.
func (r *Recorder) RecordPollTrigger() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.pollTriggers++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordPollTrigger()
	}
}

// RecordApply counts one snapshot apply and whether content changed.
func (r *Recorder) RecordApply(changed bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	if changed {
		r.stats.appliesChanged++
	} else {
		r.stats.appliesNoop++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordApply(changed)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, route, status, duration)
}

// Snapshot is a copy of the current pipeline counters.
type Snapshot struct {
	FetchAttempts    int
	FetchErrors      int
	FallbackFetches  int
	FeedEvents       int
	FeedDrops        int
	DebounceFires    int
	PollTriggers     int
	AppliesChanged   int
	AppliesNoop      int
	LastFetchLatency time.Duration
}

// Snapshot returns a copy of the current counters.
func (r *Recorder) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		FetchAttempts:    r.stats.fetchAttempts,
		FetchErrors:      r.stats.fetchErrors,
		FallbackFetches:  r.stats.fallbackFetches,
		FeedEvents:       r.stats.feedEvents,
		FeedDrops:        r.stats.feedDrops,
		DebounceFires:    r.stats.debounceFires,
		PollTriggers:     r.stats.pollTriggers,
		AppliesChanged:   r.stats.appliesChanged,
		AppliesNoop:      r.stats.appliesNoop,
		LastFetchLatency: r.stats.lastFetchLatency,
	}
}
