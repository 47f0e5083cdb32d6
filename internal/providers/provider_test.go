package providers

import (
	"context"
	"errors"
	"testing"

	"ringboard-service/internal/metrics"
	"ringboard-service/internal/transform"
)

func TestMembershipSetContains(t *testing.T) {
	set := MembershipSet{
		ClassIDs: map[string]bool{"c1": true},
		EntryIDs: map[string]bool{"e1": true},
	}

	if !set.Contains("class", "c1") || set.Contains("class", "c2") {
		t.Error("class membership lookup failed")
	}
	if !set.Contains("entry", "e1") {
		t.Error("entry membership lookup failed")
	}
	if !set.Contains("result", "e1") {
		t.Error("result rows key by entry id")
	}
	if set.Contains("other", "e1") {
		t.Error("unknown kinds are never members")
	}
}

func TestInstrumentedProviderRecordsPath(t *testing.T) {
	rec := metrics.NewRecorder()
	inner := &scriptedProvider{snap: RawSnapshot{
		Classes:    []transform.RawClassRecord{{ID: "c1"}},
		FetchedVia: PathFallback,
	}}
	p := NewInstrumentedProvider(inner, nil, rec)

	if _, err := p.FetchSnapshot(context.Background(), "show-42"); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	snap := rec.Snapshot()
	if snap.FetchAttempts != 1 || snap.FallbackFetches != 1 {
		t.Fatalf("expected fallback attempt recorded: %+v", snap)
	}
}

func TestInstrumentedProviderRecordsError(t *testing.T) {
	rec := metrics.NewRecorder()
	inner := &scriptedProvider{failures: 1, err: errors.New("boom")}
	p := NewInstrumentedProvider(inner, nil, rec)

	if _, err := p.FetchSnapshot(context.Background(), "show-42"); err == nil {
		t.Fatal("expected error")
	}
	if snap := rec.Snapshot(); snap.FetchErrors != 1 {
		t.Fatalf("expected error recorded: %+v", snap)
	}
}
