package pgstore

import (
	"testing"

	"ringboard-service/internal/transform"
)

var trial = trialRow{ID: "t1", TrialDate: "2026-03-14", TrialNumber: 1}

func TestClassRawFromFallbackMatchesViewShape(t *testing.T) {
	raw := classRawFromFallback(classRow{
		ID:             "c1",
		TrialID:        "t1",
		Element:        "Container",
		Level:          "Novice",
		Section:        "A",
		JudgeName:      "Pat Meyer",
		RunOrder:       3,
		EntryTotal:     10,
		EntryCompleted: 10,
	}, trial)

	if raw.ElementType != "Container" || raw.LevelName != "Novice" || raw.JudgeName != "Pat Meyer" {
		t.Fatalf("fallback raw should fill the view-schema fields: %+v", raw)
	}
	if raw.TrialDate != "2026-03-14" || raw.TrialNumber != 1 {
		t.Fatalf("trial identity not stamped: %+v", raw)
	}
	if raw.StatusText != "completed" {
		t.Fatalf("status = %q, want completed", raw.StatusText)
	}

	// The transformer must accept fallback output without modification.
	got := transform.ViewAdapter{}.TransformClasses([]transform.RawClassRecord{raw})
	if len(got) != 1 || got[0].Total != 10 || got[0].Completed != 10 {
		t.Fatalf("view adapter rejected fallback shape: %+v", got)
	}
}

func TestClassRawFromFallbackInRingWins(t *testing.T) {
	raw := classRawFromFallback(classRow{ID: "c1", EntryTotal: 5, EntryCompleted: 5, InRing: true}, trial)
	if raw.StatusText != "in_progress" {
		t.Fatalf("status = %q, want in_progress", raw.StatusText)
	}
}

func TestClassRawFromFallbackPartialCountsInProgress(t *testing.T) {
	raw := classRawFromFallback(classRow{ID: "c1", EntryTotal: 8, EntryCompleted: 3}, trial)
	if raw.StatusText != "in_progress" {
		t.Fatalf("status = %q, want in_progress", raw.StatusText)
	}
}

func TestEntryRawFromFallback(t *testing.T) {
	raw := entryRawFromFallback(entryRow{
		ID:          "e1",
		Armband:     "101",
		CallName:    "Biscuit",
		Breed:       "Border Collie",
		HandlerName: "Sam Ortiz",
		HandlerCity: "Tulsa, OK",
		Element:     "Interior",
		Level:       "Advanced",
		RunOrder:    2,
		IsScored:    true,
		ResultText:  "Qualified",
		SearchTime:  "0:58.31",
		Placement:   2,
	}, trial)

	if raw.StatusText != "completed" {
		t.Fatalf("scored row should be completed, got %q", raw.StatusText)
	}

	got := transform.ViewAdapter{}.TransformEntries([]transform.RawEntryRecord{raw})
	e := got[0]
	if e.CallName != "Biscuit" || e.Breed != "Border Collie" || e.Placement != 2 {
		t.Fatalf("view adapter mangled fallback entry: %+v", e)
	}
	if e.Score != "Qualified" || e.ElapsedTime != "0:58.31" {
		t.Fatalf("result fields lost: %+v", e)
	}
}

func TestEntryRawFromFallbackWaitingByDefault(t *testing.T) {
	raw := entryRawFromFallback(entryRow{ID: "e1"}, trial)
	if raw.StatusText != "waiting" {
		t.Fatalf("status = %q, want waiting", raw.StatusText)
	}
}
