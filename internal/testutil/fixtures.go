package testutil

import (
	"ringboard-service/internal/providers"
	"ringboard-service/internal/transform"
)

func intPtr(v int) *int { return &v }

// RawShowSnapshot builds a small raw record set in the view schema: two
// Novice Container sections and one entry per section.
func RawShowSnapshot() providers.RawSnapshot {
	return providers.RawSnapshot{
		FetchedVia: providers.PathPrimary,
		Classes: []transform.RawClassRecord{
			{
				ID: "c-nov-a", ElementType: "Container", LevelName: "Novice", Section: "A",
				JudgeName: "Pat Meyer", TrialDate: "2026-03-14", TrialNumber: 1,
				TotalCount: intPtr(10), CompletedCount: intPtr(10), StatusText: "completed",
			},
			{
				ID: "c-nov-b", ElementType: "Container", LevelName: "Novice", Section: "B",
				JudgeName: "Pat Meyer", TrialDate: "2026-03-14", TrialNumber: 1,
				TotalCount: intPtr(8), CompletedCount: intPtr(3), StatusText: "in_progress",
			},
		},
		Entries: []transform.RawEntryRecord{
			{
				ID: "e-101", Armband: "101", CallName: "Biscuit", BreedName: "Border Collie",
				HandlerName: "Sam Ortiz", ElementType: "Container", LevelName: "Novice",
				Section: "A", TrialDate: "2026-03-14", TrialNumber: 1, StatusText: "completed",
			},
			{
				ID: "e-205", Armband: "205", CallName: "Mabel", BreedName: "Beagle",
				HandlerName: "Dana Reyes", ElementType: "Container", LevelName: "Novice",
				Section: "B", TrialDate: "2026-03-14", TrialNumber: 1, StatusText: "waiting",
			},
		},
	}
}
