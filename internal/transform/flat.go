package transform

import (
	"ringboard-service/internal/domain"
	"ringboard-service/internal/domain/classes"
	"ringboard-service/internal/domain/entries"
)

// FlatAdapter normalizes rows from the legacy single-table schema still used
// by shows that have not migrated to the reporting view. Class status on that
// schema is only an in-ring flag plus counts.
type FlatAdapter struct{}

func (FlatAdapter) Name() string { return "flat" }

func (FlatAdapter) TransformClasses(raw []RawClassRecord) []classes.ClassRecord {
	out := make([]classes.ClassRecord, 0, len(raw))
	for _, r := range raw {
		total, completed, pending := normalizeCounts(intOrZero(r.EntryTotal), intOrZero(r.EntryCompleted), r.EntryPending)
		status := classStatusFromCounts(total, completed)
		if r.InRing != nil && *r.InRing {
			status = classes.StatusInProgress
		}
		out = append(out, classes.ClassRecord{
			ID:          r.ID,
			Element:     normalizeElement(firstNonEmpty(r.Element, r.ElementType)),
			Level:       orDefault(firstNonEmpty(r.Level, r.LevelName), "Unknown"),
			Section:     r.Section,
			JudgeName:   orDefault(firstNonEmpty(r.Judge, r.JudgeName), DefaultJudge),
			TrialDate:   r.TrialDate,
			TrialNumber: r.TrialNumber,
			StartTime:   r.StartTime,
			Status:      status,
			Total:       total,
			Completed:   completed,
			Pending:     pending,
			Order:       r.RunOrder,
		})
	}
	return out
}

func (FlatAdapter) TransformEntries(raw []RawEntryRecord) []entries.CompetitorEntry {
	out := make([]entries.CompetitorEntry, 0, len(raw))
	for _, r := range raw {
		status := entries.StatusWaiting
		switch {
		case r.InRing != nil && *r.InRing:
			status = entries.StatusInRing
		case r.Completed != nil && *r.Completed:
			status = entries.StatusCompleted
		case r.Score != "" || r.TimeText != "":
			// A scored legacy row without flags is a finished run.
			status = entries.StatusCompleted
		}
		placement := 0
		if r.Placement != nil && *r.Placement > 0 {
			placement = *r.Placement
		}
		element := normalizeElement(firstNonEmpty(r.Element, r.ElementType))
		level := orDefault(firstNonEmpty(r.Level, r.LevelName), "Unknown")
		out = append(out, entries.CompetitorEntry{
			ID:              r.ID,
			Armband:         r.Armband,
			CallName:        orDefault(firstNonEmpty(r.DogName, r.CallName), "Unknown"),
			Breed:           orDefault(firstNonEmpty(r.Breed, r.BreedName), DefaultBreed),
			HandlerName:     orDefault(firstNonEmpty(r.Handler, r.HandlerName), DefaultHandler),
			HandlerLocation: r.HandlerLocation,
			Element:         element,
			Level:           level,
			Section:         r.Section,
			TrialDate:       r.TrialDate,
			TrialNumber:     r.TrialNumber,
			GroupKey:        domain.NewGroupKey(r.TrialDate, r.TrialNumber, element, level, r.Section),
			RunStatus:       status,
			Score:           firstNonEmpty(r.Score, r.ResultText),
			Placement:       placement,
			ElapsedTime:     firstNonEmpty(r.TimeText, r.SearchTime),
			CheckIn:         checkInFromText(firstNonEmpty(r.Checkin, r.CheckinStatus)),
			RunOrder:        r.RunOrder,
		})
	}
	return out
}
