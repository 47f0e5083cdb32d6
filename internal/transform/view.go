package transform

import (
	"ringboard-service/internal/domain"
	"ringboard-service/internal/domain/classes"
	"ringboard-service/internal/domain/entries"
)

// ViewAdapter normalizes rows from the denormalized reporting view, the
// primary query path and the shape the fallback path reshapes into.
type ViewAdapter struct{}

func (ViewAdapter) Name() string { return "view" }

func (ViewAdapter) TransformClasses(raw []RawClassRecord) []classes.ClassRecord {
	out := make([]classes.ClassRecord, 0, len(raw))
	for _, r := range raw {
		total, completed, pending := normalizeCounts(intOrZero(r.TotalCount), intOrZero(r.CompletedCount), r.PendingCount)
		status := classStatus(r.StatusText, total, completed)
		if r.InRing != nil && *r.InRing {
			status = classes.StatusInProgress
		}
		out = append(out, classes.ClassRecord{
			ID:          r.ID,
			Element:     normalizeElement(firstNonEmpty(r.ElementType, r.Element)),
			Level:       orDefault(firstNonEmpty(r.LevelName, r.Level), "Unknown"),
			Section:     r.Section,
			JudgeName:   orDefault(firstNonEmpty(r.JudgeName, r.Judge), DefaultJudge),
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

func (ViewAdapter) TransformEntries(raw []RawEntryRecord) []entries.CompetitorEntry {
	out := make([]entries.CompetitorEntry, 0, len(raw))
	for _, r := range raw {
		status := runStatusFromText(r.StatusText)
		if r.InRing != nil && *r.InRing {
			status = entries.StatusInRing
		}
		placement := 0
		if r.Placement != nil && *r.Placement > 0 {
			placement = *r.Placement
		}
		element := normalizeElement(firstNonEmpty(r.ElementType, r.Element))
		level := orDefault(firstNonEmpty(r.LevelName, r.Level), "Unknown")
		out = append(out, entries.CompetitorEntry{
			ID:              r.ID,
			Armband:         r.Armband,
			CallName:        orDefault(firstNonEmpty(r.CallName, r.DogName), "Unknown"),
			Breed:           orDefault(firstNonEmpty(r.BreedName, r.Breed), DefaultBreed),
			HandlerName:     orDefault(firstNonEmpty(r.HandlerName, r.Handler), DefaultHandler),
			HandlerLocation: r.HandlerLocation,
			Element:         element,
			Level:           level,
			Section:         r.Section,
			TrialDate:       r.TrialDate,
			TrialNumber:     r.TrialNumber,
			GroupKey:        domain.NewGroupKey(r.TrialDate, r.TrialNumber, element, level, r.Section),
			RunStatus:       status,
			Score:           firstNonEmpty(r.ResultText, r.Score),
			Placement:       placement,
			ElapsedTime:     firstNonEmpty(r.SearchTime, r.TimeText),
			CheckIn:         checkInFromText(firstNonEmpty(r.CheckinStatus, r.Checkin)),
			RunOrder:        r.RunOrder,
		})
	}
	return out
}
