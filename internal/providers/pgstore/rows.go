package pgstore

import "ringboard-service/internal/transform"

// trialRow is one row of the trials table, used to stamp fallback records
// with the trial identity the base tables normalize away.
type trialRow struct {
	ID          string
	TrialDate   string
	TrialNumber int
}

// classRow is one row of the classes base table.
type classRow struct {
	ID             string
	TrialID        string
	Element        string
	Level          string
	Section        string
	JudgeName      string
	RunOrder       int
	StartTime      string
	EntryTotal     int
	EntryCompleted int
	InRing         bool
}

// entryRow is one row of entries joined to its result.
type entryRow struct {
	ID            string
	TrialID       string
	Armband       string
	CallName      string
	Breed         string
	HandlerName   string
	HandlerCity   string
	Element       string
	Level         string
	Section       string
	RunOrder      int
	CheckinStatus string
	InRing        bool
	ResultText    string
	SearchTime    string
	Placement     int
	IsScored      bool
}

// classRawFromFallback reshapes a base-table class row into the view-shaped
// raw record the primary path produces, so the transformer accepts either
// path's output unchanged.
func classRawFromFallback(row classRow, trial trialRow) transform.RawClassRecord {
	total := row.EntryTotal
	completed := row.EntryCompleted
	status := "scheduled"
	switch {
	case row.InRing:
		status = "in_progress"
	case total > 0 && completed >= total:
		status = "completed"
	case completed > 0:
		status = "in_progress"
	}
	return transform.RawClassRecord{
		ID:             row.ID,
		ElementType:    row.Element,
		LevelName:      row.Level,
		Section:        row.Section,
		JudgeName:      row.JudgeName,
		TrialDate:      trial.TrialDate,
		TrialNumber:    trial.TrialNumber,
		RunOrder:       row.RunOrder,
		StartTime:      row.StartTime,
		TotalCount:     &total,
		CompletedCount: &completed,
		StatusText:     status,
	}
}

func entryRawFromFallback(row entryRow, trial trialRow) transform.RawEntryRecord {
	status := "waiting"
	switch {
	case row.InRing:
		status = "in_ring"
	case row.IsScored:
		status = "completed"
	}
	placement := row.Placement
	return transform.RawEntryRecord{
		ID:              row.ID,
		Armband:         row.Armband,
		CallName:        row.CallName,
		BreedName:       row.Breed,
		HandlerName:     row.HandlerName,
		HandlerLocation: row.HandlerCity,
		ElementType:     row.Element,
		LevelName:       row.Level,
		Section:         row.Section,
		TrialDate:       trial.TrialDate,
		TrialNumber:     trial.TrialNumber,
		RunOrder:        row.RunOrder,
		StatusText:      status,
		ResultText:      row.ResultText,
		SearchTime:      row.SearchTime,
		Placement:       &placement,
		CheckinStatus:   row.CheckinStatus,
	}
}
