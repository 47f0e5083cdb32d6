package transform

import (
	"strings"

	"ringboard-service/internal/domain/classes"
	"ringboard-service/internal/domain/entries"
)

// Documented defaults for absent optional fields. Substitution is silent;
// a missing field is not an error.
const (
	DefaultJudge   = "TBD"
	DefaultBreed   = "Mixed Breed"
	DefaultHandler = "Unknown Handler"
)

// SchemaAdapter normalizes one raw source schema into canonical records.
// Adapters are pure and total: every raw field is optional-safe, a malformed
// row maps to a best-effort partial record rather than being dropped, and the
// output length always equals the input length so downstream counts agree
// with the raw row count.
type SchemaAdapter interface {
	Name() string
	TransformClasses(raw []RawClassRecord) []classes.ClassRecord
	TransformEntries(raw []RawEntryRecord) []entries.CompetitorEntry
}

// ForSchema selects the adapter for a configured source schema name.
// Unrecognized names fall back to the view adapter, the current default.
func ForSchema(name string) SchemaAdapter {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "flat", "legacy":
		return FlatAdapter{}
	default:
		return ViewAdapter{}
	}
}

func orDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// normalizeCounts enforces completed <= total and derives pending when the
// source did not report it directly.
func normalizeCounts(total, completed int, pending *int) (int, int, int) {
	if total < 0 {
		total = 0
	}
	if completed < 0 {
		completed = 0
	}
	if completed > total {
		completed = total
	}
	if pending != nil && *pending >= 0 {
		return total, completed, *pending
	}
	return total, completed, total - completed
}

// knownElements guards the element field; anything else lands in the Unknown
// bucket so the row still participates in counts.
var knownElements = map[string]string{
	"container":              "Container",
	"interior":               "Interior",
	"exterior":               "Exterior",
	"buried":                 "Buried",
	"handler discrimination": "Handler Discrimination",
	"hd":                     "Handler Discrimination",
}

func normalizeElement(v string) string {
	if canonical, ok := knownElements[strings.ToLower(strings.TrimSpace(v))]; ok {
		return canonical
	}
	return classes.ElementUnknown
}

// classStatus resolves a class row's status. Explicit status text wins; a
// row without one is judged by its counts, so a partially run class reads as
// in progress rather than scheduled.
func classStatus(text string, total, completed int) classes.GroupStatus {
	if strings.TrimSpace(text) != "" {
		return classStatusFromText(text)
	}
	return classStatusFromCounts(total, completed)
}

func classStatusFromCounts(total, completed int) classes.GroupStatus {
	switch {
	case total > 0 && completed >= total:
		return classes.StatusCompleted
	case completed > 0:
		return classes.StatusInProgress
	default:
		return classes.StatusScheduled
	}
}

func classStatusFromText(text string) classes.GroupStatus {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "in_progress", "in progress", "running", "briefing":
		return classes.StatusInProgress
	case "completed", "complete", "done", "final":
		return classes.StatusCompleted
	default:
		return classes.StatusScheduled
	}
}

func runStatusFromText(text string) entries.RunStatus {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "in_ring", "in ring", "running":
		return entries.StatusInRing
	case "completed", "complete", "done", "scored":
		return entries.StatusCompleted
	default:
		return entries.StatusWaiting
	}
}

func checkInFromText(text string) entries.CheckInState {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "checked_in", "checked in", "checked-in", "1":
		return entries.CheckInCheckedIn
	case "conflict", "2":
		return entries.CheckInConflict
	case "pulled", "3":
		return entries.CheckInPulled
	case "at_gate", "at gate", "4":
		return entries.CheckInAtGate
	default:
		return entries.CheckInNone
	}
}
