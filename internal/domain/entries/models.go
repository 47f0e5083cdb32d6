package entries

import "ringboard-service/internal/domain"

// RunStatus mirrors the shared contract for a dog's run lifecycle.
type RunStatus string

const (
	StatusWaiting   RunStatus = "waiting"
	StatusInRing    RunStatus = "in_ring"
	StatusCompleted RunStatus = "completed"
)

// CheckInState reflects the gate steward's check-in board.
type CheckInState string

const (
	CheckInNone      CheckInState = "none"
	CheckInCheckedIn CheckInState = "checked_in"
	CheckInConflict  CheckInState = "conflict"
	CheckInPulled    CheckInState = "pulled"
	CheckInAtGate    CheckInState = "at_gate"
)

// CompetitorEntry is the canonical per-dog row exposed by the service.
// Element, Level, Section, TrialDate and TrialNumber are the raw class
// identifiers the entry arrived with; GroupKey is derived from them with the
// same combinability rule used to merge classes, which is the only link
// between an entry and its merged class.
type CompetitorEntry struct {
	ID              string          `json:"id"`
	Armband         string          `json:"armband"`
	CallName        string          `json:"callName"`
	Breed           string          `json:"breed"`
	HandlerName     string          `json:"handlerName"`
	HandlerLocation string          `json:"handlerLocation,omitempty"`
	Element         string          `json:"element"`
	Level           string          `json:"level"`
	Section         string          `json:"section"`
	TrialDate       string          `json:"trialDate"`
	TrialNumber     int             `json:"trialNumber"`
	GroupKey        domain.GroupKey `json:"-"`
	RunStatus       RunStatus       `json:"runStatus"`
	Score           string          `json:"score,omitempty"`
	Placement       int             `json:"placement,omitempty"`
	ElapsedTime     string          `json:"elapsedTime,omitempty"`
	CheckIn         CheckInState    `json:"checkInState"`
	RunOrder        int             `json:"runOrder"`
}
