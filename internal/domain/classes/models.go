package classes

// GroupStatus mirrors the shared contract for class lifecycle states.
type GroupStatus string

const (
	StatusScheduled  GroupStatus = "scheduled"
	StatusInProgress GroupStatus = "in_progress"
	StatusCompleted  GroupStatus = "completed"
)

// ElementUnknown is the bucket for rows whose element type is not recognized.
// Such rows still count toward totals; undercounting is worse than an Unknown
// bucket on the board.
const ElementUnknown = "Unknown"

// ClassRecord is one canonical physical class row, pre-merge. Several records
// may describe sections of the same logical class.
type ClassRecord struct {
	ID          string      `json:"id"`
	Element     string      `json:"element"`
	Level       string      `json:"level"`
	Section     string      `json:"section"`
	JudgeName   string      `json:"judgeName"`
	TrialDate   string      `json:"trialDate"`
	TrialNumber int         `json:"trialNumber"`
	StartTime   string      `json:"startTime,omitempty"`
	Status      GroupStatus `json:"status"`
	Total       int         `json:"total"`
	Completed   int         `json:"completed"`
	Pending     int         `json:"pending"`
	Order       int         `json:"order"`
}

// ClassGroup is the merged logical class exposed by the service.
type ClassGroup struct {
	ID             string      `json:"id"`
	DisplayName    string      `json:"displayName"`
	Element        string      `json:"element"`
	Level          string      `json:"level"`
	JudgeName      string      `json:"judgeName"`
	Status         GroupStatus `json:"status"`
	TotalCount     int         `json:"totalCount"`
	CompletedCount int         `json:"completedCount"`
	PendingCount   int         `json:"pendingCount"`
	TrialDate      string      `json:"trialDate"`
	TrialNumber    int         `json:"trialNumber"`
	StartTime      string      `json:"startTime,omitempty"`
	Order          int         `json:"order"`
	MemberCount    int         `json:"memberCount"`
}
