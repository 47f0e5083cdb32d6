package transform

// RawClassRecord is one class row as delivered by the remote store, before
// normalization. Fields cover the union of the legacy flat table and the
// reporting-view columns; whichever path produced the row fills its own set
// and leaves the rest zero. Records are discarded after each transform cycle.
type RawClassRecord struct {
	// Shared
	ID          string
	Section     string
	TrialDate   string
	TrialNumber int
	StartTime   string
	RunOrder    int

	// Legacy flat schema
	Element        string
	Level          string
	Judge          string
	EntryTotal     *int
	EntryCompleted *int
	EntryPending   *int
	InRing         *bool

	// Normalized view schema
	ElementType    string
	LevelName      string
	JudgeName      string
	TotalCount     *int
	CompletedCount *int
	PendingCount   *int
	StatusText     string
}

// RawEntryRecord is one entry row as delivered by the remote store.
type RawEntryRecord struct {
	// Shared
	ID          string
	Armband     string
	Section     string
	TrialDate   string
	TrialNumber int
	RunOrder    int
	Placement   *int

	// Legacy flat schema
	DogName   string
	Breed     string
	Handler   string
	Element   string
	Level     string
	InRing    *bool
	Completed *bool
	Score     string
	TimeText  string
	Checkin   string

	// Normalized view schema
	CallName        string
	BreedName       string
	HandlerName     string
	HandlerLocation string
	ElementType     string
	LevelName       string
	StatusText      string
	ResultText      string
	SearchTime      string
	CheckinStatus   string
}
