package runstore

import "time"

// Status tracks a pipeline run through its stages.
type Status string

const (
	StatusPending      Status = "pending"
	StatusFetching     Status = "fetching"
	StatusTranscribing Status = "transcribing"
	StatusExtracting   Status = "extracting"
	StatusAnalyzing    Status = "analyzing"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

// Terminal reports whether the status is a final state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Run is one pipeline run record.
type Run struct {
	ID               string
	VideoID          string
	ReferenceURL     string
	Status           Status
	OutputDir        string
	ErrorMessage     string
	DegradationNotes []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
