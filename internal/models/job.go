package models

// JobStatus is the remote status of an ingestion job.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// JobStatusUpdate is the patch sent to the core service for a job.
type JobStatusUpdate struct {
	Status       JobStatus `json:"status"`
	Summary      *string   `json:"summary"`
	ErrorDetails *string   `json:"errorDetails"`
}
