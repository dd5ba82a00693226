// Package jobs defines the async document-processing job model and the
// queue abstractions it travels through. The interfaces allow swapping the
// in-memory queue for Cloud Tasks or Pub/Sub later without touching
// handlers.
package jobs

import (
	"context"
	"time"

	"github.com/nvelusamy/deed-translator/internal/pipeline"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// ProcessDocumentJob asks the worker to run the processing pipeline for
// one stored document.
type ProcessDocumentJob struct {
	JobID string `json:"job_id"`

	DocumentID  string `json:"document_id"`
	StoragePath string `json:"storage_path"`

	// Filter narrows extracted records before they are persisted.
	Filter pipeline.RecordFilter `json:"filter,omitempty"`

	Status JobStatus `json:"status"`

	// Result is the pipeline summary, set once the job completes.
	Result *pipeline.Result `json:"result,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error holds failure detail when Status is failed. Pipeline failures
	// are terminal; the queue does not retry them.
	Error string `json:"error,omitempty"`
}

// Publisher enqueues document-processing jobs.
type Publisher interface {
	PublishProcessDocument(ctx context.Context, job *ProcessDocumentJob) error
	Close() error
}

// JobHandler processes a single job. A returned error marks the job
// failed.
type JobHandler func(ctx context.Context, job *ProcessDocumentJob) error

// Consumer drains the queue with a handler.
type Consumer interface {
	Start(ctx context.Context, handler JobHandler) error
	Stop(ctx context.Context) error
}

// JobStore tracks job state so HTTP callers can poll progress.
type JobStore interface {
	SaveJob(ctx context.Context, job *ProcessDocumentJob) error
	GetJob(ctx context.Context, jobID string) (*ProcessDocumentJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*ProcessDocumentJob, error)
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	DocumentID string
	Status     JobStatus
	Limit      int
	Offset     int
}
