package grading

import "time"

type JobStatus string

const (
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// JobResult is set only on completed jobs.
type JobResult struct {
	Score    float64 `json:"score"`
	MaxScore float64 `json:"maxScore"`
	Feedback string  `json:"feedback"`
	TraceID  string  `json:"traceId"`
}

// Job is a read-only snapshot of a tracked grading job.
type Job struct {
	ID          string     `json:"jobId"`
	Type        string     `json:"type"`
	Status      JobStatus  `json:"status"`
	Payload     Submission `json:"-"`
	Result      *JobResult `json:"result"`
	Error       string     `json:"error,omitempty"`
	RequestID   string     `json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	FailedAt    *time.Time `json:"failedAt,omitempty"`
}
