package bus

import (
	"context"
	"time"
)

type EventKind string

const (
	KindCreated   EventKind = "job.created"
	KindCompleted EventKind = "job.completed"
	KindFailed    EventKind = "job.failed"
	KindReaped    EventKind = "job.reaped"
)

// JobEvent is one job transition as seen by subscribers.
type JobEvent struct {
	JobID   string    `json:"jobId"`
	JobType string    `json:"jobType,omitempty"`
	Kind    EventKind `json:"kind"`
	Status  string    `json:"status"`
	Score   *float64  `json:"score,omitempty"`
	TraceID string    `json:"traceId,omitempty"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

type Bus interface {
	Publish(ctx context.Context, ev JobEvent) error
	StartForwarder(ctx context.Context, onEvent func(ev JobEvent)) error
	Close() error
}
