package grading

import (
	types "github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/platform/dbctx"
)

// Repository persists grading traces and attempt analytics. Traces are
// append-only; attempts are upserted per (user, course, question).
type Repository interface {
	SaveGradingRecord(dbc dbctx.Context, rec *types.GradingRecord) (string, error)
	SaveAttempt(dbc dbctx.Context, attempt *types.QuestionAttempt) error
	// GetGradingRecord returns nil, nil when id is unknown.
	GetGradingRecord(dbc dbctx.Context, id string) (*types.GradingRecord, error)
	ListAttempts(dbc dbctx.Context, userID, courseCode string) ([]*types.QuestionAttempt, error)
}
