package grading

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	types "github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/platform/dbctx"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

// memoryRepo keeps everything in process memory. Used when no database is
// configured; contents are lost on restart.
type memoryRepo struct {
	log *logger.Logger

	mu       sync.RWMutex
	records  map[string]types.GradingRecord
	attempts map[attemptKey]types.QuestionAttempt
}

type attemptKey struct {
	userID, courseCode, questionID string
}

func NewMemoryRepo(baseLog *logger.Logger) Repository {
	return &memoryRepo{
		log:      baseLog.With("repo", "GradingMemoryRepo"),
		records:  map[string]types.GradingRecord{},
		attempts: map[attemptKey]types.QuestionAttempt{},
	}
}

func (r *memoryRepo) SaveGradingRecord(_ dbctx.Context, rec *types.GradingRecord) (string, error) {
	if rec == nil {
		return "", errors.New("nil grading record")
	}
	if strings.TrimSpace(rec.ID) == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[rec.ID]; exists {
		return "", errors.New("grading record already exists")
	}
	r.records[rec.ID] = cloneRecord(*rec)
	return rec.ID, nil
}

func (r *memoryRepo) SaveAttempt(_ dbctx.Context, attempt *types.QuestionAttempt) error {
	if attempt == nil || strings.TrimSpace(attempt.QuestionID) == "" {
		return errors.New("attempt requires a question id")
	}
	key := attemptKey{attempt.UserID, attempt.CourseCode, attempt.QuestionID}
	now := time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.attempts[key]
	if !ok {
		row = *attempt
		row.AttemptCount = 0
	}
	row.AttemptCount++
	row.IsCorrect = attempt.IsCorrect
	row.SetID = attempt.SetID
	row.LastAttemptedAt = now
	r.attempts[key] = row
	return nil
}

func (r *memoryRepo) GetGradingRecord(_ dbctx.Context, id string) (*types.GradingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	out := cloneRecord(rec)
	return &out, nil
}

func (r *memoryRepo) ListAttempts(_ dbctx.Context, userID, courseCode string) ([]*types.QuestionAttempt, error) {
	r.mu.RLock()
	out := make([]*types.QuestionAttempt, 0)
	for k, v := range r.attempts {
		if k.userID == userID && k.courseCode == courseCode {
			row := v
			out = append(out, &row)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].LastAttemptedAt.After(out[j].LastAttemptedAt) })
	return out, nil
}

func cloneRecord(rec types.GradingRecord) types.GradingRecord {
	rec.InputBundle = append([]byte(nil), rec.InputBundle...)
	rec.GradingTrace = append([]byte(nil), rec.GradingTrace...)
	return rec
}
