package grading

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/platform/dbctx"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

type sqlRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSQLRepo(db *gorm.DB, baseLog *logger.Logger) Repository {
	return &sqlRepo{
		db:  db,
		log: baseLog.With("repo", "GradingSQLRepo"),
	}
}

func (r *sqlRepo) SaveGradingRecord(dbc dbctx.Context, rec *types.GradingRecord) (string, error) {
	if rec == nil {
		return "", errors.New("nil grading record")
	}
	if strings.TrimSpace(rec.ID) == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if err := dbc.DB(r.db).Create(rec).Error; err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (r *sqlRepo) SaveAttempt(dbc dbctx.Context, attempt *types.QuestionAttempt) error {
	if attempt == nil || strings.TrimSpace(attempt.QuestionID) == "" {
		return errors.New("attempt requires a question id")
	}
	now := time.Now().UTC()
	row := *attempt
	row.AttemptCount = 1
	row.LastAttemptedAt = now

	table := types.QuestionAttempt{}.TableName()
	return dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_code"}, {Name: "question_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"attempt_count":     gorm.Expr(table + ".attempt_count + 1"),
			"is_correct":        row.IsCorrect,
			"set_id":            row.SetID,
			"last_attempted_at": now,
		}),
	}).Create(&row).Error
}

func (r *sqlRepo) GetGradingRecord(dbc dbctx.Context, id string) (*types.GradingRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var rec types.GradingRecord
	err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&rec).Error
	if err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, nil
	}
	return &rec, nil
}

func (r *sqlRepo) ListAttempts(dbc dbctx.Context, userID, courseCode string) ([]*types.QuestionAttempt, error) {
	var out []*types.QuestionAttempt
	err := dbc.DB(r.db).
		Where("user_id = ? AND course_code = ?", userID, courseCode).
		Order("last_attempted_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
