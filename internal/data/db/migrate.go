package db

import (
	"gorm.io/gorm"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&grading.GradingRecord{},
		&grading.QuestionAttempt{},
	)
}
