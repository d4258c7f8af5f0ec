package app

import (
	"fmt"
	"strings"

	"github.com/nala-edu/ai-grader/internal/data/db"
	repos "github.com/nala-edu/ai-grader/internal/data/repos/grading"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

type Repos struct {
	Grading repos.Repository
	// DB is nil when traces are kept in memory.
	DB *db.Service
}

func wireRepos(log *logger.Logger, cfg DatabaseConfig) (Repos, error) {
	log.Info("Wiring repos...")
	if strings.TrimSpace(cfg.URL) == "" {
		log.Warn("DATABASE_URL not set, grading traces are kept in memory")
		return Repos{Grading: repos.NewMemoryRepo(log)}, nil
	}
	svc, err := db.Open(cfg.URL, log, cfg.SlowThreshold)
	if err != nil {
		return Repos{}, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrateAll(svc.DB()); err != nil {
		_ = svc.Close()
		return Repos{}, fmt.Errorf("automigrate: %w", err)
	}
	return Repos{
		Grading: repos.NewSQLRepo(svc.DB(), log),
		DB:      svc,
	}, nil
}

func (r *Repos) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}
