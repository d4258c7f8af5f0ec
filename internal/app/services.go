package app

import (
	"fmt"

	"github.com/nala-edu/ai-grader/internal/jobs/manager"
	"github.com/nala-edu/ai-grader/internal/jobs/pipeline/grade_submission"
	jobrt "github.com/nala-edu/ai-grader/internal/jobs/runtime"
	"github.com/nala-edu/ai-grader/internal/jobs/worker"
	"github.com/nala-edu/ai-grader/internal/modules/grading/courses"
	"github.com/nala-edu/ai-grader/internal/modules/grading/gateway"
	"github.com/nala-edu/ai-grader/internal/modules/grading/identity"
	"github.com/nala-edu/ai-grader/internal/modules/grading/vision"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

type Services struct {
	Jobs       *manager.Manager
	Dispatcher *worker.Dispatcher
	Registry   *jobrt.Registry
	Gateway    *gateway.Gateway
	Vision     *vision.Analyzer
	Describer  *vision.Describer
	Courses    *courses.Registry
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	profiles, err := courses.Load(cfg.Grading.CourseProfilesPath)
	if err != nil {
		return Services{}, err
	}

	gw := gateway.New(log, clients.OpenAI, cfg.Gateway.Timeout)
	provider := vision.SelectProvider(log, cfg.Vision.Provider, gw, clients.GCPVision, nil)
	analyzer := vision.NewAnalyzer(log, provider)
	log.Info("vision provider selected", "provider", analyzer.Provider())

	jobs := manager.New(log, clients.Bus, manager.Options{
		Retention:    cfg.Grading.JobRetention,
		ReapInterval: cfg.Grading.ReapInterval,
	})

	registry := jobrt.NewRegistry()
	if err := registry.Register(grade_submission.New(log, grade_submission.Deps{
		Repo:    reposet.Grading,
		Hasher:  identity.NewHasher(cfg.Grading.UDISalt),
		Vision:  analyzer,
		Gateway: gw,
		Courses: profiles,
	})); err != nil {
		return Services{}, fmt.Errorf("register grading pipeline: %w", err)
	}

	return Services{
		Jobs:       jobs,
		Dispatcher: worker.NewDispatcher(log, registry, jobs),
		Registry:   registry,
		Gateway:    gw,
		Vision:     analyzer,
		Describer:  vision.NewDescriber(log, gw),
		Courses:    profiles,
	}, nil
}
