package app

import (
	httpH "github.com/nala-edu/ai-grader/internal/http/handlers"
	"github.com/nala-edu/ai-grader/internal/jobs/pipeline/grade_submission"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Grading *httpH.GradingHandler
	Job     *httpH.JobHandler
	Trace   *httpH.TraceHandler
	Vision  *httpH.VisionHandler
}

func wireHandlers(log *logger.Logger, services Services, reposet Repos) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(),
		Grading: httpH.NewGradingHandler(log, services.Jobs, services.Dispatcher, grade_submission.JobType),
		Job:     httpH.NewJobHandler(services.Jobs),
		Trace:   httpH.NewTraceHandler(reposet.Grading),
		Vision:  httpH.NewVisionHandler(services.Describer),
	}
}
