package grade_submission

import (
	"time"

	repos "github.com/nala-edu/ai-grader/internal/data/repos/grading"
	"github.com/nala-edu/ai-grader/internal/modules/grading/courses"
	"github.com/nala-edu/ai-grader/internal/modules/grading/gateway"
	"github.com/nala-edu/ai-grader/internal/modules/grading/identity"
	"github.com/nala-edu/ai-grader/internal/modules/grading/vision"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

const JobType = "grade_submission"

const (
	// VisionBonus is awarded when a detected object matches a course keyword.
	VisionBonus = 5
	MaxScore    = 10
	// AttemptCorrectThreshold marks an attempt correct for analytics. It is
	// looser than the grader's own isCorrect flag and must stay separate.
	AttemptCorrectThreshold = 8

	FeedbackNoAnswer = "No answer provided."
	FeedbackDefault  = "Grading complete."
)

type Deps struct {
	Repo    repos.Repository
	Hasher  *identity.Hasher
	Vision  *vision.Analyzer
	Gateway *gateway.Gateway
	Courses *courses.Registry
	// Now defaults to time.Now.
	Now func() time.Time
}

type Pipeline struct {
	log     *logger.Logger
	repo    repos.Repository
	hasher  *identity.Hasher
	vision  *vision.Analyzer
	gateway *gateway.Gateway
	courses *courses.Registry
	now     func() time.Time
}

func New(baseLog *logger.Logger, deps Deps) *Pipeline {
	if deps.Hasher == nil {
		deps.Hasher = identity.NewHasher(identity.DefaultSalt)
	}
	if deps.Courses == nil {
		deps.Courses = courses.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{
		log:     baseLog.With("job", JobType),
		repo:    deps.Repo,
		hasher:  deps.Hasher,
		vision:  deps.Vision,
		gateway: deps.Gateway,
		courses: deps.Courses,
		now:     deps.Now,
	}
}

func (p *Pipeline) Type() string { return JobType }
