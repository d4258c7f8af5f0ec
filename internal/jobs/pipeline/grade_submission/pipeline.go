package grade_submission

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
	jobrt "github.com/nala-edu/ai-grader/internal/jobs/runtime"
	"github.com/nala-edu/ai-grader/internal/modules/grading/courses"
	"github.com/nala-edu/ai-grader/internal/modules/grading/fallback"
	"github.com/nala-edu/ai-grader/internal/modules/grading/gateway"
	"github.com/nala-edu/ai-grader/internal/observability"
	"github.com/nala-edu/ai-grader/internal/platform/dbctx"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

const (
	stageVision  = "vision"
	stageAnswer  = "answer"
	stagePersist = "persist"
)

// run holds the state of one grading pass. Nothing in it is persisted until
// the trace write.
type run struct {
	jobID   string
	sub     grading.Submission
	profile courses.Profile
	udi     string
	score   float64
	feed    string
	method  grading.Method
	trace   *grading.Trace
	log     *logger.Logger
}

func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil {
		return nil
	}
	ctx, span := observability.Tracer().Start(jc.Ctx, "grade_submission.run",
		trace.WithAttributes(attribute.String("job.id", jc.Job.ID)))
	defer span.End()

	res, stage, err := p.Grade(ctx, jc.Job.ID, jc.Payload())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.log.Error("grading job failed", "job_id", jc.Job.ID, "stage", stage, "error", err)
		jc.Fail(stage, err)
		return nil
	}
	span.SetAttributes(attribute.Float64("grading.score", res.Score))
	jc.Succeed(res)
	return nil
}

// Grade runs every stage for one submission and persists the trace. A non-nil
// error carries the stage it escaped from; vision and gateway failures never
// escape.
func (p *Pipeline) Grade(ctx context.Context, jobID string, payload grading.Submission) (grading.JobResult, string, error) {
	sub := payload.WithDefaults()
	r := &run{
		jobID:   jobID,
		sub:     sub,
		profile: p.courses.Lookup(sub.CourseCode),
		udi:     p.hasher.Hash(sub.UserID, sub.CourseCode, sub.AcademicYear, sub.Semester),
		feed:    FeedbackDefault,
		trace:   grading.NewTrace(),
		log:     p.log.With("job_id", jobID, "course_code", sub.CourseCode),
	}

	switch {
	case !sub.HasFile() && !sub.HasAnswer():
		r.score = 0
		r.feed = FeedbackNoAnswer
		r.method = grading.MethodFallbackEmpty
		r.trace.GradingMethod = r.method
	default:
		if sub.HasFile() {
			p.visionStage(ctx, r)
		}
		if sub.HasAnswer() {
			p.answerStage(ctx, r)
		} else {
			r.method = grading.MethodVisionOnly
			r.trace.GradingMethod = r.method
		}
	}

	r.score = clamp(r.score, 0, MaxScore)
	observability.Current().IncGradingMethod(r.profile.Code, string(r.method))

	traceID, err := p.persist(ctx, r)
	if err != nil {
		return grading.JobResult{}, stagePersist, err
	}
	p.recordAttempt(ctx, r)

	r.log.Info("grading complete", "trace_id", traceID, "score", r.score, "method", string(r.method))
	return grading.JobResult{
		Score:    r.score,
		MaxScore: MaxScore,
		Feedback: r.feed,
		TraceID:  traceID,
	}, "", nil
}

func (p *Pipeline) visionStage(ctx context.Context, r *run) {
	ctx, span := observability.Tracer().Start(ctx, "grade_submission.vision")
	defer span.End()
	start := time.Now()

	r.trace.Step("Detected File: " + r.sub.File.Name)
	if p.vision == nil {
		r.trace.Step("Vision Analysis Failed.")
		observability.Current().ObserveStage(stageVision, "skipped", time.Since(start))
		return
	}
	desc, err := p.vision.Analyze(ctx, *r.sub.File)
	if err != nil {
		span.RecordError(err)
		r.log.Warn("vision analysis failed", "file", r.sub.File.Name, "error", err)
		r.trace.Step("Vision Analysis Failed.")
		observability.Current().ObserveStage(stageVision, "error", time.Since(start))
		return
	}

	r.trace.VisionAnalysis = desc.AsMap()
	r.trace.Step(fmt.Sprintf("Vision Analysis Complete: Detected %d objects.", len(desc.Objects)))
	if r.profile.MatchesVision(desc.Objects) {
		r.score += VisionBonus
		r.trace.Step(fmt.Sprintf("Circuit diagram validated (+%d pts).", VisionBonus))
	}
	span.SetAttributes(attribute.Int("vision.objects", len(desc.Objects)), attribute.String("vision.source", desc.Source))
	observability.Current().ObserveStage(stageVision, "ok", time.Since(start))
}

func (p *Pipeline) answerStage(ctx context.Context, r *run) {
	ctx, span := observability.Tracer().Start(ctx, "grade_submission.answer")
	defer span.End()
	start := time.Now()

	ref := r.sub.ReferenceAnswer()
	r.trace.Step("Invoking AI Grader...")

	grade, err := p.gateway.GradeAnswer(ctx, gateway.GradeRequest{
		Persona:         r.profile.Persona,
		QuestionText:    r.sub.QuestionText,
		Context:         r.sub.Context,
		Hint:            r.sub.Hint,
		Rubric:          r.sub.Rubric,
		ReferenceAnswer: ref,
		StudentAnswer:   r.sub.StudentAnswer,
	})
	status := "ok"
	if err != nil {
		reason := gateway.Reason(err)
		r.trace.FallbackReason = reason
		if reason != grading.FallbackGatewayUnavailable {
			span.RecordError(err)
			r.log.Warn("gateway grading failed, using fallback", "reason", string(reason), "error", err)
		}
		grade = fallback.New(r.profile.PartialKeywords).Grade(r.sub.StudentAnswer, ref)
		status = "fallback"
	}

	r.score += grade.Score
	r.feed = grade.Feedback
	r.method = grade.Method
	r.trace.AIGrade = grade.AsMap()
	r.trace.GradingMethod = grade.Method
	r.trace.Step(fmt.Sprintf("Grading Method: %s. Score: %s/%d", grade.Method, formatScore(grade.Score), MaxScore))

	span.SetAttributes(attribute.String("grading.method", string(grade.Method)))
	observability.Current().ObserveStage(stageAnswer, status, time.Since(start))
}

func (p *Pipeline) persist(ctx context.Context, r *run) (string, error) {
	ctx, span := observability.Tracer().Start(ctx, "grade_submission.persist")
	defer span.End()
	start := time.Now()

	if p.repo == nil {
		observability.Current().ObserveStage(stagePersist, "error", time.Since(start))
		return "", fmt.Errorf("trace repository not configured")
	}
	bundle, err := json.Marshal(r.sub)
	if err != nil {
		return "", fmt.Errorf("encode input bundle: %w", err)
	}
	steps, err := json.Marshal(r.trace)
	if err != nil {
		return "", fmt.Errorf("encode grading trace: %w", err)
	}

	rec := &grading.GradingRecord{
		ID:                  uuid.New().String(),
		UDI:                 r.udi,
		UserID:              r.sub.UserID,
		CourseCode:          r.sub.CourseCode,
		AcademicYear:        r.sub.AcademicYear,
		Semester:            r.sub.Semester,
		QuestionID:          r.sub.QuestionID,
		QuestionVersionUUID: r.sub.QuestionVersionUUID,
		SetID:               r.sub.SetID,
		InputBundle:         datatypes.JSON(bundle),
		Score:               r.score,
		MaxScore:            MaxScore,
		GradingMethod:       r.method,
		GradingTrace:        datatypes.JSON(steps),
		CreatedAt:           p.now().UTC(),
	}
	id, err := p.repo.SaveGradingRecord(dbctx.Of(ctx), rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		observability.Current().ObserveStage(stagePersist, "error", time.Since(start))
		return "", fmt.Errorf("save grading record: %w", err)
	}
	observability.Current().ObserveStage(stagePersist, "ok", time.Since(start))
	return id, nil
}

// recordAttempt is best effort; failures are only logged.
func (p *Pipeline) recordAttempt(ctx context.Context, r *run) {
	if strings.TrimSpace(r.sub.QuestionID) == "" {
		return
	}
	err := p.repo.SaveAttempt(dbctx.Of(ctx), &grading.QuestionAttempt{
		UserID:          r.sub.UserID,
		CourseCode:      r.sub.CourseCode,
		QuestionID:      r.sub.QuestionID,
		SetID:           r.sub.SetID,
		AttemptCount:    1,
		IsCorrect:       r.score >= AttemptCorrectThreshold,
		LastAttemptedAt: p.now().UTC(),
	})
	if err != nil {
		r.log.Warn("save attempt failed", "question_id", r.sub.QuestionID, "error", err)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func formatScore(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}
