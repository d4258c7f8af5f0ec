package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/http/response"
	"github.com/nala-edu/ai-grader/internal/modules/grading/guardrails"
	"github.com/nala-edu/ai-grader/internal/observability"
	"github.com/nala-edu/ai-grader/internal/platform/apierr"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

// JobStore is the part of the job manager the boundary needs.
type JobStore interface {
	Create(ctx context.Context, jobType string, payload grading.Submission) string
	Get(id string) (grading.Job, bool)
}

type JobDispatcher interface {
	Submit(ctx context.Context, job grading.Job)
}

type GradingHandler struct {
	log      *logger.Logger
	jobs     JobStore
	dispatch JobDispatcher
	jobType  string
	validate *validator.Validate
}

func NewGradingHandler(log *logger.Logger, jobs JobStore, dispatch JobDispatcher, jobType string) *GradingHandler {
	return &GradingHandler{
		log:      log.With("handler", "GradingHandler"),
		jobs:     jobs,
		dispatch: dispatch,
		jobType:  jobType,
		validate: newValidator(),
	}
}

// POST /api/grade
func (h *GradingHandler) Submit(c *gin.Context) {
	var body map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "payload_too_large", err)
			return
		}
		response.RespondError(c, http.StatusBadRequest, "invalid_json", err)
		return
	}

	sub, err := decodeSubmission(h.validate, body)
	if err != nil {
		response.RespondAPIError(c, apierr.BadRequest("validation_error", err))
		return
	}
	if err := guardrails.CheckSubmission(sub); err != nil {
		reason := "rejected"
		var v *guardrails.Violation
		if errors.As(err, &v) {
			reason = v.Reason
		}
		observability.Current().IncGuardrailRejection(reason)
		h.log.Warn("submission rejected", "reason", reason, "course_code", sub.CourseCode)
		response.RespondError(c, http.StatusBadRequest, reason, err)
		return
	}

	id := h.jobs.Create(c.Request.Context(), h.jobType, sub)
	job, ok := h.jobs.Get(id)
	if !ok {
		response.RespondError(c, http.StatusInternalServerError, "job_lost", fmt.Errorf("job %s vanished after create", id))
		return
	}
	h.dispatch.Submit(c.Request.Context(), job)

	response.RespondAccepted(c, gin.H{
		"success": true,
		"jobId":   id,
		"status":  string(grading.JobProcessing),
		"message": "Grading job started.",
	})
}
