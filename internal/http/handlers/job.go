package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/http/response"
)

type JobHandler struct {
	jobs JobStore
}

func NewJobHandler(jobs JobStore) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type jobView struct {
	JobID       string             `json:"jobId"`
	Status      grading.JobStatus  `json:"status"`
	Result      *grading.JobResult `json:"result,omitempty"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	CompletedAt *time.Time         `json:"completedAt,omitempty"`
	FailedAt    *time.Time         `json:"failedAt,omitempty"`
}

// GET /api/jobs/:jobId
func (h *JobHandler) GetJob(c *gin.Context) {
	job, ok := h.jobs.Get(strings.TrimSpace(c.Param("jobId")))
	if !ok {
		// Pollers match on this exact body.
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	response.RespondOK(c, jobView{
		JobID:       job.ID,
		Status:      job.Status,
		Result:      job.Result,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
		FailedAt:    job.FailedAt,
	})
}
