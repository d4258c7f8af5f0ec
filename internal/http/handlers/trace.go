package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	repos "github.com/nala-edu/ai-grader/internal/data/repos/grading"
	"github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/http/response"
	"github.com/nala-edu/ai-grader/internal/platform/dbctx"
)

type TraceHandler struct {
	repo repos.Repository
}

func NewTraceHandler(repo repos.Repository) *TraceHandler {
	return &TraceHandler{repo: repo}
}

type traceView struct {
	*grading.GradingRecord
	Trace *grading.Trace `json:"trace,omitempty"`
}

// GET /api/traces/:id
func (h *TraceHandler) GetTrace(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	rec, err := h.repo.GetGradingRecord(dbctx.Of(c.Request.Context()), id)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "trace_lookup_failed", err)
		return
	}
	if rec == nil {
		response.RespondError(c, http.StatusNotFound, "trace_not_found", errors.New("trace not found"))
		return
	}
	view := traceView{GradingRecord: rec}
	if len(rec.GradingTrace) > 0 {
		var tr grading.Trace
		if err := json.Unmarshal(rec.GradingTrace, &tr); err == nil {
			view.Trace = &tr
		}
	}
	response.RespondOK(c, view)
}

// GET /api/attempts/:courseCode/:userId
func (h *TraceHandler) ListAttempts(c *gin.Context) {
	course := strings.TrimSpace(c.Param("courseCode"))
	user := strings.TrimSpace(c.Param("userId"))
	rows, err := h.repo.ListAttempts(dbctx.Of(c.Request.Context()), user, course)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "attempt_lookup_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"attempts": rows})
}
