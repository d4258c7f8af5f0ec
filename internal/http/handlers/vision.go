package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/http/response"
)

type ImageDescriber interface {
	Describe(ctx context.Context, att grading.Attachment) string
}

type VisionHandler struct {
	describer ImageDescriber
}

func NewVisionHandler(d ImageDescriber) *VisionHandler {
	return &VisionHandler{describer: d}
}

type describeRequest struct {
	Image    string `json:"image" binding:"required"`
	MimeType string `json:"mimeType"`
}

// POST /api/describe-image
func (h *VisionHandler) DescribeImage(c *gin.Context) {
	var req describeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	mime := strings.TrimSpace(req.MimeType)
	if mime == "" {
		mime = "image/png"
	}
	desc := h.describer.Describe(c.Request.Context(), grading.Attachment{
		Name:     "image",
		MimeType: mime,
		Content:  req.Image,
	})
	response.RespondOK(c, gin.H{"description": desc})
}
