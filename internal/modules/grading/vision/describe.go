package vision

import (
	"context"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/modules/grading/gateway"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

const (
	describePrompt = "Extract all text and mathematical expressions from this image into LaTeX format. " +
		"If it is a diagram, describe it concisely. " +
		"Output ONLY the raw text/LaTeX content, no markdown formatting."

	DescribeUnavailable = "Image description unavailable (No API Key)."
	DescribeFailed      = "Error analyzing image."
)

// Describer turns an image into LaTeX-friendly text for the question editor.
type Describer struct {
	log *logger.Logger
	gw  *gateway.Gateway
}

func NewDescriber(log *logger.Logger, gw *gateway.Gateway) *Describer {
	return &Describer{log: log.With("component", "ImageDescriber"), gw: gw}
}

// Describe never fails; problems are reported in the returned text.
func (d *Describer) Describe(ctx context.Context, att grading.Attachment) string {
	if !d.gw.Available() {
		return DescribeUnavailable
	}
	text, err := d.gw.GenerateText(ctx, describePrompt, []grading.Attachment{att})
	if err != nil {
		d.log.Warn("describe image failed", "error", err)
		return DescribeFailed
	}
	return gateway.StripFences(text)
}
