// Package gateway is the single choke point for calls to the generation
// service. Every prompt is scrubbed before it leaves the process.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
	"github.com/nala-edu/ai-grader/internal/platform/openai"
)

type Gateway struct {
	log     *logger.Logger
	client  openai.Client
	timeout time.Duration
}

// New wraps client. A nil client yields a gateway whose calls all fail with
// ErrNotConfigured.
func New(log *logger.Logger, client openai.Client, timeout time.Duration) *Gateway {
	return &Gateway{
		log:     log.With("component", "Gateway"),
		client:  client,
		timeout: timeout,
	}
}

func (g *Gateway) Available() bool {
	return g != nil && g.client != nil
}

// GenerateText scrubs prompt and sends it with any attachments. Attachments
// that cannot be decoded are skipped.
func (g *Gateway) GenerateText(ctx context.Context, prompt string, attachments []grading.Attachment) (string, error) {
	if !g.Available() {
		return "", &GatewayError{Op: "generate", Err: ErrNotConfigured}
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	safe := Scrub(prompt)
	images := make([]openai.ImageInput, 0, len(attachments))
	for _, a := range attachments {
		url, err := a.DataURL()
		if err != nil {
			g.log.Warn("skipping undecodable attachment", "name", a.Name, "error", err)
			continue
		}
		images = append(images, openai.ImageInput{ImageURL: url})
	}

	var (
		text string
		err  error
	)
	if len(images) == 0 {
		text, err = g.client.GenerateText(ctx, "", safe)
	} else {
		text, err = g.client.GenerateTextWithImages(ctx, "", safe, images)
	}
	if err != nil {
		return "", &GatewayError{Op: "generate", Err: err}
	}
	return text, nil
}

// GenerateJSON is GenerateText followed by ExtractJSON. Extraction failures
// are *ParseError; transport failures stay *GatewayError.
func (g *Gateway) GenerateJSON(ctx context.Context, prompt string, attachments []grading.Attachment) (map[string]any, error) {
	text, err := g.GenerateText(ctx, prompt, attachments)
	if err != nil {
		return nil, err
	}
	obj, err := ExtractJSON(text)
	if err != nil {
		return nil, &ParseError{Raw: text, Err: err}
	}
	return obj, nil
}

// Reason classifies a gateway failure for the grading trace.
func Reason(err error) grading.FallbackReason {
	var pe *ParseError
	if errors.As(err, &pe) {
		return grading.FallbackParseError
	}
	if errors.Is(err, ErrNotConfigured) {
		return grading.FallbackGatewayUnavailable
	}
	return grading.FallbackGatewayError
}
