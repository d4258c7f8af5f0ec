package vision

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/modules/grading/gateway"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

const analyzePrompt = "Analyze this image. Identify if it is a circuit diagram. " +
	"List the components found (e.g. Resistor, Capacitor) and any text labels. " +
	"Format output as JSON with keys: detected_text, objects (array), diagram_type, confidence."

// GatewayProvider asks the generation service to describe the image. When the
// call fails it answers from Fallback instead.
type GatewayProvider struct {
	log      *logger.Logger
	gw       *gateway.Gateway
	fallback Provider
}

func NewGatewayProvider(log *logger.Logger, gw *gateway.Gateway, fallback Provider) *GatewayProvider {
	return &GatewayProvider{log: log.With("provider", "gateway"), gw: gw, fallback: fallback}
}

func (p *GatewayProvider) Name() string { return "gateway" }

func (p *GatewayProvider) Analyze(ctx context.Context, img Image) (Description, error) {
	obj, err := p.gw.GenerateJSON(ctx, analyzePrompt, []grading.Attachment{img.Attachment})
	if err == nil {
		var desc Description
		if err = decodeDescription(obj, &desc); err == nil {
			desc.Source = "gateway"
			return desc, nil
		}
	}
	if p.fallback == nil {
		return Description{}, err
	}
	p.log.Warn("vision gateway failed, using fallback provider", "error", err, "fallback", p.fallback.Name())
	return p.fallback.Analyze(ctx, img)
}

func decodeDescription(obj map[string]any, out *Description) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(obj); err != nil {
		return fmt.Errorf("decode vision description: %w", err)
	}
	return nil
}
