package vision

import (
	"context"
	"strings"

	"github.com/nala-edu/ai-grader/internal/platform/gcp"
)

// GCPProvider maps a Cloud Vision annotation onto a Description.
type GCPProvider struct {
	client gcp.Vision
}

func NewGCPProvider(client gcp.Vision) *GCPProvider {
	return &GCPProvider{client: client}
}

func (p *GCPProvider) Name() string { return "gcp" }

func (p *GCPProvider) Analyze(ctx context.Context, img Image) (Description, error) {
	ann, err := p.client.AnnotateImage(ctx, img.Bytes)
	if err != nil {
		return Description{}, err
	}
	objects := ann.Objects
	if len(objects) == 0 {
		objects = ann.Labels
	}
	return Description{
		DetectedText: ann.Text,
		Objects:      objects,
		DiagramType:  diagramType(ann),
		Confidence:   ann.Confidence,
		Source:       "gcp_vision",
	}, nil
}

func diagramType(ann *gcp.Annotation) string {
	terms := append(append([]string(nil), ann.Labels...), ann.Objects...)
	for _, t := range terms {
		l := strings.ToLower(t)
		if strings.Contains(l, "circuit") || strings.Contains(l, "schematic") {
			return "Circuit Schematic"
		}
	}
	for _, t := range terms {
		l := strings.ToLower(t)
		if strings.Contains(l, "diagram") || strings.Contains(l, "plot") || strings.Contains(l, "graph") {
			return "Diagram"
		}
	}
	if len(ann.Labels) > 0 {
		return ann.Labels[0]
	}
	return "Unknown"
}
