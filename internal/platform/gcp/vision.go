package gcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"github.com/nala-edu/ai-grader/internal/platform/ctxutil"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

// Annotation is what Cloud Vision reports about one image.
type Annotation struct {
	Text       string   `json:"text"`
	Objects    []string `json:"objects"`
	Labels     []string `json:"labels"`
	Confidence float64  `json:"confidence"`
}

type Vision interface {
	AnnotateImage(ctx context.Context, img []byte) (*Annotation, error)
	Close() error
}

type batchAnnotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

type imageAnnotatorClient struct {
	c *vision.ImageAnnotatorClient
}

func (a imageAnnotatorClient) BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest) (*visionpb.BatchAnnotateImagesResponse, error) {
	return a.c.BatchAnnotateImages(ctx, req)
}

func (a imageAnnotatorClient) Close() error { return a.c.Close() }

type visionService struct {
	log        *logger.Logger
	client     batchAnnotator
	timeout    time.Duration
	maxObjects int32
}

func NewVision(ctx context.Context, log *logger.Logger, timeout time.Duration, opts ...option.ClientOption) (Vision, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	c, err := vision.NewImageAnnotatorClient(ctxutil.Default(ctx), opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return newVisionService(log, imageAnnotatorClient{c: c}, timeout), nil
}

func newVisionService(log *logger.Logger, client batchAnnotator, timeout time.Duration) *visionService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &visionService{
		log:        log.With("service", "gcp.Vision"),
		client:     client,
		timeout:    timeout,
		maxObjects: 20,
	}
}

func (s *visionService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// AnnotateImage runs text detection, object localization and label detection
// in a single request.
func (s *visionService) AnnotateImage(ctx context.Context, img []byte) (*Annotation, error) {
	if len(img) == 0 {
		return &Annotation{}, nil
	}
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), s.timeout)
	defer cancel()

	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: img},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
			{Type: visionpb.Feature_OBJECT_LOCALIZATION, MaxResults: s.maxObjects},
			{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: s.maxObjects},
		},
	}
	resp, err := s.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{req},
	})
	if err != nil {
		return nil, fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	return annotationFromResponse(resp)
}

func annotationFromResponse(resp *visionpb.BatchAnnotateImagesResponse) (*Annotation, error) {
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return &Annotation{}, nil
	}
	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return nil, fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}

	out := &Annotation{}
	if fta := r0.FullTextAnnotation; fta != nil {
		out.Text = collapseWhitespace(fta.Text)
	}

	var scores []float64
	seen := map[string]bool{}
	for _, o := range r0.LocalizedObjectAnnotations {
		if o == nil || strings.TrimSpace(o.Name) == "" {
			continue
		}
		key := strings.ToLower(o.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Objects = append(out.Objects, o.Name)
		scores = append(scores, float64(o.Score))
	}

	labels := append([]*visionpb.EntityAnnotation(nil), r0.LabelAnnotations...)
	sort.SliceStable(labels, func(i, j int) bool { return labels[i].GetScore() > labels[j].GetScore() })
	for _, l := range labels {
		if l == nil || strings.TrimSpace(l.Description) == "" {
			continue
		}
		out.Labels = append(out.Labels, l.Description)
		if len(scores) == 0 {
			scores = append(scores, float64(l.Score))
		}
	}

	if len(scores) > 0 {
		sum := 0.0
		for _, v := range scores {
			sum += v
		}
		out.Confidence = sum / float64(len(scores))
	}
	return out, nil
}
