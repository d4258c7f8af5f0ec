// Package vision describes image attachments for the grading pipeline. One
// provider is chosen at startup; the orchestrator only sees the Analyzer.
package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/platform/logger"
)

var ErrNotImage = errors.New("attachment is not a supported image")

// Description is the structured view of an analyzed image.
type Description struct {
	DetectedText string   `json:"detected_text"`
	Objects      []string `json:"objects"`
	DiagramType  string   `json:"diagram_type"`
	Confidence   float64  `json:"confidence"`
	Source       string   `json:"source"`
	Format       string   `json:"format,omitempty"`
	Width        int      `json:"width,omitempty"`
	Height       int      `json:"height,omitempty"`
}

func (d Description) AsMap() map[string]any {
	objects := make([]any, 0, len(d.Objects))
	for _, o := range d.Objects {
		objects = append(objects, o)
	}
	m := map[string]any{
		"detected_text": d.DetectedText,
		"objects":       objects,
		"diagram_type":  d.DiagramType,
		"confidence":    d.Confidence,
		"source":        d.Source,
	}
	if d.Format != "" {
		m["format"] = d.Format
		m["width"] = d.Width
		m["height"] = d.Height
	}
	return m
}

// Image is a decoded attachment ready for a provider.
type Image struct {
	Attachment grading.Attachment
	Bytes      []byte
	MimeType   string
	Format     string
	Width      int
	Height     int
}

type Provider interface {
	Name() string
	Analyze(ctx context.Context, img Image) (Description, error)
}

type Analyzer struct {
	log      *logger.Logger
	provider Provider
}

func NewAnalyzer(log *logger.Logger, provider Provider) *Analyzer {
	return &Analyzer{
		log:      log.With("component", "VisionAnalyzer", "provider", provider.Name()),
		provider: provider,
	}
}

func (a *Analyzer) Provider() string {
	return a.provider.Name()
}

// Analyze decodes the attachment, confirms it is an image and hands it to the
// configured provider.
func (a *Analyzer) Analyze(ctx context.Context, att grading.Attachment) (Description, error) {
	img, err := DecodeImage(att)
	if err != nil {
		return Description{}, err
	}
	desc, err := a.provider.Analyze(ctx, img)
	if err != nil {
		return Description{}, fmt.Errorf("%s analyze: %w", a.provider.Name(), err)
	}
	desc.Format = img.Format
	desc.Width = img.Width
	desc.Height = img.Height
	a.log.Debug("image analyzed", "name", att.Name, "objects", len(desc.Objects), "source", desc.Source)
	return desc, nil
}

// DecodeImage decodes base64 content and sniffs the image header.
func DecodeImage(att grading.Attachment) (Image, error) {
	raw, mime, err := att.Decode()
	if err != nil {
		return Image{}, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return Image{
		Attachment: att,
		Bytes:      raw,
		MimeType:   mime,
		Format:     format,
		Width:      cfg.Width,
		Height:     cfg.Height,
	}, nil
}
