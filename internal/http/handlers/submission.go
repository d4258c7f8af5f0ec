package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
	"github.com/nala-edu/ai-grader/internal/modules/grading/guardrails"
)

// gradeRequest is the submit body after snake_case keys are folded to
// camelCase. Loose shapes (numeric ids, a single answer key string) are
// coerced by the weakly typed decode.
type gradeRequest struct {
	UserID              string       `mapstructure:"userId" validate:"required,max=128"`
	CourseCode          string       `mapstructure:"courseCode" validate:"required,max=64"`
	AcademicYear        string       `mapstructure:"academicYear" validate:"max=32"`
	Semester            string       `mapstructure:"semester" validate:"max=32"`
	QuestionID          string       `mapstructure:"questionId" validate:"max=128"`
	SetID               string       `mapstructure:"setId" validate:"max=64"`
	QuestionVersionUUID string       `mapstructure:"questionVersionUuid"`
	InputBundle         *inputBundle `mapstructure:"inputBundle" validate:"required"`
}

type inputBundle struct {
	StudentAnswer       string     `mapstructure:"studentAnswer"`
	File                *fileInput `mapstructure:"file" validate:"omitempty"`
	QuestionText        string     `mapstructure:"questionText"`
	QuestionID          string     `mapstructure:"questionId" validate:"max=128"`
	SetID               string     `mapstructure:"setId" validate:"max=64"`
	QuestionVersionUUID string     `mapstructure:"questionVersionUuid"`
	VersionUUID         string     `mapstructure:"versionUuid"`
	Context             string     `mapstructure:"context"`
	Hint                string     `mapstructure:"hint"`
	Rubric              any        `mapstructure:"rubric"`
	Rubrics             any        `mapstructure:"rubrics"`
	AnswerKey           []string   `mapstructure:"answerKey"`
	CorrectAnswer       string     `mapstructure:"correctAnswer"`
}

type fileInput struct {
	Name    string `mapstructure:"name" validate:"required,safe_filename"`
	Type    string `mapstructure:"type"`
	Content string `mapstructure:"content" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("safe_filename", func(fl validator.FieldLevel) bool {
		return guardrails.SafeFilename(fl.Field().String())
	})
	return v
}

// fieldErrors is a validation failure with per-field detail.
type fieldErrors map[string]string

func (f fieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+": "+v)
	}
	return "validation error: " + strings.Join(parts, ", ")
}

func (f fieldErrors) Details() any { return map[string]string(f) }

// decodeSubmission folds body into the canonical Submission and validates it.
func decodeSubmission(v *validator.Validate, body map[string]any) (grading.Submission, error) {
	body = camelizeKeys(body)
	if b, ok := body["inputBundle"].(map[string]any); ok {
		b = camelizeKeys(b)
		if f, ok := b["file"].(map[string]any); ok {
			b["file"] = camelizeKeys(f)
		}
		body["inputBundle"] = b
	}

	var req gradeRequest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &req,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return grading.Submission{}, err
	}
	if err := dec.Decode(body); err != nil {
		return grading.Submission{}, fmt.Errorf("malformed submission: %w", err)
	}
	if err := v.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			out := fieldErrors{}
			for _, fe := range verrs {
				out[fe.Namespace()] = fe.Tag()
			}
			return grading.Submission{}, out
		}
		return grading.Submission{}, err
	}
	return req.toSubmission(), nil
}

func (r gradeRequest) toSubmission() grading.Submission {
	b := r.InputBundle
	sub := grading.Submission{
		UserID:              strings.TrimSpace(r.UserID),
		CourseCode:          strings.TrimSpace(r.CourseCode),
		AcademicYear:        strings.TrimSpace(r.AcademicYear),
		Semester:            strings.TrimSpace(r.Semester),
		QuestionID:          firstNonEmpty(r.QuestionID, b.QuestionID),
		SetID:               firstNonEmpty(r.SetID, b.SetID),
		QuestionVersionUUID: firstNonEmpty(r.QuestionVersionUUID, b.QuestionVersionUUID, b.VersionUUID),
		QuestionText:        b.QuestionText,
		Context:             b.Context,
		Hint:                b.Hint,
		Rubric:              coerceRubric(firstNonNil(b.Rubrics, b.Rubric)),
		StudentAnswer:       b.StudentAnswer,
	}
	for _, k := range b.AnswerKey {
		if k = strings.TrimSpace(k); k != "" {
			sub.AnswerKey = append(sub.AnswerKey, k)
		}
	}
	if len(sub.AnswerKey) == 0 && strings.TrimSpace(b.CorrectAnswer) != "" {
		sub.AnswerKey = []string{strings.TrimSpace(b.CorrectAnswer)}
	}
	if b.File != nil {
		sub.File = &grading.Attachment{Name: b.File.Name, MimeType: b.File.Type, Content: b.File.Content}
	}
	return sub
}

// coerceRubric keeps object rubrics as-is, treats a list as keywords and a
// string as free text.
func coerceRubric(v any) map[string]any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return t
	case []any:
		return map[string]any{"keywords": t}
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return map[string]any{"text": t}
	default:
		return map[string]any{"value": t}
	}
}

func camelizeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		ck := snakeToCamel(k)
		if _, exists := m[ck]; exists && ck != k {
			continue
		}
		out[ck] = v
	}
	return out
}

func snakeToCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstNonNil(vals ...any) any {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
