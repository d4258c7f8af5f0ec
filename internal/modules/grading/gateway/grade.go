package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
)

const DefaultPersona = "You are an expert AI Grader for Electrical Engineering (EE2101)."

// GradeRequest is everything the grader prompt needs.
type GradeRequest struct {
	Persona         string
	QuestionText    string
	Context         string
	Hint            string
	Rubric          map[string]any
	ReferenceAnswer string
	StudentAnswer   string
}

var errMissingScore = errors.New("model output has no score")

// GradeAnswer asks the generation service for {score, feedback, isCorrect}.
// Numeric strings are accepted for score.
func (g *Gateway) GradeAnswer(ctx context.Context, req GradeRequest) (grading.Grade, error) {
	obj, err := g.GenerateJSON(ctx, buildGradePrompt(req), nil)
	if err != nil {
		return grading.Grade{}, err
	}
	if _, ok := obj["score"]; !ok {
		return grading.Grade{}, &ParseError{Err: errMissingScore}
	}
	var out grading.Grade
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return grading.Grade{}, err
	}
	if err := dec.Decode(obj); err != nil {
		return grading.Grade{}, &ParseError{Err: fmt.Errorf("decode grade: %w", err)}
	}
	out.Feedback = strings.TrimSpace(out.Feedback)
	out.Method = grading.MethodGateway
	return out, nil
}

func buildGradePrompt(req GradeRequest) string {
	persona := strings.TrimSpace(req.Persona)
	if persona == "" {
		persona = DefaultPersona
	}
	ctxText := strings.TrimSpace(req.Context)
	if ctxText == "" {
		ctxText = "General Question"
	}
	hint := strings.TrimSpace(req.Hint)
	if hint == "" {
		hint = "None"
	}
	rubric, err := json.Marshal(req.Rubric)
	if err != nil || req.Rubric == nil {
		rubric = []byte(`{"keywords":[]}`)
	}

	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\nAttributes: Strict, Educational, Encouraging.\n\n")
	b.WriteString("--- CONTEXT ---\n")
	fmt.Fprintf(&b, "Background: %q\n", ctxText)
	fmt.Fprintf(&b, "Question: %q\n", req.QuestionText)
	fmt.Fprintf(&b, "Hint Provided: %q\n", hint)
	fmt.Fprintf(&b, "Rubric/Keywords: %s\n", rubric)
	fmt.Fprintf(&b, "Reference Answer (For Logic Verification): %q\n\n", req.ReferenceAnswer)
	b.WriteString("--- STUDENT SUBMISSION ---\n")
	fmt.Fprintf(&b, "Student Answer: %q\n\n", req.StudentAnswer)
	b.WriteString("--- TASK ---\n")
	b.WriteString("1. Evaluate the student's answer against the Question, Context, and Rubric.\n")
	b.WriteString("2. Use the Reference Answer to understand the intent, but do not penalize different phrasing if the logic is correct.\n")
	b.WriteString("3. If the answer is unrelated or incorrect, give a low score.\n")
	b.WriteString("4. Provide concise feedback (max 2 sentences).\n\n")
	b.WriteString("Output Format (JSON only):\n")
	b.WriteString(`{"score": number 0-10, "feedback": "string", "isCorrect": boolean}`)
	return b.String()
}
