// Package guardrails rejects submissions that try to steer the grader or
// that name files outside the upload directory.
package guardrails

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
)

var blockedPhrases = []string{
	"ignore all previous instructions",
	"ignore previous instructions",
	"forget all instructions",
	"you are now",
	"system override",
	"developer mode",
	"jailbreak",
}

var (
	ErrPromptInjection = errors.New("potential prompt injection detected")
	ErrUnsafeFilename  = errors.New("unsafe attachment filename")
)

// Violation names the rule that rejected a submission.
type Violation struct {
	Reason string
	Err    error
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%v (%s)", v.Err, v.Reason)
}

func (v *Violation) Unwrap() error { return v.Err }

// ScanForInjection returns the first blocked phrase found in text, or "".
func ScanForInjection(text string) string {
	lower := strings.ToLower(text)
	for _, p := range blockedPhrases {
		if strings.Contains(lower, p) {
			return p
		}
	}
	return ""
}

// SafeFilename rejects path traversal and directory separators.
func SafeFilename(name string) bool {
	return !strings.Contains(name, "..") && !strings.ContainsAny(name, `/\`)
}

func CheckSubmission(s grading.Submission) error {
	for _, field := range []string{s.StudentAnswer, s.Context, s.Hint} {
		if phrase := ScanForInjection(field); phrase != "" {
			return &Violation{Reason: "prompt_injection", Err: fmt.Errorf("%w: %q", ErrPromptInjection, phrase)}
		}
	}
	if s.File != nil && !SafeFilename(s.File.Name) {
		return &Violation{Reason: "unsafe_filename", Err: ErrUnsafeFilename}
	}
	return nil
}
