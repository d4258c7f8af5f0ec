// Package fallback grades free-text answers without the generation service.
package fallback

import (
	"strings"

	"github.com/nala-edu/ai-grader/internal/domain/grading"
)

const (
	FullCredit    = 10
	PartialCredit = 2

	FeedbackEmpty     = "No answer provided."
	FeedbackCorrect   = "Correct! (Keyword Match)"
	FeedbackPartial   = "Partial credit for relevant terminology (AI Offline)."
	FeedbackIncorrect = "Incorrect (Fallback Mode)."
)

// DefaultPartialKeywords earn partial credit when no course profile overrides them.
var DefaultPartialKeywords = []string{"circuit", "voltage", "current"}

type Grader struct {
	partial []string
}

// New returns a grader awarding partial credit for any of keywords. A nil
// slice uses DefaultPartialKeywords.
func New(keywords []string) *Grader {
	if keywords == nil {
		keywords = DefaultPartialKeywords
	}
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return &Grader{partial: out}
}

// Grade applies, in order: empty answer, containment of the reference answer,
// containment of a partial-credit keyword, and otherwise zero.
func (g *Grader) Grade(answer, reference string) grading.Grade {
	ans := strings.ToLower(strings.TrimSpace(answer))
	if ans == "" {
		return grading.Grade{Score: 0, Feedback: FeedbackEmpty, Method: grading.MethodFallbackEmpty}
	}
	ref := strings.ToLower(strings.TrimSpace(reference))
	if ref != "" && strings.Contains(ans, ref) {
		return grading.Grade{Score: FullCredit, Feedback: FeedbackCorrect, IsCorrect: true, Method: grading.MethodFallbackKeywordMatch}
	}
	for _, k := range g.partial {
		if strings.Contains(ans, k) {
			return grading.Grade{Score: PartialCredit, Feedback: FeedbackPartial, Method: grading.MethodFallbackKeywordMatch}
		}
	}
	return grading.Grade{Score: 0, Feedback: FeedbackIncorrect, Method: grading.MethodFallbackKeywordMatch}
}

// Grade uses the default keyword set.
func Grade(answer, reference string) grading.Grade {
	return New(nil).Grade(answer, reference)
}
