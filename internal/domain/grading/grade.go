package grading

// Grade is one grader's verdict on a free-text answer.
type Grade struct {
	Score     float64 `json:"score"`
	Feedback  string  `json:"feedback"`
	IsCorrect bool    `json:"isCorrect"`
	Method    Method  `json:"method"`
}

func (g Grade) AsMap() map[string]any {
	return map[string]any{
		"score":     g.Score,
		"feedback":  g.Feedback,
		"isCorrect": g.IsCorrect,
		"method":    string(g.Method),
	}
}
