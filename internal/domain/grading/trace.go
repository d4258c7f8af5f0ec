package grading

// Trace is the structured step log persisted with every grading record.
type Trace struct {
	Steps          []string       `json:"steps"`
	VisionAnalysis map[string]any `json:"vision_analysis,omitempty"`
	AIGrade        map[string]any `json:"ai_grade,omitempty"`
	GradingMethod  Method         `json:"grading_method,omitempty"`
	FallbackReason FallbackReason `json:"fallback_reason,omitempty"`
	Error          string         `json:"error,omitempty"`
}

func NewTrace() *Trace {
	return &Trace{Steps: []string{"Job Started"}}
}

func (t *Trace) Step(s string) {
	t.Steps = append(t.Steps, s)
}
