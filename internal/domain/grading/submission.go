package grading

import "strings"

const (
	DefaultAcademicYear = "2025"
	DefaultSemester     = "2"
	DefaultQuestionText = "Unknown Question"
)

// Attachment is an uploaded file carried inline. Content is base64, with or
// without a data: URL prefix.
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"type"`
	Content  string `json:"content"`
}

// Submission is the canonical bundle the grading pipeline consumes. The HTTP
// boundary normalizes every accepted payload shape into it.
type Submission struct {
	UserID              string         `json:"userId"`
	CourseCode          string         `json:"courseCode"`
	AcademicYear        string         `json:"academicYear"`
	Semester            string         `json:"semester"`
	QuestionID          string         `json:"questionId,omitempty"`
	QuestionVersionUUID string         `json:"questionVersionUuid,omitempty"`
	SetID               string         `json:"setId,omitempty"`
	QuestionText        string         `json:"questionText,omitempty"`
	Context             string         `json:"context,omitempty"`
	Hint                string         `json:"hint,omitempty"`
	Rubric              map[string]any `json:"rubric,omitempty"`
	AnswerKey           []string       `json:"answerKey,omitempty"`
	StudentAnswer       string         `json:"studentAnswer,omitempty"`
	File                *Attachment    `json:"file,omitempty"`
}

func (s Submission) HasAnswer() bool {
	return strings.TrimSpace(s.StudentAnswer) != ""
}

func (s Submission) HasFile() bool {
	return s.File != nil && strings.TrimSpace(s.File.Content) != ""
}

// ReferenceAnswer is the first answer key, or "" when none was supplied.
func (s Submission) ReferenceAnswer() string {
	if len(s.AnswerKey) == 0 {
		return ""
	}
	return s.AnswerKey[0]
}

// WithDefaults fills the term and question text defaults.
func (s Submission) WithDefaults() Submission {
	if strings.TrimSpace(s.AcademicYear) == "" {
		s.AcademicYear = DefaultAcademicYear
	}
	if strings.TrimSpace(s.Semester) == "" {
		s.Semester = DefaultSemester
	}
	if strings.TrimSpace(s.QuestionText) == "" {
		s.QuestionText = DefaultQuestionText
	}
	if s.Rubric == nil {
		s.Rubric = map[string]any{"keywords": []any{}}
	}
	return s
}
