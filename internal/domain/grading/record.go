package grading

import (
	"time"

	"gorm.io/datatypes"
)

type Method string

const (
	MethodGateway              Method = "gateway"
	MethodFallbackKeywordMatch Method = "fallback-keyword-match"
	MethodFallbackEmpty        Method = "fallback-empty"
	MethodVisionOnly           Method = "vision-only"
)

// FallbackReason explains why the gateway result was not used.
type FallbackReason string

const (
	FallbackGatewayUnavailable FallbackReason = "gateway_unavailable"
	FallbackGatewayError       FallbackReason = "gateway_error"
	FallbackParseError         FallbackReason = "parse_error"
)

// GradingRecord is the immutable audit trace of one graded submission.
type GradingRecord struct {
	ID                  string         `gorm:"column:id;primaryKey;size:36" json:"id"`
	UDI                 string         `gorm:"column:udi;not null;index" json:"udi"`
	UserID              string         `gorm:"column:user_id;not null;index" json:"user_id"`
	CourseCode          string         `gorm:"column:course_code;not null;index" json:"course_code"`
	AcademicYear        string         `gorm:"column:academic_year" json:"academic_year"`
	Semester            string         `gorm:"column:semester" json:"semester"`
	QuestionID          string         `gorm:"column:question_id;index" json:"question_id,omitempty"`
	QuestionVersionUUID string         `gorm:"column:question_version_uuid" json:"question_version_uuid,omitempty"`
	SetID               string         `gorm:"column:set_id" json:"set_id,omitempty"`
	InputBundle         datatypes.JSON `gorm:"column:input_bundle" json:"input_bundle"`
	Score               float64        `gorm:"column:score;not null" json:"score"`
	MaxScore            float64        `gorm:"column:max_score;not null" json:"max_score"`
	GradingMethod       Method         `gorm:"column:grading_method;not null;index" json:"grading_method"`
	GradingTrace        datatypes.JSON `gorm:"column:grading_trace" json:"grading_trace"`
	CreatedAt           time.Time      `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (GradingRecord) TableName() string { return "grading_traces" }

// QuestionAttempt is the per (user, course, question) analytics row.
type QuestionAttempt struct {
	UserID          string    `gorm:"column:user_id;primaryKey;size:128" json:"user_id"`
	CourseCode      string    `gorm:"column:course_code;primaryKey;size:64" json:"course_code"`
	QuestionID      string    `gorm:"column:question_id;primaryKey;size:128" json:"question_id"`
	SetID           string    `gorm:"column:set_id" json:"set_id,omitempty"`
	AttemptCount    int       `gorm:"column:attempt_count;not null;default:1" json:"attempt_count"`
	IsCorrect       bool      `gorm:"column:is_correct;not null;default:false" json:"is_correct"`
	LastAttemptedAt time.Time `gorm:"column:last_attempted_at;not null" json:"last_attempted_at"`
}

func (QuestionAttempt) TableName() string { return "student_question_attempts" }
