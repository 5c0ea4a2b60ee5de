package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptInProgress    AttemptStatus = "IN_PROGRESS"
	AttemptSubmitted     AttemptStatus = "SUBMITTED"
	AttemptAutoSubmitted AttemptStatus = "AUTO_SUBMITTED"
	AttemptGraded        AttemptStatus = "GRADED"
	AttemptCancelled     AttemptStatus = "CANCELLED"
)

type ExamAttempt struct {
	BaseModel
	ExamID            uint                                  `gorm:"uniqueIndex:uk_attempt_exam_student_number;not null" json:"examId"`
	StudentID         uint                                  `gorm:"uniqueIndex:uk_attempt_exam_student_number;not null" json:"studentId"`
	AttemptNumber     int                                   `gorm:"uniqueIndex:uk_attempt_exam_student_number;not null" json:"attemptNumber"`
	Status            AttemptStatus                         `gorm:"size:20;index;not null" json:"status"`
	StartedAt         time.Time                             `gorm:"index;not null" json:"startedAt"`
	SubmittedAt       *time.Time                            `json:"submittedAt,omitempty"`
	TimeSpentSeconds  int                                   `json:"timeSpentSeconds"`
	TotalScore        decimal.Decimal                       `gorm:"type:decimal(10,2)" json:"totalScore"`
	PercentageScore   decimal.Decimal                       `gorm:"type:decimal(5,2)" json:"percentageScore"`
	IsPassed          bool                                  `json:"isPassed"`
	AutoSubmitted     bool                                  `json:"autoSubmitted"`
	ExamSnapshot      datatypes.JSONType[ExamSnapshot]      `gorm:"type:json" json:"-"`
	QuestionsSnapshot datatypes.JSONType[QuestionsSnapshot] `gorm:"type:json" json:"-"`
	BrowserInfo       string                                `gorm:"size:255" json:"browserInfo,omitempty"`
	IPAddress         string                                `gorm:"size:64" json:"ipAddress,omitempty"`
	UserAgent         string                                `gorm:"size:512" json:"userAgent,omitempty"`
	Answers           []ExamAnswer                          `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}

// Deadline 以快照里的时长为准
func (a *ExamAttempt) Deadline() time.Time {
	return a.StartedAt.Add(time.Duration(a.ExamSnapshot.Data().DurationMinutes) * time.Minute)
}

// IsExpired 严格大于截止时间才算超时，恰好到点仍视为按时
func (a *ExamAttempt) IsExpired(now time.Time) bool {
	return now.After(a.Deadline())
}

func (a *ExamAttempt) IsOwnedBy(studentID uint) bool {
	return a.StudentID == studentID
}

type ExamAnswer struct {
	BaseModel
	AttemptID        uint            `gorm:"uniqueIndex:uk_answer_attempt_question;not null" json:"attemptId"`
	QuestionID       uint            `gorm:"uniqueIndex:uk_answer_attempt_question;not null" json:"questionId"`
	AnswerType       QuestionType    `gorm:"size:20" json:"answerType"`
	AnswerData       datatypes.JSON  `gorm:"type:json" json:"answerData"`
	IsCorrect        *bool           `json:"isCorrect,omitempty"`
	PointsEarned     decimal.Decimal `gorm:"type:decimal(10,2)" json:"pointsEarned"`
	AutoGraded       bool            `json:"autoGraded"`
	GradedAt         *time.Time      `json:"gradedAt,omitempty"`
	AIFeedback       string          `gorm:"type:text" json:"aiFeedback,omitempty"`
	ManualFeedback   string          `gorm:"type:text" json:"manualFeedback,omitempty"`
	TimeSpentSeconds int             `json:"timeSpentSeconds"`
}

func (ExamAnswer) TableName() string {
	return "exam_answers"
}
