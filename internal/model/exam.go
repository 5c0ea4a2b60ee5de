package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ExamStatus string

const (
	ExamStatusDraft      ExamStatus = "DRAFT"
	ExamStatusGenerating ExamStatus = "GENERATING"
	ExamStatusPublished  ExamStatus = "PUBLISHED"
	ExamStatusActive     ExamStatus = "ACTIVE"
	ExamStatusCompleted  ExamStatus = "COMPLETED"
	ExamStatusCancelled  ExamStatus = "CANCELLED"
)

// IsTerminal 已结束或已取消的考试不再迁移
func (s ExamStatus) IsTerminal() bool {
	return s == ExamStatusCompleted || s == ExamStatusCancelled
}

type QuestionType string

const (
	QuestionTypeMCQ       QuestionType = "MCQ"
	QuestionTypeEssay     QuestionType = "ESSAY"
	QuestionTypeCoding    QuestionType = "CODING"
	QuestionTypeTrueFalse QuestionType = "TRUE_FALSE"
	QuestionTypeFillBlank QuestionType = "FILL_BLANK"
	QuestionTypeMatching  QuestionType = "MATCHING"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMCQ, QuestionTypeEssay, QuestionTypeCoding,
		QuestionTypeTrueFalse, QuestionTypeFillBlank, QuestionTypeMatching:
		return true
	}
	return false
}

// AutoGradable 只有选择题和判断题自动评分
func (t QuestionType) AutoGradable() bool {
	return t == QuestionTypeMCQ || t == QuestionTypeTrueFalse
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

type Exam struct {
	BaseModel
	ClassID                uint            `gorm:"index;not null" json:"classId"`
	Title                  string          `gorm:"size:255;not null" json:"title"`
	Description            string          `gorm:"type:text" json:"description"`
	StartTime              time.Time       `gorm:"not null;index" json:"startTime"`
	EndTime                time.Time       `gorm:"not null;index" json:"endTime"`
	DurationMinutes        int             `gorm:"not null" json:"durationMinutes"`
	TotalQuestions         int             `json:"totalQuestions"`
	TotalPoints            decimal.Decimal `gorm:"type:decimal(10,2)" json:"totalPoints"`
	PassingScore           decimal.Decimal `gorm:"type:decimal(10,2)" json:"passingScore"`
	ShuffleQuestions       bool            `json:"shuffleQuestions"`
	ShuffleOptions         bool            `json:"shuffleOptions"`
	ShowResultsImmediately bool            `json:"showResultsImmediately"`
	AllowReview            bool            `json:"allowReview"`
	MaxAttempts            int             `gorm:"not null" json:"maxAttempts"`
	EnableProctoring       bool            `json:"enableProctoring"`
	EnableLockdown         bool            `json:"enableLockdown"`
	EnablePlagiarismCheck  bool            `json:"enablePlagiarismCheck"`
	Status                 ExamStatus      `gorm:"size:20;index;not null;default:'DRAFT'" json:"status"`
	CreatedBy              uint            `gorm:"index;not null" json:"createdBy"`
	Questions              []ExamQuestion  `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

// IsActive 状态为 ACTIVE 且 now ∈ [StartTime, EndTime)
func (e *Exam) IsActive(now time.Time) bool {
	return e.Status == ExamStatusActive && !now.Before(e.StartTime) && now.Before(e.EndTime)
}

func (e *Exam) CanStudentTakeExam(now time.Time) bool {
	return e.Status == ExamStatusActive && e.IsActive(now)
}

func (e *Exam) IsTimeUp(now time.Time) bool {
	return now.After(e.EndTime)
}

func (e *Exam) IsOwnedBy(userID uint) bool {
	return e.CreatedBy == userID
}

type ExamQuestion struct {
	BaseModel
	ExamID           uint                        `gorm:"index;not null" json:"examId"`
	Type             QuestionType                `gorm:"size:20;not null" json:"type"`
	Text             string                      `gorm:"type:text;not null" json:"text"`
	MediaURLs        datatypes.JSONSlice[string] `gorm:"type:json" json:"mediaUrls,omitempty"`
	Points           decimal.Decimal             `gorm:"type:decimal(10,2);not null" json:"points"`
	OrderIndex       int                         `json:"orderIndex"`
	TimeLimitSeconds *int                        `json:"timeLimitSeconds,omitempty"`
	Difficulty       Difficulty                  `gorm:"size:10" json:"difficulty"`
	CorrectAnswer    datatypes.JSON              `gorm:"type:json" json:"correctAnswer,omitempty"`
	Explanation      string                      `gorm:"type:text" json:"explanation"`
	Options          []ExamQuestionOption        `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options"`
}

func (ExamQuestion) TableName() string {
	return "exam_questions"
}

type ExamQuestionOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	OrderIndex int    `json:"orderIndex"`
	IsCorrect  bool   `json:"isCorrect"`
}

func (ExamQuestionOption) TableName() string {
	return "exam_question_options"
}
