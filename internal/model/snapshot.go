package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ExamSnapshot 开考时冻结的考试配置
type ExamSnapshot struct {
	ExamID                 uint            `json:"examId"`
	ClassID                uint            `json:"classId"`
	Title                  string          `json:"title"`
	Description            string          `json:"description"`
	StartTime              time.Time       `json:"startTime"`
	EndTime                time.Time       `json:"endTime"`
	DurationMinutes        int             `json:"durationMinutes"`
	TotalQuestions         int             `json:"totalQuestions"`
	TotalPoints            decimal.Decimal `json:"totalPoints"`
	PassingScore           decimal.Decimal `json:"passingScore"`
	ShuffleQuestions       bool            `json:"shuffleQuestions"`
	ShuffleOptions         bool            `json:"shuffleOptions"`
	ShowResultsImmediately bool            `json:"showResultsImmediately"`
	AllowReview            bool            `json:"allowReview"`
	MaxAttempts            int             `json:"maxAttempts"`
	CreatedBy              uint            `json:"createdBy"`
	CapturedAt             time.Time       `json:"capturedAt"`
}

type OptionSnapshot struct {
	ID         uint   `json:"id"`
	Text       string `json:"text"`
	OrderIndex int    `json:"orderIndex"`
	IsCorrect  bool   `json:"isCorrect"`
}

type QuestionSnapshot struct {
	ID               uint             `json:"id"`
	Type             QuestionType     `json:"type"`
	Text             string           `json:"text"`
	MediaURLs        []string         `json:"mediaUrls,omitempty"`
	Points           decimal.Decimal  `json:"points"`
	OrderIndex       int              `json:"orderIndex"`
	TimeLimitSeconds *int             `json:"timeLimitSeconds,omitempty"`
	Difficulty       Difficulty       `json:"difficulty"`
	CorrectAnswer    json.RawMessage  `json:"correctAnswer,omitempty"`
	Explanation      string           `json:"explanation,omitempty"`
	Options          []OptionSnapshot `json:"options"`
}

type QuestionsSnapshot []QuestionSnapshot

func NewExamSnapshot(e *Exam, now time.Time) ExamSnapshot {
	return ExamSnapshot{
		ExamID:                 e.ID,
		ClassID:                e.ClassID,
		Title:                  e.Title,
		Description:            e.Description,
		StartTime:              e.StartTime,
		EndTime:                e.EndTime,
		DurationMinutes:        e.DurationMinutes,
		TotalQuestions:         e.TotalQuestions,
		TotalPoints:            e.TotalPoints,
		PassingScore:           e.PassingScore,
		ShuffleQuestions:       e.ShuffleQuestions,
		ShuffleOptions:         e.ShuffleOptions,
		ShowResultsImmediately: e.ShowResultsImmediately,
		AllowReview:            e.AllowReview,
		MaxAttempts:            e.MaxAttempts,
		CreatedBy:              e.CreatedBy,
		CapturedAt:             now,
	}
}

// NewQuestionSnapshot 深拷贝题目及选项，不保留对原记录的引用
func NewQuestionSnapshot(q *ExamQuestion) QuestionSnapshot {
	qs := QuestionSnapshot{
		ID:          q.ID,
		Type:        q.Type,
		Text:        q.Text,
		Points:      q.Points,
		OrderIndex:  q.OrderIndex,
		Difficulty:  q.Difficulty,
		Explanation: q.Explanation,
		Options:     make([]OptionSnapshot, 0, len(q.Options)),
	}
	if len(q.MediaURLs) > 0 {
		qs.MediaURLs = append([]string(nil), q.MediaURLs...)
	}
	if q.TimeLimitSeconds != nil {
		v := *q.TimeLimitSeconds
		qs.TimeLimitSeconds = &v
	}
	if len(q.CorrectAnswer) > 0 {
		qs.CorrectAnswer = append(json.RawMessage(nil), q.CorrectAnswer...)
	}
	for _, o := range q.Options {
		qs.Options = append(qs.Options, OptionSnapshot{
			ID:         o.ID,
			Text:       o.Text,
			OrderIndex: o.OrderIndex,
			IsCorrect:  o.IsCorrect,
		})
	}
	return qs
}

func (qs QuestionsSnapshot) Find(questionID uint) (*QuestionSnapshot, bool) {
	for i := range qs {
		if qs[i].ID == questionID {
			return &qs[i], true
		}
	}
	return nil, false
}

func (q *QuestionSnapshot) Option(optionID uint) (*OptionSnapshot, bool) {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i], true
		}
	}
	return nil, false
}
