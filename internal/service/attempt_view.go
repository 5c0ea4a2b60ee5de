package service

import (
	"encoding/json"
	"time"

	"edu_exam_backend/internal/model"

	"github.com/shopspring/decimal"
)

// StudentOption 不含正确标记
type StudentOption struct {
	ID         uint   `json:"id"`
	Text       string `json:"text"`
	OrderIndex int    `json:"orderIndex"`
}

type StudentQuestion struct {
	ID               uint               `json:"id"`
	Type             model.QuestionType `json:"type"`
	Text             string             `json:"text"`
	MediaURLs        []string           `json:"mediaUrls,omitempty"`
	Points           decimal.Decimal    `json:"points"`
	OrderIndex       int                `json:"orderIndex"`
	TimeLimitSeconds *int               `json:"timeLimitSeconds,omitempty"`
	Options          []StudentOption    `json:"options"`
}

type SavedAnswer struct {
	QuestionID uint            `json:"questionId"`
	AnswerData json.RawMessage `json:"answerData"`
}

// AttemptView 开考或续考时返回给学生的试卷
type AttemptView struct {
	AttemptID       uint                `json:"attemptId"`
	ExamID          uint                `json:"examId"`
	Title           string              `json:"title"`
	AttemptNumber   int                 `json:"attemptNumber"`
	Status          model.AttemptStatus `json:"status"`
	StartedAt       time.Time           `json:"startedAt"`
	Deadline        time.Time           `json:"deadline"`
	DurationMinutes int                 `json:"durationMinutes"`
	Resumed         bool                `json:"resumed"`
	Questions       []StudentQuestion   `json:"questions"`
	SavedAnswers    []SavedAnswer       `json:"savedAnswers,omitempty"`
}

// AttemptResult 成绩摘要，考试设置不立即公布成绩时分数字段为空
type AttemptResult struct {
	AttemptID        uint                `json:"attemptId"`
	ExamID           uint                `json:"examId"`
	AttemptNumber    int                 `json:"attemptNumber"`
	Status           model.AttemptStatus `json:"status"`
	AutoSubmitted    bool                `json:"autoSubmitted"`
	StartedAt        time.Time           `json:"startedAt"`
	SubmittedAt      *time.Time          `json:"submittedAt,omitempty"`
	TimeSpentSeconds int                 `json:"timeSpentSeconds"`
	ResultsVisible   bool                `json:"resultsVisible"`
	TotalScore       *decimal.Decimal    `json:"totalScore,omitempty"`
	TotalPoints      *decimal.Decimal    `json:"totalPoints,omitempty"`
	PercentageScore  *decimal.Decimal    `json:"percentageScore,omitempty"`
	IsPassed         *bool               `json:"isPassed,omitempty"`
}

type ReviewOption struct {
	StudentOption
	IsCorrect *bool `json:"isCorrect,omitempty"`
}

type ReviewQuestion struct {
	ID            uint               `json:"id"`
	Type          model.QuestionType `json:"type"`
	Text          string             `json:"text"`
	Points        decimal.Decimal    `json:"points"`
	OrderIndex    int                `json:"orderIndex"`
	Options       []ReviewOption     `json:"options"`
	AnswerData    json.RawMessage    `json:"answerData,omitempty"`
	IsCorrect     *bool              `json:"isCorrect,omitempty"`
	PointsEarned  *decimal.Decimal   `json:"pointsEarned,omitempty"`
	CorrectAnswer json.RawMessage    `json:"correctAnswer,omitempty"`
	Explanation   string             `json:"explanation,omitempty"`
}

type AttemptReview struct {
	AttemptResult
	Questions []ReviewQuestion `json:"questions"`
}

// studentQuestions 去掉正确答案后返回给学生
func studentQuestions(qs model.QuestionsSnapshot) []StudentQuestion {
	out := make([]StudentQuestion, 0, len(qs))
	for _, q := range qs {
		sq := StudentQuestion{
			ID:               q.ID,
			Type:             q.Type,
			Text:             q.Text,
			MediaURLs:        q.MediaURLs,
			Points:           q.Points,
			OrderIndex:       q.OrderIndex,
			TimeLimitSeconds: q.TimeLimitSeconds,
			Options:          make([]StudentOption, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			sq.Options = append(sq.Options, StudentOption{ID: o.ID, Text: o.Text, OrderIndex: o.OrderIndex})
		}
		out = append(out, sq)
	}
	return out
}

func newAttemptView(a *model.ExamAttempt, answers []model.ExamAnswer, resumed bool) *AttemptView {
	exam := a.ExamSnapshot.Data()
	view := &AttemptView{
		AttemptID:       a.ID,
		ExamID:          a.ExamID,
		Title:           exam.Title,
		AttemptNumber:   a.AttemptNumber,
		Status:          a.Status,
		StartedAt:       a.StartedAt,
		Deadline:        a.Deadline(),
		DurationMinutes: exam.DurationMinutes,
		Resumed:         resumed,
		Questions:       studentQuestions(a.QuestionsSnapshot.Data()),
	}
	for _, ans := range answers {
		view.SavedAnswers = append(view.SavedAnswers, SavedAnswer{
			QuestionID: ans.QuestionID,
			AnswerData: json.RawMessage(ans.AnswerData),
		})
	}
	return view
}

func newAttemptResult(a *model.ExamAttempt) *AttemptResult {
	exam := a.ExamSnapshot.Data()
	r := &AttemptResult{
		AttemptID:        a.ID,
		ExamID:           a.ExamID,
		AttemptNumber:    a.AttemptNumber,
		Status:           a.Status,
		AutoSubmitted:    a.AutoSubmitted,
		StartedAt:        a.StartedAt,
		SubmittedAt:      a.SubmittedAt,
		TimeSpentSeconds: a.TimeSpentSeconds,
		ResultsVisible:   exam.ShowResultsImmediately,
	}
	if exam.ShowResultsImmediately && a.Status == model.AttemptGraded {
		score, total, pct, passed := a.TotalScore, exam.TotalPoints, a.PercentageScore, a.IsPassed
		r.TotalScore = &score
		r.TotalPoints = &total
		r.PercentageScore = &pct
		r.IsPassed = &passed
	}
	return r
}

func newAttemptReview(a *model.ExamAttempt, answers []model.ExamAnswer) *AttemptReview {
	exam := a.ExamSnapshot.Data()
	reveal := exam.ShowResultsImmediately
	byQuestion := make(map[uint]model.ExamAnswer, len(answers))
	for _, ans := range answers {
		byQuestion[ans.QuestionID] = ans
	}

	review := &AttemptReview{AttemptResult: *newAttemptResult(a)}
	for _, q := range a.QuestionsSnapshot.Data() {
		rq := ReviewQuestion{
			ID:         q.ID,
			Type:       q.Type,
			Text:       q.Text,
			Points:     q.Points,
			OrderIndex: q.OrderIndex,
			Options:    make([]ReviewOption, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			ro := ReviewOption{StudentOption: StudentOption{ID: o.ID, Text: o.Text, OrderIndex: o.OrderIndex}}
			if reveal {
				correct := o.IsCorrect
				ro.IsCorrect = &correct
			}
			rq.Options = append(rq.Options, ro)
		}
		if ans, ok := byQuestion[q.ID]; ok {
			rq.AnswerData = json.RawMessage(ans.AnswerData)
			if reveal {
				earned := ans.PointsEarned
				rq.IsCorrect = ans.IsCorrect
				rq.PointsEarned = &earned
			}
		}
		if reveal {
			rq.CorrectAnswer = q.CorrectAnswer
			rq.Explanation = q.Explanation
		}
		review.Questions = append(review.Questions, rq)
	}
	return review
}
