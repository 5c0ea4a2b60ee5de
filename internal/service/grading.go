package service

import (
	"time"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

// GradeOutcome 一次评分的结果，Answers 为评分后的副本
type GradeOutcome struct {
	Answers         []model.ExamAnswer
	TotalScore      decimal.Decimal
	PercentageScore decimal.Decimal
	IsPassed        bool
	GradedCount     int
}

// GradeAttempt 只依据开考时的快照评分，不读取实时题目
func GradeAttempt(exam model.ExamSnapshot, questions model.QuestionsSnapshot, answers []model.ExamAnswer, now time.Time) GradeOutcome {
	out := GradeOutcome{
		Answers:    make([]model.ExamAnswer, 0, len(answers)),
		TotalScore: decimal.Zero,
	}

	for _, a := range answers {
		graded := a
		graded.PointsEarned = decimal.Zero
		graded.IsCorrect = nil
		graded.AutoGraded = false
		graded.GradedAt = nil

		q, ok := questions.Find(a.QuestionID)
		if !ok {
			logger.Log.Warn("answer references a question outside the snapshot",
				zap.Uint("attemptId", a.AttemptID), zap.Uint("questionId", a.QuestionID))
			out.Answers = append(out.Answers, graded)
			continue
		}
		graded.AnswerType = q.Type
		if !q.Type.AutoGradable() {
			out.Answers = append(out.Answers, graded)
			continue
		}

		correct, err := gradeAnswer(q, a.AnswerData)
		if err != nil {
			logger.Log.Warn("malformed answer graded as incorrect",
				zap.Uint("attemptId", a.AttemptID), zap.Uint("questionId", a.QuestionID), zap.Error(err))
			correct = false
		}

		gradedAt := now
		graded.IsCorrect = &correct
		graded.AutoGraded = true
		graded.GradedAt = &gradedAt
		if correct {
			graded.PointsEarned = q.Points
		}
		out.TotalScore = out.TotalScore.Add(graded.PointsEarned)
		out.GradedCount++
		out.Answers = append(out.Answers, graded)
	}

	out.PercentageScore = Percentage(out.TotalScore, exam.TotalPoints)
	out.IsPassed = out.TotalScore.GreaterThanOrEqual(exam.PassingScore)
	return out
}

// Percentage 保留两位小数，总分为 0 时返回 0
func Percentage(score, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return score.Div(total).Mul(hundred).Round(2)
}

func gradeAnswer(q *model.QuestionSnapshot, raw []byte) (bool, error) {
	payload, err := model.DecodeAnswer(q.Type, raw)
	if err != nil {
		return false, err
	}

	switch a := payload.(type) {
	case model.MCQAnswer:
		if a.SelectedOptionID == nil {
			return false, nil
		}
		opt, ok := q.Option(uint(*a.SelectedOptionID))
		return ok && opt.IsCorrect, nil
	case model.TrueFalseAnswer:
		if a.Answer == nil {
			return false, nil
		}
		key, err := model.DecodeAnswerKey(q.Type, q.CorrectAnswer)
		if err != nil {
			return false, err
		}
		tf, ok := key.(model.TrueFalseKey)
		if !ok {
			return false, nil
		}
		return *a.Answer == tf.Answer, nil
	}
	return false, nil
}
