package service

import (
	"testing"
	"time"

	"edu_exam_backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func gradingFixture() (model.ExamSnapshot, model.QuestionsSnapshot) {
	exam := model.ExamSnapshot{TotalPoints: decimal.NewFromInt(6), PassingScore: decimal.NewFromInt(3)}
	questions := model.QuestionsSnapshot{
		{
			ID: 1, Type: model.QuestionTypeMCQ, Points: decimal.NewFromInt(2),
			Options: []model.OptionSnapshot{{ID: 11, IsCorrect: true}, {ID: 12}},
		},
		{
			ID: 2, Type: model.QuestionTypeTrueFalse, Points: decimal.NewFromInt(1),
			CorrectAnswer: []byte(`{"answer": false}`),
		},
		{ID: 3, Type: model.QuestionTypeEssay, Points: decimal.NewFromInt(3)},
	}
	return exam, questions
}

func answer(questionID uint, data string) model.ExamAnswer {
	return model.ExamAnswer{AttemptID: 1, QuestionID: questionID, AnswerData: datatypes.JSON(data)}
}

func TestGradeAttempt(t *testing.T) {
	exam, questions := gradingFixture()
	now := t0

	tests := []struct {
		name    string
		answers []model.ExamAnswer
		score   int64
		passed  bool
		graded  int
	}{
		{
			name:    "all correct",
			answers: []model.ExamAnswer{answer(1, `{"selectedOptionId": 11}`), answer(2, `{"answer": false}`)},
			score:   3,
			passed:  true,
			graded:  2,
		},
		{
			name:    "option id as string",
			answers: []model.ExamAnswer{answer(1, `{"selectedOptionId": "11"}`)},
			score:   2,
			graded:  1,
		},
		{
			name:    "wrong option",
			answers: []model.ExamAnswer{answer(1, `{"selectedOptionId": 12}`), answer(2, `{"answer": true}`)},
			graded:  2,
		},
		{
			name:    "option outside snapshot",
			answers: []model.ExamAnswer{answer(1, `{"selectedOptionId": 999}`)},
			graded:  1,
		},
		{
			name:    "malformed answer counts as incorrect",
			answers: []model.ExamAnswer{answer(1, `{"selectedOptionId": [`), answer(2, `{"answer": false}`)},
			score:   1,
			graded:  2,
		},
		{
			name:    "null answer",
			answers: []model.ExamAnswer{answer(2, `null`)},
			graded:  1,
		},
		{
			name:    "essay stays ungraded",
			answers: []model.ExamAnswer{answer(3, `{"text": "long answer"}`)},
		},
		{
			name:    "unknown question is ignored",
			answers: []model.ExamAnswer{answer(77, `{"selectedOptionId": 11}`)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := GradeAttempt(exam, questions, tt.answers, now)
			assert.True(t, out.TotalScore.Equal(decimal.NewFromInt(tt.score)), "score %s", out.TotalScore)
			assert.Equal(t, tt.passed, out.IsPassed)
			assert.Equal(t, tt.graded, out.GradedCount)
			require.Len(t, out.Answers, len(tt.answers))
		})
	}
}

func TestGradeAttemptAnswerFields(t *testing.T) {
	exam, questions := gradingFixture()
	out := GradeAttempt(exam, questions, []model.ExamAnswer{
		answer(1, `{"selectedOptionId": 11}`),
		answer(3, `{"text": "x"}`),
	}, t0)

	mcqAns, essay := out.Answers[0], out.Answers[1]
	require.NotNil(t, mcqAns.IsCorrect)
	assert.True(t, *mcqAns.IsCorrect)
	assert.True(t, mcqAns.AutoGraded)
	assert.Equal(t, t0, *mcqAns.GradedAt)
	assert.True(t, mcqAns.PointsEarned.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, model.QuestionTypeMCQ, mcqAns.AnswerType)

	assert.Nil(t, essay.IsCorrect)
	assert.False(t, essay.AutoGraded)
	assert.Nil(t, essay.GradedAt)
	assert.True(t, essay.PointsEarned.IsZero())
}

func TestGradeAttemptIsDeterministic(t *testing.T) {
	exam, questions := gradingFixture()
	answers := []model.ExamAnswer{answer(1, `{"selectedOptionId": 11}`), answer(2, `{"answer": "nope"}`)}

	first := GradeAttempt(exam, questions, answers, t0)
	for i := 0; i < 5; i++ {
		again := GradeAttempt(exam, questions, answers, t0.Add(time.Duration(i)*time.Hour))
		assert.True(t, first.TotalScore.Equal(again.TotalScore))
		assert.True(t, first.PercentageScore.Equal(again.PercentageScore))
	}
	assert.Nil(t, answers[0].IsCorrect, "input answers are not mutated")
}

func TestPercentage(t *testing.T) {
	assert.True(t, Percentage(decimal.NewFromInt(1), decimal.NewFromInt(3)).Equal(decimal.RequireFromString("33.33")))
	assert.True(t, Percentage(decimal.NewFromInt(2), decimal.NewFromInt(3)).Equal(decimal.RequireFromString("66.67")))
	assert.True(t, Percentage(decimal.NewFromInt(5), decimal.Zero).IsZero())
}
