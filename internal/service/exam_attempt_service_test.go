package service

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcqAnswer(optionID uint) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"selectedOptionId": %d}`, optionID))
}

func TestScenarioOneCorrectOneWrong(t *testing.T) {
	h := newHarness(t)
	exam := h.activeExam(t, h.examRequest(),
		mcq("Capital of France?", 1, 0, "Paris", "Rome"),
		mcq("2+2?", 1, 1, "3", "4"),
	)
	q1, q2 := exam.Questions[0], exam.Questions[1]

	view, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{BrowserInfo: "firefox"})
	require.NoError(t, err)
	assert.Equal(t, 1, view.AttemptNumber)
	assert.False(t, view.Resumed)
	assert.Equal(t, t0.Add(65*time.Minute), view.Deadline)
	require.Len(t, view.Questions, 2)

	h.clock.Set(t0.Add(10 * time.Minute))
	result, err := h.attemptSvc.SubmitExam(h.ctx, studentID, exam.ID, &SubmitExamRequest{
		AttemptID: view.AttemptID,
		Answers: []AnswerInput{
			{QuestionID: q1.ID, AnswerData: mcqAnswer(optionID(t, q1, "Paris"))},
			{QuestionID: q2.ID, AnswerData: mcqAnswer(optionID(t, q2, "3"))},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.AttemptGraded, result.Status)
	require.NotNil(t, result.TotalScore)
	assert.True(t, result.TotalScore.Equal(decimal.NewFromInt(1)))
	assert.True(t, result.PercentageScore.Equal(decimal.NewFromInt(50)))
	assert.True(t, *result.IsPassed)

	stored, err := h.attempts.FindByID(h.ctx, view.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptGraded, stored.Status)
	assert.False(t, stored.AutoSubmitted)
	assert.Equal(t, 300, stored.TimeSpentSeconds)
	assert.Equal(t, "firefox", stored.BrowserInfo)

	answers, err := h.attempts.FindAnswers(h.ctx, view.AttemptID)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	for _, a := range answers {
		assert.True(t, a.AutoGraded)
		require.NotNil(t, a.IsCorrect)
	}

	best, err := h.attemptSvc.GetResult(h.ctx, studentID, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, view.AttemptID, best.AttemptID)
}

func TestStartedQuestionsHideCorrectness(t *testing.T) {
	h := newHarness(t)
	exam := h.activeExam(t, h.examRequest(), mcq("q", 1, 0, "a", "b"))

	view, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	require.NoError(t, err)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "isCorrect")
	assert.NotContains(t, string(raw), "correctAnswer")
}

func TestStartExamResumesInProgressAttempt(t *testing.T) {
	h := newHarness(t)
	exam := h.activeExam(t, h.examRequest(), mcq("q", 1, 0, "a", "b"))

	first, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	require.NoError(t, err)
	_, err = h.attemptSvc.SaveAnswers(h.ctx, studentID, first.AttemptID, []AnswerInput{
		{QuestionID: exam.Questions[0].ID, AnswerData: mcqAnswer(exam.Questions[0].Options[1].ID)},
	})
	require.NoError(t, err)

	h.clock.Set(t0.Add(20 * time.Minute))
	second, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	require.NoError(t, err)
	assert.Equal(t, first.AttemptID, second.AttemptID)
	assert.True(t, second.Resumed)
	assert.Equal(t, first.StartedAt, second.StartedAt)
	require.Len(t, second.SavedAnswers, 1)

	count, err := h.attempts.CountByExamAndStudent(h.ctx, exam.ID, studentID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestMaxAttemptsReached(t *testing.T) {
	h := newHarness(t)
	exam := h.activeExam(t, h.examRequest(), mcq("q", 1, 0, "a", "b"))

	view, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	require.NoError(t, err)
	_, err = h.attemptSvc.SubmitExam(h.ctx, studentID, exam.ID, &SubmitExamRequest{AttemptID: view.AttemptID})
	require.NoError(t, err)

	_, err = h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	assert.ErrorIs(t, err, util.ErrMaxAttemptsReached)

	available, err := h.examSvc.ListAvailableExams(h.ctx, studentID)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.False(t, available[0].CanStart)
	assert.EqualValues(t, 1, available[0].AttemptsUsed)

	count, err := h.attempts.CountByExamAndStudent(h.ctx, exam.ID, studentID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestMultipleAttemptsBestResult(t *testing.T) {
	h := newHarness(t)
	req := h.examRequest()
	req.MaxAttempts = 2
	exam := h.activeExam(t, req, mcq("q", 2, 0, "right", "wrong"))
	q := exam.Questions[0]

	first, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	require.NoError(t, err)
	_, err = h.attemptSvc.SubmitExam(h.ctx, studentID, exam.ID, &SubmitExamRequest{
		AttemptID: first.AttemptID,
		Answers:   []AnswerInput{{QuestionID: q.ID, AnswerData: mcqAnswer(optionID(t, q, "right"))}},
	})
	require.NoError(t, err)

	second, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	require.NoError(t, err)
	assert.Equal(t, 2, second.AttemptNumber)
	_, err = h.attemptSvc.SubmitExam(h.ctx, studentID, exam.ID, &SubmitExamRequest{
		AttemptID: second.AttemptID,
		Answers:   []AnswerInput{{QuestionID: q.ID, AnswerData: mcqAnswer(optionID(t, q, "wrong"))}},
	})
	require.NoError(t, err)

	best, err := h.attemptSvc.GetResult(h.ctx, studentID, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, first.AttemptID, best.AttemptID)

	history, err := h.attemptSvc.ListMyAttempts(h.ctx, studentID, exam.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestStartExamPreconditions(t *testing.T) {
	h := newHarness(t)
	exam := h.activeExam(t, h.examRequest(), mcq("q", 1, 0, "a", "b"))

	_, err := h.attemptSvc.StartExam(h.ctx, outsiderID, exam.ID, StartExamMeta{})
	assert.ErrorIs(t, err, util.ErrNotEnrolled)

	h.clock.Set(t0.Add(2 * time.Hour))
	_, err = h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	assert.ErrorIs(t, err, util.ErrExamNotAvailable, "window end is exclusive")

	h.clock.Set(t0.Add(-time.Second))
	_, err = h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	assert.ErrorIs(t, err, util.ErrExamNotAvailable)

	h.clock.Set(t0)
	_, err = h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	assert.NoError(t, err, "window start is inclusive")
}

func TestSubmitRules(t *testing.T) {
	h := newHarness(t)
	exam := h.activeExam(t, h.examRequest(), mcq("q", 1, 0, "a", "b"))
	view, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	require.NoError(t, err)

	_, err = h.attemptSvc.SubmitExam(h.ctx, otherStudentID, exam.ID, &SubmitExamRequest{AttemptID: view.AttemptID})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = h.attemptSvc.SubmitExam(h.ctx, studentID, exam.ID+100, &SubmitExamRequest{AttemptID: view.AttemptID})
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)

	_, err = h.attemptSvc.SubmitExam(h.ctx, studentID, exam.ID, &SubmitExamRequest{
		AttemptID: view.AttemptID,
		Answers:   []AnswerInput{{QuestionID: 424242, AnswerData: json.RawMessage(`{}`)}},
	})
	assert.ErrorIs(t, err, util.ErrInvalidAnswer)

	_, err = h.attemptSvc.SubmitExam(h.ctx, studentID, exam.ID, &SubmitExamRequest{AttemptID: view.AttemptID})
	require.NoError(t, err)

	_, err = h.attemptSvc.SubmitExam(h.ctx, studentID, exam.ID, &SubmitExamRequest{AttemptID: view.AttemptID})
	assert.ErrorIs(t, err, util.ErrAttemptNotInProgress)

	_, err = h.attemptSvc.SaveAnswers(h.ctx, studentID, view.AttemptID, nil)
	assert.ErrorIs(t, err, util.ErrAttemptNotInProgress)
}

func TestSubmitMergesAutosavedAnswers(t *testing.T) {
	h := newHarness(t)
	exam := h.activeExam(t, h.examRequest(),
		mcq("q1", 1, 0, "a", "b"),
		trueFalse("q2", 1, true),
	)
	q1, q2 := exam.Questions[0], exam.Questions[1]
	view, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	require.NoError(t, err)

	n, err := h.attemptSvc.SaveAnswers(h.ctx, studentID, view.AttemptID, []AnswerInput{
		{QuestionID: q1.ID, AnswerData: mcqAnswer(optionID(t, q1, "b"))},
		{QuestionID: q2.ID, AnswerData: json.RawMessage(`{"answer": true}`)},
		{QuestionID: q1.ID, AnswerData: mcqAnswer(optionID(t, q1, "a"))},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n, "duplicate question keeps the last answer")

	// 只提交第二题，第一题沿用自动保存的答案
	result, err := h.attemptSvc.SubmitExam(h.ctx, studentID, exam.ID, &SubmitExamRequest{
		AttemptID: view.AttemptID,
		Answers:   []AnswerInput{{QuestionID: q2.ID, AnswerData: json.RawMessage(`{"answer": false}`)}},
	})
	require.NoError(t, err)
	assert.True(t, result.TotalScore.Equal(decimal.NewFromInt(1)))

	answers, err := h.attempts.FindAnswers(h.ctx, view.AttemptID)
	require.NoError(t, err)
	assert.Len(t, answers, 2)
}

func TestSnapshotIsolation(t *testing.T) {
	h := newHarness(t)
	exam := h.activeExam(t, h.examRequest(), mcq("q", 1, 0, "old right", "new right"))
	q := exam.Questions[0]

	view, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	require.NoError(t, err)

	// 开考后教师修改了正确选项
	h.exams.setCorrectOption(exam.ID, q.ID, 1)

	result, err := h.attemptSvc.SubmitExam(h.ctx, studentID, exam.ID, &SubmitExamRequest{
		AttemptID: view.AttemptID,
		Answers:   []AnswerInput{{QuestionID: q.ID, AnswerData: mcqAnswer(optionID(t, q, "old right"))}},
	})
	require.NoError(t, err)
	assert.True(t, result.TotalScore.Equal(decimal.NewFromInt(1)))
}

func TestSnapshotRoundTrip(t *testing.T) {
	h := newHarness(t)
	exam := h.activeExam(t, h.examRequest(),
		mcq("pick", 3, 2, "x", "y", "z"),
		trueFalse("sky is blue", 2, true),
	)
	view, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	require.NoError(t, err)
	stored, err := h.attempts.FindByID(h.ctx, view.AttemptID)
	require.NoError(t, err)

	raw, err := json.Marshal(stored.QuestionsSnapshot)
	require.NoError(t, err)
	var decoded model.QuestionsSnapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))

	require.Len(t, decoded, len(exam.Questions))
	for i, q := range exam.Questions {
		s := decoded[i]
		assert.Equal(t, q.ID, s.ID)
		assert.Equal(t, q.Text, s.Text)
		assert.True(t, q.Points.Equal(s.Points))
		require.Len(t, s.Options, len(q.Options))
		for j, o := range q.Options {
			assert.Equal(t, o.ID, s.Options[j].ID)
			assert.Equal(t, o.Text, s.Options[j].Text)
			assert.Equal(t, o.IsCorrect, s.Options[j].IsCorrect)
		}
	}
	assert.Equal(t, exam.DurationMinutes, stored.ExamSnapshot.Data().DurationMinutes)
	assert.True(t, exam.TotalPoints.Equal(stored.ExamSnapshot.Data().TotalPoints))
}

func TestShuffleIsFrozenInSnapshot(t *testing.T) {
	h := newHarness(t)
	h.attemptSvc.shuffle = func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	req := h.examRequest()
	req.ShuffleQuestions = true
	req.ShuffleOptions = true
	exam := h.activeExam(t, req,
		mcq("first", 1, 0, "a", "b", "c"),
		trueFalse("second", 1, true),
	)

	view, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	require.NoError(t, err)
	require.Len(t, view.Questions, 2)
	assert.Equal(t, "second", view.Questions[0].Text)
	assert.Equal(t, 1, view.Questions[0].OrderIndex)
	assert.Equal(t, "True", view.Questions[0].Options[0].Text, "true/false options keep their order")
	assert.Equal(t, []string{"c", "b", "a"}, []string{
		view.Questions[1].Options[0].Text, view.Questions[1].Options[1].Text, view.Questions[1].Options[2].Text,
	})

	resumed, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	require.NoError(t, err)
	assert.Equal(t, view.Questions, resumed.Questions)
}

func TestResultsHiddenWhenNotImmediate(t *testing.T) {
	h := newHarness(t)
	req := h.examRequest()
	no := false
	req.ShowResultsImmediately = &no
	exam := h.activeExam(t, req, mcq("q", 1, 0, "a", "b"))

	view, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	require.NoError(t, err)
	result, err := h.attemptSvc.SubmitExam(h.ctx, studentID, exam.ID, &SubmitExamRequest{AttemptID: view.AttemptID})
	require.NoError(t, err)
	assert.False(t, result.ResultsVisible)
	assert.Nil(t, result.TotalScore)
	assert.Nil(t, result.IsPassed)

	review, err := h.attemptSvc.GetAttemptReview(h.ctx, studentID, view.AttemptID)
	require.NoError(t, err)
	require.Len(t, review.Questions, 1)
	assert.Nil(t, review.Questions[0].Options[0].IsCorrect)
	assert.Empty(t, review.Questions[0].CorrectAnswer)
}

func TestAttemptReview(t *testing.T) {
	h := newHarness(t)
	exam := h.activeExam(t, h.examRequest(), mcq("q", 1, 0, "a", "b"))
	q := exam.Questions[0]

	view, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	require.NoError(t, err)

	_, err = h.attemptSvc.GetAttemptReview(h.ctx, studentID, view.AttemptID)
	assert.ErrorIs(t, err, util.ErrReviewNotAllowed, "in-progress attempts cannot be reviewed")

	_, err = h.attemptSvc.SubmitExam(h.ctx, studentID, exam.ID, &SubmitExamRequest{
		AttemptID: view.AttemptID,
		Answers:   []AnswerInput{{QuestionID: q.ID, AnswerData: mcqAnswer(optionID(t, q, "b"))}},
	})
	require.NoError(t, err)

	review, err := h.attemptSvc.GetAttemptReview(h.ctx, studentID, view.AttemptID)
	require.NoError(t, err)
	rq := review.Questions[0]
	require.NotNil(t, rq.IsCorrect)
	assert.False(t, *rq.IsCorrect)
	assert.True(t, *rq.Options[0].IsCorrect)
	assert.JSONEq(t, `{"correctOptionIndexes":[0]}`, string(rq.CorrectAnswer))

	_, err = h.attemptSvc.GetAttemptReview(h.ctx, otherStudentID, view.AttemptID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestReviewDisabled(t *testing.T) {
	h := newHarness(t)
	req := h.examRequest()
	no := false
	req.AllowReview = &no
	exam := h.activeExam(t, req, mcq("q", 1, 0, "a", "b"))

	view, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
	require.NoError(t, err)
	_, err = h.attemptSvc.SubmitExam(h.ctx, studentID, exam.ID, &SubmitExamRequest{AttemptID: view.AttemptID})
	require.NoError(t, err)

	_, err = h.attemptSvc.GetAttemptReview(h.ctx, studentID, view.AttemptID)
	assert.ErrorIs(t, err, util.ErrReviewNotAllowed)
}
