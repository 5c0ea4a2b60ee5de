package service

import (
	"testing"
	"time"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExam(t *testing.T) {
	h := newHarness(t)
	teacher := Actor{UserID: teacherID, Role: model.Teacher}

	exam, err := h.examSvc.CreateExam(h.ctx, teacher, h.examRequest())
	require.NoError(t, err)
	assert.Equal(t, model.ExamStatusDraft, exam.Status)
	assert.Equal(t, teacherID, exam.CreatedBy)
	assert.Equal(t, 1, exam.MaxAttempts)
	assert.True(t, exam.ShowResultsImmediately)
	assert.True(t, exam.AllowReview)

	t.Run("other teacher's class", func(t *testing.T) {
		_, err := h.examSvc.CreateExam(h.ctx, Actor{UserID: otherTeacherID, Role: model.Teacher}, h.examRequest())
		assert.ErrorIs(t, err, util.ErrPermissionDenied)
	})

	t.Run("admin may create in any class", func(t *testing.T) {
		exam, err := h.examSvc.CreateExam(h.ctx, Actor{UserID: 99, Role: model.Admin}, h.examRequest())
		require.NoError(t, err)
		assert.Equal(t, uint(99), exam.CreatedBy)
	})

	t.Run("end before start", func(t *testing.T) {
		req := h.examRequest()
		req.EndTime = req.StartTime.Add(-time.Minute)
		_, err := h.examSvc.CreateExam(h.ctx, teacher, req)
		assert.ErrorIs(t, err, util.ErrInvalidTimeWindow)
	})

	t.Run("duration longer than window", func(t *testing.T) {
		req := h.examRequest()
		req.DurationMinutes = 121
		_, err := h.examSvc.CreateExam(h.ctx, teacher, req)
		assert.ErrorIs(t, err, util.ErrInvalidTimeWindow)
	})

	t.Run("explicit false settings are kept", func(t *testing.T) {
		req := h.examRequest()
		no := false
		req.ShowResultsImmediately = &no
		req.AllowReview = &no
		req.MaxAttempts = 3
		exam, err := h.examSvc.CreateExam(h.ctx, teacher, req)
		require.NoError(t, err)
		assert.False(t, exam.ShowResultsImmediately)
		assert.False(t, exam.AllowReview)
		assert.Equal(t, 3, exam.MaxAttempts)
	})
}

func TestExamSettingsValidator(t *testing.T) {
	v := validator.New()
	RegisterValidators(v)

	ok := ExamSettings{Title: "x", StartTime: t0, EndTime: t0.Add(time.Hour), DurationMinutes: 30}
	assert.NoError(t, v.Struct(ok))

	bad := ok
	bad.EndTime = t0
	assert.Error(t, v.Struct(bad))

	long := ok
	long.DurationMinutes = 90
	assert.Error(t, v.Struct(long))
}

func TestPublishRequiresQuestions(t *testing.T) {
	h := newHarness(t)
	exam, err := h.examSvc.CreateExam(h.ctx, Actor{UserID: teacherID, Role: model.Teacher}, h.examRequest())
	require.NoError(t, err)

	_, err = h.examSvc.PublishExam(h.ctx, teacherID, exam.ID)
	assert.ErrorIs(t, err, util.ErrNoQuestions)

	_, err = h.examSvc.AddQuestions(h.ctx, teacherID, exam.ID, []QuestionRequest{mcq("2+2?", 1, 0, "4", "5")})
	require.NoError(t, err)
	published, err := h.examSvc.PublishExam(h.ctx, teacherID, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExamStatusPublished, published.Status)
	assert.Equal(t, 1, published.TotalQuestions)
	assert.True(t, published.TotalPoints.Equal(decimal.NewFromInt(1)))
}

func TestExamStateMachine(t *testing.T) {
	h := newHarness(t)
	exam, err := h.examSvc.CreateExam(h.ctx, Actor{UserID: teacherID, Role: model.Teacher}, h.examRequest())
	require.NoError(t, err)

	_, err = h.examSvc.ActivateExam(h.ctx, teacherID, exam.ID)
	assert.ErrorIs(t, err, util.ErrInvalidExamState, "draft cannot be activated directly")

	_, err = h.examSvc.AddQuestions(h.ctx, teacherID, exam.ID, []QuestionRequest{mcq("q", 1, 0, "a", "b")})
	require.NoError(t, err)

	_, err = h.examSvc.PublishExam(h.ctx, otherTeacherID, exam.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = h.examSvc.PublishExam(h.ctx, teacherID, exam.ID)
	require.NoError(t, err)
	_, err = h.examSvc.PublishExam(h.ctx, teacherID, exam.ID)
	assert.ErrorIs(t, err, util.ErrInvalidExamState)

	_, err = h.examSvc.AddQuestions(h.ctx, teacherID, exam.ID, []QuestionRequest{mcq("late", 1, 0, "a", "b")})
	assert.ErrorIs(t, err, util.ErrInvalidExamState)

	active, err := h.examSvc.ActivateExam(h.ctx, teacherID, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExamStatusActive, active.Status)

	cancelled, err := h.examSvc.CancelExam(h.ctx, teacherID, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExamStatusCancelled, cancelled.Status)

	_, err = h.examSvc.CancelExam(h.ctx, teacherID, exam.ID)
	assert.ErrorIs(t, err, util.ErrInvalidExamState)
}

func TestCancelFromDraft(t *testing.T) {
	h := newHarness(t)
	exam, err := h.examSvc.CreateExam(h.ctx, Actor{UserID: teacherID, Role: model.Teacher}, h.examRequest())
	require.NoError(t, err)

	cancelled, err := h.examSvc.CancelExam(h.ctx, teacherID, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExamStatusCancelled, cancelled.Status)
}

func TestDeleteExam(t *testing.T) {
	h := newHarness(t)
	teacher := Actor{UserID: teacherID, Role: model.Teacher}

	t.Run("draft", func(t *testing.T) {
		exam, err := h.examSvc.CreateExam(h.ctx, teacher, h.examRequest())
		require.NoError(t, err)
		require.NoError(t, h.examSvc.DeleteExam(h.ctx, teacherID, exam.ID))
		_, err = h.exams.FindByID(h.ctx, exam.ID)
		assert.ErrorIs(t, err, util.ErrExamNotFound)
	})

	t.Run("active without attempts", func(t *testing.T) {
		exam := h.activeExam(t, h.examRequest(), mcq("q", 1, 0, "a", "b"))
		assert.NoError(t, h.examSvc.DeleteExam(h.ctx, teacherID, exam.ID))
	})

	t.Run("active with attempts", func(t *testing.T) {
		exam := h.activeExam(t, h.examRequest(), mcq("q", 1, 0, "a", "b"))
		_, err := h.attemptSvc.StartExam(h.ctx, studentID, exam.ID, StartExamMeta{})
		require.NoError(t, err)

		err = h.examSvc.DeleteExam(h.ctx, teacherID, exam.ID)
		assert.ErrorIs(t, err, util.ErrExamHasAttempts)
	})

	t.Run("not the creator", func(t *testing.T) {
		exam, err := h.examSvc.CreateExam(h.ctx, teacher, h.examRequest())
		require.NoError(t, err)
		assert.ErrorIs(t, h.examSvc.DeleteExam(h.ctx, otherTeacherID, exam.ID), util.ErrPermissionDenied)
	})
}

func TestAddAndDeleteQuestions(t *testing.T) {
	h := newHarness(t)
	exam, err := h.examSvc.CreateExam(h.ctx, Actor{UserID: teacherID, Role: model.Teacher}, h.examRequest())
	require.NoError(t, err)

	updated, err := h.examSvc.AddQuestions(h.ctx, teacherID, exam.ID, []QuestionRequest{
		mcq("q1", 2, 1, "a", "b", "c"),
		trueFalse("q2", 1, false),
		{Type: model.QuestionTypeEssay, Text: "Explain", Points: decimal.NewFromInt(5)},
	})
	require.NoError(t, err)
	require.Len(t, updated.Questions, 3)
	assert.Equal(t, 3, updated.TotalQuestions)
	assert.True(t, updated.TotalPoints.Equal(decimal.NewFromInt(8)))
	assert.JSONEq(t, `{"correctOptionIndexes":[1]}`, string(updated.Questions[0].CorrectAnswer))
	assert.JSONEq(t, `{"answer":false}`, string(updated.Questions[1].CorrectAnswer))
	assert.Equal(t, []int{1, 2, 3}, []int{updated.Questions[0].OrderIndex, updated.Questions[1].OrderIndex, updated.Questions[2].OrderIndex})

	_, err = h.examSvc.AddQuestions(h.ctx, teacherID, exam.ID, []QuestionRequest{mcq("no answer", 1, -1, "a", "b")})
	assert.ErrorIs(t, err, util.ErrInvalidQuestion)

	afterDelete, err := h.examSvc.DeleteQuestion(h.ctx, teacherID, exam.ID, updated.Questions[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, afterDelete.TotalQuestions)
	assert.True(t, afterDelete.TotalPoints.Equal(decimal.NewFromInt(3)))

	_, err = h.examSvc.DeleteQuestion(h.ctx, teacherID, exam.ID, 9999)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestExamVisibility(t *testing.T) {
	h := newHarness(t)
	exam := h.activeExam(t, h.examRequest(), mcq("q", 1, 0, "a", "b"))

	_, err := h.examSvc.GetExam(h.ctx, Actor{UserID: studentID, Role: model.Student}, exam.ID)
	assert.NoError(t, err)
	_, err = h.examSvc.GetExam(h.ctx, Actor{UserID: outsiderID, Role: model.Student}, exam.ID)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
	_, err = h.examSvc.GetExam(h.ctx, Actor{UserID: otherTeacherID, Role: model.Teacher}, exam.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	preview, err := h.examSvc.PreviewExam(h.ctx, teacherID, exam.ID)
	require.NoError(t, err)
	assert.True(t, preview.Questions[0].Options[0].IsCorrect)
	_, err = h.examSvc.PreviewExam(h.ctx, otherTeacherID, exam.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	page, err := h.examSvc.ListByClass(h.ctx, Actor{UserID: teacherID, Role: model.Teacher}, h.classID, 0, 0, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, util.DefaultLimit, page.Limit)
	_, err = h.examSvc.ListByClass(h.ctx, Actor{UserID: otherTeacherID, Role: model.Teacher}, h.classID, 1, 10, "")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	mine, err := h.examSvc.ListByLecturer(h.ctx, teacherID, 1, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, mine.Total)
}
