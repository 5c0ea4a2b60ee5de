package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"edu_exam_backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	teacherID      uint = 10
	otherTeacherID uint = 11
	studentID      uint = 20
	otherStudentID uint = 21
	outsiderID     uint = 22
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type harness struct {
	ctx        context.Context
	clock      *testClock
	classes    *fakeClassStore
	exams      *fakeExamStore
	attempts   *fakeAttemptStore
	examSvc    *ExamService
	attemptSvc *ExamAttemptService
	classID    uint
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		ctx:      context.Background(),
		clock:    &testClock{now: t0.Add(-time.Hour)},
		classes:  newFakeClassStore(),
		attempts: newFakeAttemptStore(),
	}
	h.exams = newFakeExamStore(h.classes)
	h.examSvc = NewExamService(h.exams, h.attempts, h.classes)
	h.examSvc.now = h.clock.Now
	h.attemptSvc = NewExamAttemptService(h.exams, h.attempts, h.classes)
	h.attemptSvc.now = h.clock.Now

	class := &model.Class{Name: "Algorithms", TeacherID: teacherID}
	require.NoError(t, h.classes.Create(h.ctx, class))
	require.NoError(t, h.classes.AddMembers(h.ctx, class.ID, []uint{studentID, otherStudentID}))
	h.classID = class.ID
	return h
}

// examRequest 考试窗口 t0..t0+2h，单次 60 分钟
func (h *harness) examRequest() *CreateExamRequest {
	return &CreateExamRequest{
		ClassID: h.classID,
		ExamSettings: ExamSettings{
			Title:           "Midterm",
			StartTime:       t0,
			EndTime:         t0.Add(2 * time.Hour),
			DurationMinutes: 60,
			PassingScore:    decimal.NewFromInt(1),
		},
	}
}

func mcq(text string, points int64, correct int, options ...string) QuestionRequest {
	req := QuestionRequest{Type: model.QuestionTypeMCQ, Text: text, Points: decimal.NewFromInt(points)}
	for i, o := range options {
		req.Options = append(req.Options, OptionRequest{Text: o, IsCorrect: i == correct})
	}
	return req
}

func trueFalse(text string, points int64, answer bool) QuestionRequest {
	key := `{"answer": false}`
	if answer {
		key = `{"answer": true}`
	}
	return QuestionRequest{
		Type:          model.QuestionTypeTrueFalse,
		Text:          text,
		Points:        decimal.NewFromInt(points),
		CorrectAnswer: []byte(key),
	}
}

// activeExam 创建、添加题目、发布并开放考试，时钟停在开考后 5 分钟
func (h *harness) activeExam(t *testing.T, req *CreateExamRequest, questions ...QuestionRequest) *model.Exam {
	t.Helper()
	exam, err := h.examSvc.CreateExam(h.ctx, Actor{UserID: teacherID, Role: model.Teacher}, req)
	require.NoError(t, err)
	_, err = h.examSvc.AddQuestions(h.ctx, teacherID, exam.ID, questions)
	require.NoError(t, err)
	_, err = h.examSvc.PublishExam(h.ctx, teacherID, exam.ID)
	require.NoError(t, err)
	_, err = h.examSvc.ActivateExam(h.ctx, teacherID, exam.ID)
	require.NoError(t, err)

	h.clock.Set(t0.Add(5 * time.Minute))
	full, err := h.exams.FindWithQuestions(h.ctx, exam.ID)
	require.NoError(t, err)
	return full
}

func optionID(t *testing.T, q model.ExamQuestion, text string) uint {
	t.Helper()
	for _, o := range q.Options {
		if o.Text == text {
			return o.ID
		}
	}
	t.Fatalf("option %q not found", text)
	return 0
}
