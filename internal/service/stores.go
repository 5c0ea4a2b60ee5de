package service

import (
	"context"
	"time"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/repository"

	"github.com/shopspring/decimal"
)

// 以下接口由 repository 包中的 gorm 实现满足，测试中使用内存实现

type ExamStore interface {
	Create(ctx context.Context, exam *model.Exam) error
	Update(ctx context.Context, exam *model.Exam) error
	TransitionStatus(ctx context.Context, examID uint, from, to model.ExamStatus) (bool, error)
	FindByID(ctx context.Context, id uint) (*model.Exam, error)
	FindWithQuestions(ctx context.Context, id uint) (*model.Exam, error)
	ListByClass(ctx context.Context, classID uint, page, limit int, sort string) ([]model.Exam, int64, error)
	ListByCreator(ctx context.Context, creatorID uint, page, limit int, sort string) ([]model.Exam, int64, error)
	ListAvailableForStudent(ctx context.Context, studentID uint, now time.Time) ([]model.Exam, error)
	FindPublishedStartingBefore(ctx context.Context, t time.Time) ([]model.Exam, error)
	FindActiveEndedBefore(ctx context.Context, t time.Time) ([]model.Exam, error)
	Delete(ctx context.Context, examID uint) error
	DeleteQuestions(ctx context.Context, examID uint) error
	CountQuestions(ctx context.Context, examID uint) (int64, error)
	MaxOrderIndex(ctx context.Context, examID uint) (int, error)
	CreateQuestions(ctx context.Context, questions []model.ExamQuestion) error
	FindQuestion(ctx context.Context, examID, questionID uint) (*model.ExamQuestion, error)
	DeleteQuestion(ctx context.Context, questionID uint) error
	RecomputeTotals(ctx context.Context, examID uint) (int, decimal.Decimal, error)
}

type AttemptStore interface {
	Create(ctx context.Context, attempt *model.ExamAttempt) error
	FindByID(ctx context.Context, id uint) (*model.ExamAttempt, error)
	FindInProgress(ctx context.Context, examID, studentID uint) (*model.ExamAttempt, error)
	CountByExamAndStudent(ctx context.Context, examID, studentID uint) (int64, error)
	CountByExam(ctx context.Context, examID uint) (int64, error)
	ListByExamAndStudent(ctx context.Context, examID, studentID uint) ([]model.ExamAttempt, error)
	FindBestGraded(ctx context.Context, examID, studentID uint) (*model.ExamAttempt, error)
	FindInProgressStartedAfter(ctx context.Context, since time.Time) ([]model.ExamAttempt, error)
	FindAnswers(ctx context.Context, attemptID uint) ([]model.ExamAnswer, error)
	SaveAnswers(ctx context.Context, attemptID uint, answers []model.ExamAnswer) error
	SaveSubmission(ctx context.Context, s *repository.Submission) error
	ListForExport(ctx context.Context, examID uint) ([]repository.AttemptExportRow, error)
}

type ClassStore interface {
	Create(ctx context.Context, class *model.Class) error
	FindByID(ctx context.Context, id uint) (*model.Class, error)
	AddMembers(ctx context.Context, classID uint, studentIDs []uint) error
	IsMember(ctx context.Context, classID, studentID uint) (bool, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]model.Class, error)
	ListByStudent(ctx context.Context, studentID uint) ([]model.Class, error)
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.User, error)
}

type NotebookFileStore interface {
	Create(ctx context.Context, f *model.NotebookFile) error
	Update(ctx context.Context, f *model.NotebookFile) error
	FindByID(ctx context.Context, id uint) (*model.NotebookFile, error)
	FindByIDsAndOwner(ctx context.Context, ids []uint, ownerID uint) ([]model.NotebookFile, error)
	ListByOwner(ctx context.Context, ownerID, notebookID uint) ([]model.NotebookFile, error)
	Delete(ctx context.Context, id uint) error
}

type GenerationTaskStore interface {
	Create(ctx context.Context, task *model.GenerationTask) error
	Update(ctx context.Context, task *model.GenerationTask) error
	FindByID(ctx context.Context, id string) (*model.GenerationTask, error)
	FailUnfinished(ctx context.Context, reason string, now time.Time) (int64, error)
}

// Actor 当前请求的用户身份
type Actor struct {
	UserID uint
	Role   model.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.Admin
}
