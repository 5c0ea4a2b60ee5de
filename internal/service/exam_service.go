package service

import (
	"context"
	"fmt"
	"time"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"
	"edu_exam_backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExamSettings 创建和修改考试共用的配置项
type ExamSettings struct {
	Title                  string          `json:"title" binding:"required,max=255"`
	Description            string          `json:"description"`
	StartTime              time.Time       `json:"startTime" binding:"required"`
	EndTime                time.Time       `json:"endTime" binding:"required"`
	DurationMinutes        int             `json:"durationMinutes" binding:"required,min=1"`
	PassingScore           decimal.Decimal `json:"passingScore"`
	ShuffleQuestions       bool            `json:"shuffleQuestions"`
	ShuffleOptions         bool            `json:"shuffleOptions"`
	ShowResultsImmediately *bool           `json:"showResultsImmediately"`
	AllowReview            *bool           `json:"allowReview"`
	MaxAttempts            int             `json:"maxAttempts" binding:"omitempty,min=1"`
	EnableProctoring       bool            `json:"enableProctoring"`
	EnableLockdown         bool            `json:"enableLockdown"`
	EnablePlagiarismCheck  bool            `json:"enablePlagiarismCheck"`
}

type CreateExamRequest struct {
	ClassID uint `json:"classId" binding:"required"`
	ExamSettings
}

type UpdateExamRequest struct {
	ExamSettings
}

// ValidateWindow 结束时间晚于开始时间，单次作答时长不超过考试窗口
func (s *ExamSettings) ValidateWindow() error {
	if !s.EndTime.After(s.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", util.ErrInvalidTimeWindow)
	}
	if s.DurationMinutes < 1 {
		return fmt.Errorf("%w: durationMinutes must be at least 1", util.ErrInvalidTimeWindow)
	}
	if time.Duration(s.DurationMinutes)*time.Minute > s.EndTime.Sub(s.StartTime) {
		return fmt.Errorf("%w: durationMinutes exceeds the exam window", util.ErrInvalidTimeWindow)
	}
	if s.MaxAttempts < 0 {
		return fmt.Errorf("%w: maxAttempts must be at least 1", util.ErrInvalidExamSettings)
	}
	if s.PassingScore.IsNegative() {
		return fmt.Errorf("%w: passingScore must not be negative", util.ErrInvalidExamSettings)
	}
	return nil
}

// ExamSettingsStructLevel 注册到 gin 的校验器，请求绑定阶段即拒绝非法时间窗口
func ExamSettingsStructLevel(sl validator.StructLevel) {
	s := sl.Current().Interface().(ExamSettings)
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return
	}
	if !s.EndTime.After(s.StartTime) {
		sl.ReportError(s.EndTime, "EndTime", "endTime", "gtfield", "StartTime")
		return
	}
	if time.Duration(s.DurationMinutes)*time.Minute > s.EndTime.Sub(s.StartTime) {
		sl.ReportError(s.DurationMinutes, "DurationMinutes", "durationMinutes", "examwindow", "")
	}
}

func RegisterValidators(v *validator.Validate) {
	v.RegisterStructValidation(ExamSettingsStructLevel, ExamSettings{})
}

func (s *ExamSettings) apply(exam *model.Exam) {
	exam.Title = s.Title
	exam.Description = s.Description
	exam.StartTime = s.StartTime
	exam.EndTime = s.EndTime
	exam.DurationMinutes = s.DurationMinutes
	exam.PassingScore = s.PassingScore
	exam.ShuffleQuestions = s.ShuffleQuestions
	exam.ShuffleOptions = s.ShuffleOptions
	exam.ShowResultsImmediately = s.ShowResultsImmediately == nil || *s.ShowResultsImmediately
	exam.AllowReview = s.AllowReview == nil || *s.AllowReview
	exam.MaxAttempts = s.MaxAttempts
	if exam.MaxAttempts == 0 {
		exam.MaxAttempts = 1
	}
	exam.EnableProctoring = s.EnableProctoring
	exam.EnableLockdown = s.EnableLockdown
	exam.EnablePlagiarismCheck = s.EnablePlagiarismCheck
}

type ExamListResult = util.PageResponse

// AvailableExam 学生可参加的考试及已用次数
type AvailableExam struct {
	model.Exam
	AttemptsUsed int64 `json:"attemptsUsed"`
	CanStart     bool  `json:"canStart"`
}

type ExamService struct {
	ExamRepo    ExamStore
	AttemptRepo AttemptStore
	ClassRepo   ClassStore
	now         func() time.Time
}

func NewExamService(examRepo ExamStore, attemptRepo AttemptStore, classRepo ClassStore) *ExamService {
	return &ExamService{
		ExamRepo:    examRepo,
		AttemptRepo: attemptRepo,
		ClassRepo:   classRepo,
		now:         time.Now,
	}
}

// loadOwned 读取考试并校验创建者
func (s *ExamService) loadOwned(ctx context.Context, teacherID, examID uint) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !exam.IsOwnedBy(teacherID) {
		return nil, fmt.Errorf("%w: only the exam creator can do this", util.ErrPermissionDenied)
	}
	return exam, nil
}

func requireStatus(exam *model.Exam, want model.ExamStatus, action string) error {
	if exam.Status != want {
		return fmt.Errorf("%w: %s requires status %s, exam is %s", util.ErrInvalidExamState, action, want, exam.Status)
	}
	return nil
}

func (s *ExamService) CreateExam(ctx context.Context, actor Actor, req *CreateExamRequest) (*model.Exam, error) {
	if err := req.ValidateWindow(); err != nil {
		return nil, err
	}
	class, err := s.ClassRepo.FindByID(ctx, req.ClassID)
	if err != nil {
		return nil, err
	}
	if class.TeacherID != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: class %d belongs to another teacher", util.ErrPermissionDenied, class.ID)
	}

	exam := &model.Exam{
		ClassID:     req.ClassID,
		Status:      model.ExamStatusDraft,
		CreatedBy:   actor.UserID,
		TotalPoints: decimal.Zero,
	}
	req.apply(exam)
	if err := s.ExamRepo.Create(ctx, exam); err != nil {
		return nil, err
	}
	logger.Log.Info("exam created", zap.Uint("examId", exam.ID), zap.Uint("classId", exam.ClassID), zap.Uint("teacherId", actor.UserID))
	return exam, nil
}

func (s *ExamService) UpdateExam(ctx context.Context, teacherID, examID uint, req *UpdateExamRequest) (*model.Exam, error) {
	if err := req.ValidateWindow(); err != nil {
		return nil, err
	}
	exam, err := s.loadOwned(ctx, teacherID, examID)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(exam, model.ExamStatusDraft, "update"); err != nil {
		return nil, err
	}
	req.apply(exam)
	if err := s.ExamRepo.Update(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

// AddQuestions 手动追加题目，题数与总分按持久化结果重算
func (s *ExamService) AddQuestions(ctx context.Context, teacherID, examID uint, reqs []QuestionRequest) (*model.Exam, error) {
	exam, err := s.loadOwned(ctx, teacherID, examID)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(exam, model.ExamStatusDraft, "adding questions"); err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no questions given", util.ErrInvalidQuestion)
	}

	order, err := s.ExamRepo.MaxOrderIndex(ctx, examID)
	if err != nil {
		return nil, err
	}
	questions := make([]model.ExamQuestion, 0, len(reqs))
	for i, req := range reqs {
		q, err := buildQuestion(examID, req, order+i+1, decimal.NewFromInt(1))
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	if err := s.ExamRepo.CreateQuestions(ctx, questions); err != nil {
		return nil, err
	}
	if _, _, err := s.ExamRepo.RecomputeTotals(ctx, examID); err != nil {
		return nil, err
	}
	return s.ExamRepo.FindWithQuestions(ctx, examID)
}

func (s *ExamService) DeleteQuestion(ctx context.Context, teacherID, examID, questionID uint) (*model.Exam, error) {
	exam, err := s.loadOwned(ctx, teacherID, examID)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(exam, model.ExamStatusDraft, "deleting questions"); err != nil {
		return nil, err
	}
	if _, err := s.ExamRepo.FindQuestion(ctx, examID, questionID); err != nil {
		return nil, err
	}
	if err := s.ExamRepo.DeleteQuestion(ctx, questionID); err != nil {
		return nil, err
	}
	if _, _, err := s.ExamRepo.RecomputeTotals(ctx, examID); err != nil {
		return nil, err
	}
	return s.ExamRepo.FindByID(ctx, examID)
}

// PublishExam 以数据库中的题目数为准，不信任内存中的统计
func (s *ExamService) PublishExam(ctx context.Context, teacherID, examID uint) (*model.Exam, error) {
	exam, err := s.loadOwned(ctx, teacherID, examID)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(exam, model.ExamStatusDraft, "publish"); err != nil {
		return nil, err
	}
	count, err := s.ExamRepo.CountQuestions(ctx, examID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, util.ErrNoQuestions
	}
	if _, _, err := s.ExamRepo.RecomputeTotals(ctx, examID); err != nil {
		return nil, err
	}
	return s.transition(ctx, examID, model.ExamStatusDraft, model.ExamStatusPublished)
}

func (s *ExamService) ActivateExam(ctx context.Context, teacherID, examID uint) (*model.Exam, error) {
	exam, err := s.loadOwned(ctx, teacherID, examID)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(exam, model.ExamStatusPublished, "activate"); err != nil {
		return nil, err
	}
	return s.transition(ctx, examID, model.ExamStatusPublished, model.ExamStatusActive)
}

// CancelExam 已有的作答记录保持不变
func (s *ExamService) CancelExam(ctx context.Context, teacherID, examID uint) (*model.Exam, error) {
	exam, err := s.loadOwned(ctx, teacherID, examID)
	if err != nil {
		return nil, err
	}
	if exam.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: exam is already %s", util.ErrInvalidExamState, exam.Status)
	}
	return s.transition(ctx, examID, exam.Status, model.ExamStatusCancelled)
}

func (s *ExamService) transition(ctx context.Context, examID uint, from, to model.ExamStatus) (*model.Exam, error) {
	ok, err := s.ExamRepo.TransitionStatus(ctx, examID, from, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: exam status changed concurrently", util.ErrInvalidExamState)
	}
	logger.Log.Info("exam status changed", zap.Uint("examId", examID), zap.String("from", string(from)), zap.String("to", string(to)))
	return s.ExamRepo.FindByID(ctx, examID)
}

// DeleteExam 草稿可直接删除，其它状态只有在无人作答时才可删除
func (s *ExamService) DeleteExam(ctx context.Context, teacherID, examID uint) error {
	exam, err := s.loadOwned(ctx, teacherID, examID)
	if err != nil {
		return err
	}
	if exam.Status != model.ExamStatusDraft {
		count, err := s.AttemptRepo.CountByExam(ctx, examID)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %d attempts recorded", util.ErrExamHasAttempts, count)
		}
	}
	if err := s.ExamRepo.Delete(ctx, examID); err != nil {
		return err
	}
	logger.Log.Info("exam deleted", zap.Uint("examId", examID), zap.Uint("teacherId", teacherID))
	return nil
}

// GetExam 创建者、管理员或班级学生可查看考试信息，不含题目
func (s *ExamService) GetExam(ctx context.Context, actor Actor, examID uint) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam.IsOwnedBy(actor.UserID) || actor.IsAdmin() {
		return exam, nil
	}
	if actor.Role == model.Student {
		ok, err := s.ClassRepo.IsMember(ctx, exam.ClassID, actor.UserID)
		if err != nil {
			return nil, err
		}
		if ok {
			return exam, nil
		}
		return nil, util.ErrNotEnrolled
	}
	return nil, util.ErrPermissionDenied
}

func (s *ExamService) ListByClass(ctx context.Context, actor Actor, classID uint, page, limit int, sort string) (*ExamListResult, error) {
	class, err := s.ClassRepo.FindByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if class.TeacherID != actor.UserID && !actor.IsAdmin() {
		return nil, util.ErrPermissionDenied
	}
	page, limit = util.NormalizePage(page, limit)
	exams, total, err := s.ExamRepo.ListByClass(ctx, classID, page, limit, sort)
	if err != nil {
		return nil, err
	}
	return &ExamListResult{List: exams, Total: total, Page: page, Limit: limit}, nil
}

func (s *ExamService) ListByLecturer(ctx context.Context, teacherID uint, page, limit int, sort string) (*ExamListResult, error) {
	page, limit = util.NormalizePage(page, limit)
	exams, total, err := s.ExamRepo.ListByCreator(ctx, teacherID, page, limit, sort)
	if err != nil {
		return nil, err
	}
	return &ExamListResult{List: exams, Total: total, Page: page, Limit: limit}, nil
}

// PreviewExam 含正确答案，仅创建者可见
func (s *ExamService) PreviewExam(ctx context.Context, teacherID, examID uint) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindWithQuestions(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !exam.IsOwnedBy(teacherID) {
		return nil, util.ErrPermissionDenied
	}
	return exam, nil
}

func (s *ExamService) ListAvailableExams(ctx context.Context, studentID uint) ([]AvailableExam, error) {
	now := s.now()
	exams, err := s.ExamRepo.ListAvailableForStudent(ctx, studentID, now)
	if err != nil {
		return nil, err
	}
	result := make([]AvailableExam, 0, len(exams))
	for i := range exams {
		if !exams[i].CanStudentTakeExam(now) {
			continue
		}
		used, err := s.AttemptRepo.CountByExamAndStudent(ctx, exams[i].ID, studentID)
		if err != nil {
			return nil, err
		}
		inProgress, err := s.AttemptRepo.FindInProgress(ctx, exams[i].ID, studentID)
		if err != nil {
			return nil, err
		}
		result = append(result, AvailableExam{
			Exam:         exams[i],
			AttemptsUsed: used,
			CanStart:     inProgress != nil || used < int64(exams[i].MaxAttempts),
		})
	}
	return result, nil
}
