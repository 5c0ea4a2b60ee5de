package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/repository"
	"edu_exam_backend/internal/util"
	"edu_exam_backend/pkg/logger"
	"edu_exam_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StartExamMeta struct {
	BrowserInfo string `json:"browserInfo"`
	IPAddress   string `json:"-"`
	UserAgent   string `json:"-"`
}

type AnswerInput struct {
	QuestionID       uint            `json:"questionId" binding:"required"`
	AnswerData       json.RawMessage `json:"answerData"`
	TimeSpentSeconds int             `json:"timeSpentSeconds"`
}

type SubmitExamRequest struct {
	AttemptID uint          `json:"attemptId" binding:"required"`
	Answers   []AnswerInput `json:"answers"`
}

type ExamAttemptService struct {
	ExamRepo    ExamStore
	AttemptRepo AttemptStore
	ClassRepo   ClassStore
	now         func() time.Time
	shuffle     func(n int, swap func(i, j int))
}

func NewExamAttemptService(examRepo ExamStore, attemptRepo AttemptStore, classRepo ClassStore) *ExamAttemptService {
	return &ExamAttemptService{
		ExamRepo:    examRepo,
		AttemptRepo: attemptRepo,
		ClassRepo:   classRepo,
		now:         time.Now,
		shuffle:     rand.Shuffle,
	}
}

// StartExam 已有进行中的作答时原样返回，保证重复开考幂等
func (s *ExamAttemptService) StartExam(ctx context.Context, studentID, examID uint, meta StartExamMeta) (*AttemptView, error) {
	now := s.now()
	exam, err := s.ExamRepo.FindByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !exam.CanStudentTakeExam(now) {
		return nil, fmt.Errorf("%w: exam is %s and open from %s to %s", util.ErrExamNotAvailable,
			exam.Status, exam.StartTime.Format(time.RFC3339), exam.EndTime.Format(time.RFC3339))
	}
	enrolled, err := s.ClassRepo.IsMember(ctx, exam.ClassID, studentID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	if view, err := s.resume(ctx, examID, studentID); view != nil || err != nil {
		return view, err
	}

	count, err := s.AttemptRepo.CountByExamAndStudent(ctx, examID, studentID)
	if err != nil {
		return nil, err
	}
	if count >= int64(exam.MaxAttempts) {
		return nil, fmt.Errorf("%w: %d of %d used", util.ErrMaxAttemptsReached, count, exam.MaxAttempts)
	}

	full, err := s.ExamRepo.FindWithQuestions(ctx, examID)
	if err != nil {
		return nil, err
	}
	if len(full.Questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	attempt := &model.ExamAttempt{
		ExamID:            examID,
		StudentID:         studentID,
		AttemptNumber:     int(count) + 1,
		Status:            model.AttemptInProgress,
		StartedAt:         now,
		ExamSnapshot:      datatypes.NewJSONType(model.NewExamSnapshot(full, now)),
		QuestionsSnapshot: datatypes.NewJSONType(s.buildQuestionsSnapshot(full)),
		BrowserInfo:       meta.BrowserInfo,
		IPAddress:         meta.IPAddress,
		UserAgent:         meta.UserAgent,
	}
	if err := s.AttemptRepo.Create(ctx, attempt); err != nil {
		// 并发开考时唯一索引冲突，返回另一请求创建的作答
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if view, rerr := s.resume(ctx, examID, studentID); view != nil || rerr != nil {
				return view, rerr
			}
		}
		return nil, err
	}

	logger.Log.Info("exam attempt started",
		zap.Uint("examId", examID), zap.Uint("studentId", studentID),
		zap.Uint("attemptId", attempt.ID), zap.Int("attemptNumber", attempt.AttemptNumber))
	return newAttemptView(attempt, nil, false), nil
}

func (s *ExamAttemptService) resume(ctx context.Context, examID, studentID uint) (*AttemptView, error) {
	existing, err := s.AttemptRepo.FindInProgress(ctx, examID, studentID)
	if err != nil || existing == nil {
		return nil, err
	}
	answers, err := s.AttemptRepo.FindAnswers(ctx, existing.ID)
	if err != nil {
		return nil, err
	}
	return newAttemptView(existing, answers, true), nil
}

// buildQuestionsSnapshot 乱序在此一次性确定，之后展示与评分都使用这个顺序
func (s *ExamAttemptService) buildQuestionsSnapshot(exam *model.Exam) model.QuestionsSnapshot {
	qs := make(model.QuestionsSnapshot, 0, len(exam.Questions))
	for i := range exam.Questions {
		qs = append(qs, model.NewQuestionSnapshot(&exam.Questions[i]))
	}
	if exam.ShuffleQuestions {
		s.shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
		for i := range qs {
			qs[i].OrderIndex = i + 1
		}
	}
	if exam.ShuffleOptions {
		for i := range qs {
			opts := qs[i].Options
			if qs[i].Type == model.QuestionTypeTrueFalse {
				continue
			}
			s.shuffle(len(opts), func(a, b int) { opts[a], opts[b] = opts[b], opts[a] })
			for j := range opts {
				opts[j].OrderIndex = j + 1
			}
		}
	}
	return qs
}

func (s *ExamAttemptService) loadOwnedAttempt(ctx context.Context, studentID, attemptID uint) (*model.ExamAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if !attempt.IsOwnedBy(studentID) {
		return nil, fmt.Errorf("%w: attempt belongs to another student", util.ErrPermissionDenied)
	}
	return attempt, nil
}

// toAnswers 答案内容按原样保存，不在写入时校验结构
func toAnswers(attempt *model.ExamAttempt, inputs []AnswerInput) ([]model.ExamAnswer, error) {
	questions := attempt.QuestionsSnapshot.Data()
	seen := make(map[uint]int, len(inputs))
	answers := make([]model.ExamAnswer, 0, len(inputs))
	for _, in := range inputs {
		q, ok := questions.Find(in.QuestionID)
		if !ok {
			return nil, fmt.Errorf("%w: question %d is not part of this attempt", util.ErrInvalidAnswer, in.QuestionID)
		}
		a := model.ExamAnswer{
			AttemptID:        attempt.ID,
			QuestionID:       in.QuestionID,
			AnswerType:       q.Type,
			AnswerData:       datatypes.JSON(in.AnswerData),
			TimeSpentSeconds: in.TimeSpentSeconds,
		}
		if len(a.AnswerData) == 0 {
			a.AnswerData = datatypes.JSON("null")
		}
		// 同一题重复提交时以最后一次为准
		if idx, dup := seen[in.QuestionID]; dup {
			answers[idx] = a
			continue
		}
		seen[in.QuestionID] = len(answers)
		answers = append(answers, a)
	}
	return answers, nil
}

func requireInProgress(a *model.ExamAttempt) error {
	if a.Status != model.AttemptInProgress {
		return fmt.Errorf("%w: attempt is %s", util.ErrAttemptNotInProgress, a.Status)
	}
	return nil
}

// SaveAnswers 作答过程中的自动保存
func (s *ExamAttemptService) SaveAnswers(ctx context.Context, studentID, attemptID uint, inputs []AnswerInput) (int, error) {
	attempt, err := s.loadOwnedAttempt(ctx, studentID, attemptID)
	if err != nil {
		return 0, err
	}
	if err := requireInProgress(attempt); err != nil {
		return 0, err
	}
	answers, err := toAnswers(attempt, inputs)
	if err != nil {
		return 0, err
	}
	if err := s.AttemptRepo.SaveAnswers(ctx, attempt.ID, answers); err != nil {
		return 0, err
	}
	return len(answers), nil
}

func (s *ExamAttemptService) SubmitExam(ctx context.Context, studentID, examID uint, req *SubmitExamRequest) (*AttemptResult, error) {
	attempt, err := s.loadOwnedAttempt(ctx, studentID, req.AttemptID)
	if err != nil {
		return nil, err
	}
	if attempt.ExamID != examID {
		return nil, fmt.Errorf("%w: attempt %d does not belong to exam %d", util.ErrAttemptNotFound, attempt.ID, examID)
	}
	return s.submit(ctx, attempt, req.Answers, false)
}

// ForceSubmit 调度器超时交卷，不校验归属
func (s *ExamAttemptService) ForceSubmit(ctx context.Context, attemptID uint) (*AttemptResult, error) {
	attempt, err := s.AttemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, attempt, nil, true)
}

func (s *ExamAttemptService) submit(ctx context.Context, attempt *model.ExamAttempt, inputs []AnswerInput, auto bool) (*AttemptResult, error) {
	if err := requireInProgress(attempt); err != nil {
		return nil, err
	}
	submitted, err := toAnswers(attempt, inputs)
	if err != nil {
		return nil, err
	}
	saved, err := s.AttemptRepo.FindAnswers(ctx, attempt.ID)
	if err != nil {
		return nil, err
	}
	answers := mergeAnswers(saved, submitted)

	now := s.now()
	outcome := GradeAttempt(attempt.ExamSnapshot.Data(), attempt.QuestionsSnapshot.Data(), answers, now)

	status := model.AttemptSubmitted
	if auto {
		status = model.AttemptAutoSubmitted
	}
	timeSpent := int(now.Sub(attempt.StartedAt).Seconds())
	if timeSpent < 0 {
		timeSpent = 0
	}
	err = s.AttemptRepo.SaveSubmission(ctx, &repository.Submission{
		AttemptID:        attempt.ID,
		SubmitStatus:     status,
		AutoSubmitted:    auto,
		SubmittedAt:      now,
		TimeSpentSeconds: timeSpent,
		Answers:          outcome.Answers,
		TotalScore:       outcome.TotalScore,
		PercentageScore:  outcome.PercentageScore,
		IsPassed:         outcome.IsPassed,
	})
	if err != nil {
		return nil, err
	}

	mode := "manual"
	if auto {
		mode = "auto"
	}
	monitoring.AttemptsSubmitted.WithLabelValues(mode).Inc()
	logger.Log.Info("exam attempt graded",
		zap.Uint("attemptId", attempt.ID), zap.Uint("examId", attempt.ExamID),
		zap.String("mode", mode), zap.String("totalScore", outcome.TotalScore.String()),
		zap.Int("gradedAnswers", outcome.GradedCount))

	attempt.Status = model.AttemptGraded
	attempt.AutoSubmitted = auto
	attempt.SubmittedAt = &now
	attempt.TimeSpentSeconds = timeSpent
	attempt.TotalScore = outcome.TotalScore
	attempt.PercentageScore = outcome.PercentageScore
	attempt.IsPassed = outcome.IsPassed
	return newAttemptResult(attempt), nil
}

// mergeAnswers 本次提交的答案覆盖自动保存的答案，写入时按 (attempt, question) 唯一键更新
func mergeAnswers(saved, submitted []model.ExamAnswer) []model.ExamAnswer {
	idx := make(map[uint]int, len(saved)+len(submitted))
	merged := make([]model.ExamAnswer, 0, len(saved)+len(submitted))
	for _, list := range [][]model.ExamAnswer{saved, submitted} {
		for _, a := range list {
			a.ID = 0
			if i, ok := idx[a.QuestionID]; ok {
				merged[i] = a
				continue
			}
			idx[a.QuestionID] = len(merged)
			merged = append(merged, a)
		}
	}
	return merged
}

// GetResult 取得分最高的已评分作答，同分取最早的一次
func (s *ExamAttemptService) GetResult(ctx context.Context, studentID, examID uint) (*AttemptResult, error) {
	attempt, err := s.AttemptRepo.FindBestGraded(ctx, examID, studentID)
	if err != nil {
		return nil, err
	}
	return newAttemptResult(attempt), nil
}

func (s *ExamAttemptService) ListMyAttempts(ctx context.Context, studentID, examID uint) ([]AttemptResult, error) {
	attempts, err := s.AttemptRepo.ListByExamAndStudent(ctx, examID, studentID)
	if err != nil {
		return nil, err
	}
	out := make([]AttemptResult, 0, len(attempts))
	for i := range attempts {
		out = append(out, *newAttemptResult(&attempts[i]))
	}
	return out, nil
}

func (s *ExamAttemptService) GetAttemptReview(ctx context.Context, studentID, attemptID uint) (*AttemptReview, error) {
	attempt, err := s.loadOwnedAttempt(ctx, studentID, attemptID)
	if err != nil {
		return nil, err
	}
	if !attempt.ExamSnapshot.Data().AllowReview {
		return nil, util.ErrReviewNotAllowed
	}
	if attempt.Status != model.AttemptGraded {
		return nil, fmt.Errorf("%w: attempt is %s", util.ErrReviewNotAllowed, attempt.Status)
	}
	answers, err := s.AttemptRepo.FindAnswers(ctx, attempt.ID)
	if err != nil {
		return nil, err
	}
	return newAttemptReview(attempt, answers), nil
}
