package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"edu_exam_backend/internal/config"
	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"
	"edu_exam_backend/pkg/logger"
	"edu_exam_backend/pkg/monitoring"
	"edu_exam_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type generationJob struct {
	taskID     string
	lecturerID uint
	examID     uint
	req        GenerateQuestionsRequest
}

// QuestionGenerationService 基于笔记本资料的 AI 出题，支持同步调用和异步任务
type QuestionGenerationService struct {
	ExamRepo   ExamStore
	FileRepo   NotebookFileStore
	TaskRepo   GenerationTaskStore
	Summarizer Summarizer
	LLM        LLMClient

	mu      sync.RWMutex
	closed  bool
	queue   chan generationJob
	workers int
	wg      sync.WaitGroup
	now     func() time.Time
}

func NewQuestionGenerationService(examRepo ExamStore, fileRepo NotebookFileStore, taskRepo GenerationTaskStore,
	summarizer Summarizer, llm LLMClient, cfg config.AIConfig) *QuestionGenerationService {
	workers := cfg.GenerationWorkers
	if workers < 1 {
		workers = 1
	}
	size := cfg.GenerationQueueSize
	if size < 1 {
		size = 1
	}
	return &QuestionGenerationService{
		ExamRepo:   examRepo,
		FileRepo:   fileRepo,
		TaskRepo:   taskRepo,
		Summarizer: summarizer,
		LLM:        llm,
		queue:      make(chan generationJob, size),
		workers:    workers,
		now:        time.Now,
	}
}

// GenerateQuestions 同步出题，完成后返回带题目的考试
func (s *QuestionGenerationService) GenerateQuestions(ctx context.Context, lecturerID, examID uint, req GenerateQuestionsRequest) (*model.Exam, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	if _, err := s.run(ctx, lecturerID, examID, req); err != nil {
		return nil, err
	}
	return s.ExamRepo.FindWithQuestions(ctx, examID)
}

// EnqueueGeneration 创建任务后立即返回，由后台 worker 执行
func (s *QuestionGenerationService) EnqueueGeneration(ctx context.Context, lecturerID, examID uint, req GenerateQuestionsRequest) (*model.GenerationTask, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	if _, err := s.loadDraft(ctx, lecturerID, examID); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	task := &model.GenerationTask{
		ExamID:      examID,
		RequestedBy: lecturerID,
		Status:      model.GenerationPending,
		Request:     datatypes.JSON(payload),
	}
	if err := s.TaskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.mu.RLock()
	accepted := false
	if !s.closed {
		select {
		case s.queue <- generationJob{taskID: task.ID, lecturerID: lecturerID, examID: examID, req: req}:
			accepted = true
		default:
		}
	}
	s.mu.RUnlock()

	if !accepted {
		s.finishTask(ctx, task, 0, util.ErrGenerationQueueFull)
		return nil, util.ErrGenerationQueueFull
	}
	logger.Log.Info("question generation queued", zap.String("taskId", task.ID), zap.Uint("examId", examID))
	return task, nil
}

func (s *QuestionGenerationService) GetGenerationTask(ctx context.Context, lecturerID uint, taskID string) (*model.GenerationTask, error) {
	task, err := s.TaskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.RequestedBy != lecturerID {
		return nil, fmt.Errorf("%w: task belongs to another user", util.ErrPermissionDenied)
	}
	return task, nil
}

// Start 启动 worker；上次进程遗留的未完成任务直接置为失败
func (s *QuestionGenerationService) Start(ctx context.Context) {
	n, err := s.TaskRepo.FailUnfinished(ctx, "interrupted by server restart", s.now())
	if err != nil {
		logger.Log.Error("fail unfinished generation tasks", zap.Error(err))
	} else if n > 0 {
		logger.Log.Warn("marked interrupted generation tasks as failed", zap.Int64("count", n))
	}

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for job := range s.queue {
				s.process(ctx, job)
			}
		}()
	}
	logger.Log.Info("question generation workers started", zap.Int("workers", s.workers))
}

// Stop 不再接收新任务，等待队列中的任务执行完
func (s *QuestionGenerationService) Stop() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *QuestionGenerationService) process(ctx context.Context, job generationJob) {
	task, err := s.TaskRepo.FindByID(ctx, job.taskID)
	if err != nil {
		logger.Log.Error("load generation task", zap.String("taskId", job.taskID), zap.Error(err))
		return
	}
	started := s.now()
	task.Status = model.GenerationProcessing
	task.StartedAt = &started
	if err := s.TaskRepo.Update(ctx, task); err != nil {
		logger.Log.Error("mark generation task processing", zap.String("taskId", task.ID), zap.Error(err))
	}

	n, err := s.run(ctx, job.lecturerID, job.examID, job.req)
	s.finishTask(ctx, task, n, err)
}

func (s *QuestionGenerationService) finishTask(ctx context.Context, task *model.GenerationTask, n int, err error) {
	finished := s.now()
	task.FinishedAt = &finished
	task.QuestionsGenerated = n
	if err != nil {
		task.Status = model.GenerationFailed
		task.ErrorMessage = err.Error()
	} else {
		task.Status = model.GenerationCompleted
		task.ErrorMessage = ""
	}
	if uerr := s.TaskRepo.Update(context.WithoutCancel(ctx), task); uerr != nil {
		logger.Log.Error("finish generation task", zap.String("taskId", task.ID), zap.Error(uerr))
	}
}

func (s *QuestionGenerationService) loadDraft(ctx context.Context, lecturerID, examID uint) (*model.Exam, error) {
	exam, err := s.ExamRepo.FindByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !exam.IsOwnedBy(lecturerID) {
		return nil, fmt.Errorf("%w: only the exam creator can generate questions", util.ErrPermissionDenied)
	}
	if err := requireStatus(exam, model.ExamStatusDraft, "generate questions"); err != nil {
		return nil, err
	}
	return exam, nil
}

// run 执行一次出题。校验通过后无论成功、失败还是 panic，考试都会被重新读取，未取消时置回 DRAFT
func (s *QuestionGenerationService) run(ctx context.Context, lecturerID, examID uint, req GenerateQuestionsRequest) (created int, err error) {
	ctx, span := tracing.StartSpan(ctx, "exam.generate_questions")
	span.SetAttributes(attribute.Int64("exam.id", int64(examID)), attribute.Int("question.count", req.QuestionCount))
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = generationPanic(examID, r)
		}
		result := "completed"
		if err != nil {
			result = "failed"
			span.RecordError(err)
			logger.Log.Warn("question generation failed", zap.Uint("examId", examID), zap.Error(err))
		} else {
			logger.Log.Info("question generation finished", zap.Uint("examId", examID), zap.Int("questions", created))
		}
		monitoring.GenerationJobs.WithLabelValues(result).Inc()
		monitoring.GenerationDuration.Observe(time.Since(start).Seconds())
	}()

	if _, err := s.loadDraft(ctx, lecturerID, examID); err != nil {
		return 0, err
	}
	defer func() {
		// 先把 panic 转成错误，restoreDraft 才能按失败处理
		if r := recover(); r != nil {
			err = generationPanic(examID, r)
		}
		s.restoreDraft(ctx, examID, err)
	}()

	files, err := s.resolveFiles(ctx, lecturerID, req.NotebookFileIDs)
	if err != nil {
		return 0, err
	}

	// 重新生成会覆盖已有题目
	if err := s.ExamRepo.DeleteQuestions(ctx, examID); err != nil {
		return 0, err
	}

	summary, err := s.Summarizer.Summarize(ctx, files)
	if err != nil {
		return 0, fmt.Errorf("summarize notebook files: %w", err)
	}
	if strings.TrimSpace(summary) == "" {
		return 0, util.ErrEmptySummary
	}

	content, err := s.LLM.Generate(ctx, generationSystemPrompt, buildGenerationPrompt(&req, summary))
	if err != nil {
		return 0, fmt.Errorf("generate questions: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return 0, util.ErrEmptyLLMResponse
	}

	questions, err := s.parseQuestions(examID, content, &req)
	if err != nil {
		return 0, err
	}
	if err := s.ExamRepo.CreateQuestions(ctx, questions); err != nil {
		return 0, err
	}
	if _, _, err := s.ExamRepo.RecomputeTotals(ctx, examID); err != nil {
		return 0, err
	}
	return len(questions), nil
}

func generationPanic(examID uint, r interface{}) error {
	logger.Log.Error("question generation panicked", zap.Uint("examId", examID), zap.Any("panic", r), zap.Stack("stack"))
	return fmt.Errorf("question generation panicked: %v", r)
}

// restoreDraft 重新读取考试，只在状态未被并发修改时置回 DRAFT；已结束或已取消的考试保持不变
func (s *QuestionGenerationService) restoreDraft(ctx context.Context, examID uint, runErr error) {
	ctx = context.WithoutCancel(ctx)
	if runErr != nil {
		if _, _, err := s.ExamRepo.RecomputeTotals(ctx, examID); err != nil {
			logger.Log.Error("recompute totals after failed generation", zap.Uint("examId", examID), zap.Error(err))
		}
	}
	exam, err := s.ExamRepo.FindByID(ctx, examID)
	if err != nil {
		logger.Log.Error("reload exam after generation", zap.Uint("examId", examID), zap.Error(err))
		return
	}
	if exam.Status == model.ExamStatusDraft {
		return
	}
	if exam.Status.IsTerminal() {
		logger.Log.Info("exam finished or cancelled during generation, status kept",
			zap.Uint("examId", examID), zap.String("status", string(exam.Status)))
		return
	}
	ok, err := s.ExamRepo.TransitionStatus(ctx, examID, exam.Status, model.ExamStatusDraft)
	if err != nil {
		logger.Log.Error("reset exam to draft", zap.Uint("examId", examID), zap.Error(err))
		return
	}
	if !ok {
		logger.Log.Warn("exam status changed concurrently, draft reset skipped", zap.Uint("examId", examID))
	}
}

func (s *QuestionGenerationService) resolveFiles(ctx context.Context, lecturerID uint, ids []uint) ([]model.NotebookFile, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	files, err := s.FileRepo.FindByIDsAndOwner(ctx, unique, lecturerID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, util.ErrNotebookFilesNotFound
	}
	if len(files) != len(unique) {
		found := make(map[uint]bool, len(files))
		for _, f := range files {
			found[f.ID] = true
		}
		var missing []string
		for _, id := range unique {
			if !found[id] {
				missing = append(missing, fmt.Sprint(id))
			}
		}
		return nil, fmt.Errorf("%w: %s", util.ErrNotebookFilesNotFound, strings.Join(missing, ", "))
	}
	return files, nil
}

// parseQuestions 跳过无法使用的题目，超出数量的部分丢弃
func (s *QuestionGenerationService) parseQuestions(examID uint, content string, req *GenerateQuestionsRequest) ([]model.ExamQuestion, error) {
	items, err := ExtractJSONArray(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidLLMResponse, err)
	}
	if len(items) == 0 {
		return nil, util.ErrEmptyLLMResponse
	}

	allowed := make(map[model.QuestionType]bool, len(req.QuestionTypes))
	for _, t := range req.QuestionTypes {
		allowed[t] = true
	}

	questions := make([]model.ExamQuestion, 0, req.QuestionCount)
	for i, raw := range items {
		if len(questions) == req.QuestionCount {
			break
		}
		q, err := convertGenerated(examID, raw, allowed, req, len(questions)+1)
		if err != nil {
			logger.Log.Warn("skip generated question", zap.Uint("examId", examID), zap.Int("index", i), zap.Error(err))
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no usable questions in model output", util.ErrInvalidLLMResponse)
	}
	return questions, nil
}

func convertGenerated(examID uint, raw json.RawMessage, allowed map[model.QuestionType]bool, req *GenerateQuestionsRequest, order int) (model.ExamQuestion, error) {
	var g generatedQuestion
	if err := json.Unmarshal(raw, &g); err != nil {
		return model.ExamQuestion{}, errors.Join(util.ErrInvalidQuestion, err)
	}
	qr, err := g.toQuestionRequest(allowed, req.PointsPerQuestion)
	if err != nil {
		return model.ExamQuestion{}, err
	}
	return buildQuestion(examID, qr, order, req.PointsPerQuestion)
}
