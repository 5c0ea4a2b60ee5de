package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"edu_exam_backend/internal/config"
	"edu_exam_backend/internal/model"
	"edu_exam_backend/pkg/logger"
	"edu_exam_backend/pkg/monitoring"
	"edu_exam_backend/pkg/tracing"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	sweepAutoSubmit = "auto_submit"
	sweepStatus     = "exam_status"
)

// 仅在锁仍归属本实例时释放
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// SweepReport 单次扫描的统计
type SweepReport struct {
	Scanned   int `json:"scanned"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

type attemptSubmitter interface {
	ForceSubmit(ctx context.Context, attemptID uint) (*AttemptResult, error)
}

type ExamSchedulerService struct {
	ExamRepo    ExamStore
	AttemptRepo AttemptStore
	Submitter   attemptSubmitter
	Redis       *redis.Client
	cfg         config.ExamConfig
	cron        *cron.Cron
	instanceID  string
	now         func() time.Time
}

func NewExamSchedulerService(examRepo ExamStore, attemptRepo AttemptStore, submitter attemptSubmitter, rdb *redis.Client, cfg config.ExamConfig) *ExamSchedulerService {
	host, _ := os.Hostname()
	return &ExamSchedulerService{
		ExamRepo:    examRepo,
		AttemptRepo: attemptRepo,
		Submitter:   submitter,
		Redis:       rdb,
		cfg:         cfg,
		instanceID:  fmt.Sprintf("%s-%s", host, uuid.NewString()[:8]),
		now:         time.Now,
	}
}

// Start 注册两个周期任务，上一轮未结束时跳过本轮
func (s *ExamSchedulerService) Start() error {
	s.cron = cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.cfg.AutoSubmitInterval), func() {
		s.runSweep(sweepAutoSubmit, s.SweepExpiredAttempts)
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.cfg.StatusSweepInterval), func() {
		s.runSweep(sweepStatus, s.SweepExamStatuses)
	}); err != nil {
		return err
	}

	s.cron.Start()
	logger.Log.Info("exam scheduler started",
		zap.Duration("autoSubmitInterval", s.cfg.AutoSubmitInterval),
		zap.Duration("statusSweepInterval", s.cfg.StatusSweepInterval),
		zap.Bool("distributedLock", s.Redis != nil))
	return nil
}

// Stop 等待正在执行的扫描结束
func (s *ExamSchedulerService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

func (s *ExamSchedulerService) runSweep(name string, sweep func(context.Context) SweepReport) {
	ctx, cancel := context.WithTimeout(context.Background(), s.lockTTL())
	defer cancel()

	ctx, span := tracing.StartSpan(ctx, "exam.sweep."+name)
	defer span.End()

	release, ok := s.acquireLock(ctx, name)
	if !ok {
		logger.Log.Debug("sweep skipped, lock held by another instance", zap.String("sweep", name))
		return
	}
	defer release()

	report := sweep(ctx)
	monitoring.SweepRuns.WithLabelValues(name).Inc()
	if report.Failed > 0 {
		monitoring.SweepFailures.WithLabelValues(name).Add(float64(report.Failed))
	}
	if report.Processed > 0 || report.Failed > 0 {
		logger.Log.Info("sweep finished", zap.String("sweep", name),
			zap.Int("scanned", report.Scanned), zap.Int("processed", report.Processed), zap.Int("failed", report.Failed))
	}
}

func (s *ExamSchedulerService) lockTTL() time.Duration {
	if s.cfg.SweepLockTTL > 0 {
		return s.cfg.SweepLockTTL
	}
	return 4 * time.Minute
}

// acquireLock 未配置 redis 时按单实例运行
func (s *ExamSchedulerService) acquireLock(ctx context.Context, name string) (func(), bool) {
	if s.Redis == nil {
		return func() {}, true
	}
	key := "exam:sweep:lock:" + name
	ok, err := s.Redis.SetNX(ctx, key, s.instanceID, s.lockTTL()).Result()
	if err != nil {
		logger.Log.Warn("sweep lock unavailable, running without it", zap.String("sweep", name), zap.Error(err))
		return func() {}, true
	}
	if !ok {
		return nil, false
	}
	return func() {
		if err := releaseLockScript.Run(context.Background(), s.Redis, []string{key}, s.instanceID).Err(); err != nil && err != redis.Nil {
			logger.Log.Warn("release sweep lock", zap.String("sweep", name), zap.Error(err))
		}
	}, true
}

// SweepExpiredAttempts 强制提交超时的作答，单个失败不影响其它作答
func (s *ExamSchedulerService) SweepExpiredAttempts(ctx context.Context) SweepReport {
	var report SweepReport
	now := s.now()
	attempts, err := s.AttemptRepo.FindInProgressStartedAfter(ctx, now.Add(-s.cfg.AutoSubmitLookback))
	if err != nil {
		logger.Log.Error("load in-progress attempts", zap.Error(err))
		report.Failed++
		return report
	}

	for i := range attempts {
		a := &attempts[i]
		report.Scanned++
		if !a.IsExpired(now) {
			continue
		}
		if _, err := s.Submitter.ForceSubmit(ctx, a.ID); err != nil {
			report.Failed++
			logger.Log.Error("auto-submit failed", zap.Uint("attemptId", a.ID), zap.Uint("examId", a.ExamID), zap.Error(err))
			continue
		}
		report.Processed++
		logger.Log.Info("attempt auto-submitted", zap.Uint("attemptId", a.ID), zap.Uint("studentId", a.StudentID),
			zap.Time("deadline", a.Deadline()))
	}
	return report
}

// SweepExamStatuses 到点的已发布考试开放，过了结束时间的进行中考试结束
func (s *ExamSchedulerService) SweepExamStatuses(ctx context.Context) SweepReport {
	var report SweepReport
	now := s.now()

	toActivate, err := s.ExamRepo.FindPublishedStartingBefore(ctx, now.Add(s.cfg.ActivationLookahead))
	if err != nil {
		logger.Log.Error("load exams to activate", zap.Error(err))
		report.Failed++
	}
	for i := range toActivate {
		s.transitionExam(ctx, &toActivate[i], model.ExamStatusPublished, model.ExamStatusActive, &report)
	}

	toComplete, err := s.ExamRepo.FindActiveEndedBefore(ctx, now)
	if err != nil {
		logger.Log.Error("load exams to complete", zap.Error(err))
		report.Failed++
	}
	for i := range toComplete {
		s.transitionExam(ctx, &toComplete[i], model.ExamStatusActive, model.ExamStatusCompleted, &report)
	}
	return report
}

func (s *ExamSchedulerService) transitionExam(ctx context.Context, exam *model.Exam, from, to model.ExamStatus, report *SweepReport) {
	report.Scanned++
	ok, err := s.ExamRepo.TransitionStatus(ctx, exam.ID, from, to)
	if err != nil {
		report.Failed++
		logger.Log.Error("exam status transition failed", zap.Uint("examId", exam.ID),
			zap.String("to", string(to)), zap.Error(err))
		return
	}
	if ok {
		report.Processed++
		logger.Log.Info("exam status changed by scheduler", zap.Uint("examId", exam.ID),
			zap.String("from", string(from)), zap.String("to", string(to)))
	}
}
