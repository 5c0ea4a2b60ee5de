package repository

import (
	"context"
	"errors"
	"time"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExamAttemptRepository struct {
	DB *gorm.DB
}

func NewExamAttemptRepository(db *gorm.DB) *ExamAttemptRepository {
	return &ExamAttemptRepository{DB: db}
}

// Submission 一次交卷需要在同一事务中写入的全部内容
type Submission struct {
	AttemptID        uint
	SubmitStatus     model.AttemptStatus
	AutoSubmitted    bool
	SubmittedAt      time.Time
	TimeSpentSeconds int
	Answers          []model.ExamAnswer
	TotalScore       decimal.Decimal
	PercentageScore  decimal.Decimal
	IsPassed         bool
}

// AttemptExportRow 导出成绩用的联表结果
type AttemptExportRow struct {
	model.ExamAttempt
	StudentName  string
	StudentEmail string
}

func (r *ExamAttemptRepository) Create(ctx context.Context, attempt *model.ExamAttempt) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(attempt).Error
}

func (r *ExamAttemptRepository) FindByID(ctx context.Context, id uint) (*model.ExamAttempt, error) {
	var a model.ExamAttempt
	if err := r.DB.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFound(err, util.ErrAttemptNotFound)
	}
	return &a, nil
}

// FindInProgress 不存在时返回 nil, nil
func (r *ExamAttemptRepository) FindInProgress(ctx context.Context, examID, studentID uint) (*model.ExamAttempt, error) {
	var a model.ExamAttempt
	err := r.DB.WithContext(ctx).
		Where("exam_id = ? AND student_id = ? AND status = ?", examID, studentID, model.AttemptInProgress).
		Order("attempt_number desc").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ExamAttemptRepository) CountByExamAndStudent(ctx context.Context, examID, studentID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.ExamAttempt{}).
		Where("exam_id = ? AND student_id = ?", examID, studentID).
		Count(&count).Error
	return count, err
}

func (r *ExamAttemptRepository) CountByExam(ctx context.Context, examID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.ExamAttempt{}).Where("exam_id = ?", examID).Count(&count).Error
	return count, err
}

func (r *ExamAttemptRepository) ListByExamAndStudent(ctx context.Context, examID, studentID uint) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.DB.WithContext(ctx).
		Where("exam_id = ? AND student_id = ?", examID, studentID).
		Order("attempt_number asc").
		Find(&attempts).Error
	return attempts, err
}

// FindBestGraded 分数最高者优先，同分取最早的一次
func (r *ExamAttemptRepository) FindBestGraded(ctx context.Context, examID, studentID uint) (*model.ExamAttempt, error) {
	var a model.ExamAttempt
	err := r.DB.WithContext(ctx).
		Where("exam_id = ? AND student_id = ? AND status = ?", examID, studentID, model.AttemptGraded).
		Order("total_score desc, attempt_number asc").
		First(&a).Error
	if err != nil {
		return nil, notFound(err, util.ErrNoGradedAttempt)
	}
	return &a, nil
}

func (r *ExamAttemptRepository) FindInProgressStartedAfter(ctx context.Context, since time.Time) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.DB.WithContext(ctx).
		Where("status = ? AND started_at >= ?", model.AttemptInProgress, since).
		Order("started_at asc").
		Find(&attempts).Error
	return attempts, err
}

func (r *ExamAttemptRepository) FindAnswers(ctx context.Context, attemptID uint) ([]model.ExamAnswer, error) {
	var answers []model.ExamAnswer
	err := r.DB.WithContext(ctx).Where("attempt_id = ?", attemptID).Order("question_id asc").Find(&answers).Error
	return answers, err
}

func upsertAnswers(tx *gorm.DB, answers []model.ExamAnswer, columns []string) error {
	if len(answers) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&answers).Error
}

// SaveAnswers 作答中途保存，按 (attempt, question) 覆盖
func (r *ExamAttemptRepository) SaveAnswers(ctx context.Context, attemptID uint, answers []model.ExamAnswer) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var statuses []model.AttemptStatus
		if err := tx.Model(&model.ExamAttempt{}).Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", attemptID).Pluck("status", &statuses).Error; err != nil {
			return err
		}
		if len(statuses) == 0 {
			return util.ErrAttemptNotFound
		}
		if statuses[0] != model.AttemptInProgress {
			return util.ErrAttemptNotInProgress
		}
		return upsertAnswers(tx, answers, []string{"answer_type", "answer_data", "time_spent_seconds", "updated_at"})
	})
}

// SaveSubmission 交卷、写入答案和评分结果在同一个事务内完成
func (r *ExamAttemptRepository) SaveSubmission(ctx context.Context, s *Submission) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ExamAttempt{}).
			Where("id = ? AND status = ?", s.AttemptID, model.AttemptInProgress).
			Updates(map[string]interface{}{
				"status":             s.SubmitStatus,
				"auto_submitted":     s.AutoSubmitted,
				"submitted_at":       s.SubmittedAt,
				"time_spent_seconds": s.TimeSpentSeconds,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrAttemptNotInProgress
		}

		if err := upsertAnswers(tx, s.Answers, []string{
			"answer_type", "answer_data", "is_correct", "points_earned", "auto_graded",
			"graded_at", "time_spent_seconds", "updated_at",
		}); err != nil {
			return err
		}

		return tx.Model(&model.ExamAttempt{}).
			Where("id = ?", s.AttemptID).
			Updates(map[string]interface{}{
				"status":           model.AttemptGraded,
				"total_score":      s.TotalScore,
				"percentage_score": s.PercentageScore,
				"is_passed":        s.IsPassed,
			}).Error
	})
}

// ListForExport 按学生姓名、作答次数排序
func (r *ExamAttemptRepository) ListForExport(ctx context.Context, examID uint) ([]AttemptExportRow, error) {
	var rows []AttemptExportRow
	err := r.DB.WithContext(ctx).
		Model(&model.ExamAttempt{}).
		Select("exam_attempts.*, users.name AS student_name, users.email AS student_email").
		Joins("LEFT JOIN users ON users.id = exam_attempts.student_id").
		Where("exam_attempts.exam_id = ?", examID).
		Order("users.name asc, exam_attempts.attempt_number asc").
		Scan(&rows).Error
	return rows, err
}
