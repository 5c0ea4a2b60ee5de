package repository

import (
	"context"
	"strings"
	"time"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

var examSortColumns = map[string]string{
	"createdAt": "created_at",
	"startTime": "start_time",
	"endTime":   "end_time",
	"title":     "title",
}

// examOrder 解析 "startTime,desc" 形式的排序参数，未知字段回退到创建时间倒序
func examOrder(sort string) string {
	field, dir, _ := strings.Cut(sort, ",")
	col, ok := examSortColumns[strings.TrimSpace(field)]
	if !ok {
		return "created_at desc"
	}
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return col + " asc"
	}
	return col + " desc"
}

func (r *ExamRepository) Create(ctx context.Context, exam *model.Exam) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(exam).Error
}

func (r *ExamRepository) Update(ctx context.Context, exam *model.Exam) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(exam).Error
}

// TransitionStatus 仅当当前状态符合预期时才更新，返回是否更新成功
func (r *ExamRepository) TransitionStatus(ctx context.Context, examID uint, from, to model.ExamStatus) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.Exam{}).
		Where("id = ? AND status = ?", examID, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

func (r *ExamRepository) FindByID(ctx context.Context, id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.DB.WithContext(ctx).First(&exam, id).Error; err != nil {
		return nil, notFound(err, util.ErrExamNotFound)
	}
	return &exam, nil
}

func (r *ExamRepository) FindWithQuestions(ctx context.Context, id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc, id asc")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc, id asc")
		}).
		First(&exam, id).Error
	if err != nil {
		return nil, notFound(err, util.ErrExamNotFound)
	}
	return &exam, nil
}

func (r *ExamRepository) ListByClass(ctx context.Context, classID uint, page, limit int, sort string) ([]model.Exam, int64, error) {
	return r.list(r.DB.WithContext(ctx).Model(&model.Exam{}).Where("class_id = ?", classID), page, limit, sort)
}

func (r *ExamRepository) ListByCreator(ctx context.Context, creatorID uint, page, limit int, sort string) ([]model.Exam, int64, error) {
	return r.list(r.DB.WithContext(ctx).Model(&model.Exam{}).Where("created_by = ?", creatorID), page, limit, sort)
}

func (r *ExamRepository) list(query *gorm.DB, page, limit int, sort string) ([]model.Exam, int64, error) {
	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var exams []model.Exam
	err := query.Order(examOrder(sort)).Offset(offsetOf(page, limit)).Limit(limit).Find(&exams).Error
	return exams, total, err
}

// ListAvailableForStudent 学生所在班级中当前可参加的考试
func (r *ExamRepository) ListAvailableForStudent(ctx context.Context, studentID uint, now time.Time) ([]model.Exam, error) {
	var exams []model.Exam
	err := r.DB.WithContext(ctx).
		Joins("JOIN class_members ON class_members.class_id = exams.class_id AND class_members.deleted_at IS NULL").
		Where("class_members.student_id = ?", studentID).
		Where("exams.status = ? AND exams.start_time <= ? AND exams.end_time > ?", model.ExamStatusActive, now, now).
		Order("exams.end_time asc").
		Find(&exams).Error
	return exams, err
}

func (r *ExamRepository) FindPublishedStartingBefore(ctx context.Context, t time.Time) ([]model.Exam, error) {
	var exams []model.Exam
	err := r.DB.WithContext(ctx).
		Where("status = ? AND start_time <= ?", model.ExamStatusPublished, t).
		Find(&exams).Error
	return exams, err
}

func (r *ExamRepository) FindActiveEndedBefore(ctx context.Context, t time.Time) ([]model.Exam, error) {
	var exams []model.Exam
	err := r.DB.WithContext(ctx).
		Where("status = ? AND end_time < ?", model.ExamStatusActive, t).
		Find(&exams).Error
	return exams, err
}

// Delete 连同题目和选项一起删除
func (r *ExamRepository) Delete(ctx context.Context, examID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteQuestions(tx, examID); err != nil {
			return err
		}
		return tx.Delete(&model.Exam{}, examID).Error
	})
}

func deleteQuestions(tx *gorm.DB, examID uint) error {
	sub := tx.Model(&model.ExamQuestion{}).Select("id").Where("exam_id = ?", examID)
	if err := tx.Where("question_id IN (?)", sub).Delete(&model.ExamQuestionOption{}).Error; err != nil {
		return err
	}
	return tx.Where("exam_id = ?", examID).Delete(&model.ExamQuestion{}).Error
}

func (r *ExamRepository) DeleteQuestions(ctx context.Context, examID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteQuestions(tx, examID)
	})
}

func (r *ExamRepository) CountQuestions(ctx context.Context, examID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.ExamQuestion{}).Where("exam_id = ?", examID).Count(&count).Error
	return count, err
}

func (r *ExamRepository) MaxOrderIndex(ctx context.Context, examID uint) (int, error) {
	var maxIdx *int
	err := r.DB.WithContext(ctx).Model(&model.ExamQuestion{}).
		Where("exam_id = ?", examID).
		Select("MAX(order_index)").
		Scan(&maxIdx).Error
	if err != nil || maxIdx == nil {
		return 0, err
	}
	return *maxIdx, nil
}

// CreateQuestions 题目与选项一并写入
func (r *ExamRepository) CreateQuestions(ctx context.Context, questions []model.ExamQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&questions).Error
}

func (r *ExamRepository) FindQuestion(ctx context.Context, examID, questionID uint) (*model.ExamQuestion, error) {
	var q model.ExamQuestion
	if err := r.DB.WithContext(ctx).Where("id = ? AND exam_id = ?", questionID, examID).First(&q).Error; err != nil {
		return nil, notFound(err, util.ErrQuestionNotFound)
	}
	return &q, nil
}

func (r *ExamRepository) DeleteQuestion(ctx context.Context, questionID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&model.ExamQuestionOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ExamQuestion{}, questionID).Error
	})
}

// RecomputeTotals 按已持久化的题目重新计算题数和总分
func (r *ExamRepository) RecomputeTotals(ctx context.Context, examID uint) (int, decimal.Decimal, error) {
	var row struct {
		Cnt int64
		Sum decimal.NullDecimal
	}
	err := r.DB.WithContext(ctx).Model(&model.ExamQuestion{}).
		Select("COUNT(*) AS cnt, SUM(points) AS sum").
		Where("exam_id = ?", examID).
		Scan(&row).Error
	if err != nil {
		return 0, decimal.Zero, err
	}
	total := decimal.Zero
	if row.Sum.Valid {
		total = row.Sum.Decimal
	}
	err = r.DB.WithContext(ctx).Model(&model.Exam{}).
		Where("id = ?", examID).
		Updates(map[string]interface{}{
			"total_questions": row.Cnt,
			"total_points":    total,
		}).Error
	return int(row.Cnt), total, err
}
