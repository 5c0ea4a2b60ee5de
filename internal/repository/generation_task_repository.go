package repository

import (
	"context"
	"time"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"

	"gorm.io/gorm"
)

type GenerationTaskRepository struct {
	DB *gorm.DB
}

func NewGenerationTaskRepository(db *gorm.DB) *GenerationTaskRepository {
	return &GenerationTaskRepository{DB: db}
}

func (r *GenerationTaskRepository) Create(ctx context.Context, task *model.GenerationTask) error {
	return r.DB.WithContext(ctx).Create(task).Error
}

func (r *GenerationTaskRepository) Update(ctx context.Context, task *model.GenerationTask) error {
	return r.DB.WithContext(ctx).Save(task).Error
}

func (r *GenerationTaskRepository) FindByID(ctx context.Context, id string) (*model.GenerationTask, error) {
	var task model.GenerationTask
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, notFound(err, util.ErrTaskNotFound)
	}
	return &task, nil
}

// FailUnfinished 进程重启后把遗留的未完成任务标记为失败
func (r *GenerationTaskRepository) FailUnfinished(ctx context.Context, reason string, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.GenerationTask{}).
		Where("status IN ?", []model.GenerationStatus{model.GenerationPending, model.GenerationProcessing}).
		Updates(map[string]interface{}{
			"status":        model.GenerationFailed,
			"error_message": reason,
			"finished_at":   now,
		})
	return res.RowsAffected, res.Error
}
