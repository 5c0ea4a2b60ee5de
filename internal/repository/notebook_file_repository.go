package repository

import (
	"context"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"

	"gorm.io/gorm"
)

type NotebookFileRepository struct {
	DB *gorm.DB
}

func NewNotebookFileRepository(db *gorm.DB) *NotebookFileRepository {
	return &NotebookFileRepository{DB: db}
}

func (r *NotebookFileRepository) Create(ctx context.Context, f *model.NotebookFile) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

func (r *NotebookFileRepository) Update(ctx context.Context, f *model.NotebookFile) error {
	return r.DB.WithContext(ctx).Save(f).Error
}

func (r *NotebookFileRepository) FindByID(ctx context.Context, id uint) (*model.NotebookFile, error) {
	var f model.NotebookFile
	if err := r.DB.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, notFound(err, util.ErrNotebookFileNotFound)
	}
	return &f, nil
}

// FindByIDsAndOwner 只返回属于该用户的文件
func (r *NotebookFileRepository) FindByIDsAndOwner(ctx context.Context, ids []uint, ownerID uint) ([]model.NotebookFile, error) {
	var files []model.NotebookFile
	if len(ids) == 0 {
		return files, nil
	}
	err := r.DB.WithContext(ctx).
		Where("id IN ? AND owner_id = ?", ids, ownerID).
		Order("id asc").
		Find(&files).Error
	return files, err
}

func (r *NotebookFileRepository) ListByOwner(ctx context.Context, ownerID, notebookID uint) ([]model.NotebookFile, error) {
	var files []model.NotebookFile
	query := r.DB.WithContext(ctx).Where("owner_id = ?", ownerID)
	if notebookID > 0 {
		query = query.Where("notebook_id = ?", notebookID)
	}
	err := query.Order("created_at desc").Find(&files).Error
	return files, err
}

func (r *NotebookFileRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&model.NotebookFile{}, id).Error
}
