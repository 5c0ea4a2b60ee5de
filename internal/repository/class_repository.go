package repository

import (
	"context"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClassRepository struct {
	DB *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{DB: db}
}

func (r *ClassRepository) Create(ctx context.Context, class *model.Class) error {
	return r.DB.WithContext(ctx).Create(class).Error
}

func (r *ClassRepository) FindByID(ctx context.Context, id uint) (*model.Class, error) {
	var class model.Class
	if err := r.DB.WithContext(ctx).First(&class, id).Error; err != nil {
		return nil, notFound(err, util.ErrClassNotFound)
	}
	return &class, nil
}

// AddMembers 已存在的选课关系忽略
func (r *ClassRepository) AddMembers(ctx context.Context, classID uint, studentIDs []uint) error {
	if len(studentIDs) == 0 {
		return nil
	}
	members := make([]model.ClassMember, 0, len(studentIDs))
	for _, id := range studentIDs {
		members = append(members, model.ClassMember{ClassID: classID, StudentID: id})
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&members).Error
}

func (r *ClassRepository) IsMember(ctx context.Context, classID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.ClassMember{}).
		Where("class_id = ? AND student_id = ?", classID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]model.Class, error) {
	var classes []model.Class
	err := r.DB.WithContext(ctx).Where("teacher_id = ?", teacherID).Order("created_at desc").Find(&classes).Error
	return classes, err
}

func (r *ClassRepository) ListByStudent(ctx context.Context, studentID uint) ([]model.Class, error) {
	var classes []model.Class
	err := r.DB.WithContext(ctx).
		Joins("JOIN class_members ON class_members.class_id = classes.id AND class_members.deleted_at IS NULL").
		Where("class_members.student_id = ?", studentID).
		Order("classes.created_at desc").
		Find(&classes).Error
	return classes, err
}
