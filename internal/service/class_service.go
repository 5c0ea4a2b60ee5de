package service

import (
	"context"
	"fmt"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"
	"edu_exam_backend/pkg/logger"

	"go.uber.org/zap"
)

type CreateClassRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

type AddStudentsRequest struct {
	StudentIDs []uint `json:"studentIds" binding:"required,min=1"`
}

type ClassService struct {
	ClassRepo ClassStore
	UserRepo  UserStore
}

func NewClassService(classRepo ClassStore, userRepo UserStore) *ClassService {
	return &ClassService{ClassRepo: classRepo, UserRepo: userRepo}
}

func (s *ClassService) CreateClass(ctx context.Context, teacherID uint, req *CreateClassRequest) (*model.Class, error) {
	class := &model.Class{
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   teacherID,
	}
	if err := s.ClassRepo.Create(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

// AddStudents 只接受学生账号，重复加入忽略
func (s *ClassService) AddStudents(ctx context.Context, actor Actor, classID uint, studentIDs []uint) error {
	class, err := s.ClassRepo.FindByID(ctx, classID)
	if err != nil {
		return err
	}
	if class.TeacherID != actor.UserID && !actor.IsAdmin() {
		return fmt.Errorf("%w: not the class teacher", util.ErrPermissionDenied)
	}

	users, err := s.UserRepo.FindByIDs(ctx, studentIDs)
	if err != nil {
		return err
	}
	students := make(map[uint]bool, len(users))
	for _, u := range users {
		if u.Role == model.Student {
			students[u.ID] = true
		}
	}
	ids := make([]uint, 0, len(studentIDs))
	for _, id := range studentIDs {
		if !students[id] {
			return fmt.Errorf("%w: user %d is not a student", util.ErrUserNotFound, id)
		}
		ids = append(ids, id)
	}

	if err := s.ClassRepo.AddMembers(ctx, classID, ids); err != nil {
		return err
	}
	logger.Log.Info("students added to class", zap.Uint("classId", classID), zap.Int("count", len(ids)))
	return nil
}

func (s *ClassService) ListMyClasses(ctx context.Context, actor Actor) ([]model.Class, error) {
	if actor.Role == model.Student {
		return s.ClassRepo.ListByStudent(ctx, actor.UserID)
	}
	return s.ClassRepo.ListByTeacher(ctx, actor.UserID)
}
