package service

import (
	"context"
	"testing"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassMembership(t *testing.T) {
	ctx := context.Background()
	classes := newFakeClassStore()
	users := newFakeUserStore()
	svc := NewClassService(classes, users)

	teacher := &model.User{Name: "T", Email: "t@example.com", Role: model.Teacher}
	s1 := &model.User{Name: "S1", Email: "s1@example.com", Role: model.Student}
	s2 := &model.User{Name: "S2", Email: "s2@example.com", Role: model.Student}
	for _, u := range []*model.User{teacher, s1, s2} {
		require.NoError(t, users.Create(ctx, u))
	}
	teacherActor := Actor{UserID: teacher.ID, Role: model.Teacher}

	class, err := svc.CreateClass(ctx, teacher.ID, &CreateClassRequest{Name: "Databases", Description: "Spring term"})
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, class.TeacherID)

	require.NoError(t, svc.AddStudents(ctx, teacherActor, class.ID, []uint{s1.ID}))
	require.NoError(t, svc.AddStudents(ctx, Actor{UserID: 99, Role: model.Admin}, class.ID, []uint{s2.ID}))

	err = svc.AddStudents(ctx, Actor{UserID: 99, Role: model.Teacher}, class.ID, []uint{s1.ID})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	err = svc.AddStudents(ctx, teacherActor, class.ID, []uint{teacher.ID})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
	err = svc.AddStudents(ctx, teacherActor, class.ID, []uint{404})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
	err = svc.AddStudents(ctx, teacherActor, 404, []uint{s1.ID})
	assert.ErrorIs(t, err, util.ErrClassNotFound)

	mine, err := svc.ListMyClasses(ctx, teacherActor)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	enrolled, err := svc.ListMyClasses(ctx, Actor{UserID: s2.ID, Role: model.Student})
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	assert.Equal(t, "Databases", enrolled[0].Name)
}
