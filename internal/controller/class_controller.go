package controller

import (
	"edu_exam_backend/internal/service"
	"edu_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ClassController struct {
	ClassService *service.ClassService
}

func NewClassController(classService *service.ClassService) *ClassController {
	return &ClassController{ClassService: classService}
}

// @Summary 创建班级
// @Tags 班级
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateClassRequest true "班级信息"
// @Success 201 {object} util.Response{data=model.Class}
// @Router /api/teacher/classes [post]
func (c *ClassController) CreateClass(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req service.CreateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	class, err := c.ClassService.CreateClass(ctx.Request.Context(), actor.UserID, &req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, class)
}

// @Summary 添加学生到班级
// @Tags 班级
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "班级ID"
// @Param body body service.AddStudentsRequest true "学生ID列表"
// @Success 200 {object} util.Response
// @Router /api/teacher/classes/{id}/students [post]
func (c *ClassController) AddStudents(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	classID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.AddStudentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ClassService.AddStudents(ctx.Request.Context(), actor, classID, req.StudentIDs); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"added": len(req.StudentIDs)})
}

// @Summary 我的班级
// @Description 教师返回自己创建的班级，学生返回已加入的班级
// @Tags 班级
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Class}
// @Router /api/classes [get]
func (c *ClassController) ListMyClasses(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	classes, err := c.ClassService.ListMyClasses(ctx.Request.Context(), actor)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, classes)
}
