package controller

import (
	"context"
	"net/http"
	"net/url"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/service"
	"edu_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AddQuestionsRequest 一次可以追加多道题
type AddQuestionsRequest struct {
	Questions []service.QuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// ExamController 教师端考试管理
type ExamController struct {
	ExamService       *service.ExamService
	GenerationService *service.QuestionGenerationService
	ExportService     *service.ExamExportService
}

func NewExamController(examService *service.ExamService, generationService *service.QuestionGenerationService,
	exportService *service.ExamExportService) *ExamController {
	return &ExamController{
		ExamService:       examService,
		GenerationService: generationService,
		ExportService:     exportService,
	}
}

// @Summary 创建考试
// @Tags 考试
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateExamRequest true "考试信息"
// @Success 201 {object} util.Response{data=model.Exam}
// @Failure 400 {object} util.Response "时间窗口不合法"
// @Failure 403 {object} util.Response "不是班级教师"
// @Router /api/exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req service.CreateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.CreateExam(ctx.Request.Context(), actor, &req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

// @Summary 修改考试
// @Description 仅草稿状态可修改
// @Tags 考试
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Param body body service.UpdateExamRequest true "考试信息"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /api/exams/{id} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.UpdateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.UpdateExam(ctx.Request.Context(), actor.UserID, examID, &req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary 删除考试
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "已有作答记录"
// @Router /api/exams/{id} [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.ExamService.DeleteExam(ctx.Request.Context(), actor.UserID, examID); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 添加题目
// @Tags 考试
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Param body body AddQuestionsRequest true "题目列表"
// @Success 201 {object} util.Response{data=model.Exam}
// @Router /api/exams/{id}/questions [post]
func (c *ExamController) AddQuestions(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req AddQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.ExamService.AddQuestions(ctx.Request.Context(), actor.UserID, examID, req.Questions)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

// @Summary 删除题目
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Param questionId path int true "题目ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /api/exams/{id}/questions/{questionId} [delete]
func (c *ExamController) DeleteQuestion(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	questionID, ok := pathID(ctx, "questionId")
	if !ok {
		return
	}

	exam, err := c.ExamService.DeleteQuestion(ctx.Request.Context(), actor.UserID, examID, questionID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary AI 生成题目（同步）
// @Description 根据笔记本资料生成题目，会替换考试中已有的题目
// @Tags 考试
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Param body body service.GenerateQuestionsRequest true "出题参数"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 502 {object} util.Response "大模型返回内容不可用"
// @Router /api/exams/{id}/generate [post]
func (c *ExamController) GenerateQuestions(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.GenerateQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exam, err := c.GenerationService.GenerateQuestions(ctx.Request.Context(), actor.UserID, examID, req)
	if err != nil {
		util.HandleUpstreamError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary AI 生成题目（异步）
// @Tags 考试
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Param body body service.GenerateQuestionsRequest true "出题参数"
// @Success 202 {object} util.Response{data=model.GenerationTask}
// @Failure 409 {object} util.Response "任务队列已满"
// @Router /api/exams/{id}/generate/async [post]
func (c *ExamController) EnqueueGeneration(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.GenerateQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.GenerationService.EnqueueGeneration(ctx.Request.Context(), actor.UserID, examID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Accepted(ctx, task)
}

// @Summary 查询出题任务
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param taskId path string true "任务ID"
// @Success 200 {object} util.Response{data=model.GenerationTask}
// @Router /api/exams/generation-tasks/{taskId} [get]
func (c *ExamController) GetGenerationTask(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	task, err := c.GenerationService.GetGenerationTask(ctx.Request.Context(), actor.UserID, ctx.Param("taskId"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// @Summary 发布考试
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /api/exams/{id}/publish [put]
func (c *ExamController) PublishExam(ctx *gin.Context) {
	c.transition(ctx, c.ExamService.PublishExam)
}

// @Summary 开始考试
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /api/exams/{id}/activate [put]
func (c *ExamController) ActivateExam(ctx *gin.Context) {
	c.transition(ctx, c.ExamService.ActivateExam)
}

// @Summary 取消考试
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /api/exams/{id}/cancel [put]
func (c *ExamController) CancelExam(ctx *gin.Context) {
	c.transition(ctx, c.ExamService.CancelExam)
}

func (c *ExamController) transition(ctx *gin.Context, fn func(ctx context.Context, teacherID, examID uint) (*model.Exam, error)) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	exam, err := fn(ctx.Request.Context(), actor.UserID, examID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary 班级考试列表
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param classId path int true "班级ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param sort query string false "排序，如 startTime,asc"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/exams/class/{classId} [get]
func (c *ExamController) ListByClass(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	classID, ok := pathID(ctx, "classId")
	if !ok {
		return
	}
	page, limit := pageParams(ctx)

	result, err := c.ExamService.ListByClass(ctx.Request.Context(), actor, classID, page, limit, ctx.Query("sort"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 我创建的考试
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/exams/mine [get]
func (c *ExamController) ListMine(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	page, limit := pageParams(ctx)

	result, err := c.ExamService.ListByLecturer(ctx.Request.Context(), actor.UserID, page, limit, ctx.Query("sort"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 预览考试（含答案）
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /api/exams/{id}/preview [get]
func (c *ExamController) PreviewExam(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	exam, err := c.ExamService.PreviewExam(ctx.Request.Context(), actor.UserID, examID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary 考试详情
// @Description 创建者、管理员和班级学生可查看，不含题目
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response{data=model.Exam}
// @Router /api/exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	exam, err := c.ExamService.GetExam(ctx.Request.Context(), actor, examID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary 导出成绩
// @Description 导出 Excel 或 CSV，每次作答一行
// @Tags 考试
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Param body body service.ExportRequest false "导出选项"
// @Success 200 {file} file
// @Router /api/exams/{id}/export [post]
func (c *ExamController) ExportResults(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.ExportRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	file, err := c.ExportService.ExportResults(ctx.Request.Context(), actor.UserID, examID, &req)
	if err != nil {
		util.HandleUpstreamError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(file.FileName))
	ctx.Data(http.StatusOK, file.ContentType, file.Data)
}
