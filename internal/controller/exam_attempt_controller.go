package controller

import (
	"edu_exam_backend/internal/service"
	"edu_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SaveAnswersRequest struct {
	Answers []service.AnswerInput `json:"answers" binding:"required,min=1,dive"`
}

// ExamAttemptController 学生端作答
type ExamAttemptController struct {
	ExamService    *service.ExamService
	AttemptService *service.ExamAttemptService
}

func NewExamAttemptController(examService *service.ExamService, attemptService *service.ExamAttemptService) *ExamAttemptController {
	return &ExamAttemptController{ExamService: examService, AttemptService: attemptService}
}

// @Summary 可参加的考试
// @Tags 作答
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.AvailableExam}
// @Router /api/exams/available [get]
func (c *ExamAttemptController) ListAvailable(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	exams, err := c.ExamService.ListAvailableExams(ctx.Request.Context(), actor.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, exams)
}

// @Summary 开始考试
// @Description 已有进行中的作答时直接返回该作答
// @Tags 作答
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Param body body service.StartExamMeta false "客户端信息"
// @Success 200 {object} util.Response{data=service.AttemptView}
// @Failure 409 {object} util.Response "作答次数已用完"
// @Router /api/exams/{id}/start [post]
func (c *ExamAttemptController) StartExam(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var meta service.StartExamMeta
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&meta); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}
	meta.IPAddress = ctx.ClientIP()
	meta.UserAgent = ctx.Request.UserAgent()

	view, err := c.AttemptService.StartExam(ctx.Request.Context(), actor.UserID, examID, meta)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 自动保存答案
// @Tags 作答
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param attemptId path int true "作答ID"
// @Param body body SaveAnswersRequest true "答案"
// @Success 200 {object} util.Response
// @Router /api/exams/attempts/{attemptId}/answers [put]
func (c *ExamAttemptController) SaveAnswers(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	attemptID, ok := pathID(ctx, "attemptId")
	if !ok {
		return
	}

	var req SaveAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	saved, err := c.AttemptService.SaveAnswers(ctx.Request.Context(), actor.UserID, attemptID, req.Answers)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"saved": saved})
}

// @Summary 交卷
// @Tags 作答
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Param body body service.SubmitExamRequest true "作答ID及最终答案"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Router /api/exams/{id}/submit [post]
func (c *ExamAttemptController) SubmitExam(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.SubmitExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AttemptService.SubmitExam(ctx.Request.Context(), actor.UserID, examID, &req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 最佳成绩
// @Tags 作答
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response{data=service.AttemptResult}
// @Router /api/exams/{id}/result [get]
func (c *ExamAttemptController) GetResult(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	result, err := c.AttemptService.GetResult(ctx.Request.Context(), actor.UserID, examID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 作答记录
// @Tags 作答
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response{data=[]service.AttemptResult}
// @Router /api/exams/{id}/attempts [get]
func (c *ExamAttemptController) ListMyAttempts(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	examID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	attempts, err := c.AttemptService.ListMyAttempts(ctx.Request.Context(), actor.UserID, examID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// @Summary 作答回顾
// @Tags 作答
// @Produce json
// @Security BearerAuth
// @Param attemptId path int true "作答ID"
// @Success 200 {object} util.Response{data=service.AttemptReview}
// @Router /api/exams/attempts/{attemptId}/review [get]
func (c *ExamAttemptController) GetReview(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	attemptID, ok := pathID(ctx, "attemptId")
	if !ok {
		return
	}

	review, err := c.AttemptService.GetAttemptReview(ctx.Request.Context(), actor.UserID, attemptID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, review)
}
