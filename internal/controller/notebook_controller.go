package controller

import (
	"edu_exam_backend/internal/service"
	"edu_exam_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// maxNotebookUpload 单个资料文件上限 200MB
const maxNotebookUpload = 200 << 20

type NotebookController struct {
	FileService *service.NotebookFileService
}

func NewNotebookController(fileService *service.NotebookFileService) *NotebookController {
	return &NotebookController{FileService: fileService}
}

// @Summary 上传笔记本资料
// @Description 支持文本、PDF、JSON 和视频，文本内容会用于 AI 出题
// @Tags 笔记本
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "资料文件"
// @Param notebookId formData int false "笔记本ID"
// @Success 201 {object} util.Response{data=model.NotebookFile}
// @Router /api/notebook-files [post]
func (c *NotebookController) Upload(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if fh.Size > maxNotebookUpload {
		util.BadRequest(ctx, "file is too large")
		return
	}
	notebookID := util.MustParseUint(ctx.PostForm("notebookId"))

	file, err := c.FileService.Upload(ctx.Request.Context(), actor.UserID, notebookID, fh)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, file)
}

// @Summary 资料列表
// @Tags 笔记本
// @Produce json
// @Security BearerAuth
// @Param notebookId query int false "笔记本ID"
// @Success 200 {object} util.Response{data=[]model.NotebookFile}
// @Router /api/notebook-files [get]
func (c *NotebookController) List(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	notebookID := util.MustParseUint(ctx.Query("notebookId"))

	files, err := c.FileService.List(ctx.Request.Context(), actor.UserID, notebookID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, files)
}

// @Summary 删除资料
// @Tags 笔记本
// @Produce json
// @Security BearerAuth
// @Param id path int true "资料ID"
// @Success 200 {object} util.Response
// @Router /api/notebook-files/{id} [delete]
func (c *NotebookController) Delete(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.FileService.Delete(ctx.Request.Context(), actor.UserID, id); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
