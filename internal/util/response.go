package util

import (
	"errors"
	"net/http"

	"edu_exam_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Accepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, Response{
		Code:    http.StatusAccepted,
		Message: "accepted",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err), zap.String("path", c.FullPath()))
	InternalServerError(c)
}

var (
	forbiddenErrors = []error{ErrPermissionDenied, ErrNotEnrolled}
	notFoundErrors  = []error{
		ErrUserNotFound, ErrClassNotFound, ErrExamNotFound, ErrQuestionNotFound,
		ErrAttemptNotFound, ErrNoGradedAttempt, ErrNotebookFileNotFound, ErrTaskNotFound,
	}
	conflictErrors = []error{
		ErrMaxAttemptsReached, ErrExamHasAttempts, ErrEmailRegistered, ErrGenerationQueueFull,
	}
	badRequestErrors = []error{
		ErrInvalidExamState, ErrInvalidTimeWindow, ErrInvalidExamSettings, ErrNoQuestions, ErrExamNotAvailable,
		ErrAttemptNotInProgress, ErrReviewNotAllowed, ErrNotebookFilesNotFound,
		ErrUnsupportedFileType, ErrInvalidGeneration, ErrUnsupportedFormat, ErrInvalidCredential,
		ErrInvalidAnswer, ErrInvalidQuestion,
	}
	// 生成/导出失败时把底层原因返回给教师
	passthroughErrors = []error{ErrEmptySummary, ErrEmptyLLMResponse, ErrInvalidLLMResponse}
)

func matchAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// StatusForError 把业务错误映射为 HTTP 状态码
func StatusForError(err error) int {
	switch {
	case matchAny(err, forbiddenErrors):
		return http.StatusForbidden
	case matchAny(err, notFoundErrors):
		return http.StatusNotFound
	case matchAny(err, conflictErrors):
		return http.StatusConflict
	case matchAny(err, badRequestErrors):
		return http.StatusBadRequest
	case matchAny(err, passthroughErrors):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// HandleServiceError 业务错误返回原因，其余错误记录日志后返回 500
func HandleServiceError(c *gin.Context, err error) {
	code := StatusForError(err)
	if code == http.StatusInternalServerError {
		LogInternalError(c, err)
		return
	}
	Error(c, code, err.Error())
}

// HandleUpstreamError 导出、出题等外部依赖失败时保留底层错误信息
func HandleUpstreamError(c *gin.Context, err error) {
	code := StatusForError(err)
	if code == http.StatusInternalServerError {
		logger.Log.Error("Upstream failure", zap.Error(err), zap.String("path", c.FullPath()))
	}
	Error(c, code, err.Error())
}
