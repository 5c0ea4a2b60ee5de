package util

import "errors"

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrEmailRegistered   = errors.New("该邮箱已被注册")
	ErrInvalidCredential = errors.New("邮箱或密码错误")
	ErrPermissionDenied  = errors.New("permission denied")

	ErrClassNotFound = errors.New("class not found")
	ErrNotEnrolled   = errors.New("student is not enrolled in the exam's class")

	ErrExamNotFound        = errors.New("exam not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrInvalidExamState    = errors.New("invalid exam state")
	ErrInvalidTimeWindow   = errors.New("invalid exam time window")
	ErrInvalidExamSettings = errors.New("invalid exam settings")
	ErrNoQuestions         = errors.New("exam has no questions")
	ErrExamHasAttempts     = errors.New("exam already has attempts")
	ErrExamNotAvailable    = errors.New("exam is not available")
	ErrMaxAttemptsReached  = errors.New("maximum number of attempts reached")

	ErrAttemptNotFound      = errors.New("attempt not found")
	ErrAttemptNotInProgress = errors.New("attempt is not in progress")
	ErrNoGradedAttempt      = errors.New("no graded attempt")
	ErrReviewNotAllowed     = errors.New("review is not allowed for this exam")
	ErrInvalidAnswer        = errors.New("invalid answer")
	ErrInvalidQuestion      = errors.New("invalid question")

	ErrNotebookFilesNotFound = errors.New("notebook files not found")
	ErrNotebookFileNotFound  = errors.New("notebook file not found")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrInvalidGeneration     = errors.New("invalid generation request")
	ErrEmptySummary          = errors.New("summary of the source documents is empty")
	ErrEmptyLLMResponse      = errors.New("empty response from language model")
	ErrInvalidLLMResponse    = errors.New("unparseable response from language model")
	ErrGenerationQueueFull   = errors.New("generation queue is full")
	ErrTaskNotFound          = errors.New("generation task not found")

	ErrUnsupportedFormat = errors.New("unsupported export format")
)
