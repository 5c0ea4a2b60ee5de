package util

const TimeFormat = "2006-01-02 15:04:05"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeVideo = "video/"
	MimeText  = "text/"
	MimePDF   = "application/pdf"
	MimeJSON  = "application/json"
)

// 笔记本资料允许的类型
var AllowedNotebookMimeTypes = []string{MimeText, MimePDF, MimeJSON, MimeVideo}

const MaxExtractedTextChars = 200000

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)
