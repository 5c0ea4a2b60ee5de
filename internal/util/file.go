package util

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

// ValidateMimeType 读取文件头部嗅探 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "text/", "video/", "application/pdf"
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(reader, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}

// IsText JSON 也按文本处理
func IsText(mimeType string) bool {
	return strings.HasPrefix(mimeType, MimeText) || strings.HasPrefix(mimeType, MimeJSON)
}

func IsVideo(mimeType string) bool {
	return strings.HasPrefix(mimeType, MimeVideo)
}
