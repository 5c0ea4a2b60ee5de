package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"
	"edu_exam_backend/pkg/logger"

	"go.uber.org/zap"
)

// Summarizer 将笔记本资料压缩为出题用的纯文本
type Summarizer interface {
	Summarize(ctx context.Context, files []model.NotebookFile) (string, error)
}

// ObjectOpener 读取已存储的资料原文
type ObjectOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

const (
	defaultMaxDirectChars = 12000
	defaultChunkChars     = 8000
	maxSummaryChunks      = 8
)

const summarizeSystemPrompt = "You condense course material for exam authors. " +
	"Keep definitions, facts, formulas, examples and terminology. Reply with plain text only."

// NotebookSummarizer 资料较短时直接拼接原文，较长时分段交给大模型摘要
type NotebookSummarizer struct {
	LLM            LLMClient
	Storage        ObjectOpener
	MaxDirectChars int
	ChunkChars     int
}

func NewNotebookSummarizer(llm LLMClient, storage ObjectOpener) *NotebookSummarizer {
	return &NotebookSummarizer{
		LLM:            llm,
		Storage:        storage,
		MaxDirectChars: defaultMaxDirectChars,
		ChunkChars:     defaultChunkChars,
	}
}

func (s *NotebookSummarizer) Summarize(ctx context.Context, files []model.NotebookFile) (string, error) {
	var sections []string
	for i := range files {
		text, err := s.fileText(ctx, &files[i])
		if err != nil {
			logger.Log.Warn("read notebook file failed", zap.Uint("fileId", files[i].ID), zap.Error(err))
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("## %s\n%s", files[i].OriginalName, text))
	}
	combined := strings.Join(sections, "\n\n")
	if combined == "" {
		return "", nil
	}

	runes := []rune(combined)
	if len(runes) <= s.MaxDirectChars {
		return combined, nil
	}

	chunks := splitRunes(runes, s.ChunkChars, maxSummaryChunks)
	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		prompt := fmt.Sprintf("Summarize part %d of %d of the course material below.\n\n%s", i+1, len(chunks), chunk)
		out, err := s.LLM.Generate(ctx, summarizeSystemPrompt, prompt)
		if err != nil {
			return "", fmt.Errorf("summarize part %d: %w", i+1, err)
		}
		if out = strings.TrimSpace(out); out != "" {
			summaries = append(summaries, out)
		}
	}
	return strings.Join(summaries, "\n\n"), nil
}

// fileText 优先使用上传时抽取的文本，其次读取存储中的文本类原文
func (s *NotebookSummarizer) fileText(ctx context.Context, f *model.NotebookFile) (string, error) {
	if f.HasText() {
		return f.ExtractedText, nil
	}
	if s.Storage == nil || f.StorageKey == "" || !(util.IsText(f.MimeType) || f.MimeType == util.MimeJSON) {
		return "", nil
	}

	rc, err := s.Storage.Open(ctx, f.StorageKey)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, util.MaxExtractedTextChars*4))
	if err != nil {
		return "", err
	}
	return truncateRunes(string(data), util.MaxExtractedTextChars), nil
}

func splitRunes(runes []rune, size, limit int) []string {
	if size <= 0 {
		size = defaultChunkChars
	}
	var chunks []string
	for start := 0; start < len(runes) && len(chunks) < limit; start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
