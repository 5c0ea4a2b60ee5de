package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"edu_exam_backend/internal/config"
	"edu_exam_backend/pkg/logger"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// LLMClient 外部大模型，输入提示词返回文本
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// AIService 基于 OpenAI 兼容接口的大模型客户端
type AIService struct {
	api *openai.Client

	mu          sync.RWMutex
	model       string
	temperature float32
	timeout     time.Duration
}

func NewAIService(cfg config.AIConfig) *AIService {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	return &AIService{
		api:         openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     timeout,
	}
}

// UpdateSettings 配置热更新时调用
func (s *AIService) UpdateSettings(model string, temperature float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if model != "" {
		s.model = model
	}
	s.temperature = temperature
}

func (s *AIService) settings() (string, float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model, s.temperature
}

func (s *AIService) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	model, temperature := s.settings()
	messages := []openai.ChatCompletionMessage{}
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userPrompt})

	start := time.Now()
	resp, err := s.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("LLM returned no choices")
	}

	logger.Log.Debug("LLM call finished", zap.String("model", model),
		zap.Duration("elapsed", time.Since(start)), zap.Int("totalTokens", resp.Usage.TotalTokens))
	return resp.Choices[0].Message.Content, nil
}
