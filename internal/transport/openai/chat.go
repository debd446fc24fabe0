package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/civicdesk/minwon/internal/domain"
	"github.com/civicdesk/minwon/internal/metrics"
)

// chatClient wraps the completion endpoint with metrics and usage accounting.
// classifier, analyst and assistant share it.
type chatClient struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

// ChatConfig holds the chat completion provider settings.
type ChatConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Logger    *zap.Logger
}

func newChatClient(cfg *ChatConfig) *chatClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &chatClient{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    orNopLogger(cfg.Logger),
	}
}

func orNopLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// complete runs a single system+user chat completion.
// purpose labels the metrics: classify, analyze, draft or assist.
func (c *chatClient) complete(
	ctx context.Context, purpose, systemPrompt, userPrompt string, jsonMode bool,
) (string, int, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues(purpose, c.model, "error").Inc()
		return "", 0, parseAPIError("chat", err, domain.ErrChatProviderError)
	}

	if len(resp.Choices) == 0 {
		metrics.ChatRequestsTotal.WithLabelValues(purpose, c.model, "error").Inc()
		return "", 0, domain.ErrChatProviderError
	}

	metrics.ChatRequestsTotal.WithLabelValues(purpose, c.model, "success").Inc()
	metrics.ChatRequestDuration.WithLabelValues(purpose, c.model).Observe(duration.Seconds())

	totalTokens := resp.Usage.TotalTokens
	if totalTokens > 0 {
		metrics.ChatTokensTotal.WithLabelValues(purpose, c.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.ChatTokensTotal.WithLabelValues(purpose, c.model, "total").Add(float64(totalTokens))
	}
	domain.UsageFromContext(ctx).AddTokens(totalTokens)

	return strings.TrimSpace(resp.Choices[0].Message.Content), totalTokens, nil
}

// HealthCheck verifies chat provider availability.
func (c *chatClient) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// extractJSONObject trims a model reply down to its outermost JSON object.
// Models occasionally wrap JSON in markdown fences or prose despite JSON mode.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
