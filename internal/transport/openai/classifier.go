package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/civicdesk/minwon/internal/domain"
	"github.com/civicdesk/minwon/internal/domain/category"
)

// Classifier assigns a complaint category with a chat completion.
// It degrades instead of failing: any provider or parse problem yields
// an inconclusive result so search falls back to the full corpus.
type Classifier struct {
	chat       *chatClient
	categories category.Set
	logger     *zap.Logger
}

// NewClassifier creates a category classifier over the chat API.
func NewClassifier(cfg *ChatConfig, categories category.Set) *Classifier {
	return &Classifier{
		chat:       newChatClient(cfg),
		categories: categories,
		logger:     orNopLogger(cfg.Logger),
	}
}

type classifierReply struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Classify implements domain.Classifier.
func (c *Classifier) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	raw, tokens, err := c.chat.complete(ctx, "classify", c.systemPrompt(), text, true)
	if err != nil {
		c.logger.Warn("Classification failed, searching without category filter", zap.Error(err))
		return domain.ClassificationResult{}, nil
	}

	var reply classifierReply
	if jsonErr := json.Unmarshal([]byte(extractJSONObject(raw)), &reply); jsonErr != nil {
		c.logger.Warn("Classification reply is not valid JSON",
			zap.String("reply", raw), zap.Error(jsonErr))
		return domain.ClassificationResult{TotalTokens: tokens}, nil
	}

	reply.Category = strings.TrimSpace(reply.Category)
	if !c.categories.Contains(reply.Category) {
		c.logger.Warn("Classifier returned a category outside the configured set",
			zap.String("category", reply.Category))
		return domain.ClassificationResult{TotalTokens: tokens}, nil
	}

	return domain.ClassificationResult{
		Category:    reply.Category,
		Confidence:  domain.ClampConfidence(reply.Confidence),
		TotalTokens: tokens,
	}, nil
}

func (c *Classifier) systemPrompt() string {
	var b strings.Builder
	b.WriteString("당신은 한국 정부 민원 분류 전문가입니다.\n")
	b.WriteString("사용자가 입력한 민원 텍스트를 아래 카테고리 중 하나로 분류하세요.\n\n")
	b.WriteString("카테고리 목록:\n")
	for _, label := range c.categories.Labels() {
		fmt.Fprintf(&b, "- %s\n", label)
	}
	b.WriteString("\n반드시 다음 JSON만 반환:\n")
	b.WriteString(`{"category": "카테고리명", "confidence": 0.0}` + "\n")
	b.WriteString("confidence는 0.0에서 1.0 사이의 분류 확신도입니다.\n")
	b.WriteString("어느 카테고리에도 해당하지 않으면 category를 빈 문자열로 반환하세요.")
	return b.String()
}
