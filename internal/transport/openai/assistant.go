package openai

import (
	"context"
	"fmt"

	"github.com/civicdesk/minwon/internal/domain"
)

// Assistant generates response drafts and answers staff questions.
type Assistant struct {
	chat *chatClient
}

// NewAssistant creates a response assistant over the chat API.
func NewAssistant(cfg *ChatConfig) *Assistant {
	return &Assistant{chat: newChatClient(cfg)}
}

// HealthCheck verifies chat provider availability.
func (a *Assistant) HealthCheck(ctx context.Context) error {
	return a.chat.HealthCheck(ctx)
}

const draftSystemPrompt = `당신은 한국 정부 민원 처리 전문가입니다.
주어진 민원에 대해 다음 형식으로 상세한 답변 가이드라인을 작성해주세요:

[답변 형식 규칙]
1. 정중하고 공감적인 인사말로 시작
2. 민원 내용에 대한 명확한 이해 표시
3. 관련 법령 및 정책 근거 제시
4. 구체적인 해결방안 또는 절차 안내
5. 추가 문의 연락처 정보 제공
6. 감사 인사로 마무리

한국어로 정중하고 전문적인 톤으로 작성해주세요.`

// Draft generates a response draft for a complaint.
func (a *Assistant) Draft(ctx context.Context, title, content, category string) (string, error) {
	userPrompt := fmt.Sprintf("민원 제목: %s\n민원 내용: %s\n카테고리: %s", title, content, category)

	draft, _, err := a.chat.complete(ctx, "draft", draftSystemPrompt, userPrompt, false)
	if err != nil {
		return "", fmt.Errorf("draft response: %w", err)
	}
	if draft == "" {
		return "", fmt.Errorf("empty draft response: %w", domain.ErrChatProviderError)
	}

	return draft, nil
}

// Assist answers a staff question about the complaint being processed.
func (a *Assistant) Assist(ctx context.Context, question, title, content, category string) (string, error) {
	systemPrompt := fmt.Sprintf(`당신은 한국 정부 민원 처리 AI 어시스턴트입니다.
담당자가 민원 처리 과정에서 궁금한 사항을 질문하면 도움이 되는 답변을 제공해주세요.

현재 처리 중인 민원 정보:
- 제목: %s
- 내용: %s
- 카테고리: %s

친절하고 전문적인 톤으로 한국어로 답변해주세요.`,
		orDefault(title), orDefault(content), orDefault(category))

	answer, _, err := a.chat.complete(ctx, "assist", systemPrompt, question, false)
	if err != nil {
		return "", fmt.Errorf("assist: %w", err)
	}
	if answer == "" {
		return "", fmt.Errorf("empty assist response: %w", domain.ErrChatProviderError)
	}

	return answer, nil
}

func orDefault(s string) string {
	if s == "" {
		return "정보 없음"
	}
	return s
}
