package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/civicdesk/minwon/internal/domain"
)

// DepartmentInfo describes one routing target shown to the model.
type DepartmentInfo struct {
	Name     string
	Duties   []string
	Keywords []string
}

// Analyst produces the intake summary and department assignment.
// Unlike classification, intake analysis is required: a complaint is not
// stored without a summary and a department, so failures propagate.
type Analyst struct {
	chat        *chatClient
	departments []DepartmentInfo
	valid       map[string]struct{}
	logger      *zap.Logger
}

// NewAnalyst creates an intake analyst over the chat API.
func NewAnalyst(cfg *ChatConfig, departments []DepartmentInfo) *Analyst {
	valid := make(map[string]struct{}, len(departments))
	for _, d := range departments {
		valid[d.Name] = struct{}{}
	}

	return &Analyst{
		chat:        newChatClient(cfg),
		departments: departments,
		valid:       valid,
		logger:      orNopLogger(cfg.Logger),
	}
}

type analystReply struct {
	Summary    string `json:"summary"`
	Department string `json:"department"`
}

// Analyze implements domain.Analyst.
func (a *Analyst) Analyze(ctx context.Context, title, content, category string) (domain.AnalysisResult, error) {
	userPrompt := fmt.Sprintf("제목: %s\n내용: %s\n카테고리: %s", title, content, category)

	raw, tokens, err := a.chat.complete(ctx, "analyze", a.systemPrompt(), userPrompt, true)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("intake analysis: %w", err)
	}

	var reply analystReply
	if jsonErr := json.Unmarshal([]byte(extractJSONObject(raw)), &reply); jsonErr != nil {
		return domain.AnalysisResult{}, fmt.Errorf("intake analysis reply %q: %w: %w",
			raw, jsonErr, domain.ErrChatProviderError)
	}

	reply.Summary = strings.TrimSpace(reply.Summary)
	if reply.Summary == "" {
		return domain.AnalysisResult{}, fmt.Errorf("intake analysis returned empty summary: %w",
			domain.ErrChatProviderError)
	}

	department := strings.TrimSpace(reply.Department)
	if _, ok := a.valid[department]; !ok {
		fallback := a.defaultDepartment()
		a.logger.Warn("Analyst returned unknown department, using default",
			zap.String("department", department), zap.String("default", fallback))
		department = fallback
	}

	return domain.AnalysisResult{
		Summary:     reply.Summary,
		Department:  department,
		TotalTokens: tokens,
	}, nil
}

func (a *Analyst) defaultDepartment() string {
	if len(a.departments) == 0 {
		return "Unknown"
	}
	return a.departments[0].Name
}

func (a *Analyst) systemPrompt() string {
	var b strings.Builder
	b.WriteString("당신은 한국 정부 민원 요약·분류 전문가입니다.\n\n")
	b.WriteString("목표:\n")
	b.WriteString("- 민원 내용을 6~8단어 한 문장으로 아주 간결하게 요약\n")
	b.WriteString("- 원문 문장/구절을 그대로 복사하지 말고 새로운 표현으로 작성\n")
	b.WriteString("- 한국어로 작성, 마침표 없이 핵심만\n\n")
	b.WriteString("부서 선택 지침:\n")
	b.WriteString("- 작성된 요약과 아래 부서별 주요업무·키워드를 매칭\n")
	b.WriteString("- 반드시 제공 목록에서 정확히 일치하는 부서명만 선택\n\n")
	b.WriteString("사용 가능한 부서 목록:\n")
	for _, d := range a.departments {
		fmt.Fprintf(&b, "- %s\n", d.Name)
	}
	b.WriteString("\n부서별 상세 정보:\n")
	for _, d := range a.departments {
		fmt.Fprintf(&b, "\n부서명: %s\n", d.Name)
		if len(d.Duties) > 0 {
			fmt.Fprintf(&b, "주요업무: %s\n", strings.Join(d.Duties, ", "))
		}
		if len(d.Keywords) > 0 {
			fmt.Fprintf(&b, "키워드: %s\n", strings.Join(d.Keywords, ", "))
		}
	}
	b.WriteString("\n반드시 다음 JSON만 반환:\n")
	b.WriteString(`{"summary": "6~8단어 요약(새 문장)", "department": "부서명"}`)
	return b.String()
}
