package complaint

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/civicdesk/minwon/internal/domain"
	"github.com/civicdesk/minwon/internal/domain/category"
	domcomplaint "github.com/civicdesk/minwon/internal/domain/complaint"
)

type mockRepo struct {
	nextNumberFn  func(ctx context.Context) (string, error)
	saveFn        func(ctx context.Context, c *domcomplaint.Complaint) error
	getByNumberFn func(ctx context.Context, number string) (domcomplaint.Complaint, error)
	listFn        func(ctx context.Context, cursor string, limit int) ([]domcomplaint.Complaint, string, error)
	countFn       func(ctx context.Context) (int, error)
}

func (m *mockRepo) NextNumber(ctx context.Context) (string, error) {
	if m.nextNumberFn != nil {
		return m.nextNumberFn(ctx)
	}
	return "000001", nil
}

func (m *mockRepo) Save(ctx context.Context, c *domcomplaint.Complaint) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, c)
	}
	return nil
}

func (m *mockRepo) Get(_ context.Context, _ string) (domcomplaint.Complaint, error) {
	return domcomplaint.Complaint{}, domain.ErrComplaintNotFound
}

func (m *mockRepo) GetByNumber(ctx context.Context, number string) (domcomplaint.Complaint, error) {
	if m.getByNumberFn != nil {
		return m.getByNumberFn(ctx, number)
	}
	return domcomplaint.Complaint{}, domain.ErrComplaintNotFound
}

func (m *mockRepo) List(ctx context.Context, cursor string, limit int) ([]domcomplaint.Complaint, string, error) {
	if m.listFn != nil {
		return m.listFn(ctx, cursor, limit)
	}
	return nil, "", nil
}

func (m *mockRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockAnalyst struct {
	result domain.AnalysisResult
	err    error
}

func (m *mockAnalyst) Analyze(_ context.Context, _, _, _ string) (domain.AnalysisResult, error) {
	return m.result, m.err
}

type mockEmbedder struct {
	err error
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if m.err != nil {
		return domain.BatchEmbeddingResult{}, m.err
	}
	vecs := make([][]float32, len(texts))
	for i := range vecs {
		vecs[i] = []float32{0.1, 0.2}
	}
	return domain.BatchEmbeddingResult{Embeddings: vecs, TotalTokens: 9}, nil
}

type mockAssistant struct {
	draft  string
	answer string
	err    error
}

func (m *mockAssistant) Draft(_ context.Context, _, _, _ string) (string, error) {
	return m.draft, m.err
}

func (m *mockAssistant) Assist(_ context.Context, _, _, _, _ string) (string, error) {
	return m.answer, m.err
}

func testService(t *testing.T, repo *mockRepo, analyst *mockAnalyst, emb *mockEmbedder, as *mockAssistant) *Service {
	t.Helper()
	set, err := category.NewSet([]string{"성과∙급여", "윤리∙복무", "재해∙보상", "채용∙임용"})
	if err != nil {
		t.Fatalf("category set: %v", err)
	}
	svc := New(repo, analyst, emb, as, set, zap.NewNop())
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	return svc
}

func okAnalyst() *mockAnalyst {
	return &mockAnalyst{result: domain.AnalysisResult{
		Summary: "도로 파손 보수 요청", Department: "도로관리과",
	}}
}

// --- Submit ---

func TestSubmit(t *testing.T) {
	var saved *domcomplaint.Complaint
	repo := &mockRepo{
		saveFn: func(_ context.Context, c *domcomplaint.Complaint) error {
			saved = c
			return nil
		},
	}

	svc := testService(t, repo, okAnalyst(), &mockEmbedder{}, &mockAssistant{})

	c, err := svc.Submit(context.Background(), "도로 파손 신고", "도로에 구멍이 생겼습니다", "재해∙보상")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if c.Number() != "000001" {
		t.Errorf("number = %q", c.Number())
	}
	if c.Summary() != "도로 파손 보수 요청" {
		t.Errorf("summary = %q", c.Summary())
	}
	if c.Department() != "도로관리과" {
		t.Errorf("department = %q", c.Department())
	}
	if c.Status() != domcomplaint.StatusReceived {
		t.Errorf("status = %q, want received", c.Status())
	}
	if c.SubmittedAt() != 1700000000 {
		t.Errorf("submitted_at = %d", c.SubmittedAt())
	}

	v := c.Vectors()
	if len(v.Title) != 2 || len(v.Content) != 2 || len(v.Summary) != 2 {
		t.Errorf("missing vectors: %+v", v)
	}
	if saved == nil || saved.ID() != c.ID() {
		t.Error("complaint was not persisted")
	}
}

func TestSubmit_UnknownCategory(t *testing.T) {
	svc := testService(t, &mockRepo{}, okAnalyst(), &mockEmbedder{}, &mockAssistant{})

	_, err := svc.Submit(context.Background(), "t", "c", "기타")
	if !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("err = %v, want ErrUnknownCategory", err)
	}
}

func TestSubmit_EmptyTitle(t *testing.T) {
	svc := testService(t, &mockRepo{}, okAnalyst(), &mockEmbedder{}, &mockAssistant{})

	_, err := svc.Submit(context.Background(), "  ", "content", "재해∙보상")
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestSubmit_AnalysisFailureIsFatal(t *testing.T) {
	analyst := &mockAnalyst{err: domain.ErrChatProviderError}
	svc := testService(t, &mockRepo{}, analyst, &mockEmbedder{}, &mockAssistant{})

	_, err := svc.Submit(context.Background(), "t", "c", "재해∙보상")
	if !errors.Is(err, domain.ErrChatProviderError) {
		t.Fatalf("err = %v, want ErrChatProviderError", err)
	}
}

func TestSubmit_EmbeddingFailureIsFatal(t *testing.T) {
	emb := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	svc := testService(t, &mockRepo{}, okAnalyst(), emb, &mockAssistant{})

	_, err := svc.Submit(context.Background(), "t", "c", "재해∙보상")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("err = %v, want ErrEmbeddingProviderError", err)
	}
}

// --- Get / Draft / Assist / AcceptResponse ---

func storedComplaint(t *testing.T) domcomplaint.Complaint {
	t.Helper()
	return domcomplaint.Reconstruct(
		"c-1", "000042", "도로 파손 신고", "구멍", "요약", "재해∙보상",
		"도로관리과", domcomplaint.StatusReceived, "", 1700000000,
		domcomplaint.Embeddings{},
	)
}

func TestGet_NotFound(t *testing.T) {
	svc := testService(t, &mockRepo{}, okAnalyst(), &mockEmbedder{}, &mockAssistant{})

	_, err := svc.Get(context.Background(), "999999")
	if !errors.Is(err, domain.ErrComplaintNotFound) {
		t.Fatalf("err = %v, want ErrComplaintNotFound", err)
	}
}

func TestGet_EmptyNumber(t *testing.T) {
	svc := testService(t, &mockRepo{}, okAnalyst(), &mockEmbedder{}, &mockAssistant{})

	_, err := svc.Get(context.Background(), " ")
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestDraft(t *testing.T) {
	repo := &mockRepo{
		getByNumberFn: func(_ context.Context, number string) (domcomplaint.Complaint, error) {
			if number != "000042" {
				t.Errorf("number = %q", number)
			}
			return storedComplaint(t), nil
		},
	}
	as := &mockAssistant{draft: "안녕하세요. 안내드립니다."}

	svc := testService(t, repo, okAnalyst(), &mockEmbedder{}, as)
	draft, err := svc.Draft(context.Background(), "000042")
	if err != nil {
		t.Fatalf("Draft failed: %v", err)
	}
	if draft != "안녕하세요. 안내드립니다." {
		t.Errorf("draft = %q", draft)
	}
}

func TestAcceptResponse(t *testing.T) {
	var saved *domcomplaint.Complaint
	repo := &mockRepo{
		getByNumberFn: func(_ context.Context, _ string) (domcomplaint.Complaint, error) {
			return storedComplaint(t), nil
		},
		saveFn: func(_ context.Context, c *domcomplaint.Complaint) error {
			saved = c
			return nil
		},
	}

	svc := testService(t, repo, okAnalyst(), &mockEmbedder{}, &mockAssistant{})
	c, err := svc.AcceptResponse(context.Background(), "000042", "처리 완료되었습니다.")
	if err != nil {
		t.Fatalf("AcceptResponse failed: %v", err)
	}

	if c.Status() != domcomplaint.StatusAnswered {
		t.Errorf("status = %q, want answered", c.Status())
	}
	if c.Response() != "처리 완료되었습니다." {
		t.Errorf("response = %q", c.Response())
	}
	if saved == nil || saved.Status() != domcomplaint.StatusAnswered {
		t.Error("updated complaint was not persisted")
	}
}

func TestAcceptResponse_EmptyResponse(t *testing.T) {
	svc := testService(t, &mockRepo{}, okAnalyst(), &mockEmbedder{}, &mockAssistant{})

	_, err := svc.AcceptResponse(context.Background(), "000042", " ")
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestAssist(t *testing.T) {
	repo := &mockRepo{
		getByNumberFn: func(_ context.Context, _ string) (domcomplaint.Complaint, error) {
			return storedComplaint(t), nil
		},
	}
	as := &mockAssistant{answer: "관련 법령에 따라 처리하시면 됩니다."}

	svc := testService(t, repo, okAnalyst(), &mockEmbedder{}, as)
	answer, err := svc.Assist(context.Background(), "000042", "근거 법령은?")
	if err != nil {
		t.Fatalf("Assist failed: %v", err)
	}
	if answer == "" {
		t.Error("empty answer")
	}
}

func TestAssist_EmptyQuestion(t *testing.T) {
	svc := testService(t, &mockRepo{}, okAnalyst(), &mockEmbedder{}, &mockAssistant{})

	_, err := svc.Assist(context.Background(), "000042", "")
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
