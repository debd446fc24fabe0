package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/civicdesk/minwon/internal/domain"
	"github.com/civicdesk/minwon/internal/domain/category"
	domcomplaint "github.com/civicdesk/minwon/internal/domain/complaint"
	"github.com/civicdesk/minwon/internal/domain/search/hit"
	"github.com/civicdesk/minwon/internal/domain/search/source"
	complaintuc "github.com/civicdesk/minwon/internal/usecase/complaint"
	healthuc "github.com/civicdesk/minwon/internal/usecase/health"
	searchuc "github.com/civicdesk/minwon/internal/usecase/search"
)

// Mocks for the usecase contracts. Override the fn fields per test.

type mockSearchRepo struct {
	queryFieldFn func(ctx context.Context, src source.Source, vector []float32, topK int, threshold float64, category string) ([]hit.Hit, error)
}

func (m *mockSearchRepo) QueryField(
	ctx context.Context, src source.Source,
	vector []float32, topK int, threshold float64, category string,
) ([]hit.Hit, error) {
	if m.queryFieldFn != nil {
		return m.queryFieldFn(ctx, src, vector, topK, threshold, category)
	}
	return nil, nil
}

type mockClassifier struct {
	classifyFn func(ctx context.Context, text string) (domain.ClassificationResult, error)
}

func (m *mockClassifier) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	if m.classifyFn != nil {
		return m.classifyFn(ctx, text)
	}
	return domain.ClassificationResult{}, nil
}

type mockEmbedder struct {
	embedFn      func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	batchEmbedFn func(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

func (m *mockEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if m.batchEmbedFn != nil {
		return m.batchEmbedFn(ctx, texts)
	}
	embeddings := make([][]float32, len(texts))
	for i := range embeddings {
		embeddings[i] = []float32{0.1, 0.2}
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings}, nil
}

type mockComplaintRepo struct {
	nextNumberFn  func(ctx context.Context) (string, error)
	saveFn        func(ctx context.Context, c *domcomplaint.Complaint) error
	getFn         func(ctx context.Context, id string) (domcomplaint.Complaint, error)
	getByNumberFn func(ctx context.Context, number string) (domcomplaint.Complaint, error)
	listFn        func(ctx context.Context, cursor string, limit int) ([]domcomplaint.Complaint, string, error)
	countFn       func(ctx context.Context) (int, error)
}

func (m *mockComplaintRepo) NextNumber(ctx context.Context) (string, error) {
	if m.nextNumberFn != nil {
		return m.nextNumberFn(ctx)
	}
	return "000001", nil
}

func (m *mockComplaintRepo) Save(ctx context.Context, c *domcomplaint.Complaint) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, c)
	}
	return nil
}

func (m *mockComplaintRepo) Get(ctx context.Context, id string) (domcomplaint.Complaint, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domcomplaint.Complaint{}, domain.ErrComplaintNotFound
}

func (m *mockComplaintRepo) GetByNumber(ctx context.Context, number string) (domcomplaint.Complaint, error) {
	if m.getByNumberFn != nil {
		return m.getByNumberFn(ctx, number)
	}
	return domcomplaint.Complaint{}, domain.ErrComplaintNotFound
}

func (m *mockComplaintRepo) List(ctx context.Context, cursor string, limit int) ([]domcomplaint.Complaint, string, error) {
	if m.listFn != nil {
		return m.listFn(ctx, cursor, limit)
	}
	return nil, "", nil
}

func (m *mockComplaintRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockAnalyst struct {
	analyzeFn func(ctx context.Context, title, content, category string) (domain.AnalysisResult, error)
}

func (m *mockAnalyst) Analyze(ctx context.Context, title, content, cat string) (domain.AnalysisResult, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, title, content, cat)
	}
	return domain.AnalysisResult{Summary: "수당 지급 기준 문의", Department: "보수과"}, nil
}

type mockAssistant struct {
	draftFn  func(ctx context.Context, title, content, category string) (string, error)
	assistFn func(ctx context.Context, question, title, content, category string) (string, error)
}

func (m *mockAssistant) Draft(ctx context.Context, title, content, cat string) (string, error) {
	if m.draftFn != nil {
		return m.draftFn(ctx, title, content, cat)
	}
	return "답변 가이드라인", nil
}

func (m *mockAssistant) Assist(ctx context.Context, question, title, content, cat string) (string, error) {
	if m.assistFn != nil {
		return m.assistFn(ctx, question, title, content, cat)
	}
	return "안내 답변", nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error { return m.err }

type mockChecker struct {
	err error
}

func (m *mockChecker) HealthCheck(ctx context.Context) error { return m.err }

// testDeps bundles the mocks so individual tests can override behavior
// before building the router.
type testDeps struct {
	searchRepo    *mockSearchRepo
	classifier    *mockClassifier
	embedder      *mockEmbedder
	complaintRepo *mockComplaintRepo
	analyst       *mockAnalyst
	assistant     *mockAssistant
	db            *mockPinger
	provider      *mockChecker
}

func newTestDeps() *testDeps {
	return &testDeps{
		searchRepo:    &mockSearchRepo{},
		classifier:    &mockClassifier{},
		embedder:      &mockEmbedder{},
		complaintRepo: &mockComplaintRepo{},
		analyst:       &mockAnalyst{},
		assistant:     &mockAssistant{},
		db:            &mockPinger{},
		provider:      &mockChecker{},
	}
}

var testCategories = []string{"성과∙급여", "윤리∙복무", "재해∙보상", "채용∙임용"}

func newTestRouter(d *testDeps) http.Handler {
	cats, err := category.NewSet(testCategories)
	if err != nil {
		panic(err)
	}

	searchSvc := searchuc.New(d.searchRepo, d.classifier, d.embedder, searchuc.Policy{
		ConfidenceThreshold: 0.8,
		HighMatchThreshold:  0.7,
		RRFK:                60,
	}, zap.NewNop())
	complaintSvc := complaintuc.New(d.complaintRepo, d.analyst, d.embedder, d.assistant, cats, zap.NewNop())
	healthSvc := healthuc.New(d.db, d.provider, d.provider)

	srv := NewServer(searchSvc, complaintSvc, healthSvc, zap.NewNop())
	r := chi.NewRouter()
	srv.RegisterRoutes(r)
	return r
}
