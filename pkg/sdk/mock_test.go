package minwon

import (
	"context"

	domcomplaint "github.com/civicdesk/minwon/internal/domain/complaint"
	"github.com/civicdesk/minwon/internal/domain/search/request"
	healthuc "github.com/civicdesk/minwon/internal/usecase/health"
	searchuc "github.com/civicdesk/minwon/internal/usecase/search"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, req *request.Request) (searchuc.Response, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Request) (searchuc.Response, error) {
	return m.searchFn(ctx, req)
}

// --- complaintUseCase mock ---

type mockComplaintUC struct {
	submitFn         func(ctx context.Context, title, content, category string) (domcomplaint.Complaint, error)
	getFn            func(ctx context.Context, number string) (domcomplaint.Complaint, error)
	listFn           func(ctx context.Context, cursor string, limit int) ([]domcomplaint.Complaint, string, error)
	countFn          func(ctx context.Context) (int, error)
	draftFn          func(ctx context.Context, number string) (string, error)
	acceptResponseFn func(ctx context.Context, number, response string) (domcomplaint.Complaint, error)
	assistFn         func(ctx context.Context, number, question string) (string, error)
}

func (m *mockComplaintUC) Submit(
	ctx context.Context, title, content, category string,
) (domcomplaint.Complaint, error) {
	return m.submitFn(ctx, title, content, category)
}

func (m *mockComplaintUC) Get(ctx context.Context, number string) (domcomplaint.Complaint, error) {
	return m.getFn(ctx, number)
}

func (m *mockComplaintUC) List(
	ctx context.Context, cursor string, limit int,
) ([]domcomplaint.Complaint, string, error) {
	return m.listFn(ctx, cursor, limit)
}

func (m *mockComplaintUC) Count(ctx context.Context) (int, error) {
	return m.countFn(ctx)
}

func (m *mockComplaintUC) Draft(ctx context.Context, number string) (string, error) {
	return m.draftFn(ctx, number)
}

func (m *mockComplaintUC) AcceptResponse(
	ctx context.Context, number, response string,
) (domcomplaint.Complaint, error) {
	return m.acceptResponseFn(ctx, number, response)
}

func (m *mockComplaintUC) Assist(ctx context.Context, number, question string) (string, error) {
	return m.assistFn(ctx, number, question)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}

// --- helpers ---

func testClient(
	searchSvc searchUseCase,
	complaintSvc complaintUseCase,
	healthSvc healthUseCase,
) *Client {
	return &Client{
		searchSvc:    searchSvc,
		complaintSvc: complaintSvc,
		healthSvc:    healthSvc,
	}
}

func testComplaint() domcomplaint.Complaint {
	return domcomplaint.Reconstruct(
		"c-1", "000042",
		"초과근무수당 미지급 문의", "지난달 초과근무수당이 지급되지 않았습니다.",
		"초과근무수당 미지급 문의", "성과∙급여", "보수과",
		domcomplaint.StatusReceived, "",
		1700000000, domcomplaint.Embeddings{},
	)
}
