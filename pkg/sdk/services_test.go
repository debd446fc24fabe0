package minwon

import (
	"context"
	"errors"
	"testing"

	domcomplaint "github.com/civicdesk/minwon/internal/domain/complaint"
	"github.com/civicdesk/minwon/internal/domain/search/fused"
	"github.com/civicdesk/minwon/internal/domain/search/hit"
	"github.com/civicdesk/minwon/internal/domain/search/request"
	"github.com/civicdesk/minwon/internal/domain/search/source"
	"github.com/civicdesk/minwon/internal/domain/search/strategy"
	healthuc "github.com/civicdesk/minwon/internal/usecase/health"
	searchuc "github.com/civicdesk/minwon/internal/usecase/search"
)

func TestSearchSimilar_ConvertsResponse(t *testing.T) {
	fusedResult := fused.New(
		"c-1", 0.032, 2, 0.9, 0.85,
		[]source.Source{source.Title, source.Summary},
		map[source.Source]float64{source.Title: 0.016, source.Summary: 0.016},
		hit.Payload{Number: "000042", Title: "초과근무수당 미지급 문의", Category: "성과∙급여"},
	)

	var gotTopK int
	search := &mockSearchUC{
		searchFn: func(_ context.Context, req *request.Request) (searchuc.Response, error) {
			gotTopK = req.TopK()
			return searchuc.Response{
				Category:        "성과∙급여",
				Confidence:      0.95,
				Strategy:        strategy.CategoryHighMatch,
				Results:         []fused.Result{fusedResult},
				TotalCandidates: 5,
			}, nil
		},
	}
	client := testClient(search, nil, nil)

	resp, err := client.Search().Similar(context.Background(), "수당 문의", SearchTopK(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotTopK != 7 {
		t.Errorf("topK: got %d, want 7", gotTopK)
	}
	if resp.Strategy != string(strategy.CategoryHighMatch) {
		t.Errorf("strategy: got %s", resp.Strategy)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("results: got %d, want 1", len(resp.Results))
	}
	r := resp.Results[0]
	if r.ID != "c-1" || r.Number != "000042" {
		t.Errorf("result identity: %+v", r)
	}
	if r.SourceCount != 2 || len(r.Sources) != 2 {
		t.Errorf("sources: %+v", r)
	}
	if r.Contributions["title"] != 0.016 {
		t.Errorf("contributions: %+v", r.Contributions)
	}
	if resp.TotalCandidates != 5 {
		t.Errorf("total candidates: got %d", resp.TotalCandidates)
	}
}

func TestSearchSimilar_EmptyText(t *testing.T) {
	client := testClient(&mockSearchUC{}, nil, nil)

	_, err := client.Search().Similar(context.Background(), "   ")
	if err == nil {
		t.Fatal("expected validation error for empty text")
	}
}

func TestComplaintSubmit(t *testing.T) {
	var gotCategory string
	complaints := &mockComplaintUC{
		submitFn: func(_ context.Context, title, content, category string) (domcomplaint.Complaint, error) {
			gotCategory = category
			return testComplaint(), nil
		},
	}
	client := testClient(nil, complaints, nil)

	c, err := client.Complaints().Submit(context.Background(),
		"초과근무수당 미지급 문의", "지난달 초과근무수당이 지급되지 않았습니다.", "성과∙급여")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotCategory != "성과∙급여" {
		t.Errorf("category: got %s", gotCategory)
	}
	if c.Number != "000042" || c.Status != StatusReceived {
		t.Errorf("complaint: %+v", c)
	}
}

func TestComplaintSubmit_UnknownCategory(t *testing.T) {
	complaints := &mockComplaintUC{
		submitFn: func(_ context.Context, _, _, _ string) (domcomplaint.Complaint, error) {
			return domcomplaint.Complaint{}, ErrUnknownCategory
		},
	}
	client := testClient(nil, complaints, nil)

	_, err := client.Complaints().Submit(context.Background(), "제목", "내용", "없는분류")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("error: got %v, want ErrUnknownCategory", err)
	}
}

func TestComplaintGet_NotFound(t *testing.T) {
	complaints := &mockComplaintUC{
		getFn: func(_ context.Context, _ string) (domcomplaint.Complaint, error) {
			return domcomplaint.Complaint{}, ErrComplaintNotFound
		},
	}
	client := testClient(nil, complaints, nil)

	_, err := client.Complaints().Get(context.Background(), "999999")
	if !errors.Is(err, ErrComplaintNotFound) {
		t.Errorf("error: got %v, want ErrComplaintNotFound", err)
	}
}

func TestComplaintList_Pagination(t *testing.T) {
	complaints := &mockComplaintUC{
		listFn: func(_ context.Context, cursor string, limit int) ([]domcomplaint.Complaint, string, error) {
			if cursor != "20" || limit != 10 {
				t.Errorf("list args: cursor=%s limit=%d", cursor, limit)
			}
			return []domcomplaint.Complaint{testComplaint()}, "30", nil
		},
	}
	client := testClient(nil, complaints, nil)

	list, err := client.Complaints().List(context.Background(), "20", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Items) != 1 || list.NextCursor != "30" {
		t.Errorf("list: %+v", list)
	}
}

func TestComplaintDraftAndAccept(t *testing.T) {
	complaints := &mockComplaintUC{
		draftFn: func(_ context.Context, number string) (string, error) {
			if number != "000042" {
				t.Errorf("draft number: %s", number)
			}
			return "답변 가이드라인", nil
		},
		acceptResponseFn: func(_ context.Context, number, response string) (domcomplaint.Complaint, error) {
			base := testComplaint()
			c := base.WithResponse(response)
			return c, nil
		},
	}
	client := testClient(nil, complaints, nil)

	draft, err := client.Complaints().Draft(context.Background(), "000042")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft != "답변 가이드라인" {
		t.Errorf("draft: %s", draft)
	}

	c, err := client.Complaints().AcceptResponse(context.Background(), "000042", "검토 결과를 안내드립니다.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Status != StatusAnswered {
		t.Errorf("status: got %s, want %s", c.Status, StatusAnswered)
	}
	if c.Response != "검토 결과를 안내드립니다." {
		t.Errorf("response: %s", c.Response)
	}
}

func TestComplaintAssist(t *testing.T) {
	complaints := &mockComplaintUC{
		assistFn: func(_ context.Context, number, question string) (string, error) {
			return "관련 규정은 공무원수당규정 제15조입니다.", nil
		},
	}
	client := testClient(nil, complaints, nil)

	answer, err := client.Complaints().Assist(context.Background(), "000042", "관련 규정이 있나요?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer == "" {
		t.Error("empty answer")
	}
}

func TestHealth(t *testing.T) {
	health := &mockHealthUC{
		checkFn: func(_ context.Context) healthuc.Report {
			return healthuc.Report{
				Status: healthuc.Degraded,
				Checks: map[string]healthuc.CheckResult{
					"database": healthuc.CheckOK,
					"chat":     healthuc.CheckError,
				},
			}
		},
	}
	client := testClient(nil, nil, health)

	status := client.Health(context.Background())
	if status.Status != "degraded" {
		t.Errorf("status: got %s", status.Status)
	}
	if status.Checks["chat"] != "error" {
		t.Errorf("checks: %+v", status.Checks)
	}
}
