package chi

import (
	"strconv"

	"github.com/civicdesk/minwon/internal/domain"
	"github.com/civicdesk/minwon/internal/domain/complaint"
	"github.com/civicdesk/minwon/internal/domain/search/fused"
	healthuc "github.com/civicdesk/minwon/internal/usecase/health"
	searchuc "github.com/civicdesk/minwon/internal/usecase/search"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type usageDTO struct {
	TotalTokens int `json:"total_tokens"`
}

func usageToDTO(u *domain.Usage) *usageDTO {
	if u == nil || !u.Used() {
		return nil
	}
	return &usageDTO{TotalTokens: u.TotalTokens()}
}

type searchSimilarRequest struct {
	Text      string  `json:"text"`
	TopK      int     `json:"top_k"`
	Threshold float64 `json:"threshold"`
}

type searchResultDTO struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	Title         string             `json:"title"`
	Summary       string             `json:"summary,omitempty"`
	Category      string             `json:"category,omitempty"`
	Department    string             `json:"department,omitempty"`
	Response      string             `json:"response,omitempty"`
	FinalScore    float64            `json:"final_score"`
	MaxSimilarity float64            `json:"max_similarity"`
	AvgSimilarity float64            `json:"avg_similarity"`
	SourceCount   int                `json:"source_count"`
	Sources       []string           `json:"sources"`
	Contributions map[string]float64 `json:"contributions"`
}

type searchSimilarResponse struct {
	Category        string            `json:"category,omitempty"`
	Confidence      float64           `json:"confidence"`
	Strategy        string            `json:"strategy"`
	Results         []searchResultDTO `json:"results"`
	TotalCandidates int               `json:"total_candidates"`
	Usage           *usageDTO         `json:"usage,omitempty"`
}

func searchResponseToDTO(resp searchuc.Response, usage *domain.Usage) searchSimilarResponse {
	results := make([]searchResultDTO, 0, len(resp.Results))
	for i := range resp.Results {
		results = append(results, fusedResultToDTO(&resp.Results[i]))
	}
	return searchSimilarResponse{
		Category:        resp.Category,
		Confidence:      resp.Confidence,
		Strategy:        string(resp.Strategy),
		Results:         results,
		TotalCandidates: resp.TotalCandidates,
		Usage:           usageToDTO(usage),
	}
}

func fusedResultToDTO(r *fused.Result) searchResultDTO {
	sources := make([]string, 0, len(r.Sources()))
	for _, src := range r.Sources() {
		sources = append(sources, string(src))
	}
	contributions := make(map[string]float64, len(r.Contributions()))
	for src, c := range r.Contributions() {
		contributions[string(src)] = c
	}
	p := r.Payload()
	return searchResultDTO{
		ID:            r.ID(),
		Number:        p.Number,
		Title:         p.Title,
		Summary:       p.Summary,
		Category:      p.Category,
		Department:    p.Department,
		Response:      p.Response,
		FinalScore:    r.FinalScore(),
		MaxSimilarity: r.MaxSimilarity(),
		AvgSimilarity: r.AvgSimilarity(),
		SourceCount:   r.SourceCount(),
		Sources:       sources,
		Contributions: contributions,
	}
}

type submitComplaintRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type complaintDTO struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	Title       string    `json:"title"`
	Content     string    `json:"content,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Category    string    `json:"category"`
	Department  string    `json:"department,omitempty"`
	Status      string    `json:"status"`
	Response    string    `json:"response,omitempty"`
	SubmittedAt int64     `json:"submitted_at"`
	Usage       *usageDTO `json:"usage,omitempty"`
}

func complaintToDTO(c *complaint.Complaint, usage *domain.Usage) complaintDTO {
	return complaintDTO{
		ID:          c.ID(),
		Number:      c.Number(),
		Title:       c.Title(),
		Content:     c.Content(),
		Summary:     c.Summary(),
		Category:    c.Category(),
		Department:  c.Department(),
		Status:      c.Status(),
		Response:    c.Response(),
		SubmittedAt: c.SubmittedAt(),
		Usage:       usageToDTO(usage),
	}
}

type complaintListResponse struct {
	Items      []complaintDTO `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
	Total      int            `json:"total"`
}

func complaintListToDTO(items []complaint.Complaint, next string, total int) complaintListResponse {
	dtos := make([]complaintDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, complaintToDTO(&items[i], nil))
	}
	return complaintListResponse{Items: dtos, NextCursor: next, Total: total}
}

type draftRequest struct {
	Accept   bool   `json:"accept"`
	Response string `json:"response"`
}

type draftResponse struct {
	Draft string    `json:"draft"`
	Usage *usageDTO `json:"usage,omitempty"`
}

type assistRequest struct {
	Question string `json:"question"`
}

type assistResponse struct {
	Answer string    `json:"answer"`
	Usage  *usageDTO `json:"usage,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func healthToDTO(r healthuc.Report) healthResponse {
	checks := make(map[string]string, len(r.Checks))
	for name, res := range r.Checks {
		checks[name] = string(res)
	}
	return healthResponse{Status: string(r.Status), Checks: checks}
}

func parseLimit(raw string) int {
	if raw == "" {
		return defaultListLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultListLimit
	}
	if n > maxListLimit {
		return maxListLimit
	}
	return n
}
