package minwon

import (
	"context"
	"fmt"
	"time"

	domcomplaint "github.com/civicdesk/minwon/internal/domain/complaint"
)

// ComplaintService manages the complaint lifecycle.
type ComplaintService struct {
	svc complaintUseCase
	obs *observer
}

// Submit registers a new complaint: it is numbered, summarized, routed to
// a department and indexed for similarity search.
func (s *ComplaintService) Submit(
	ctx context.Context, title, content, category string,
) (_ Complaint, err error) {
	start := time.Now()
	defer func() { s.obs.observe("complaint.submit", start, err) }()

	c, err := s.svc.Submit(ctx, title, content, category)
	if err != nil {
		return Complaint{}, fmt.Errorf("submit complaint: %w", err)
	}
	return fromInternalComplaint(&c), nil
}

// Get retrieves a complaint by its public number.
func (s *ComplaintService) Get(ctx context.Context, number string) (_ Complaint, err error) {
	start := time.Now()
	defer func() { s.obs.observe("complaint.get", start, err) }()

	c, err := s.svc.Get(ctx, number)
	if err != nil {
		return Complaint{}, fmt.Errorf("get complaint: %w", err)
	}
	return fromInternalComplaint(&c), nil
}

// List returns a page of complaints. Pass the returned cursor to fetch
// the next page; an empty cursor starts from the beginning.
func (s *ComplaintService) List(
	ctx context.Context, cursor string, limit int,
) (_ ComplaintList, err error) {
	start := time.Now()
	defer func() { s.obs.observe("complaint.list", start, err) }()

	items, next, err := s.svc.List(ctx, cursor, limit)
	if err != nil {
		return ComplaintList{}, fmt.Errorf("list complaints: %w", err)
	}

	out := make([]Complaint, 0, len(items))
	for i := range items {
		out = append(out, fromInternalComplaint(&items[i]))
	}
	return ComplaintList{Items: out, NextCursor: next}, nil
}

// Count returns the total number of stored complaints.
func (s *ComplaintService) Count(ctx context.Context) (_ int, err error) {
	start := time.Now()
	defer func() { s.obs.observe("complaint.count", start, err) }()

	n, err := s.svc.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count complaints: %w", err)
	}
	return n, nil
}

// Draft generates a response guideline for a complaint.
func (s *ComplaintService) Draft(ctx context.Context, number string) (_ string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("complaint.draft", start, err) }()

	draft, err := s.svc.Draft(ctx, number)
	if err != nil {
		return "", fmt.Errorf("draft response: %w", err)
	}
	return draft, nil
}

// AcceptResponse records the final response and marks the complaint answered.
func (s *ComplaintService) AcceptResponse(
	ctx context.Context, number, response string,
) (_ Complaint, err error) {
	start := time.Now()
	defer func() { s.obs.observe("complaint.accept_response", start, err) }()

	c, err := s.svc.AcceptResponse(ctx, number, response)
	if err != nil {
		return Complaint{}, fmt.Errorf("accept response: %w", err)
	}
	return fromInternalComplaint(&c), nil
}

// Assist answers a staff question about a complaint.
func (s *ComplaintService) Assist(
	ctx context.Context, number, question string,
) (_ string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("complaint.assist", start, err) }()

	answer, err := s.svc.Assist(ctx, number, question)
	if err != nil {
		return "", fmt.Errorf("assist: %w", err)
	}
	return answer, nil
}

func fromInternalComplaint(c *domcomplaint.Complaint) Complaint {
	return Complaint{
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
	}
}
