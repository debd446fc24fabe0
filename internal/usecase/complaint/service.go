// Package complaint implements the complaint intake and processing lifecycle.
package complaint

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civicdesk/minwon/internal/domain"
	"github.com/civicdesk/minwon/internal/domain/category"
	domcomplaint "github.com/civicdesk/minwon/internal/domain/complaint"
)

// Service handles the complaint lifecycle: intake, retrieval, drafting.
type Service struct {
	repo       Repository
	analyst    Analyst
	embed      Embedder
	assistant  Assistant
	categories category.Set
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a complaint service.
func New(
	repo Repository, analyst Analyst, embed Embedder, assistant Assistant,
	categories category.Set, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:       repo,
		analyst:    analyst,
		embed:      embed,
		assistant:  assistant,
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit runs the intake pipeline: validate, analyze, embed, persist.
// Analysis and embedding are both required; a complaint is never stored
// without its summary, department and vectors.
func (s *Service) Submit(ctx context.Context, title, content, cat string) (domcomplaint.Complaint, error) {
	if !s.categories.Contains(strings.TrimSpace(cat)) {
		return domcomplaint.Complaint{}, fmt.Errorf("category %q: %w", cat, domain.ErrUnknownCategory)
	}

	number, err := s.repo.NextNumber(ctx)
	if err != nil {
		return domcomplaint.Complaint{}, fmt.Errorf("allocate number: %w", err)
	}

	c, err := domcomplaint.New(uuid.NewString(), number, title, content, strings.TrimSpace(cat), s.now().Unix())
	if err != nil {
		return domcomplaint.Complaint{}, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}

	analysis, err := s.analyst.Analyze(ctx, c.Title(), c.Content(), c.Category())
	if err != nil {
		return domcomplaint.Complaint{}, fmt.Errorf("analyze complaint: %w", err)
	}
	c = c.WithAnalysis(analysis.Summary, analysis.Department)

	batch, err := s.embed.BatchEmbed(ctx, []string{c.Title(), c.Content(), c.Summary()})
	if err != nil {
		return domcomplaint.Complaint{}, fmt.Errorf("embed complaint: %w", err)
	}
	c = c.WithVectors(domcomplaint.Embeddings{
		Title:   batch.Embeddings[0],
		Content: batch.Embeddings[1],
		Summary: batch.Embeddings[2],
	})

	if err := s.repo.Save(ctx, &c); err != nil {
		return domcomplaint.Complaint{}, fmt.Errorf("save complaint: %w", err)
	}

	s.logger.Info("Complaint submitted",
		zap.String("number", c.Number()),
		zap.String("category", c.Category()),
		zap.String("department", c.Department()))

	return c, nil
}

// Get fetches a complaint by its human-facing number.
func (s *Service) Get(ctx context.Context, number string) (domcomplaint.Complaint, error) {
	if strings.TrimSpace(number) == "" {
		return domcomplaint.Complaint{}, fmt.Errorf("number is required: %w", domain.ErrInvalidArgument)
	}
	return s.repo.GetByNumber(ctx, number)
}

// List returns a page of complaints with an opaque next cursor.
func (s *Service) List(ctx context.Context, cursor string, limit int) ([]domcomplaint.Complaint, string, error) {
	return s.repo.List(ctx, cursor, limit)
}

// Count returns the total number of stored complaints.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Draft generates a response guideline for a complaint without storing it.
func (s *Service) Draft(ctx context.Context, number string) (string, error) {
	c, err := s.Get(ctx, number)
	if err != nil {
		return "", err
	}
	return s.assistant.Draft(ctx, c.Title(), c.Content(), c.Category())
}

// AcceptResponse records a staff-approved response and advances the
// complaint status to answered.
func (s *Service) AcceptResponse(ctx context.Context, number, response string) (domcomplaint.Complaint, error) {
	if strings.TrimSpace(response) == "" {
		return domcomplaint.Complaint{}, fmt.Errorf("response is required: %w", domain.ErrInvalidArgument)
	}

	c, err := s.Get(ctx, number)
	if err != nil {
		return domcomplaint.Complaint{}, err
	}

	c = c.WithResponse(response)
	if err := s.repo.Save(ctx, &c); err != nil {
		return domcomplaint.Complaint{}, fmt.Errorf("save response: %w", err)
	}

	return c, nil
}

// Assist answers a staff question in the context of one complaint.
func (s *Service) Assist(ctx context.Context, number, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question is required: %w", domain.ErrInvalidArgument)
	}

	c, err := s.Get(ctx, number)
	if err != nil {
		return "", err
	}

	return s.assistant.Assist(ctx, question, c.Title(), c.Content(), c.Category())
}
