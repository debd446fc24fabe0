package minwon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/civicdesk/minwon/internal/db"
	dbRedis "github.com/civicdesk/minwon/internal/db/redis"
	"github.com/civicdesk/minwon/internal/domain"
	"github.com/civicdesk/minwon/internal/domain/category"
	domcomplaint "github.com/civicdesk/minwon/internal/domain/complaint"
	"github.com/civicdesk/minwon/internal/domain/search/request"
	complaintrepo "github.com/civicdesk/minwon/internal/repository/complaint"
	"github.com/civicdesk/minwon/internal/repository/embcache"
	searchrepo "github.com/civicdesk/minwon/internal/repository/search"
	"github.com/civicdesk/minwon/internal/transport/openai"
	complaintuc "github.com/civicdesk/minwon/internal/usecase/complaint"
	healthuc "github.com/civicdesk/minwon/internal/usecase/health"
	searchuc "github.com/civicdesk/minwon/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for test substitution.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (searchuc.Response, error)
}

type complaintUseCase interface {
	Submit(ctx context.Context, title, content, category string) (domcomplaint.Complaint, error)
	Get(ctx context.Context, number string) (domcomplaint.Complaint, error)
	List(ctx context.Context, cursor string, limit int) ([]domcomplaint.Complaint, string, error)
	Count(ctx context.Context) (int, error)
	Draft(ctx context.Context, number string) (string, error)
	AcceptResponse(ctx context.Context, number, response string) (domcomplaint.Complaint, error)
	Assist(ctx context.Context, number, question string) (string, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the minwon SDK entry point.
type Client struct {
	store        db.Store
	searchSvc    searchUseCase
	complaintSvc complaintUseCase
	healthSvc    healthUseCase
	obs          *observer
}

// New creates a minwon Client, connects to the database and ensures the
// complaint search index exists. The provided context covers the initial
// readiness check and index bootstrap.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		embeddingModel:      "text-embedding-3-small",
		embeddingDims:       1536,
		chatModel:           "gpt-4o-mini",
		chatMaxTokens:       800,
		keyPrefix:           "minwon:",
		hnswM:               32,
		hnswEFConstruct:     400,
		confidenceThreshold: 0.8,
		highMatchThreshold:  0.7,
		rrfK:                60,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("minwon: database address required (use WithRedis)")
	}
	if cfg.openaiAPIKey == "" {
		return nil, errors.New("minwon: API key required (use WithOpenAI)")
	}
	if len(cfg.categories) == 0 {
		cfg.categories = []string{"성과∙급여", "윤리∙복무", "재해∙보상", "채용∙임용"}
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("minwon: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("minwon: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	client, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return client, nil
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	indexMgr := complaintrepo.NewIndexManager(store, cfg.keyPrefix, complaintrepo.IndexParams{
		VectorDim:       cfg.embeddingDims,
		HNSWMaxEdges:    cfg.hnswM,
		HNSWEFConstruct: cfg.hnswEFConstruct,
	})
	if err := indexMgr.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("minwon: ensure complaint index: %w", err)
	}

	categories, err := category.NewSet(cfg.categories)
	if err != nil {
		return nil, fmt.Errorf("minwon: invalid categories: %w", err)
	}

	baseEmbedder := openai.NewEmbedder(&openai.EmbedderConfig{
		APIKey:     cfg.openaiAPIKey,
		BaseURL:    cfg.openaiBaseURL,
		Model:      cfg.embeddingModel,
		Dimensions: cfg.embeddingDims,
	})
	var queryEmbedder domain.Embedder = embcache.New(
		baseEmbedder, store, cfg.keyPrefix, cfg.embeddingModel, nil, nil,
	)

	chatCfg := &openai.ChatConfig{
		APIKey:    cfg.openaiAPIKey,
		BaseURL:   cfg.openaiBaseURL,
		Model:     cfg.chatModel,
		MaxTokens: cfg.chatMaxTokens,
	}
	classifier := openai.NewClassifier(chatCfg, categories)
	analyst := openai.NewAnalyst(chatCfg, toDepartmentInfo(cfg.departments))
	assistant := openai.NewAssistant(chatCfg)

	complaintRepo := complaintrepo.New(store, cfg.keyPrefix)
	searchRepo := searchrepo.New(store, cfg.keyPrefix)

	searchSvc := searchuc.New(searchRepo, classifier, queryEmbedder, searchuc.Policy{
		ConfidenceThreshold: cfg.confidenceThreshold,
		HighMatchThreshold:  cfg.highMatchThreshold,
		RRFK:                cfg.rrfK,
	}, nil)
	complaintSvc := complaintuc.New(complaintRepo, analyst, baseEmbedder, assistant, categories, nil)
	healthSvc := healthuc.New(store, baseEmbedder, assistant)

	return &Client{
		store:        store,
		searchSvc:    searchSvc,
		complaintSvc: complaintSvc,
		healthSvc:    healthSvc,
		obs:          obs,
	}, nil
}

func toDepartmentInfo(departments []Department) []openai.DepartmentInfo {
	infos := make([]openai.DepartmentInfo, 0, len(departments))
	for _, d := range departments {
		infos = append(infos, openai.DepartmentInfo{
			Name:     d.Name,
			Duties:   d.Duties,
			Keywords: d.Keywords,
		})
	}
	return infos
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search returns the similarity search service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc, obs: c.obs}
}

// Complaints returns the complaint lifecycle service.
func (c *Client) Complaints() *ComplaintService {
	return &ComplaintService{svc: c.complaintSvc, obs: c.obs}
}
