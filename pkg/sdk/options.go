package minwon

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	openaiAPIKey  string
	openaiBaseURL string

	embeddingModel string
	embeddingDims  int
	chatModel      string
	chatMaxTokens  int

	categories  []string
	departments []Department

	keyPrefix       string
	hnswM           int
	hnswEFConstruct int

	confidenceThreshold float64
	highMatchThreshold  float64
	rrfK                int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithOpenAI sets the API key for the embedding and chat providers.
// Required: every client operation goes through at least one of them.
func WithOpenAI(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openaiAPIKey = apiKey
	})
}

// WithBaseURL points the AI providers at an OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openaiBaseURL = baseURL
	})
}

// WithModels overrides the embedding and chat models.
// Defaults: text-embedding-3-small at 1536 dimensions, gpt-4o-mini.
func WithModels(embeddingModel string, dimensions int, chatModel string) Option {
	return optionFunc(func(c *clientConfig) {
		c.embeddingModel = embeddingModel
		c.embeddingDims = dimensions
		c.chatModel = chatModel
	})
}

// WithCategories replaces the closed category set used for triage.
func WithCategories(categories []string) Option {
	return optionFunc(func(c *clientConfig) {
		c.categories = categories
	})
}

// WithDepartments sets the department roster for intake routing.
func WithDepartments(departments []Department) Option {
	return optionFunc(func(c *clientConfig) {
		c.departments = departments
	})
}

// WithKeyPrefix overrides the storage key prefix. Default: "minwon:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithHNSW configures HNSW index parameters (M and EF construction).
// Defaults: M=32, EFConstruct=400.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithSearchPolicy tunes routing and fusion. Zero values keep the
// defaults (confidence 0.8, high match 0.7, rrf k 60).
func WithSearchPolicy(confidenceThreshold, highMatchThreshold float64, rrfK int) Option {
	return optionFunc(func(c *clientConfig) {
		c.confidenceThreshold = confidenceThreshold
		c.highMatchThreshold = highMatchThreshold
		c.rrfK = rrfK
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
