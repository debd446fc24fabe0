package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/civicdesk/minwon/internal/config"
	dbRedis "github.com/civicdesk/minwon/internal/db/redis"
	"github.com/civicdesk/minwon/internal/domain"
	"github.com/civicdesk/minwon/internal/domain/category"
	logpkg "github.com/civicdesk/minwon/internal/logger"
	"github.com/civicdesk/minwon/internal/metrics"
	complaintrepo "github.com/civicdesk/minwon/internal/repository/complaint"
	"github.com/civicdesk/minwon/internal/repository/embcache"
	searchrepo "github.com/civicdesk/minwon/internal/repository/search"
	chiTransport "github.com/civicdesk/minwon/internal/transport/chi"
	"github.com/civicdesk/minwon/internal/transport/openai"
	complaintuc "github.com/civicdesk/minwon/internal/usecase/complaint"
	healthuc "github.com/civicdesk/minwon/internal/usecase/health"
	searchuc "github.com/civicdesk/minwon/internal/usecase/search"
	"github.com/civicdesk/minwon/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting minwon API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register AI metrics explicitly (no init())
	metrics.RegisterAIMetrics()

	// Bootstrap the complaint FT index before serving traffic.
	indexMgr := complaintrepo.NewIndexManager(store, cfg.Storage.KeyPrefix, complaintrepo.IndexParams{
		VectorDim:       cfg.Embedding.Dimensions,
		HNSWMaxEdges:    cfg.Index.HNSWM,
		HNSWEFConstruct: cfg.Index.HNSWEFConstruct,
	})
	if err := indexMgr.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure complaint index", zap.Error(err))
	}

	categories, err := category.NewSet(cfg.Triage.Categories)
	if err != nil {
		logger.Fatal("Invalid category set", zap.Error(err))
	}

	// AI providers — composition root
	baseEmbedder := openai.NewEmbedder(&openai.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	// Query embeddings go through the cache; intake texts are unique,
	// so complaint ingestion uses the provider's batch call directly.
	var queryEmbedder domain.Embedder = embcache.New(
		baseEmbedder, store, cfg.Storage.KeyPrefix, cfg.Embedding.Model,
		metrics.EmbeddingCacheTotal, logger,
	).WithTTL(time.Duration(cfg.Embedding.CacheTTLHr) * time.Hour)

	chatCfg := &openai.ChatConfig{
		APIKey:    cfg.Chat.APIKey,
		BaseURL:   cfg.Chat.BaseURL,
		Model:     cfg.Chat.Model,
		MaxTokens: cfg.Chat.MaxTokens,
		Logger:    logger,
	}
	classifier := openai.NewClassifier(chatCfg, categories)
	analyst := openai.NewAnalyst(chatCfg, departmentRoster(cfg.Triage.Departments))
	assistant := openai.NewAssistant(chatCfg)

	logger.Info("AI providers created",
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.String("chat_model", cfg.Chat.Model),
	)

	// Repositories
	complaintRepo := complaintrepo.New(store, cfg.Storage.KeyPrefix)
	searchRepo := searchrepo.New(store, cfg.Storage.KeyPrefix)

	// Use case services
	searchSvc := searchuc.New(searchRepo, classifier, queryEmbedder, searchuc.Policy{
		ConfidenceThreshold: cfg.Search.ConfidenceThreshold,
		HighMatchThreshold:  cfg.Search.HighMatchThreshold,
		RRFK:                cfg.Search.RRFK,
	}, logger)
	complaintSvc := complaintuc.New(complaintRepo, analyst, baseEmbedder, assistant, categories, logger)
	healthSvc := healthuc.New(store, baseEmbedder, assistant)

	// HTTP server
	server := chiTransport.NewServer(searchSvc, complaintSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.RegisterRoutes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func departmentRoster(departments []config.Department) []openai.DepartmentInfo {
	roster := make([]openai.DepartmentInfo, 0, len(departments))
	for _, d := range departments {
		roster = append(roster, openai.DepartmentInfo{
			Name:     d.Name,
			Duties:   d.Duties,
			Keywords: d.Keywords,
		})
	}
	return roster
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
