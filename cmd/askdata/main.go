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

	"github.com/kailas-cloud/askdata/internal/config"
	"github.com/kailas-cloud/askdata/internal/db"
	dbRedis "github.com/kailas-cloud/askdata/internal/db/redis"
	"github.com/kailas-cloud/askdata/internal/domain"
	"github.com/kailas-cloud/askdata/internal/keywords"
	"github.com/kailas-cloud/askdata/internal/lemma"
	logpkg "github.com/kailas-cloud/askdata/internal/logger"
	"github.com/kailas-cloud/askdata/internal/metrics"
	"github.com/kailas-cloud/askdata/internal/repository/kwcache"
	"github.com/kailas-cloud/askdata/internal/repository/loader"
	"github.com/kailas-cloud/askdata/internal/repository/normalizer"
	"github.com/kailas-cloud/askdata/internal/tools"
	chiTransport "github.com/kailas-cloud/askdata/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/askdata/internal/transport/openai"
	classifyuc "github.com/kailas-cloud/askdata/internal/usecase/classify"
	composeuc "github.com/kailas-cloud/askdata/internal/usecase/compose"
	dispatchuc "github.com/kailas-cloud/askdata/internal/usecase/dispatch"
	healthuc "github.com/kailas-cloud/askdata/internal/usecase/health"
	pipelineuc "github.com/kailas-cloud/askdata/internal/usecase/pipeline"
	"github.com/kailas-cloud/askdata/internal/version"
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

	logger.Info("Starting askdata API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Int("datasets", len(cfg.Datasets)),
	)

	// Optional keyword cache
	var store db.Store
	if len(cfg.Cache.Addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		ctx := context.Background()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to keyword cache", zap.Strings("addrs", cfg.Cache.Addrs))
	} else {
		logger.Info("Keyword cache disabled")
	}

	// Register metrics explicitly (no init() side registration for pipeline metrics)
	metrics.RegisterPipelineMetrics()

	// Generation backend clients
	generator := openaiTransport.NewGenerator(&openaiTransport.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Logger:  logger,
	})
	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.EmbeddingModel,
		Logger:  logger,
	})

	// Repositories
	paths := make(map[domain.Kind]string, len(cfg.Datasets))
	routes := make(map[domain.Kind]dispatchuc.Route, len(cfg.Datasets))
	maxResults := make(map[domain.Kind]int, len(cfg.Datasets))
	language := pickLanguage(cfg.Datasets, logger)
	for name, ds := range cfg.Datasets {
		kind, ok := domain.ParseKind(name)
		if !ok {
			logger.Fatal("Unknown dataset kind in config", zap.String("dataset", name))
		}
		paths[kind] = ds.Path
		maxResults[kind] = ds.MaxResults

		strategy, ok := dispatchuc.ParseStrategy(ds.FilterStrategy)
		if !ok {
			logger.Fatal("Unknown filter strategy", zap.String("dataset", name), zap.String("strategy", ds.FilterStrategy))
		}
		routes[kind] = dispatchuc.Route{
			Strategy: strategy,
			Column:   ds.SearchColumn,
			TopN:     ds.TopN,
			Fallback: tools.FallbackPolicy(ds.KeywordFallback),
		}
	}
	csvLoader := loader.New(paths, logger)
	norm := normalizer.New(logger)

	// Keyword extractor chain: embeddings -> cache decorator
	var extractor keywords.Extractor = keywords.NewEmbeddingExtractor(embedder, language, logger)
	if store != nil {
		extractor = kwcache.New(
			extractor, store, language,
			time.Duration(cfg.Cache.TTLHours)*time.Hour,
			metrics.KeywordCacheTotal, logger,
		)
	}

	// Tool registry
	registry := tools.NewRegistry(logger)
	registry.Register(tools.NewKeywordSearch(lemma.New(language), logger))

	// Use case services
	classifier := classifyuc.New(generator, cfg.LLM.Temperature, logger)
	dispatcher := dispatchuc.New(routes, extractor, registry, logger)
	composer := composeuc.New(generator, cfg.LLM.Temperature, logger)
	orchestrator := pipelineuc.New(csvLoader, norm, classifier, dispatcher, composer)

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(cachePinger, generator, csvLoader)

	// HTTP server
	server := chiTransport.NewServer(orchestrator, registry, healthSvc, maxResults, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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

// pickLanguage resolves the deployment language for lemmatization and
// keyword extraction. Datasets are expected to share one language; a mix is
// tolerated with a warning, first kind in stable order wins.
func pickLanguage(datasets map[string]config.DatasetConfig, logger *zap.Logger) string {
	language := ""
	for _, kind := range domain.Kinds() {
		ds, ok := datasets[string(kind)]
		if !ok {
			continue
		}
		if language == "" {
			language = ds.Language
		} else if ds.Language != language {
			logger.Warn("Datasets configured with mixed languages, using the first",
				zap.String("language", language),
				zap.String("ignored", ds.Language),
			)
		}
	}
	if language == "" {
		language = "ru"
	}
	return language
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

			// Canonical log line, one per request
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
