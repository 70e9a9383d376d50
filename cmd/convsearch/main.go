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

	"github.com/kailas-cloud/convsearch/internal/config"
	"github.com/kailas-cloud/convsearch/internal/db"
	dbBolt "github.com/kailas-cloud/convsearch/internal/db/bolt"
	dbRedis "github.com/kailas-cloud/convsearch/internal/db/redis"
	logpkg "github.com/kailas-cloud/convsearch/internal/logger"
	"github.com/kailas-cloud/convsearch/internal/metrics"
	"github.com/kailas-cloud/convsearch/internal/querygen"
	interactionrepo "github.com/kailas-cloud/convsearch/internal/repository/interaction"
	"github.com/kailas-cloud/convsearch/internal/retriever/indri"
	"github.com/kailas-cloud/convsearch/internal/retriever/websearch"
	chiTransport "github.com/kailas-cloud/convsearch/internal/transport/chi"
	openaiGen "github.com/kailas-cloud/convsearch/internal/transport/openai"
	healthuc "github.com/kailas-cloud/convsearch/internal/usecase/health"
	interactionuc "github.com/kailas-cloud/convsearch/internal/usecase/interaction"
	retrievaluc "github.com/kailas-cloud/convsearch/internal/usecase/retrieval"
	"github.com/kailas-cloud/convsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting convsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("retrieval_engine", cfg.Retrieval.Engine),
	)

	// Create database store based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	case "bolt":
		store, err = dbBolt.NewStore(cfg.Database.Path)
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
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

	// Register retrieval metrics explicitly (no init())
	metrics.RegisterRetrievalMetrics()

	// Query generator — composition root
	var gen retrievaluc.QueryGenerator
	switch cfg.QueryGen.Mode {
	case config.QueryGenLLM:
		gen = openaiGen.NewQueryGenerator(&openaiGen.Config{
			APIKey:   cfg.QueryGen.APIKey,
			BaseURL:  cfg.QueryGen.BaseURL,
			Model:    cfg.QueryGen.Model,
			MaxTurns: cfg.QueryGen.MaxTurns,
			Logger:   logger,
		})
	default:
		gen = querygen.NewSimple(cfg.QueryGen.MaxTurns)
	}

	// Retrieval back end
	var retriever retrievaluc.Retriever
	var retrieverCheck healthuc.RetrieverChecker
	switch cfg.Retrieval.Engine {
	case config.EngineIndri:
		engine := indri.NewExecEngine(cfg.Retrieval.Indri.IndriPath, cfg.Retrieval.Indri.Index)
		docs := indri.NewDumpIndexStore(cfg.Retrieval.Indri.IndriPath, cfg.Retrieval.Indri.Index)
		r, err := indri.New(ctx, engine, docs, indri.Config{
			ResultsRequested: cfg.Retrieval.ResultsRequested,
			TextFormat:       cfg.Retrieval.Indri.TextFormat,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to create index retriever", zap.Error(err))
		}
		retriever = r
		retrieverCheck = r
	case config.EngineWeb:
		retriever = websearch.New(&websearch.Config{
			APIKey:           cfg.Retrieval.Web.APIKey,
			Endpoint:         cfg.Retrieval.Web.Endpoint,
			ResultsRequested: cfg.Retrieval.ResultsRequested,
			Logger:           logger,
		})
	default:
		logger.Fatal("Unknown retrieval engine", zap.String("engine", cfg.Retrieval.Engine))
	}

	retrievalSvc := retrievaluc.New(cfg.Retrieval.Engine, gen, retriever, logger)

	// Interaction log
	interactionSvc := interactionuc.New(interactionrepo.New(store), logger)

	// Health service
	healthSvc := healthuc.New(store, retrieverCheck)

	// Create chi server
	server := chiTransport.NewServer(retrievalSvc, interactionSvc, healthSvc, logger)

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
