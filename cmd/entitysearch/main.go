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

	"github.com/kailas-cloud/entitysearch/internal/config"
	"github.com/kailas-cloud/entitysearch/internal/db"
	"github.com/kailas-cloud/entitysearch/internal/db/embedded"
	dbRedis "github.com/kailas-cloud/entitysearch/internal/db/redis"
	logpkg "github.com/kailas-cloud/entitysearch/internal/logger"
	"github.com/kailas-cloud/entitysearch/internal/metrics"
	documentrepo "github.com/kailas-cloud/entitysearch/internal/repository/document"
	indexrepo "github.com/kailas-cloud/entitysearch/internal/repository/index"
	searchrepo "github.com/kailas-cloud/entitysearch/internal/repository/search"
	chiTransport "github.com/kailas-cloud/entitysearch/internal/transport/chi"
	clusteringuc "github.com/kailas-cloud/entitysearch/internal/usecase/clustering"
	documentuc "github.com/kailas-cloud/entitysearch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/entitysearch/internal/usecase/health"
	indexuc "github.com/kailas-cloud/entitysearch/internal/usecase/index"
	"github.com/kailas-cloud/entitysearch/internal/version"
)

func main() {
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

	logger.Info("Starting entitysearch API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("backend", cfg.Backend.Driver),
	)

	store, err := openStore(cfg.Backend, cfg.Search)
	if err != nil {
		logger.Fatal("Failed to create backend store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Backend.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Backend not ready", zap.Error(err))
	}
	logger.Info("Connected to backend")

	metrics.RegisterHTTPMetrics()
	metrics.RegisterSearchMetrics()

	idxRepo := indexrepo.New(store)
	idxSvc := indexuc.New(idxRepo)
	docSvc := documentuc.New(documentrepo.New(store), idxSvc).
		WithMaxBatchSize(cfg.Index.MaxBatchSize)
	clusteringSvc := clusteringuc.New(searchrepo.New(store)).
		WithSignatureResolver(idxSvc).
		WithDefaultSignatureField(cfg.Search.SignatureField)
	healthSvc := healthuc.New(store, idxSvc, cfg.Health.RequiredIndices...)

	server := chiTransport.NewServer(clusteringSvc, idxSvc, docSvc, healthSvc, cfg.Search.SignatureField, logger)

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

// openStore creates the span search backend selected by the driver.
func openStore(bc config.BackendConfig, sc config.SearchConfig) (db.Store, error) {
	switch bc.Driver {
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:         bc.Addrs,
			Password:      bc.Password,
			KeyPrefix:     bc.KeyPrefix,
			MaxCandidates: sc.MaxCandidates,
		})
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		return s, nil
	case config.DriverBleve:
		s, err := embedded.NewStore(embedded.Config{
			Path:          bc.Path,
			MaxCandidates: sc.MaxCandidates,
		})
		if err != nil {
			return nil, fmt.Errorf("bleve store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown backend driver %q", bc.Driver)
	}
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
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: "internal error",
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
