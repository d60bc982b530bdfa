package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/stationview/internal/config"
	domschema "github.com/kailas-cloud/stationview/internal/domain/schema"
	logpkg "github.com/kailas-cloud/stationview/internal/logger"
	"github.com/kailas-cloud/stationview/internal/metrics"
	chiTransport "github.com/kailas-cloud/stationview/internal/transport/chi"
	"github.com/kailas-cloud/stationview/internal/transport/upstream"
	"github.com/kailas-cloud/stationview/internal/version"
	healthuc "github.com/kailas-cloud/stationview/internal/usecase/health"
	queryuc "github.com/kailas-cloud/stationview/internal/usecase/query"
	schemauc "github.com/kailas-cloud/stationview/internal/usecase/schema"
	stationuc "github.com/kailas-cloud/stationview/internal/usecase/station"
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

	logger.Info("Starting stationview API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("upstream_url", cfg.Upstream.URL),
	)

	handler, err := buildHandler(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build handler", zap.Error(err))
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// buildHandler is the composition root: upstream client -> usecases -> chi server.
func buildHandler(cfg config.Config, logger *zap.Logger) (http.Handler, error) {
	thresholds, err := domschema.NewThresholds(
		cfg.Schema.OptionAbsoluteThreshold, cfg.Schema.OptionRelativeThreshold,
	)
	if err != nil {
		return nil, fmt.Errorf("schema thresholds: %w", err)
	}
	locale, err := cfg.Query.LocaleTag()
	if err != nil {
		return nil, fmt.Errorf("query locale: %w", err)
	}

	metrics.RegisterUpstreamMetrics()

	source := upstream.New(&upstream.Config{
		URL:          cfg.Upstream.URL,
		Timeout:      cfg.Upstream.Timeout(),
		RateLimitRPS: cfg.Upstream.RateLimitRPS,
		UserAgent:    cfg.Upstream.UserAgent,
		Logger:       logger,
	})

	schemaSvc := schemauc.New(source, domschema.NewClassifier(thresholds))
	stationSvc := stationuc.New(source, schemaSvc, queryuc.New().WithLocale(locale))
	healthSvc := healthuc.New(source).WithTimeout(cfg.Upstream.Timeout())

	server := chiTransport.NewServer(schemaSvc, stationSvc, healthSvc, cfg.Query.DefaultPageSize, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)
	return r, nil
}
