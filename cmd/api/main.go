package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nattawatp/imagelens/internal/application"
	appanalysis "github.com/nattawatp/imagelens/internal/application/analysis"
	"github.com/nattawatp/imagelens/internal/config"
	"github.com/nattawatp/imagelens/internal/infra/ai"
	"github.com/nattawatp/imagelens/internal/infra/analytics"
	"github.com/nattawatp/imagelens/internal/infra/fetch"
	"github.com/nattawatp/imagelens/internal/infra/httpserver"
	"github.com/nattawatp/imagelens/internal/infra/metadata"
	"github.com/nattawatp/imagelens/internal/middleware"
)

func main() {
	// local development convenience; absent .env is fine
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatal("config load error", zap.Error(err))
	}

	ctx := context.Background()

	// remote verifier: skipped entirely when no usable credential is set
	apiKey := cfg.AI.APIKey
	if !cfg.AIConfigured() {
		apiKey = ""
	}
	verifier, err := ai.NewVerifier(ctx, cfg.AI.Provider, apiKey, cfg.AI.Model)
	if err != nil {
		logger.Fatal("verifier init error", zap.Error(err))
	}
	if verifier == nil {
		logger.Info("remote verification disabled, heuristic results only")
	}

	// analytics: falls back to mock data on its own
	credentials := cfg.Analytics.CredentialsJSON
	if !cfg.AnalyticsConfigured() {
		credentials = ""
	}
	visitors := analytics.New(ctx, cfg.Analytics.PropertyID, credentials, logger)

	svc := appanalysis.NewService(metadata.NewSource(), verifier, application.SystemClock{}, logger)
	svc.RemoteTimeout = time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	svc.OnRemoteResult = func(err error) {
		middleware.IncrementRemoteVerifications()
		if err != nil {
			middleware.IncrementRemoteFailures()
		}
	}

	fetcher := &fetch.Fetcher{
		MaxBytes:  cfg.Limits.MaxUploadBytes,
		UserAgent: "imagelens/1.0",
	}

	health := map[string]middleware.Configurable{
		"remote_verifier": nil,
		"analytics":       visitors,
	}
	if verifier != nil {
		health["remote_verifier"] = verifier
	}

	handler := httpserver.NewRouter(svc, visitors, fetcher, logger, health, httpserver.Options{
		MaxUploadBytes: cfg.Limits.MaxUploadBytes,
		RateCapacity:   cfg.Limits.RateCapacity,
		RateRefill:     cfg.Limits.RateRefill,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Warn("shutdown error", zap.Error(err))
	}
	svc.Wait()
}
