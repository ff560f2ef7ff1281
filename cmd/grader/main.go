package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sanyaade-teachings/GradeWise/internal/auth"
	"github.com/sanyaade-teachings/GradeWise/internal/config"
	"github.com/sanyaade-teachings/GradeWise/internal/grader"
	"github.com/sanyaade-teachings/GradeWise/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.NewWithConfig(cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)

	var secrets grader.SecretSource
	if cfg.GraderFn.SecretFile != "" {
		secrets = grader.NewFileSecretSource(cfg.GraderFn.SecretFile)
	} else {
		secrets = grader.NewEnvSecretSource(cfg.GraderFn.SecretEnv)
	}

	provider := grader.NewOpenAIProvider(grader.ProviderConfig{
		BaseURL:     cfg.GraderFn.ProviderURL,
		Model:       cfg.GraderFn.Model,
		Temperature: cfg.GraderFn.Temperature,
		MaxTokens:   cfg.GraderFn.MaxTokens,
		Timeout:     cfg.GraderFn.Timeout,
	}, secrets, log)

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)
	handler := grader.NewHandler(provider, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.GraderFn.Timeout + 10*time.Second))

	handler.RegisterRoutes(router, auth.Middleware(verifier, log))

	server := &http.Server{
		Addr:    cfg.GraderFn.Address,
		Handler: router,
	}

	runCtx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server stopped")
			stop()
		}
	}()

	log.Info().Msgf("Grading procedure started on %s", cfg.GraderFn.Address)

	<-runCtx.Done()
	log.Info().Msg("Shutting down grading procedure...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown gracefully")
	}

	log.Info().Msg("Grading procedure stopped")
}
