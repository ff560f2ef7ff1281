package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/sanyaade-teachings/GradeWise/internal/auth"
	"github.com/sanyaade-teachings/GradeWise/internal/config"
	"github.com/sanyaade-teachings/GradeWise/internal/delivery/httpd"
	"github.com/sanyaade-teachings/GradeWise/internal/repository"
	"github.com/sanyaade-teachings/GradeWise/internal/service"
	"github.com/sanyaade-teachings/GradeWise/internal/service/integration"
	"github.com/sanyaade-teachings/GradeWise/internal/service/storage"
	"github.com/sanyaade-teachings/GradeWise/internal/worker"
	"github.com/sanyaade-teachings/GradeWise/internal/worker/queue"
)

type App struct {
	server           *http.Server
	logger           zerolog.Logger
	config           *config.Config
	db               *sql.DB
	events           integration.EventPublisher
	onboardingWorker worker.OnboardingWorker
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	blobStore, err := storage.NewMinIOStorage(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		UseSSL:    cfg.Storage.UseSSL,
	}, cfg.Storage.ConnectTimeout)
	if err != nil {
		return nil, err
	}

	graderClient := integration.NewGraderClient(cfg.Grader.URL, cfg.Grader.Timeout, log)

	events, err := integration.NewEventPublisher(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.Exchange,
		cfg.RabbitMQ.QueueName,
		log,
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create RabbitMQ publisher")
		// Acceptable for development: the workflow runs without events,
		// only onboarding progress stands still.
	}

	assignmentRepo := repository.NewAssignmentRepository(db, log)
	submissionRepo := repository.NewSubmissionRepository(db, log)
	onboardingRepo := repository.NewOnboardingRepository(db, log)

	assignmentService := service.NewAssignmentService(assignmentRepo, submissionRepo, blobStore, events, log)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, blobStore, events, log)
	gradingService := service.NewGradingService(submissionRepo, assignmentRepo, blobStore, graderClient, events, log)
	onboardingService := service.NewOnboardingService(onboardingRepo, log)

	var onboardingWorker worker.OnboardingWorker
	if events != nil {
		consumer, err := queue.NewRabbitMQConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName, cfg.RabbitMQ.ConsumerTag, log)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create RabbitMQ consumer")
		} else {
			pool := worker.NewWorkerPool(cfg.RabbitMQ.Workers, log)
			onboardingWorker = worker.NewOnboardingWorker(pool, consumer, onboardingRepo, log)
		}
	}

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)
	handler := httpd.NewHandler(
		assignmentService,
		submissionService,
		gradingService,
		onboardingService,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(2 * time.Minute))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router, auth.Middleware(verifier, log))

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:           server,
		logger:           log,
		config:           cfg,
		db:               db,
		events:           events,
		onboardingWorker: onboardingWorker,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if a.onboardingWorker != nil {
		if err := a.onboardingWorker.Start(ctx); err != nil {
			a.logger.Error().Err(err).Msg("Failed to start onboarding worker")
		}
	}

	a.logger.Info().Msgf("Starting GradeWise on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down GradeWise...")

	if a.onboardingWorker != nil {
		if err := a.onboardingWorker.Stop(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to stop onboarding worker")
		}
	}

	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return a.server.Shutdown(ctx)
}
