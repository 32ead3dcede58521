package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	httpapi "github.com/spec-kit/jobfinder-service/internal/api/http"
	"github.com/spec-kit/jobfinder-service/internal/api/http/handlers"
	"github.com/spec-kit/jobfinder-service/internal/auth"
	"github.com/spec-kit/jobfinder-service/internal/config"
	"github.com/spec-kit/jobfinder-service/internal/events"
	"github.com/spec-kit/jobfinder-service/internal/observability"
	"github.com/spec-kit/jobfinder-service/internal/persistence"
	"github.com/spec-kit/jobfinder-service/internal/repository"
	"github.com/spec-kit/jobfinder-service/internal/service"
	"github.com/spec-kit/jobfinder-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	postgres, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer postgres.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, postgres.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	userRepo := repository.NewUserRepository(postgres.Pool)
	jobRepo := repository.NewJobRepository(postgres.Pool)
	applicationRepo := repository.NewApplicationRepository(postgres.Pool)
	notificationRepo := repository.NewNotificationRepository(postgres.Pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	var revocations auth.RevocationStore
	if strings.EqualFold(cfg.Auth.RevocationBackend, "redis") {
		revocations = auth.NewRedisRevocationStore(redis.Client, cfg.Auth.RevocationTTL())
	} else {
		revocations = auth.NewMemoryRevocationStore(cfg.Auth.RevocationTTL())
	}

	webhookNotifier := service.NewWebhookNotifier(notificationRepo, cfg.Notification, metrics, logger)
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		JobRepo:          jobRepo,
		ApplicationRepo:  applicationRepo,
		Notifier:         webhookNotifier,
		Metrics:          metrics,
		Logger:           logger,
	})
	worker.NewNotificationWorker(notificationService, logger).Register(dispatcher)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:        userRepo,
		RevocationStore: revocations,
	})
	jobService := service.NewJobService(service.JobDependencies{
		JobRepo:    jobRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	applicationService := service.NewApplicationService(service.ApplicationDependencies{
		ApplicationRepo: applicationRepo,
		JobRepo:         jobRepo,
		UserRepo:        userRepo,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})

	app := httpapi.NewServer(httpapi.RouterDependencies{
		Config:         cfg,
		Logger:         logger,
		Metrics:        metrics,
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), revocations),
		Health:         handlers.NewHealthHandler(cfg.App.Version, postgres, redis),
		Users:          handlers.NewUserHandler(authService),
		Jobs:           handlers.NewJobHandler(jobService),
		Applications:   handlers.NewApplicationHandler(applicationService),
		Notifications:  handlers.NewNotificationHandler(notificationService),
	})

	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("http server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
