package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/claims-service/internal/api/http"
	"github.com/spec-kit/claims-service/internal/api/http/handlers"
	"github.com/spec-kit/claims-service/internal/auth"
	"github.com/spec-kit/claims-service/internal/config"
	"github.com/spec-kit/claims-service/internal/events"
	"github.com/spec-kit/claims-service/internal/observability"
	"github.com/spec-kit/claims-service/internal/persistence"
	"github.com/spec-kit/claims-service/internal/queue"
	"github.com/spec-kit/claims-service/internal/report"
	"github.com/spec-kit/claims-service/internal/repository"
	"github.com/spec-kit/claims-service/internal/service"
	"github.com/spec-kit/claims-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	claimRepo := repository.NewClaimRepository(pool)

	var registry report.Registry
	if cfg.Reports.RegistryBackend == "redis" {
		registry = report.NewRedisRegistry(redis.Client)
	} else {
		registry = report.NewMemoryRegistry()
	}
	tasks := queue.NewRedisQueue(redis.Client, cfg.Reports.QueueKey)
	artifacts := report.NewArtifactWriter(cfg.Reports.Dir)

	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, logger).RegisterHandlers()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	claimService := service.NewClaimService(claimRepo, logger)
	reportService := service.NewReportService(registry, tasks, artifacts, dispatcher, logger, cfg.Reports.PublicBaseURL)

	reportWorker := worker.NewReportWorker(tasks, registry, claimRepo, artifacts, dispatcher, logger, cfg.Reports.Workers)
	reportWorker.Start()
	defer reportWorker.Stop()

	metrics := observability.NewMetrics()
	authMiddleware := auth.NewMiddleware(authService.TokenManager())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Claims:         handlers.NewClaimsHandler(claimService),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
