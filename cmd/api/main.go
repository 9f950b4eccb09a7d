package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/demand-queue/internal/api/http"
	"github.com/spec-kit/demand-queue/internal/api/http/handlers"
	"github.com/spec-kit/demand-queue/internal/auth"
	"github.com/spec-kit/demand-queue/internal/config"
	"github.com/spec-kit/demand-queue/internal/events"
	"github.com/spec-kit/demand-queue/internal/livefeed"
	"github.com/spec-kit/demand-queue/internal/observability"
	"github.com/spec-kit/demand-queue/internal/persistence"
	"github.com/spec-kit/demand-queue/internal/policy"
	"github.com/spec-kit/demand-queue/internal/repository"
	"github.com/spec-kit/demand-queue/internal/service"
	"github.com/spec-kit/demand-queue/internal/worker"
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
	demandRepo := repository.NewDemandRepository(pool)
	operatorRepo := repository.NewOperatorRepository(pool)
	picklistRepo := repository.NewPicklistRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	policyCfg := policy.Config{
		Strictness:       policy.ParseStrictness(cfg.Policy.MatchStrictness),
		DefaultTeamClaim: cfg.Policy.DefaultTeamClaim,
	}

	demandService := service.NewDemandService(service.DemandDependencies{
		DemandRepo: demandRepo,
		Policy:     policyCfg,
		Dispatcher: dispatcher,
	})
	operatorService := service.NewOperatorService(operatorRepo)
	picklistService := service.NewPicklistService(picklistRepo)
	reportService := service.NewReportService(demandRepo, policyCfg)
	authService := service.NewAuthService(cfg.Auth, adminRepo)
	if err := authService.EnsureAdmin(ctx); err != nil {
		logger.Fatal("failed to seed admin account", zap.Error(err))
	}
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	hub := livefeed.NewHub(demandService.ListActive, redis, logger)
	hub.Start(ctx)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), adminRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Demands:        handlers.NewDemandsHandler(demandService, hub),
		Operators:      handlers.NewOperatorsHandler(operatorService),
		Picklists:      handlers.NewPicklistsHandler(picklistService),
		Reports:        handlers.NewReportsHandler(reportService),
		Auth:           handlers.NewAuthHandler(authService),
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
