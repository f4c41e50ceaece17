package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/kstack-dev/content-service/internal/api/http"
	"github.com/kstack-dev/content-service/internal/api/http/handlers"
	"github.com/kstack-dev/content-service/internal/auth"
	"github.com/kstack-dev/content-service/internal/config"
	"github.com/kstack-dev/content-service/internal/domain"
	"github.com/kstack-dev/content-service/internal/events"
	"github.com/kstack-dev/content-service/internal/observability"
	"github.com/kstack-dev/content-service/internal/persistence"
	"github.com/kstack-dev/content-service/internal/repository"
	"github.com/kstack-dev/content-service/internal/service"
	"github.com/kstack-dev/content-service/internal/storage"
	"github.com/kstack-dev/content-service/internal/worker"
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
	staffRepo := repository.NewStaffRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	verificationRepo := repository.NewVerificationRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	contentRepos := make([]repository.ContentRepository, 0, len(domain.Kinds))
	for _, kind := range domain.Kinds {
		contentRepos = append(contentRepos, repository.NewContentRepository(pool, kind))
	}

	dispatcher := events.NewInMemoryDispatcher()
	provider := storage.NewHTTPProvider(cfg.Storage, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		StaffRepo:        staffRepo,
		SessionRepo:      sessionRepo,
		VerificationRepo: verificationRepo,
		ResetRepo:        resetRepo,
		Limiter:          redis,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	authzService := service.NewAuthzService(staffRepo)
	contentService := service.NewContentService(service.ContentDependencies{
		Repos:      contentRepos,
		Gate:       authzService,
		Storage:    provider,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger)
	notificationService.RegisterHandlers()

	sweeper := worker.NewOrphanSweeper(provider, dispatcher, logger,
		time.Duration(cfg.Storage.SweepSeconds)*time.Second)
	go sweeper.Run(ctx)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), sessionRepo, staffRepo)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Content:        handlers.NewContentHandler(contentService),
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
