package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/lenslink/moderation-service/internal/api/http"
	"github.com/lenslink/moderation-service/internal/api/http/handlers"
	"github.com/lenslink/moderation-service/internal/auth"
	"github.com/lenslink/moderation-service/internal/cache"
	"github.com/lenslink/moderation-service/internal/config"
	"github.com/lenslink/moderation-service/internal/events"
	"github.com/lenslink/moderation-service/internal/observability"
	"github.com/lenslink/moderation-service/internal/persistence"
	"github.com/lenslink/moderation-service/internal/repository"
	"github.com/lenslink/moderation-service/internal/repository/memory"
	"github.com/lenslink/moderation-service/internal/service"
	"github.com/lenslink/moderation-service/internal/worker"
)

type repositories struct {
	reports       repository.ReportRepository
	users         repository.UserRepository
	content       repository.ContentRepository
	notifications repository.NotificationRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
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

	if cfg.Postgres.RunMigrations && pg.Enabled() {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	broker, err := persistence.NewRabbitMQ(cfg.RabbitMQ, logger)
	if err != nil {
		logger.Fatal("failed to connect rabbitmq", zap.Error(err))
	}
	defer broker.Close()

	repos := newRepositories(pg)
	userCache := cache.NewUserCache(redis.Client, cfg.Cache.UserTTL(), logger)

	dispatcher := events.NewInMemoryDispatcher()
	if broker != nil {
		dispatcher = events.NewForwardingDispatcher(dispatcher, broker, cfg.RabbitMQ.Queue)
	}

	notificationService := service.NewNotificationService(dispatcher, repos.notifications, logger)
	worker.StartNotificationWorker(notificationService)

	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo:  repos.reports,
		UserRepo:    repos.users,
		ContentRepo: repos.content,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	moderationService := service.NewModerationService(service.ModerationDependencies{
		ReportRepo:     repos.reports,
		UserRepo:       repos.users,
		AccountRemover: repos.content,
		UserCache:      userCache,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens, repos.users, userCache, logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Reports:        handlers.NewReportsHandler(reportService),
		Admin:          handlers.NewAdminHandler(reportService, moderationService),
		Account:        handlers.NewAccountHandler(notificationService),
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

func newRepositories(pg *persistence.Postgres) repositories {
	if !pg.Enabled() {
		store := memory.NewStore()
		return repositories{
			reports:       store.Reports(),
			users:         store.Users(),
			content:       store.Content(),
			notifications: store.Notifications(),
		}
	}
	pool := pg.PoolHandle()
	return repositories{
		reports:       repository.NewReportRepository(pool),
		users:         repository.NewUserRepository(pool),
		content:       repository.NewContentRepository(pool),
		notifications: repository.NewNotificationRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
