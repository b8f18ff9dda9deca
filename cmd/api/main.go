package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/order-service/internal/api/http"
	"github.com/spec-kit/order-service/internal/api/http/handlers"
	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/interceptor"
	"github.com/spec-kit/order-service/internal/observability"
	"github.com/spec-kit/order-service/internal/persistence"
	"github.com/spec-kit/order-service/internal/repository"
	"github.com/spec-kit/order-service/internal/service"
	"github.com/spec-kit/order-service/internal/worker"
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

	pool, err := persistence.NewPostgresPool(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	if pool != nil {
		defer pool.Close()
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisClient := persistence.NewRedisClient(cfg.Redis, logger)
	defer redisClient.Close() //nolint:errcheck

	userRepo := repository.NewUserRepository(pool)
	orderRepo := repository.NewCachedOrderRepository(
		repository.NewOrderRepository(pool),
		redisClient,
		cfg.Redis.OrderCacheTTL(),
		logger,
	)

	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartEventHandlers(notificationService, auditService)

	authService := service.NewAuthService(cfg.Auth, userRepo, dispatcher)
	orderService := service.NewOrderService(orderRepo, dispatcher)
	authMiddleware := auth.NewMiddleware(authService.TokenManager())

	metrics := observability.NewMetrics()
	registry := interceptor.NewRegistry(logger, metrics)
	registerOperations(registry)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pool, redisClient),
		Users:          handlers.NewUsersHandler(authService),
		Orders:         handlers.NewOrdersHandler(orderService, registry),
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

// registerOperations declares the protected operations and their chain
// configuration. The registry is read-only after this.
func registerOperations(registry *interceptor.Registry) {
	registry.Register(interceptor.Descriptor{
		Name:           handlers.OpOrderCreate,
		RequiredRoles:  []domain.Role{domain.RoleUser, domain.RoleAdmin},
		CheckFreshness: true,
		Timed:          true,
		CaptureFaults:  true,
	})
	registry.Register(interceptor.Descriptor{
		Name:           handlers.OpOrderUpdate,
		RequiredRoles:  []domain.Role{domain.RoleAdmin},
		CheckFreshness: true,
		Timed:          true,
		CaptureFaults:  true,
	})
	registry.Register(interceptor.Descriptor{
		Name:           handlers.OpOrderGet,
		RequiredRoles:  []domain.Role{domain.RoleUser, domain.RoleAdmin},
		CheckFreshness: true,
		Timed:          true,
		CaptureFaults:  true,
	})
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
