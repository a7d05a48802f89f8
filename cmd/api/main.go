package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/desk-support/internal/answerer"
	httptransport "github.com/spec-kit/desk-support/internal/api/http"
	"github.com/spec-kit/desk-support/internal/api/http/handlers"
	"github.com/spec-kit/desk-support/internal/auth"
	"github.com/spec-kit/desk-support/internal/config"
	"github.com/spec-kit/desk-support/internal/events"
	"github.com/spec-kit/desk-support/internal/notify"
	"github.com/spec-kit/desk-support/internal/observability"
	"github.com/spec-kit/desk-support/internal/persistence"
	"github.com/spec-kit/desk-support/internal/repository"
	"github.com/spec-kit/desk-support/internal/service"
	"github.com/spec-kit/desk-support/internal/worker"
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
	questionRepo := repository.NewQuestionRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	notifier := notify.NewRedisNotifier(redis.Client, cfg.Redis.Channel, logger)
	worker.StartNotifyWorker(notifier, dispatcher)

	authService := service.NewAuthService(*cfg, userRepo)
	if pg.PoolHandle() != nil {
		if err := authService.EnsureDefaultAdmin(ctx, cfg.Auth.DefaultAdminLogin, cfg.Auth.DefaultAdminPassword); err != nil {
			logger.Fatal("failed to ensure default admin", zap.Error(err))
		}
	}
	routerService := service.NewRouterService(service.RouterDependencies{
		QuestionRepo: questionRepo,
		Client:       answerer.New(cfg.Answerer),
		Dispatcher:   dispatcher,
		Logger:       logger,
		Metrics:      metrics,
	})
	questionService := service.NewQuestionService(service.QuestionDependencies{
		QuestionRepo: questionRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	faqService := service.NewFAQService(questionRepo, dispatcher, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Questions:      handlers.NewQuestionsHandler(routerService, questionService),
		Operator:       handlers.NewOperatorHandler(questionService),
		FAQ:            handlers.NewFAQHandler(faqService),
		Admin:          handlers.NewAdminHandler(authService),
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
