package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/cloudavize/ticket-relay/internal/api/http"
	"github.com/cloudavize/ticket-relay/internal/api/http/handlers"
	"github.com/cloudavize/ticket-relay/internal/auth"
	"github.com/cloudavize/ticket-relay/internal/config"
	"github.com/cloudavize/ticket-relay/internal/events"
	"github.com/cloudavize/ticket-relay/internal/observability"
	"github.com/cloudavize/ticket-relay/internal/persistence"
	"github.com/cloudavize/ticket-relay/internal/repository"
	"github.com/cloudavize/ticket-relay/internal/service"
	"github.com/cloudavize/ticket-relay/internal/teams"
	"github.com/cloudavize/ticket-relay/internal/worker"
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

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	assignmentRepo := repository.NewAssignmentRepository(pg.PoolHandle())

	auditService := service.NewAuditService(dispatcher, assignmentRepo, logger)
	worker.StartAuditWorker(auditService)

	connector := teams.NewConnector(cfg.Teams)
	relayService := service.NewRelayService(connector, dispatcher, logger, metrics)
	botService := service.NewBotService(connector, cfg.Teams.WelcomeText, logger)

	tokens := auth.NewTokenManager(cfg.Relay.SharedSecret, cfg.Relay.TokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Notify:         handlers.NewNotifyHandler(relayService, logger),
		Messages:       handlers.NewMessagesHandler(botService, logger),
		Assignments:    handlers.NewAssignmentsHandler(assignmentRepo),
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
