package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cloudavize/ticket-relay/internal/auth"
	"github.com/cloudavize/ticket-relay/internal/config"
	"github.com/cloudavize/ticket-relay/internal/mapping"
	"github.com/cloudavize/ticket-relay/internal/observability"
	"github.com/cloudavize/ticket-relay/internal/persistence"
	"github.com/cloudavize/ticket-relay/internal/poller"
	"github.com/cloudavize/ticket-relay/internal/repository"
	"github.com/cloudavize/ticket-relay/internal/syncro"
	"github.com/cloudavize/ticket-relay/internal/watermark"
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

	table, err := mapping.Load(cfg.Mapping.File, cfg.Mapping.DefaultMentionID)
	if err != nil {
		logger.Fatal("failed to load technician mapping", zap.Error(err))
	}
	logger.Info("technician mapping loaded", zap.Int("rows", table.Len()))

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

	var store watermark.Store
	if redis.Client != nil {
		store = watermark.NewRedisStore(redis.Client)
	} else {
		store = watermark.NewFileStore(cfg.Poller.WatermarkFile, cfg.Poller.ProcessedFile)
	}

	tokens := auth.NewTokenManager(cfg.Relay.SharedSecret, cfg.Relay.TokenTTLMinutes)
	notifier := poller.NewNotifyClient(cfg.Poller.RelayURL, tokens)
	tickets := syncro.NewClient(cfg.Syncro)
	assignmentRepo := repository.NewAssignmentRepository(pg.PoolHandle())

	p := poller.New(tickets, table, store, notifier, assignmentRepo, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	logger.Info("starting ticket poller", zap.Duration("interval", cfg.Poller.Interval()))
	p.Run(ctx, cfg.Poller.Interval())
}
