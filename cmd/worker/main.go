package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/mysticvastra/vastra-admin/internal/app"
	"github.com/mysticvastra/vastra-admin/internal/ledger"
	"github.com/mysticvastra/vastra-admin/internal/materials"
	"github.com/mysticvastra/vastra-admin/internal/orders"
	"github.com/mysticvastra/vastra-admin/internal/platform/cache"
	"github.com/mysticvastra/vastra-admin/internal/platform/db"
	"github.com/mysticvastra/vastra-admin/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	materialsRepo := materials.NewRepository(pool)
	ordersRepo := orders.NewRepository(pool)
	ledgerRepo := ledger.NewRepository(pool)
	runLock := ledger.NewRedisLock(redisClient, 5*time.Minute)
	ledgerService := ledger.NewService(ledgerRepo, materialsRepo, ordersRepo, runLock, logger)
	ledgerJobs := jobs.NewLedgerJobs(ledgerService, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLedgerInitOpening, Handler: ledgerJobs.HandleInitOpening},
			{Type: jobs.TaskLedgerSyncOrders, Handler: ledgerJobs.HandleSyncOrders},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
