package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/mysticvastra/vastra-admin/internal/app"
	"github.com/mysticvastra/vastra-admin/internal/auth"
	"github.com/mysticvastra/vastra-admin/internal/ledger"
	"github.com/mysticvastra/vastra-admin/internal/materials"
	"github.com/mysticvastra/vastra-admin/internal/orders"
	"github.com/mysticvastra/vastra-admin/internal/parties"
	"github.com/mysticvastra/vastra-admin/internal/platform/cache"
	"github.com/mysticvastra/vastra-admin/internal/platform/db"
	"github.com/mysticvastra/vastra-admin/internal/roles"
	"github.com/mysticvastra/vastra-admin/internal/users"
	"github.com/mysticvastra/vastra-admin/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Error("connect postgres", slog.Any("error", err))
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

	tokenStore := auth.NewTokenStore(redisClient, cfg.AuthSecret, cfg.TokenTTL)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, tokenStore, logger)
	authHandler := auth.NewHandler(logger, authService)
	authMiddleware := auth.Middleware{Tokens: tokenStore, Logger: logger}

	materialsRepo := materials.NewRepository(pool)
	materialsService := materials.NewService(materialsRepo)
	materialsHandler := materials.NewHandler(logger, materialsService)

	partiesRepo := parties.NewRepository(pool)
	partiesService := parties.NewService(partiesRepo)
	partiesHandler := parties.NewHandler(logger, partiesService)

	ordersRepo := orders.NewRepository(pool)
	ordersService := orders.NewService(ordersRepo, partiesRepo)
	ordersHandler := orders.NewHandler(logger, ordersService)

	ledgerRepo := ledger.NewRepository(pool)
	runLock := ledger.NewRedisLock(redisClient, 5*time.Minute)
	ledgerService := ledger.NewService(ledgerRepo, materialsRepo, ordersRepo, runLock, logger)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq client close", slog.Any("error", err))
		}
	}()
	ledgerHandler := ledger.NewHandler(logger, ledgerService, jobs.NewEnqueuer(asynqClient))

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService)

	rolesRepo := roles.NewRepository(pool)
	rolesService := roles.NewService(rolesRepo)
	rolesHandler := roles.NewHandler(logger, rolesService)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthMiddleware:   authMiddleware,
		AuthHandler:      authHandler,
		MaterialsHandler: materialsHandler,
		PartiesHandler:   partiesHandler,
		OrdersHandler:    ordersHandler,
		LedgerHandler:    ledgerHandler,
		UsersHandler:     usersHandler,
		RolesHandler:     rolesHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
