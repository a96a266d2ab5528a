package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stocktrace/stocktrace/internal/app"
	"github.com/stocktrace/stocktrace/internal/auth"
	"github.com/stocktrace/stocktrace/internal/dashboard"
	"github.com/stocktrace/stocktrace/internal/documents"
	"github.com/stocktrace/stocktrace/internal/masterdata/locations"
	"github.com/stocktrace/stocktrace/internal/masterdata/products"
	"github.com/stocktrace/stocktrace/internal/masterdata/warehouses"
	"github.com/stocktrace/stocktrace/internal/platform/cache"
	"github.com/stocktrace/stocktrace/internal/platform/db"
	"github.com/stocktrace/stocktrace/internal/reports"
	"github.com/stocktrace/stocktrace/internal/search"
	"github.com/stocktrace/stocktrace/internal/stock"
	"github.com/stocktrace/stocktrace/internal/users"
	"github.com/stocktrace/stocktrace/jobs"
)

func main() {
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

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewService(auth.NewRepository(pool), tokens, auth.NewRedisOTPStore(redisClient))
	authMiddleware := auth.NewMiddleware(authService, tokens)
	authHandler := auth.NewHandler(logger, authService, jobsClient, authMiddleware)

	warehouseService := warehouses.NewService(warehouses.NewRepository(pool))
	locationService := locations.NewService(locations.NewRepository(pool))
	productService := products.NewService(products.NewRepository(pool))
	usersService := users.NewService(users.NewRepository(pool))

	dashboardService := dashboard.NewService(dashboard.NewRepository(pool))
	documentService := documents.NewService(documents.NewRepository(pool), dashboardService)
	stockRepo := stock.NewRepository(pool)
	reportsService := reports.NewService(reports.NewRepository(pool))
	searchService := search.NewService(search.NewRepository(pool))

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		WarehouseHandler: warehouses.NewHandler(logger, warehouseService, authMiddleware),
		LocationHandler:  locations.NewHandler(logger, locationService, authMiddleware),
		ProductHandler:   products.NewHandler(logger, productService, authMiddleware),
		UsersHandler:     users.NewHandler(logger, usersService, authMiddleware),
		DocumentHandler:  documents.NewHandler(logger, documentService, authMiddleware),
		StockHandler:     stock.NewHandler(logger, stockRepo),
		ReportsHandler:   reports.NewHandler(logger, reportsService),
		DashboardHandler: dashboard.NewHandler(logger, dashboardService),
		SearchHandler:    search.NewHandler(logger, searchService),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
