package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/receiptly/receiptly/internal/analytics"
	analytichttp "github.com/receiptly/receiptly/internal/analytics/http"
	"github.com/receiptly/receiptly/internal/app"
	"github.com/receiptly/receiptly/internal/auth"
	"github.com/receiptly/receiptly/internal/blob"
	"github.com/receiptly/receiptly/internal/business"
	"github.com/receiptly/receiptly/internal/capture"
	"github.com/receiptly/receiptly/internal/menu"
	"github.com/receiptly/receiptly/internal/observability"
	"github.com/receiptly/receiptly/internal/platform/cache"
	"github.com/receiptly/receiptly/internal/platform/db"
	"github.com/receiptly/receiptly/internal/receipts"
	"github.com/receiptly/receiptly/internal/render"
	"github.com/receiptly/receiptly/internal/shared"
	"github.com/receiptly/receiptly/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
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

	sessionManager := shared.NewSessionManager(redisClient, "receiptly_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	validate := validator.New()

	blobs := blob.NewClient(cfg.BlobURL)
	screenshot := capture.NewClient(cfg.CaptureURL, cfg.CaptureScale)

	businessRepo := business.NewRepository(pool)
	businessService := business.NewService(businessRepo, blobs)

	receiptRepo := receipts.NewRepository(pool)
	receiptService := receipts.NewService(receiptRepo, logger)

	analyticsCache := analytics.NewCache(redisClient, cfg.AnalyticsCacheTTL)
	analyticsService := analytics.NewService(receiptService, analyticsCache)
	receiptService.Subscribe(analyticsService)

	jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer jobClient.Close()
	receiptService.Subscribe(jobs.NewPrerenderListener(jobClient, logger))

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, auth.ProvisionerFunc(func(ctx context.Context, ownerID uuid.UUID, name string) error {
		_, err := businessService.ProvisionDefaults(ctx, ownerID, name)
		return err
	}))

	renderer, err := render.NewRenderer()
	if err != nil {
		logger.Error("parse receipt templates", slog.Any("error", err))
		os.Exit(1)
	}

	issuer := receipts.NewShareTokenIssuer(cfg.ShareSecret, cfg.ShareTTL)
	metrics := observability.NewMetrics()

	authHandler := auth.NewHandler(logger, authService, sessionManager, validate)
	businessHandler := business.NewHandler(logger, businessService, validate)
	receiptsHandler := receipts.NewHandler(logger, receiptService, issuer, cfg.AppBaseURL, validate)
	renderHandler := render.NewHandler(logger, renderer, receiptService, businessService, screenshot, issuer, metrics, validate)

	menuService := menu.NewService(menu.NewRepository(pool))
	menuHandler := menu.NewHandler(logger, menuService, validate)
	menuPublicHandler, err := menu.NewPublicHandler(logger, menuService, businessService)
	if err != nil {
		logger.Error("parse menu templates", slog.Any("error", err))
		os.Exit(1)
	}

	analyticsHandler := analytichttp.NewHandler(logger, analyticsService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		Businesses:        businessService,
		AuthHandler:       authHandler,
		ReceiptsHandler:   receiptsHandler,
		RenderHandler:     renderHandler,
		BusinessHandler:   businessHandler,
		MenuHandler:       menuHandler,
		MenuPublicHandler: menuPublicHandler,
		AnalyticsHandler:  analyticsHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
		ReadinessChecks: map[string]app.Pinger{
			"database":   pool,
			"blob_store": blobs,
			"capture":    screenshot,
		},
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
