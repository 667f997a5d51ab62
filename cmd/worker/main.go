package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/receiptly/receiptly/internal/analytics"
	"github.com/receiptly/receiptly/internal/app"
	"github.com/receiptly/receiptly/internal/blob"
	"github.com/receiptly/receiptly/internal/business"
	"github.com/receiptly/receiptly/internal/capture"
	"github.com/receiptly/receiptly/internal/platform/cache"
	"github.com/receiptly/receiptly/internal/platform/db"
	"github.com/receiptly/receiptly/internal/receipts"
	"github.com/receiptly/receiptly/internal/render"
	"github.com/receiptly/receiptly/jobs"
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

	blobs := blob.NewClient(cfg.BlobURL)
	businessService := business.NewService(business.NewRepository(pool), blobs)
	receiptService := receipts.NewService(receipts.NewRepository(pool), logger)

	analyticsCache := analytics.NewCache(redisClient, cfg.AnalyticsCacheTTL)
	analyticsService := analytics.NewService(receiptService, analyticsCache)

	renderer, err := render.NewRenderer()
	if err != nil {
		logger.Error("parse receipt templates", slog.Any("error", err))
		os.Exit(1)
	}
	screenshot := capture.NewClient(cfg.CaptureURL, cfg.CaptureScale)

	warmupJob := jobs.NewAnalyticsWarmupJob(analyticsService, businessService, logger)
	prerenderJob := jobs.NewReceiptPrerenderJob(receiptService, businessService, renderer, screenshot, blobs, logger)

	warmupTask, err := jobs.NewAnalyticsWarmupTask(jobs.AnalyticsWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAnalyticsWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskReceiptPrerender, Handler: prerenderJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("redis", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
