package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/receiptly/receiptly/internal/analytics"
	"github.com/receiptly/receiptly/internal/business"
)

const warmupConcurrency = 4

// AnalyticsWarmupJob pre-populates dashboard caches so the first page load
// after an invalidation stays fast.
type AnalyticsWarmupJob struct {
	analytics  *analytics.Service
	businesses *business.Service
	logger     *slog.Logger
}

// NewAnalyticsWarmupJob wires dependencies for the warmup handler.
func NewAnalyticsWarmupJob(analyticsSvc *analytics.Service, businesses *business.Service, logger *slog.Logger) *AnalyticsWarmupJob {
	return &AnalyticsWarmupJob{analytics: analyticsSvc, businesses: businesses, logger: logger}
}

// Handle processes analytics warmup tasks.
func (j *AnalyticsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("analytics warmup: handler not configured")
	}
	var payload AnalyticsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	ids, err := j.targets(ctx, payload)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmupConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if _, err := j.analytics.GetDashboard(gctx, id); err != nil {
				j.logger.Warn("warm dashboard", slog.String("business_id", id.String()), slog.Any("error", err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	j.logger.Info("analytics warmup complete", slog.Int("businesses", len(ids)))
	return nil
}

func (j *AnalyticsWarmupJob) targets(ctx context.Context, payload AnalyticsWarmupPayload) ([]uuid.UUID, error) {
	if payload.BusinessID != "" {
		id, err := uuid.Parse(payload.BusinessID)
		if err != nil {
			return nil, asynq.SkipRetry
		}
		return []uuid.UUID{id}, nil
	}
	return j.businesses.ListIDs(ctx)
}
