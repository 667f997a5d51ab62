package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/receiptly/receiptly/internal/blob"
	"github.com/receiptly/receiptly/internal/business"
	"github.com/receiptly/receiptly/internal/capture"
	"github.com/receiptly/receiptly/internal/receipts"
	"github.com/receiptly/receiptly/internal/render"
)

// ReceiptPrerenderJob renders a saved receipt, captures the PNG and stores
// the artifact so share links resolve instantly.
type ReceiptPrerenderJob struct {
	receipts   *receipts.Service
	businesses *business.Service
	renderer   *render.Renderer
	screenshot *capture.Client
	blobs      blob.Uploader
	logger     *slog.Logger
}

// NewReceiptPrerenderJob wires dependencies for the prerender handler.
func NewReceiptPrerenderJob(
	receiptSvc *receipts.Service,
	businesses *business.Service,
	renderer *render.Renderer,
	screenshot *capture.Client,
	blobs blob.Uploader,
	logger *slog.Logger,
) *ReceiptPrerenderJob {
	return &ReceiptPrerenderJob{
		receipts:   receiptSvc,
		businesses: businesses,
		renderer:   renderer,
		screenshot: screenshot,
		blobs:      blobs,
		logger:     logger,
	}
}

// Handle processes receipt prerender tasks.
func (j *ReceiptPrerenderJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("receipt prerender: handler not configured")
	}
	var payload ReceiptPrerenderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	rec, err := j.receipts.GetAny(ctx, payload.ReceiptID)
	if err != nil {
		if errors.Is(err, receipts.ErrNotFound) {
			// Deleted before the worker got to it.
			return asynq.SkipRetry
		}
		return err
	}
	b, err := j.businesses.Get(ctx, rec.BusinessID)
	if err != nil {
		return err
	}

	// The shared artifact never carries the preview watermark.
	html, err := j.renderer.Render(render.BuildDocument(rec, render.SettingsFromBusiness(b), false))
	if err != nil {
		return err
	}
	png, err := j.screenshot.CapturePNG(ctx, html)
	if err != nil {
		return err
	}

	url, err := j.blobs.Upload(ctx, "receipts/"+rec.ID.String()+".png", "image/png", bytes.NewReader(png))
	if err != nil {
		return err
	}
	if err := j.receipts.RecordImageURL(ctx, rec.ID, url); err != nil {
		return err
	}

	j.logger.Info("receipt prerendered",
		slog.String("receipt_id", rec.ID.String()),
		slog.Int("bytes", len(png)),
	)
	return nil
}

// PrerenderListener enqueues a prerender task after each receipt write.
// Satisfies the receipts change-listener contract.
type PrerenderListener struct {
	client *Client
	logger *slog.Logger
}

// NewPrerenderListener wires the queue client.
func NewPrerenderListener(client *Client, logger *slog.Logger) *PrerenderListener {
	return &PrerenderListener{client: client, logger: logger}
}

// ReceiptChanged submits the prerender task. Enqueue failures only log:
// receipt writes must not fail because the queue is down.
func (l *PrerenderListener) ReceiptChanged(ctx context.Context, businessID, receiptID uuid.UUID) {
	if l == nil || l.client == nil {
		return
	}
	if _, err := l.client.EnqueueReceiptPrerender(ctx, ReceiptPrerenderPayload{ReceiptID: receiptID}); err != nil {
		l.logger.Warn("enqueue receipt prerender", slog.String("receipt_id", receiptID.String()), slog.Any("error", err))
	}
}
