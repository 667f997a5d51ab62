// Package jobs holds the background task types and the Asynq worker glue.
package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAnalyticsWarmup pre-populates the dashboard cache per business.
	TaskAnalyticsWarmup = "analytics:warmup"
	// TaskReceiptPrerender captures a receipt image ahead of sharing.
	TaskReceiptPrerender = "receipt:prerender"
)

// AnalyticsWarmupPayload scopes a warmup run. An empty BusinessID warms
// every business.
type AnalyticsWarmupPayload struct {
	BusinessID string `json:"business_id,omitempty"`
}

// ReceiptPrerenderPayload identifies the receipt to capture.
type ReceiptPrerenderPayload struct {
	ReceiptID uuid.UUID `json:"receipt_id"`
}

// NewAnalyticsWarmupTask constructs an Asynq task.
func NewAnalyticsWarmupTask(payload AnalyticsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalyticsWarmup, data), nil
}

// NewReceiptPrerenderTask constructs an Asynq task.
func NewReceiptPrerenderTask(payload ReceiptPrerenderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReceiptPrerender, data), nil
}
