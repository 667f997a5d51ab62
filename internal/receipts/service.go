package receipts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/receiptly/receiptly/internal/shared"
)

// ChangeListener is notified after a receipt is created, updated or deleted.
// Wired to the analytics cache bump and the prerender job queue.
type ChangeListener interface {
	ReceiptChanged(ctx context.Context, businessID, receiptID uuid.UUID)
}

// Service wraps receipt business rules.
type Service struct {
	repo      Repository
	listeners []ChangeListener
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger, listeners ...ChangeListener) *Service {
	return &Service{
		repo:      repo,
		listeners: listeners,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe registers a change listener after construction. The analytics
// service reads receipts through this service, so it cannot be passed to
// NewService directly.
func (s *Service) Subscribe(l ChangeListener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Create stores a new receipt with its items.
func (s *Service) Create(ctx context.Context, businessID uuid.UUID, req CreateReceiptRequest) (*Receipt, error) {
	issueDate := s.now()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}

	variant := VariantSimple
	if req.Variant != "" {
		variant = TemplateVariant(req.Variant)
	}

	rec := Receipt{
		ID:             uuid.New(),
		BusinessID:     businessID,
		CustomerName:   req.CustomerName,
		IssueDate:      issueDate,
		Status:         Status(req.Status),
		ShippingFee:    req.ShippingFee,
		DiscountAmount: req.DiscountAmount,
		Variant:        variant,
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		number, err := repo.NextNumber(ctx, businessID, issueDate)
		if err != nil {
			return fmt.Errorf("generate receipt number: %w", err)
		}
		rec.ReceiptNumber = number

		if err := repo.Create(ctx, rec); err != nil {
			return fmt.Errorf("create receipt: %w", err)
		}
		return repo.ReplaceItems(ctx, rec.ID, buildItems(rec.ID, req.Items))
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, businessID, rec.ID)
	return s.repo.Get(ctx, rec.ID)
}

// Get loads a receipt and verifies ownership.
func (s *Service) Get(ctx context.Context, businessID, id uuid.UUID) (*Receipt, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.BusinessID != businessID {
		return nil, shared.ErrNotOwner
	}
	return rec, nil
}

// GetAny loads a receipt without an ownership check. Used by the public
// share endpoint, where the share token is the authorization.
func (s *Service) GetAny(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	return s.repo.Get(ctx, id)
}

// List returns the vendor's receipts newest first.
func (s *Service) List(ctx context.Context, businessID uuid.UUID, req ListReceiptsRequest) ([]Receipt, int, error) {
	return s.repo.List(ctx, businessID, req)
}

// Update applies partial changes to a receipt.
func (s *Service) Update(ctx context.Context, businessID, id uuid.UUID, req UpdateReceiptRequest) (*Receipt, error) {
	if _, err := s.Get(ctx, businessID, id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.CustomerName != nil {
		updates["customer_name"] = *req.CustomerName
	}
	if req.IssueDate != nil {
		updates["issue_date"] = *req.IssueDate
	}
	if req.Status != nil {
		updates["status"] = Status(*req.Status)
	}
	if req.ShippingFee != nil {
		updates["shipping_fee"] = *req.ShippingFee
	}
	if req.DiscountAmount != nil {
		updates["discount_amount"] = *req.DiscountAmount
	}
	if req.Variant != nil {
		updates["template_variant"] = TemplateVariant(*req.Variant)
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if len(updates) > 0 {
			if err := repo.Update(ctx, id, updates); err != nil {
				return fmt.Errorf("update receipt: %w", err)
			}
		}
		if req.Items != nil {
			return repo.ReplaceItems(ctx, id, buildItems(id, *req.Items))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, businessID, id)
	return s.repo.Get(ctx, id)
}

// Delete removes a receipt and its items.
func (s *Service) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	if _, err := s.Get(ctx, businessID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify(ctx, businessID, id)
	return nil
}

// RecordImageURL stores the captured artifact location for a receipt.
func (s *Service) RecordImageURL(ctx context.Context, id uuid.UUID, url string) error {
	return s.repo.SetImageURL(ctx, id, url)
}

// ListForRange exposes the dashboard read path.
func (s *Service) ListForRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]Receipt, error) {
	return s.repo.ListForRange(ctx, businessID, from, to)
}

func (s *Service) notify(ctx context.Context, businessID, receiptID uuid.UUID) {
	for _, l := range s.listeners {
		l.ReceiptChanged(ctx, businessID, receiptID)
	}
}

func buildItems(receiptID uuid.UUID, reqs []LineItemRequest) []LineItem {
	items := make([]LineItem, 0, len(reqs))
	for i, req := range reqs {
		qty := req.Quantity
		if qty < 0 {
			qty = 0
		}
		items = append(items, LineItem{
			ID:        uuid.New(),
			ReceiptID: receiptID,
			Name:      req.Name,
			Quantity:  qty,
			UnitPrice: req.UnitPrice,
			Position:  i + 1,
		})
	}
	return items
}
