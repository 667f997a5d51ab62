package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/receiptly/receiptly/internal/receipts"
)

const (
	monthlyWindow = 12
	dailyWindow   = 30
)

// Repository is the receipt read path the dashboard depends on.
type Repository interface {
	ListForRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]receipts.Receipt, error)
}

// Service coordinates dashboard aggregation with the cache layer.
type Service struct {
	repo  Repository
	cache *Cache
	now   func() time.Time
}

// NewService wires a Repository with a Cache helper.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Dashboard is the full aggregated payload for one business.
type Dashboard struct {
	Summary     Summary        `json:"summary"`
	Monthly     []MonthlyPoint `json:"monthly"`
	Daily       []DailyPoint   `json:"daily"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// GetDashboard resolves the cached dashboard, rebuilding it on a miss. The
// monthly and daily windows are fetched concurrently on rebuild.
func (s *Service) GetDashboard(ctx context.Context, businessID uuid.UUID) (Dashboard, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		return s.build(ctx, businessID)
	}

	key, err := s.cache.BuildKey(ctx, keyDashboard(businessID.String()))
	if err != nil {
		return Dashboard{}, err
	}
	var dash Dashboard
	if err := s.cache.FetchJSON(ctx, key, &dash, loader); err != nil {
		return Dashboard{}, err
	}
	return dash, nil
}

// ReceiptChanged invalidates cached dashboards after any receipt write.
// Satisfies the receipts change-listener contract.
func (s *Service) ReceiptChanged(ctx context.Context, businessID, receiptID uuid.UUID) {
	_ = s.cache.Bump(ctx)
}

func (s *Service) build(ctx context.Context, businessID uuid.UUID) (Dashboard, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(monthlyWindow - 1), 0)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(dailyWindow - 1))

	var monthly, daily []receipts.Receipt
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		monthly, err = s.repo.ListForRange(gctx, businessID, monthStart, now)
		return err
	})
	g.Go(func() error {
		var err error
		daily, err = s.repo.ListForRange(gctx, businessID, dayStart, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Summary:     Summarize(monthly),
		Monthly:     MonthlyRevenue(monthly, monthlyWindow, now),
		Daily:       DailyRevenue(daily, dailyWindow, now),
		GeneratedAt: now,
	}, nil
}
