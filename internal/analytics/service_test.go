package analytics

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/receiptly/receiptly/internal/receipts"
)

type mockRepo struct {
	recs  []receipts.Receipt
	calls int
}

func (m *mockRepo) ListForRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]receipts.Receipt, error) {
	m.calls++
	var out []receipts.Receipt
	for _, r := range m.recs {
		if r.IssueDate.Before(from) || r.IssueDate.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	svc := NewService(repo, NewCache(client, time.Minute))
	svc.WithNow(func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) })
	return svc
}

func TestGetDashboardAggregates(t *testing.T) {
	businessID := uuid.New()
	repo := &mockRepo{recs: []receipts.Receipt{
		rec(receipts.StatusPaid, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), "1,500", 2),
		rec(receipts.StatusPending, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), "700", 1),
	}}
	svc := newTestService(t, repo)

	dash, err := svc.GetDashboard(context.Background(), businessID)
	require.NoError(t, err)

	require.Equal(t, 2, dash.Summary.TotalReceipts)
	require.InDelta(t, 3000, dash.Summary.Revenue, 0.001)
	require.InDelta(t, 700, dash.Summary.Outstanding, 0.001)
	require.Len(t, dash.Monthly, 12)
	require.Len(t, dash.Daily, 30)
}

func TestGetDashboardCaches(t *testing.T) {
	businessID := uuid.New()
	repo := &mockRepo{}
	svc := newTestService(t, repo)

	_, err := svc.GetDashboard(context.Background(), businessID)
	require.NoError(t, err)
	firstCalls := repo.calls
	require.Equal(t, 2, firstCalls)

	_, err = svc.GetDashboard(context.Background(), businessID)
	require.NoError(t, err)
	require.Equal(t, firstCalls, repo.calls)
}

func TestReceiptChangedInvalidates(t *testing.T) {
	businessID := uuid.New()
	repo := &mockRepo{}
	svc := newTestService(t, repo)

	_, err := svc.GetDashboard(context.Background(), businessID)
	require.NoError(t, err)
	calls := repo.calls

	svc.ReceiptChanged(context.Background(), businessID, uuid.New())

	_, err = svc.GetDashboard(context.Background(), businessID)
	require.NoError(t, err)
	require.Greater(t, repo.calls, calls)
}
