package receipts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/receiptly/receiptly/internal/shared"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeRepo struct {
	recs  map[uuid.UUID]*Receipt
	items map[uuid.UUID][]LineItem
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		recs:  make(map[uuid.UUID]*Receipt),
		items: make(map[uuid.UUID][]LineItem),
	}
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, f)
}

func (f *fakeRepo) Get(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	rec, ok := f.recs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *rec
	out.Items = append([]LineItem(nil), f.items[id]...)
	return &out, nil
}

func (f *fakeRepo) List(ctx context.Context, businessID uuid.UUID, req ListReceiptsRequest) ([]Receipt, int, error) {
	var out []Receipt
	for id, rec := range f.recs {
		if rec.BusinessID != businessID {
			continue
		}
		if req.Status != nil && rec.Status != *req.Status {
			continue
		}
		cp := *rec
		cp.Items = append([]LineItem(nil), f.items[id]...)
		out = append(out, cp)
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListForRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]Receipt, error) {
	var out []Receipt
	for _, rec := range f.recs {
		if rec.BusinessID == businessID && !rec.IssueDate.Before(from) && !rec.IssueDate.After(to) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(ctx context.Context, r Receipt) error {
	cp := r
	f.recs[r.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	rec, ok := f.recs[id]
	if !ok {
		return ErrNotFound
	}
	for col, v := range updates {
		switch col {
		case "customer_name":
			rec.CustomerName = v.(string)
		case "issue_date":
			rec.IssueDate = v.(time.Time)
		case "status":
			rec.Status = v.(Status)
		case "shipping_fee":
			rec.ShippingFee = v.(float64)
		case "discount_amount":
			rec.DiscountAmount = v.(float64)
		case "template_variant":
			rec.Variant = v.(TemplateVariant)
		}
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.recs[id]; !ok {
		return ErrNotFound
	}
	delete(f.recs, id)
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) ReplaceItems(ctx context.Context, receiptID uuid.UUID, items []LineItem) error {
	f.items[receiptID] = append([]LineItem(nil), items...)
	return nil
}

func (f *fakeRepo) SetImageURL(ctx context.Context, id uuid.UUID, url string) error {
	rec, ok := f.recs[id]
	if !ok {
		return ErrNotFound
	}
	rec.ImageURL = &url
	return nil
}

func (f *fakeRepo) NextNumber(ctx context.Context, businessID uuid.UUID, date time.Time) (string, error) {
	count := 0
	prefix := fmt.Sprintf("RCP-%s-", date.Format("200601"))
	for _, rec := range f.recs {
		if rec.BusinessID == businessID && len(rec.ReceiptNumber) >= len(prefix) && rec.ReceiptNumber[:len(prefix)] == prefix {
			count++
		}
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

type recordingListener struct {
	changed []uuid.UUID
}

func (l *recordingListener) ReceiptChanged(ctx context.Context, businessID, receiptID uuid.UUID) {
	l.changed = append(l.changed, receiptID)
}

func TestCreateAssignsSequentialNumbers(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testLogger())
	svc.WithNow(func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) })
	businessID := uuid.New()

	req := CreateReceiptRequest{
		CustomerName: "Ada",
		Status:       "pending",
		Items:        []LineItemRequest{{Name: "Jollof rice", Quantity: 2, UnitPrice: "1,500"}},
	}

	first, err := svc.Create(context.Background(), businessID, req)
	require.NoError(t, err)
	require.Equal(t, "RCP-202608-0001", first.ReceiptNumber)
	require.Len(t, first.Items, 1)
	require.Equal(t, 1, first.Items[0].Position)

	second, err := svc.Create(context.Background(), businessID, req)
	require.NoError(t, err)
	require.Equal(t, "RCP-202608-0002", second.ReceiptNumber)
}

func TestCreateNotifiesListeners(t *testing.T) {
	repo := newFakeRepo()
	listener := &recordingListener{}
	svc := NewService(repo, testLogger(), listener)

	rec, err := svc.Create(context.Background(), uuid.New(), CreateReceiptRequest{
		Status: "paid",
		Items:  []LineItemRequest{{Name: "Suya", Quantity: 1, UnitPrice: "2000"}},
	})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{rec.ID}, listener.changed)
}

func TestGetRejectsOtherBusiness(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testLogger())
	owner := uuid.New()

	rec, err := svc.Create(context.Background(), owner, CreateReceiptRequest{
		Status: "paid",
		Items:  []LineItemRequest{{Name: "Zobo", Quantity: 1, UnitPrice: "500"}},
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New(), rec.ID)
	require.ErrorIs(t, err, shared.ErrNotOwner)

	got, err := svc.Get(context.Background(), owner, rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.ID, got.ID)
}

func TestUpdateReplacesItemsAndStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testLogger())
	businessID := uuid.New()

	rec, err := svc.Create(context.Background(), businessID, CreateReceiptRequest{
		Status: "pending",
		Items:  []LineItemRequest{{Name: "Meat pie", Quantity: 1, UnitPrice: "800"}},
	})
	require.NoError(t, err)

	status := "paid"
	items := []LineItemRequest{
		{Name: "Meat pie", Quantity: 2, UnitPrice: "800"},
		{Name: "Chapman", Quantity: 1, UnitPrice: "1,200"},
	}
	updated, err := svc.Update(context.Background(), businessID, rec.ID, UpdateReceiptRequest{
		Status: &status,
		Items:  &items,
	})
	require.NoError(t, err)
	require.Equal(t, StatusPaid, updated.Status)
	require.Len(t, updated.Items, 2)
	require.Equal(t, 2, updated.Items[1].Position)
	require.InDelta(t, 2800.0, updated.ComputeTotals().GrandTotal, 0.001)
}

func TestUpdateUnknownReceipt(t *testing.T) {
	svc := NewService(newFakeRepo(), testLogger())
	status := "paid"
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateReceiptRequest{Status: &status})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteNotifies(t *testing.T) {
	repo := newFakeRepo()
	listener := &recordingListener{}
	svc := NewService(repo, testLogger())
	svc.Subscribe(listener)
	businessID := uuid.New()

	rec, err := svc.Create(context.Background(), businessID, CreateReceiptRequest{
		Status: "unpaid",
		Items:  []LineItemRequest{{Name: "Puff puff", Quantity: 4, UnitPrice: "100"}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), businessID, rec.ID))
	require.Len(t, listener.changed, 2)

	_, err = svc.Get(context.Background(), businessID, rec.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
