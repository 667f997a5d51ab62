package menu

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/receiptly/receiptly/internal/shared"
)

type fakeRepo struct {
	items map[uuid.UUID]*Item
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[uuid.UUID]*Item)}
}

func (f *fakeRepo) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (f *fakeRepo) list(businessID uuid.UUID, availableOnly bool) []Item {
	var out []Item
	for _, item := range f.items {
		if item.BusinessID != businessID {
			continue
		}
		if availableOnly && !item.Available {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (f *fakeRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]Item, error) {
	return f.list(businessID, false), nil
}

func (f *fakeRepo) ListAvailable(ctx context.Context, businessID uuid.UUID) ([]Item, error) {
	return f.list(businessID, true), nil
}

func (f *fakeRepo) Create(ctx context.Context, item Item) error {
	cp := item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	item, ok := f.items[id]
	if !ok {
		return ErrNotFound
	}
	for col, v := range updates {
		switch col {
		case "name":
			item.Name = v.(string)
		case "description":
			item.Description = v.(string)
		case "price":
			item.Price = v.(float64)
		case "available":
			item.Available = v.(bool)
		}
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) NextPosition(ctx context.Context, businessID uuid.UUID) (int, error) {
	max := 0
	for _, item := range f.items {
		if item.BusinessID == businessID && item.Position > max {
			max = item.Position
		}
	}
	return max + 1, nil
}

func TestCreateAppendsToMenu(t *testing.T) {
	svc := NewService(newFakeRepo())
	businessID := uuid.New()

	first, err := svc.Create(context.Background(), businessID, CreateItemRequest{Name: "  Jollof rice ", Price: 1500})
	require.NoError(t, err)
	require.Equal(t, "Jollof rice", first.Name)
	require.Equal(t, 1, first.Position)
	require.True(t, first.Available)

	second, err := svc.Create(context.Background(), businessID, CreateItemRequest{Name: "Suya", Price: 2000})
	require.NoError(t, err)
	require.Equal(t, 2, second.Position)
}

func TestPublicListSkipsUnavailable(t *testing.T) {
	svc := NewService(newFakeRepo())
	businessID := uuid.New()

	_, err := svc.Create(context.Background(), businessID, CreateItemRequest{Name: "Zobo", Price: 500})
	require.NoError(t, err)
	hidden := false
	_, err = svc.Create(context.Background(), businessID, CreateItemRequest{Name: "Chapman", Price: 1200, Available: &hidden})
	require.NoError(t, err)

	public, err := svc.PublicList(context.Background(), businessID)
	require.NoError(t, err)
	require.Len(t, public, 1)
	require.Equal(t, "Zobo", public[0].Name)
}

func TestUpdateRejectsOtherBusiness(t *testing.T) {
	svc := NewService(newFakeRepo())
	owner := uuid.New()

	item, err := svc.Create(context.Background(), owner, CreateItemRequest{Name: "Meat pie", Price: 800})
	require.NoError(t, err)

	name := "Fish pie"
	_, err = svc.Update(context.Background(), uuid.New(), item.ID, UpdateItemRequest{Name: &name})
	require.ErrorIs(t, err, shared.ErrNotOwner)

	updated, err := svc.Update(context.Background(), owner, item.ID, UpdateItemRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Fish pie", updated.Name)
}

func TestDeleteChecksOwnership(t *testing.T) {
	svc := NewService(newFakeRepo())
	owner := uuid.New()

	item, err := svc.Create(context.Background(), owner, CreateItemRequest{Name: "Puff puff", Price: 100})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), uuid.New(), item.ID), shared.ErrNotOwner)
	require.NoError(t, svc.Delete(context.Background(), owner, item.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), owner, item.ID), ErrNotFound)
}
