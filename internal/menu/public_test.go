package menu

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/receiptly/receiptly/internal/blob"
	"github.com/receiptly/receiptly/internal/business"
)

type businessBySlug struct {
	b *business.Business
}

func (f *businessBySlug) Get(ctx context.Context, id uuid.UUID) (*business.Business, error) {
	if f.b != nil && f.b.ID == id {
		return f.b, nil
	}
	return nil, business.ErrNotFound
}

func (f *businessBySlug) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*business.Business, error) {
	return nil, business.ErrNotFound
}

func (f *businessBySlug) GetBySlug(ctx context.Context, slug string) (*business.Business, error) {
	if f.b != nil && f.b.Slug == slug {
		return f.b, nil
	}
	return nil, business.ErrNotFound
}

func (f *businessBySlug) ListIDs(ctx context.Context) ([]uuid.UUID, error) { return nil, nil }

func (f *businessBySlug) Create(ctx context.Context, b business.Business) error { return nil }

func (f *businessBySlug) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return nil
}

func (f *businessBySlug) SetLogoURL(ctx context.Context, id uuid.UUID, url string) error { return nil }

type noopUploader struct{}

func (noopUploader) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	return "http://blobs.local/" + name, nil
}

var _ blob.Uploader = noopUploader{}

func newPublicServer(t *testing.T, b *business.Business, repo Repository) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	businesses := business.NewService(&businessBySlug{b: b}, noopUploader{})
	handler, err := NewPublicHandler(logger, NewService(repo), businesses)
	require.NoError(t, err)

	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func TestPublicMenuPage(t *testing.T) {
	b := &business.Business{
		ID:       uuid.New(),
		Name:     "Mama Nkechi Kitchen",
		Currency: "₦ (NGN)",
		Slug:     "mama-nkechi-kitchen-1a2b3c4d",
	}
	repo := newFakeRepo()
	require.NoError(t, repo.Create(context.Background(), Item{
		ID: uuid.New(), BusinessID: b.ID, Name: "Jollof rice", Price: 1500, Available: true, Position: 1,
	}))
	require.NoError(t, repo.Create(context.Background(), Item{
		ID: uuid.New(), BusinessID: b.ID, Name: "Hidden special", Price: 9000, Available: false, Position: 2,
	}))

	srv := newPublicServer(t, b, repo)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/m/"+b.Slug, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Mama Nkechi Kitchen")
	require.Contains(t, body, "Jollof rice")
	require.Contains(t, body, "₦1,500.00")
	require.NotContains(t, body, "Hidden special")
}

func TestPublicMenuPageUnknownSlug(t *testing.T) {
	srv := newPublicServer(t, nil, newFakeRepo())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/m/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
