package receipts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/receiptly/receiptly/internal/shared"
)

func newTestServer(t *testing.T, businessID uuid.UUID) (*Service, http.Handler) {
	t.Helper()
	svc := NewService(newFakeRepo(), testLogger())
	issuer := NewShareTokenIssuer("test-share-secret", time.Hour)
	h := NewHandler(testLogger(), svc, issuer, "http://localhost:8080", validator.New())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithBusinessID(req.Context(), businessID)))
		})
	})
	h.MountRoutes(r)
	return svc, r
}

func doJSON(t *testing.T, handler http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateReceiptEndpoint(t *testing.T) {
	businessID := uuid.New()
	_, handler := newTestServer(t, businessID)

	rec := doJSON(t, handler, http.MethodPost, "/receipts", CreateReceiptRequest{
		CustomerName: "Ada",
		Status:       "pending",
		Items: []LineItemRequest{
			{Name: "Jollof rice", Quantity: 2, UnitPrice: "1,500"},
			{Name: "Chapman", Quantity: 1, UnitPrice: "1,200"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp ReceiptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, businessID, resp.BusinessID)
	require.Equal(t, StatusPending, resp.Status)
	require.InDelta(t, 4200.0, resp.Totals.GrandTotal, 0.001)
}

func TestCreateReceiptRejectsEmptyItems(t *testing.T) {
	_, handler := newTestServer(t, uuid.New())

	rec := doJSON(t, handler, http.MethodPost, "/receipts", CreateReceiptRequest{
		Status: "paid",
		Items:  []LineItemRequest{},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShowReceiptHidesOtherTenants(t *testing.T) {
	owner := uuid.New()
	svc, _ := newTestServer(t, owner)
	saved, err := svc.Create(context.Background(), owner, CreateReceiptRequest{
		Status: "paid",
		Items:  []LineItemRequest{{Name: "Suya", Quantity: 1, UnitPrice: "2000"}},
	})
	require.NoError(t, err)

	// Same storage, different tenant in context.
	intruderRouter := chi.NewRouter()
	intruderRouter.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithBusinessID(req.Context(), uuid.New())))
		})
	})
	h := NewHandler(testLogger(), svc, NewShareTokenIssuer("test-share-secret", time.Hour), "http://localhost:8080", validator.New())
	h.MountRoutes(intruderRouter)

	rec := doJSON(t, intruderRouter, http.MethodGet, "/receipts/"+saved.ID.String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListReceiptsFiltersByStatus(t *testing.T) {
	businessID := uuid.New()
	svc, handler := newTestServer(t, businessID)

	for _, status := range []string{"paid", "pending", "paid"} {
		_, err := svc.Create(context.Background(), businessID, CreateReceiptRequest{
			Status: status,
			Items:  []LineItemRequest{{Name: "Item", Quantity: 1, UnitPrice: "100"}},
		})
		require.NoError(t, err)
	}

	rec := doJSON(t, handler, http.MethodGet, "/receipts?status=paid", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Receipts   []ReceiptResponse `json:"receipts"`
		Pagination shared.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Receipts, 2)
	require.Equal(t, 2, resp.Pagination.Total)
}

func TestListReceiptsRejectsBadStatus(t *testing.T) {
	_, handler := newTestServer(t, uuid.New())
	rec := doJSON(t, handler, http.MethodGet, "/receipts?status=refunded", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShareEndpointIssuesVerifiableToken(t *testing.T) {
	businessID := uuid.New()
	svc, handler := newTestServer(t, businessID)
	saved, err := svc.Create(context.Background(), businessID, CreateReceiptRequest{
		Status: "paid",
		Items:  []LineItemRequest{{Name: "Zobo", Quantity: 1, UnitPrice: "500"}},
	})
	require.NoError(t, err)

	rec := doJSON(t, handler, http.MethodPost, "/receipts/"+saved.ID.String()+"/share", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
		URL   string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "http://localhost:8080/r/"+resp.Token, resp.URL)

	issuer := NewShareTokenIssuer("test-share-secret", time.Hour)
	id, err := issuer.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, saved.ID, id)
}

func TestDeleteReceiptEndpoint(t *testing.T) {
	businessID := uuid.New()
	svc, handler := newTestServer(t, businessID)
	saved, err := svc.Create(context.Background(), businessID, CreateReceiptRequest{
		Status: "unpaid",
		Items:  []LineItemRequest{{Name: "Puff puff", Quantity: 4, UnitPrice: "100"}},
	})
	require.NoError(t, err)

	rec := doJSON(t, handler, http.MethodDelete, "/receipts/"+saved.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/receipts/"+saved.ID.String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
