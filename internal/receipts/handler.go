package receipts

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/receiptly/receiptly/internal/platform/httpx"
	"github.com/receiptly/receiptly/internal/shared"
)

// Handler manages receipt CRUD and share-link endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	issuer   *ShareTokenIssuer
	baseURL  string
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, issuer *ShareTokenIssuer, baseURL string, validate *validator.Validate) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		issuer:   issuer,
		baseURL:  baseURL,
		validate: validate,
	}
}

// MountRoutes registers authenticated receipt routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/receipts", h.list)
	r.Post("/receipts", h.create)
	r.Get("/receipts/{id}", h.show)
	r.Put("/receipts/{id}", h.update)
	r.Delete("/receipts/{id}", h.delete)
	r.Post("/receipts/{id}/share", h.share)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}

	businessID := shared.BusinessIDFromContext(r.Context())
	items, total, err := h.service.List(r.Context(), businessID, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	responses := make([]ReceiptResponse, 0, len(items))
	for i := range items {
		responses = append(responses, NewReceiptResponse(&items[i]))
	}
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"receipts":   responses,
		"pagination": shared.NewPagination(req.Page, req.PerPage, total),
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateReceiptRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	rec, err := h.service.Create(r.Context(), shared.BusinessIDFromContext(r.Context()), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, NewReceiptResponse(rec))
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.receiptID(w, r)
	if !ok {
		return
	}
	rec, err := h.service.Get(r.Context(), shared.BusinessIDFromContext(r.Context()), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewReceiptResponse(rec))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.receiptID(w, r)
	if !ok {
		return
	}

	var req UpdateReceiptRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	rec, err := h.service.Update(r.Context(), shared.BusinessIDFromContext(r.Context()), id, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewReceiptResponse(rec))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.receiptID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), shared.BusinessIDFromContext(r.Context()), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) share(w http.ResponseWriter, r *http.Request) {
	id, ok := h.receiptID(w, r)
	if !ok {
		return
	}
	rec, err := h.service.Get(r.Context(), shared.BusinessIDFromContext(r.Context()), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	token, err := h.issuer.Issue(rec.ID)
	if err != nil {
		h.logger.Error("issue share token", "receipt_id", rec.ID, "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"token": token,
		"url":   h.baseURL + "/r/" + token,
	})
}

func (h *Handler) receiptID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "receipt id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, shared.ErrNotOwner):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "receipt not found")
	default:
		h.logger.Error("receipt request failed", "path", r.URL.Path, "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func parseListRequest(r *http.Request) (ListReceiptsRequest, error) {
	q := r.URL.Query()
	req := ListReceiptsRequest{Page: 1, PerPage: 20}

	if raw := q.Get("status"); raw != "" {
		status := Status(raw)
		if !status.Valid() {
			return req, errors.New("status must be paid, pending or unpaid")
		}
		req.Status = &status
	}
	for name, dst := range map[string]**time.Time{"from": &req.DateFrom, "to": &req.DateTo} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		t, err := parseDate(raw)
		if err != nil {
			return req, errors.New(name + " must be an RFC3339 timestamp or YYYY-MM-DD date")
		}
		*dst = &t
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return req, errors.New("page must be a positive integer")
		}
		req.Page = page
	}
	if raw := q.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 || perPage > 100 {
			return req, errors.New("per_page must be between 1 and 100")
		}
		req.PerPage = perPage
	}
	return req, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
