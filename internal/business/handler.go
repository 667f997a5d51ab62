package business

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/receiptly/receiptly/internal/platform/httpx"
	"github.com/receiptly/receiptly/internal/shared"
)

const maxLogoBytes = 5 << 20

// Handler manages business profile endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, validate *validator.Validate) *Handler {
	return &Handler{logger: logger, service: service, validate: validate}
}

// MountRoutes registers authenticated profile routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/business", h.show)
	r.Put("/business", h.update)
	r.Post("/business/logo", h.uploadLogo)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), shared.BusinessIDFromContext(r.Context()))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateBusinessRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	b, err := h.service.Update(r.Context(), shared.BusinessIDFromContext(r.Context()), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

func (h *Handler) uploadLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLogoBytes)
	if err := r.ParseMultipartForm(maxLogoBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Upload", "logo must be a multipart upload under 5MB")
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Upload", "missing logo file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/png" && contentType != "image/jpeg" && contentType != "image/webp" {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Upload", "logo must be a PNG, JPEG or WebP image")
		return
	}

	url, err := h.service.UploadLogo(r.Context(), shared.BusinessIDFromContext(r.Context()), header.Filename, contentType, file)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"logo_url": url})
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "business profile not found")
	case errors.Is(err, ErrSlugTaken):
		httpx.Problem(w, http.StatusConflict, "Slug Taken", "this menu address is already in use")
	default:
		h.logger.Error("business request failed", "path", r.URL.Path, "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
