package render

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/receiptly/receiptly/internal/business"
	"github.com/receiptly/receiptly/internal/capture"
	"github.com/receiptly/receiptly/internal/observability"
	"github.com/receiptly/receiptly/internal/platform/httpx"
	"github.com/receiptly/receiptly/internal/receipts"
	"github.com/receiptly/receiptly/internal/shared"
)

// Handler serves the receipt rendering surfaces: draft previews, the PNG
// export and the public share page.
type Handler struct {
	logger     *slog.Logger
	renderer   *Renderer
	receipts   *receipts.Service
	businesses *business.Service
	screenshot *capture.Client
	issuer     *receipts.ShareTokenIssuer
	metrics    *observability.Metrics
	validate   *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(
	logger *slog.Logger,
	renderer *Renderer,
	receiptSvc *receipts.Service,
	businessSvc *business.Service,
	screenshot *capture.Client,
	issuer *receipts.ShareTokenIssuer,
	metrics *observability.Metrics,
	validate *validator.Validate,
) *Handler {
	return &Handler{
		logger:     logger,
		renderer:   renderer,
		receipts:   receiptSvc,
		businesses: businessSvc,
		screenshot: screenshot,
		issuer:     issuer,
		metrics:    metrics,
		validate:   validate,
	}
}

// MountDraftRoutes registers the public draft preview endpoint.
func (h *Handler) MountDraftRoutes(r chi.Router) {
	r.Post("/preview", h.previewDraft)
}

// MountAPIRoutes registers the authenticated rendering endpoints.
func (h *Handler) MountAPIRoutes(r chi.Router) {
	r.Get("/receipts/{id}/preview", h.previewSaved)
	r.Get("/receipts/{id}/image", h.exportImage)
}

// MountPublicRoutes registers the share page.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/r/{token}", h.sharedReceipt)
}

// DraftBusiness carries inline presentation settings for a draft preview.
// Guests have no stored profile, so the client sends the styling along.
type DraftBusiness struct {
	Name          string `json:"name" validate:"max=120"`
	Tagline       string `json:"tagline" validate:"max=160"`
	Phone         string `json:"phone" validate:"max=40"`
	FooterMessage string `json:"footer_message" validate:"max=280"`
	Currency      string `json:"currency" validate:"max=20"`
	AccentColor   string `json:"accent_color" validate:"omitempty,hexcolor"`
	ShowLogo      bool   `json:"show_logo"`
	LogoURL       string `json:"logo_url" validate:"omitempty,url"`
}

// DraftPreviewRequest is an unsaved receipt plus its presentation settings.
type DraftPreviewRequest struct {
	Receipt  receipts.CreateReceiptRequest `json:"receipt" validate:"required"`
	Business DraftBusiness                 `json:"business"`
}

func (h *Handler) previewDraft(w http.ResponseWriter, r *http.Request) {
	var req DraftPreviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	// The preview watermark is driven by this flag alone, never by the
	// renderer peeking at session state.
	preview := !shared.SessionFromContext(r.Context()).Authenticated()

	rec := DraftReceipt(req.Receipt)
	st := Settings{
		BusinessName:  req.Business.Name,
		Tagline:       req.Business.Tagline,
		Phone:         req.Business.Phone,
		FooterMessage: req.Business.FooterMessage,
		Currency:      req.Business.Currency,
		AccentColor:   req.Business.AccentColor,
		ShowLogo:      req.Business.ShowLogo,
		LogoURL:       req.Business.LogoURL,
	}

	h.writeHTML(w, r, BuildDocument(&rec, st, preview), "draft")
}

func (h *Handler) previewSaved(w http.ResponseWriter, r *http.Request) {
	rec, st, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	h.writeHTML(w, r, BuildDocument(rec, st, false), "preview")
}

func (h *Handler) exportImage(w http.ResponseWriter, r *http.Request) {
	rec, st, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	// Exports never carry the preview watermark.
	html, err := h.renderer.Render(BuildDocument(rec, st, false))
	if err != nil {
		h.logger.Error("render receipt", "receipt_id", rec.ID, "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	png, err := h.screenshot.CapturePNG(r.Context(), html)
	if err != nil {
		h.logger.Error("capture receipt image", "receipt_id", rec.ID, "error", err)
		httpx.Problem(w, http.StatusBadGateway, "Capture Failed", "the image service did not produce an image")
		return
	}
	h.metrics.CountRender("export")

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.ReceiptNumber+".png"))
	_, _ = w.Write(png)
}

func (h *Handler) sharedReceipt(w http.ResponseWriter, r *http.Request) {
	receiptID, err := h.issuer.Verify(chi.URLParam(r, "token"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	rec, err := h.receipts.GetAny(r.Context(), receiptID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	b, err := h.businesses.Get(r.Context(), rec.BusinessID)
	if err != nil {
		h.logger.Error("load business for shared receipt", "receipt_id", rec.ID, "error", err)
		http.NotFound(w, r)
		return
	}

	h.writeHTML(w, r, BuildDocument(rec, SettingsFromBusiness(b), false), "share")
}

func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request) (*receipts.Receipt, Settings, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "receipt id must be a UUID")
		return nil, Settings{}, false
	}

	businessID := shared.BusinessIDFromContext(r.Context())
	rec, err := h.receipts.Get(r.Context(), businessID, id)
	if err != nil {
		if errors.Is(err, receipts.ErrNotFound) || errors.Is(err, shared.ErrNotOwner) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "receipt not found")
		} else {
			h.logger.Error("load receipt", "receipt_id", id, "error", err)
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return nil, Settings{}, false
	}

	b, err := h.businesses.Get(r.Context(), businessID)
	if err != nil {
		h.logger.Error("load business", "business_id", businessID, "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return nil, Settings{}, false
	}
	return rec, SettingsFromBusiness(b), true
}

func (h *Handler) writeHTML(w http.ResponseWriter, r *http.Request, doc Document, kind string) {
	html, err := h.renderer.Render(doc)
	if err != nil {
		h.logger.Error("render receipt", "path", r.URL.Path, "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	h.metrics.CountRender(kind)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// SettingsFromBusiness maps a stored profile onto renderer settings.
func SettingsFromBusiness(b *business.Business) Settings {
	st := Settings{
		BusinessName:  b.Name,
		Tagline:       b.Tagline,
		Phone:         b.Phone,
		FooterMessage: b.FooterMessage,
		Currency:      b.Currency,
		AccentColor:   b.AccentColor,
		ShowLogo:      b.ShowLogo,
	}
	if b.LogoURL != nil {
		st.LogoURL = *b.LogoURL
	}
	return st
}

// DraftReceipt builds a transient receipt from an unsaved payload. The zero
// ID marks it as never persisted.
func DraftReceipt(req receipts.CreateReceiptRequest) receipts.Receipt {
	issueDate := time.Now().UTC()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}
	variant := receipts.VariantSimple
	if req.Variant != "" {
		variant = receipts.TemplateVariant(req.Variant)
	}

	rec := receipts.Receipt{
		CustomerName:   req.CustomerName,
		IssueDate:      issueDate,
		Status:         receipts.Status(req.Status),
		ShippingFee:    req.ShippingFee,
		DiscountAmount: req.DiscountAmount,
		Variant:        variant,
	}
	for i, item := range req.Items {
		qty := item.Quantity
		if qty < 0 {
			qty = 0
		}
		rec.Items = append(rec.Items, receipts.LineItem{
			Name:      item.Name,
			Quantity:  qty,
			UnitPrice: item.UnitPrice,
			Position:  i + 1,
		})
	}
	return rec
}
