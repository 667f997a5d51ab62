package menu

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/receiptly/receiptly/internal/business"
	"github.com/receiptly/receiptly/internal/render"
	"github.com/receiptly/receiptly/web"
)

// PublicHandler serves the unauthenticated menu page reached from a
// printed QR code.
type PublicHandler struct {
	logger     *slog.Logger
	service    *Service
	businesses *business.Service
	tpl        *template.Template
}

// NewPublicHandler parses the embedded menu template.
func NewPublicHandler(logger *slog.Logger, service *Service, businesses *business.Service) (*PublicHandler, error) {
	tpl, err := template.New("menu_page.html").ParseFS(web.Templates, "templates/menu_page.html")
	if err != nil {
		return nil, err
	}
	return &PublicHandler{logger: logger, service: service, businesses: businesses, tpl: tpl}, nil
}

// MountRoutes registers the public menu route.
func (h *PublicHandler) MountRoutes(r chi.Router) {
	r.Get("/m/{slug}", h.showMenu)
}

type menuItemView struct {
	Name        string
	Description string
	Price       string
}

type menuPageData struct {
	BusinessName string
	Tagline      string
	Phone        string
	AccentColor  string
	LogoURL      string
	Items        []menuItemView
}

func (h *PublicHandler) showMenu(w http.ResponseWriter, r *http.Request) {
	b, err := h.businesses.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, business.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("load business by slug", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	items, err := h.service.PublicList(r.Context(), b.ID)
	if err != nil {
		h.logger.Error("load public menu", "business_id", b.ID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	symbol := b.CurrencySymbol()
	data := menuPageData{
		BusinessName: b.Name,
		Tagline:      b.Tagline,
		Phone:        b.Phone,
		AccentColor:  b.AccentColor,
	}
	for _, item := range items {
		data.Items = append(data.Items, menuItemView{
			Name:        item.Name,
			Description: item.Description,
			Price:       render.FormatAmount(symbol, item.Price),
		})
	}
	if b.ShowLogo && b.LogoURL != nil {
		data.LogoURL = *b.LogoURL
	}

	buf := &bytes.Buffer{}
	if err := h.tpl.Execute(buf, data); err != nil {
		h.logger.Error("render menu page", "business_id", b.ID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
