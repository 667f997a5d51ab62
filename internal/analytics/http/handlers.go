// Package analytichttp exposes the sales dashboard over HTTP: the JSON
// payload, server-rendered SVG charts and spreadsheet exports.
package analytichttp

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/receiptly/receiptly/internal/analytics"
	"github.com/receiptly/receiptly/internal/analytics/export"
	"github.com/receiptly/receiptly/internal/analytics/svg"
	"github.com/receiptly/receiptly/internal/platform/httpx"
	"github.com/receiptly/receiptly/internal/shared"
)

// DashboardService defines the dashboard data contract used by the handler.
type DashboardService interface {
	GetDashboard(ctx context.Context, businessID uuid.UUID) (analytics.Dashboard, error)
}

// Handler coordinates HTTP requests for the sales dashboard.
type Handler struct {
	logger  *slog.Logger
	service DashboardService
	now     func() time.Time
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(logger *slog.Logger, service DashboardService) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (analytics.Dashboard, bool) {
	businessID := shared.BusinessIDFromContext(r.Context())
	dash, err := h.service.GetDashboard(r.Context(), businessID)
	if err != nil {
		h.logger.Error("load dashboard", "business_id", businessID, "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return analytics.Dashboard{}, false
	}
	return dash, true
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, dash)
}

func (h *Handler) handleMonthlySVG(w http.ResponseWriter, r *http.Request) {
	dash, ok := h.load(w, r)
	if !ok {
		return
	}

	series := make([]float64, 0, len(dash.Monthly))
	labels := make([]string, 0, len(dash.Monthly))
	for _, point := range dash.Monthly {
		series = append(series, point.Revenue)
		labels = append(labels, monthLabel(point.Month))
	}

	chart, err := svg.Line(svg.DefaultWidth, svg.DefaultHeight, series, labels, svg.LineOpts{
		Title:       "Monthly revenue",
		Description: "Collected revenue over the trailing twelve months",
		ShowDots:    true,
	})
	if err != nil {
		h.logger.Error("render monthly chart", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	writeSVG(w, chart)
}

func (h *Handler) handleDailySVG(w http.ResponseWriter, r *http.Request) {
	dash, ok := h.load(w, r)
	if !ok {
		return
	}

	series := make([]float64, 0, len(dash.Daily))
	labels := make([]string, 0, len(dash.Daily))
	for _, point := range dash.Daily {
		series = append(series, point.Revenue)
		labels = append(labels, dayLabel(point.Day))
	}

	chart, err := svg.Bars(svg.DefaultWidth, svg.DefaultHeight, series, labels, svg.BarOpts{
		Title:       "Daily revenue",
		Description: "Collected revenue over the trailing thirty days",
		LabelEvery:  5,
	})
	if err != nil {
		h.logger.Error("render daily chart", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	writeSVG(w, chart)
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	dash, ok := h.load(w, r)
	if !ok {
		return
	}

	buf := &bytes.Buffer{}
	if err := export.WriteDashboardCSV(buf, dash); err != nil {
		h.logger.Error("export dashboard csv", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", exportFilename(h.now(), "csv"))
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleXLSX(w http.ResponseWriter, r *http.Request) {
	dash, ok := h.load(w, r)
	if !ok {
		return
	}

	buf := &bytes.Buffer{}
	if err := export.WriteDashboardXLSX(buf, dash); err != nil {
		h.logger.Error("export dashboard xlsx", "error", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", exportFilename(h.now(), "xlsx"))
	_, _ = buf.WriteTo(w)
}

func writeSVG(w http.ResponseWriter, chart template.HTML) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "private, max-age=60")
	_, _ = w.Write([]byte(chart))
}

func exportFilename(now time.Time, ext string) string {
	return "attachment; filename=\"sales-dashboard-" + now.Format("2006-01-02") + "." + ext + "\""
}

func monthLabel(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.Format("Jan")
}

func dayLabel(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return t.Format("02 Jan")
}
