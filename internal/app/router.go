package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	analytichttp "github.com/receiptly/receiptly/internal/analytics/http"
	"github.com/receiptly/receiptly/internal/auth"
	"github.com/receiptly/receiptly/internal/business"
	"github.com/receiptly/receiptly/internal/menu"
	"github.com/receiptly/receiptly/internal/observability"
	"github.com/receiptly/receiptly/internal/receipts"
	"github.com/receiptly/receiptly/internal/render"
	"github.com/receiptly/receiptly/internal/shared"
	"github.com/receiptly/receiptly/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	Businesses     *business.Service

	AuthHandler       *auth.Handler
	ReceiptsHandler   *receipts.Handler
	RenderHandler     *render.Handler
	BusinessHandler   *business.Handler
	MenuHandler       *menu.Handler
	MenuPublicHandler *menu.PublicHandler
	AnalyticsHandler  *analytichttp.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics

	// ReadinessChecks maps dependency names to the clients probed by /readyz.
	ReadinessChecks map[string]Pinger
}

// NewRouter constructs the chi.Router with Receiptly defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/readyz", ReadinessHandler(params.Logger, params.ReadinessChecks))

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Guests build and preview receipt drafts before signing up.
	params.RenderHandler.MountDraftRoutes(r)

	// Public pages: share links and the QR menu.
	params.RenderHandler.MountPublicRoutes(r)
	params.MenuPublicHandler.MountRoutes(r)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(RequireBusiness(params.Logger, params.Businesses))

		params.ReceiptsHandler.MountRoutes(api)
		params.RenderHandler.MountAPIRoutes(api)
		params.BusinessHandler.MountRoutes(api)
		params.MenuHandler.MountRoutes(api)
		params.AnalyticsHandler.MountRoutes(api)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
