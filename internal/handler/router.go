package handler

import (
	"net/http"
	"time"

	"github.com/fluxoclean/console-bfa-go/internal/infra/observability"
	"github.com/fluxoclean/console-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract defined for the FluxoClean admin console.
func NewRouter(
	consoleSvc *service.ConsoleService,
	authSvc *service.AuthService,
	broadcastSvc *service.BroadcastService,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler(consoleSvc))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 1. 🔐 Autenticação & Cadastro (public)
		// =============================================
		r.Route("/auth", func(r chi.Router) {
			// Signup
			r.Post("/pre-register", preRegisterHandler(authSvc, logger))
			r.Post("/validate-registration", validateRegistrationHandler(authSvc, logger))
			r.Post("/complete-registration", completeRegistrationHandler(authSvc, logger))

			// Console session
			r.Post("/login", loginHandler(authSvc, logger))
			r.Post("/refresh", refreshHandler(authSvc, logger))

			// Password reset
			r.Post("/forgot-password", forgotPasswordHandler(authSvc, logger))
			r.Get("/reset-password/{token}", validateResetTokenHandler(authSvc, logger))
			r.Post("/reset-password", resetPasswordHandler(authSvc, logger))

			// Protected
			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(authSvc, logger))
				r.Post("/logout", logoutHandler(authSvc, logger))
			})
		})

		// =============================================
		// 2. 🛡 Console administrativo (protected)
		// =============================================
		r.Route("/admin", func(r chi.Router) {
			r.Use(JWTAuthMiddleware(authSvc, logger))

			// Dashboard
			r.Get("/overview", overviewHandler(consoleSvc, logger))
			r.Get("/tenants", listTenantsHandler(consoleSvc, logger))
			r.Get("/financials", financialsHandler(consoleSvc, logger))
			r.Get("/invoices/recent", recentInvoicesHandler(consoleSvc, logger))
			r.Get("/invoices/forecast", forecastInvoicesHandler(consoleSvc, logger))
			r.Get("/services/queue", serviceQueueHandler(consoleSvc, logger))

			// Tenant mutations
			r.Patch("/tenants/{tenantId}/status", setTenantStatusHandler(consoleSvc, logger))
			r.Post("/tenants/{tenantId}/payments/{referenceCode}/toggle", approvePaymentHandler(consoleSvc, logger))
			r.Post("/tenants/{tenantId}/services/{referenceCode}/complete", completeServiceHandler(consoleSvc, logger))
			r.Post("/tenants/{tenantId}/impersonate", impersonateHandler(consoleSvc, logger))

			// Broadcasts
			r.Get("/broadcasts", listBroadcastsHandler(broadcastSvc, logger))
			r.Post("/broadcasts", createBroadcastHandler(broadcastSvc, logger))
			r.Delete("/broadcasts/{broadcastId}", deleteBroadcastHandler(broadcastSvc, logger))

			// Operations
			r.Get("/metrics", opsMetricsHandler(metrics))
			r.Post("/refresh", refreshSnapshotHandler(consoleSvc, logger))
		})
	})

	return r
}

// ============================================================
// Operational endpoints
// ============================================================

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// readyzHandler reports ready only once the first tenant snapshot landed,
// so load balancers hold traffic until the console can answer.
func readyzHandler(consoleSvc *service.ConsoleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !consoleSvc.Ready() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "waiting_for_snapshot"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func opsMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetOpsSnapshot())
	}
}
