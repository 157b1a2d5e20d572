package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fluxoclean/console-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Dashboard reads — all served from the polled snapshot
// ============================================================

func overviewHandler(svc *service.ConsoleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/overview")
		defer span.End()

		overview, err := svc.Overview(ctx, time.Now())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, overview)
	}
}

func listTenantsHandler(svc *service.ConsoleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/tenants")
		defer span.End()

		tenants, err := svc.ListTenants(ctx, time.Now())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int("tenants.count", len(tenants)))
		writeJSON(w, http.StatusOK, map[string]any{"tenants": tenants})
	}
}

func financialsHandler(svc *service.ConsoleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/financials")
		defer span.End()

		summary, err := svc.Financials(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func recentInvoicesHandler(svc *service.ConsoleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/invoices/recent")
		defer span.End()

		invoices, err := svc.RecentInvoices(ctx, parseLimit(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"invoices": invoices})
	}
}

func forecastInvoicesHandler(svc *service.ConsoleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/invoices/forecast")
		defer span.End()

		month, year := parseMonthYear(r, time.Now())
		invoices, err := svc.ForecastInvoices(ctx, month, year)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"month":    int(month),
			"year":     year,
			"invoices": invoices,
		})
	}
}

func serviceQueueHandler(svc *service.ConsoleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/services/queue")
		defer span.End()

		queue, err := svc.ServiceQueue(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"queue": queue})
	}
}

// ============================================================
// Tenant mutations
// ============================================================

func setTenantStatusHandler(svc *service.ConsoleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/admin/tenants/{tenantId}/status")
		defer span.End()

		tenantID := chi.URLParam(r, "tenantId")
		span.SetAttributes(attribute.String("tenant.id", tenantID))

		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := svc.SetTenantStatus(ctx, tenantID, req.Status); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"tenantId": tenantID,
			"status":   req.Status,
		})
	}
}

func approvePaymentHandler(svc *service.ConsoleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/tenants/{tenantId}/payments/{referenceCode}/toggle")
		defer span.End()

		tenantID := chi.URLParam(r, "tenantId")
		referenceCode := chi.URLParam(r, "referenceCode")

		if err := svc.ApprovePayment(ctx, tenantID, referenceCode); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func completeServiceHandler(svc *service.ConsoleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/tenants/{tenantId}/services/{referenceCode}/complete")
		defer span.End()

		tenantID := chi.URLParam(r, "tenantId")
		referenceCode := chi.URLParam(r, "referenceCode")

		if err := svc.CompleteService(ctx, tenantID, referenceCode); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func impersonateHandler(svc *service.ConsoleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/tenants/{tenantId}/impersonate")
		defer span.End()

		tenantID := chi.URLParam(r, "tenantId")
		loginURL, err := svc.Impersonate(ctx, tenantID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		logger.Info("impersonation requested",
			zap.String("tenant_id", tenantID),
			zap.String("admin", AdminEmailFromContext(ctx)),
		)
		writeJSON(w, http.StatusOK, map[string]string{"loginUrl": loginURL})
	}
}

func refreshSnapshotHandler(svc *service.ConsoleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/refresh")
		defer span.End()

		if err := svc.RefreshSnapshot(ctx); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}
