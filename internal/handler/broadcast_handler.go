package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/fluxoclean/console-bfa-go/internal/domain"
	"github.com/fluxoclean/console-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Broadcasts (Comunicados)
// ============================================================

func listBroadcastsHandler(svc *service.BroadcastService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/admin/broadcasts")
		defer span.End()

		// Unfiltered unless ?month=M&year=Y is present.
		var month time.Month
		year := time.Now().Year()
		if v := r.URL.Query().Get("month"); v != "" {
			if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
				month = time.Month(m)
			}
		}
		if v := r.URL.Query().Get("year"); v != "" {
			if y, err := strconv.Atoi(v); err == nil && y > 2000 {
				year = y
			}
		}

		broadcasts, err := svc.List(ctx, month, year)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"broadcasts": broadcasts})
	}
}

func createBroadcastHandler(svc *service.BroadcastService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/admin/broadcasts")
		defer span.End()

		var in domain.BroadcastInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		created, err := svc.Create(ctx, &in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func deleteBroadcastHandler(svc *service.BroadcastService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/admin/broadcasts/{broadcastId}")
		defer span.End()

		id := chi.URLParam(r, "broadcastId")
		if err := svc.Delete(ctx, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
