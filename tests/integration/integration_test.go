package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fluxoclean/console-bfa-go/internal/domain"
	"github.com/fluxoclean/console-bfa-go/internal/infra/observability"
	"github.com/fluxoclean/console-bfa-go/internal/infra/platform"
	"github.com/fluxoclean/console-bfa-go/internal/infra/resilience"
	"github.com/fluxoclean/console-bfa-go/internal/poller"
	"github.com/fluxoclean/console-bfa-go/internal/service"

	"go.uber.org/zap"
)

// TestIntegration_FullFlow spins up a mock platform API and tests the full
// snapshot-to-dashboard flow: poll, classify, aggregate, mutate, refetch.
func TestIntegration_FullFlow(t *testing.T) {
	var statusPatched atomic.Bool

	login := time.Now().Add(-24 * time.Hour)
	tenants := []domain.TenantSnapshot{
		{
			ID:          "t-trial",
			CompanyName: "Padaria do João",
			Plan:        domain.PlanTrial,
			Status:      domain.TenantActive,
			CreatedAt:   time.Now().Add(-10 * 24 * time.Hour),
			Telemetry:   domain.Telemetry{LastLoginAt: &login, SalesCountMonth: 12},
			ServiceRequests: []domain.ServiceRequest{
				{
					Type:          domain.RequestGoogleMaps,
					Status:        domain.StatusPending,
					Amount:        0,
					RequestedAt:   time.Now().Add(-time.Hour),
					ReferenceCode: "sr-1",
				},
			},
		},
		{
			ID:              "t-paying",
			CompanyName:     "Auto Peças Silva",
			Plan:            domain.PlanSingleTenant,
			Status:          domain.TenantActive,
			EcommerceActive: true,
			CreatedAt:       time.Now().Add(-200 * 24 * time.Hour),
			Telemetry:       domain.Telemetry{LastLoginAt: &login, SalesCountMonth: 80},
		},
	}

	// --- Mock platform API ---
	platformServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/admin/tenants":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(tenants)
		case r.Method == http.MethodPatch && r.URL.Path == "/admin/tenants/t-trial/status":
			if r.Header.Get("X-Idempotency-Key") == "" {
				t.Error("mutation arrived without idempotency key")
			}
			statusPatched.Store(true)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer platformServer.Close()

	// --- Build the console stack ---
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cb := resilience.NewCircuitBreaker("test")
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 10}
	httpClient := &http.Client{Timeout: 5 * time.Second}

	client := platform.NewClient(httpClient, platformServer.URL, "test-key", cb, cfg, logger)

	p := poller.New(client.ListTenants, time.Hour, metrics, logger)
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("initial snapshot fetch failed: %v", err)
	}

	svc := service.NewConsoleService(
		p,
		client,
		client,
		[]string{domain.RequestGoogleMaps, domain.RequestUpgrade},
		metrics,
		logger,
	)

	// --- Dashboard reads ---
	overviews, err := svc.ListTenants(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("list tenants failed: %v", err)
	}
	if len(overviews) != 2 {
		t.Fatalf("expected 2 tenants, got %d", len(overviews))
	}

	financials, err := svc.Financials(context.Background())
	if err != nil {
		t.Fatalf("financials failed: %v", err)
	}
	// One single_tenant plan with the e-commerce add-on.
	if financials.MonthlyRecurringRevenue != 297 {
		t.Errorf("expected MRR 297, got %v", financials.MonthlyRecurringRevenue)
	}
	if financials.Counts.Trial != 1 {
		t.Errorf("expected 1 trial tenant, got %d", financials.Counts.Trial)
	}

	queue, err := svc.ServiceQueue(context.Background())
	if err != nil {
		t.Fatalf("service queue failed: %v", err)
	}
	if len(queue) != 1 || queue[0].Request.ReferenceCode != "sr-1" {
		t.Fatalf("expected the pending google_maps task in the queue, got %+v", queue)
	}
	if !queue[0].InternalTask {
		t.Error("zero-amount request must be flagged as internal task")
	}

	// --- Mutation goes to the platform and triggers a refetch ---
	if err := svc.SetTenantStatus(context.Background(), "t-trial", domain.TenantBlocked); err != nil {
		t.Fatalf("set tenant status failed: %v", err)
	}
	if !statusPatched.Load() {
		t.Error("status mutation never reached the platform")
	}
}
