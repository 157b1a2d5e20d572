package analytics_test

import (
	"testing"

	"github.com/fluxoclean/console-bfa-go/internal/analytics"
	"github.com/fluxoclean/console-bfa-go/internal/domain"
)

func TestAggregateFinancials(t *testing.T) {
	tenants := []domain.TenantSnapshot{
		{ID: "a", Plan: domain.PlanTrial, Status: domain.TenantActive},
		{ID: "b", Plan: domain.PlanSingleTenant, Status: domain.TenantActive},
		{ID: "c", Plan: domain.PlanSingleTenant, Status: domain.TenantActive, EcommerceActive: true},
		{ID: "d", Plan: domain.PlanSingleTenant, Status: domain.TenantBlocked, EcommerceActive: true},
	}

	got := analytics.AggregateFinancials(tenants)

	want := domain.PlanCounts{Trial: 1, Exclusive: 1, Bundle: 2, Blocked: 1}
	if got.Counts != want {
		t.Errorf("counts = %+v, want %+v", got.Counts, want)
	}

	// Blocked tenants still count toward MRR: 197 + (197+100) + (197+100).
	wantMRR := 197.0 + 297.0 + 297.0
	if got.MonthlyRecurringRevenue != wantMRR {
		t.Errorf("MRR = %.2f, want %.2f", got.MonthlyRecurringRevenue, wantMRR)
	}
}

func TestAggregateFinancialsEmpty(t *testing.T) {
	got := analytics.AggregateFinancials(nil)
	if got.MonthlyRecurringRevenue != 0 || got.Counts != (domain.PlanCounts{}) {
		t.Errorf("expected zero summary, got %+v", got)
	}
}

func TestAggregateFinancialsBlockedTrial(t *testing.T) {
	// Blocked is independent of the plan bucket.
	tenants := []domain.TenantSnapshot{
		{ID: "a", Plan: domain.PlanTrial, Status: domain.TenantBlocked},
	}
	got := analytics.AggregateFinancials(tenants)
	if got.Counts.Trial != 1 || got.Counts.Blocked != 1 {
		t.Errorf("counts = %+v, want trial=1 blocked=1", got.Counts)
	}
	if got.MonthlyRecurringRevenue != 0 {
		t.Errorf("trial tenants contribute no MRR, got %.2f", got.MonthlyRecurringRevenue)
	}
}
