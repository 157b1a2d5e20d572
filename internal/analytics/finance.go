package analytics

import "github.com/fluxoclean/console-bfa-go/internal/domain"

// Subscription pricing in BRL. The single-tenant (dedicated
// infrastructure) plan has a fixed base; the e-commerce add-on is
// billed on top of it.
const (
	singleTenantBasePrice = 197.0
	ecommerceAddonPrice   = 100.0
)

// AggregateFinancials walks the tenant collection once and produces the
// revenue card for the dashboard. Blocked is counted independently of
// the plan buckets, so a blocked paying tenant appears in both its plan
// bucket and the blocked counter — and still contributes to MRR.
func AggregateFinancials(tenants []domain.TenantSnapshot) domain.FinancialSummary {
	var out domain.FinancialSummary

	for i := range tenants {
		t := &tenants[i]

		if t.Blocked() {
			out.Counts.Blocked++
		}

		switch t.Plan {
		case domain.PlanTrial:
			out.Counts.Trial++
		case domain.PlanSingleTenant:
			out.MonthlyRecurringRevenue += singleTenantBasePrice
			if t.EcommerceActive {
				out.MonthlyRecurringRevenue += ecommerceAddonPrice
				out.Counts.Bundle++
			} else {
				out.Counts.Exclusive++
			}
		}
	}

	return out
}
