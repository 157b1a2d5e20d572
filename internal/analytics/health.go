// Package analytics derives the admin console views from tenant
// snapshots: health classification, financial aggregation and
// service-request queues. Everything here is pure — the current time is
// always an explicit parameter so results are reproducible in tests.
package analytics

import (
	"time"

	"github.com/fluxoclean/console-bfa-go/internal/domain"
)

// healthInput is the handful of derived values the rules look at.
type healthInput struct {
	daysSinceCreation float64
	daysSinceLogin    float64 // +Inf semantics via neverLoggedIn
	neverLoggedIn     bool
	salesCountMonth   int
	revenueMonth      float64
	plan              string
}

type healthRule struct {
	class domain.HealthClass
	match func(in healthInput) bool
}

// healthRules is evaluated top to bottom; the first match wins. The
// order is deliberate — categories overlap (a high-revenue tenant that
// stopped logging in is critical, not an opportunity).
var healthRules = []healthRule{
	{domain.HealthNew, func(in healthInput) bool {
		return in.daysSinceCreation < 3 && in.salesCountMonth == 0
	}},
	{domain.HealthCritical, func(in healthInput) bool {
		return in.neverLoggedIn || in.daysSinceLogin > 7
	}},
	{domain.HealthWarning, func(in healthInput) bool {
		return in.daysSinceLogin < 3 && in.salesCountMonth == 0 && in.daysSinceCreation > 3
	}},
	{domain.HealthOpportunity, func(in healthInput) bool {
		return in.plan == domain.PlanTrial && (in.salesCountMonth > 50 || in.revenueMonth > 5000)
	}},
	{domain.HealthHealthy, func(in healthInput) bool {
		return true
	}},
}

// healthDisplay carries the fixed strings rendered next to each class.
var healthDisplay = map[domain.HealthClass]domain.HealthReport{
	domain.HealthNew: {
		Class:     domain.HealthNew,
		Reason:    "Onboarding",
		Diagnosis: "Novo",
		Action:    "Acompanhar",
	},
	domain.HealthCritical: {
		Class:     domain.HealthCritical,
		Reason:    "Inativo",
		Diagnosis: "Risco Churn",
		Action:    "Contatar",
	},
	domain.HealthWarning: {
		Class:     domain.HealthWarning,
		Reason:    "Sem Vendas",
		Diagnosis: "Baixo Engajamento",
		Action:    "Oferecer Treinamento",
	},
	domain.HealthOpportunity: {
		Class:     domain.HealthOpportunity,
		Reason:    "Alto Uso no Trial",
		Diagnosis: "Pronto para Upgrade",
		Action:    "Oferecer Plano Exclusive",
	},
	domain.HealthHealthy: {
		Class:     domain.HealthHealthy,
		Reason:    "Ativo",
		Diagnosis: "OK",
		Action:    "Manter",
	},
}

// ClassifyTenantHealth derives the health report for one tenant at the
// given instant. Missing telemetry degrades gracefully: no last login
// means maximal inactivity, missing counters count as zero.
func ClassifyTenantHealth(t *domain.TenantSnapshot, now time.Time) domain.HealthReport {
	in := healthInput{
		daysSinceCreation: now.Sub(t.CreatedAt).Hours() / 24,
		neverLoggedIn:     t.Telemetry.LastLoginAt == nil,
		salesCountMonth:   t.Telemetry.SalesCountMonth,
		revenueMonth:      t.Telemetry.RevenueMonth,
		plan:              t.Plan,
	}
	if t.Telemetry.LastLoginAt != nil {
		in.daysSinceLogin = now.Sub(*t.Telemetry.LastLoginAt).Hours() / 24
	}

	for _, rule := range healthRules {
		if rule.match(in) {
			return healthDisplay[rule.class]
		}
	}
	// Unreachable: the last rule always matches.
	return healthDisplay[domain.HealthHealthy]
}
