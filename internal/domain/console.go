package domain

import "time"

// ============================================================
// Derived console views — computed per read, never persisted
// ============================================================

// HealthClass labels a tenant's engagement/risk state for admin triage.
type HealthClass string

const (
	HealthNew         HealthClass = "new"
	HealthCritical    HealthClass = "critical"
	HealthWarning     HealthClass = "warning"
	HealthOpportunity HealthClass = "opportunity"
	HealthHealthy     HealthClass = "healthy"
)

// HealthReport is the classification plus the display strings the
// console renders next to it.
type HealthReport struct {
	Class     HealthClass `json:"class"`
	Reason    string      `json:"reason"`
	Diagnosis string      `json:"diagnosis"`
	Action    string      `json:"action"`
}

// TenantOverview pairs a snapshot with its derived health report for
// the admin tenant listing.
type TenantOverview struct {
	Tenant TenantSnapshot `json:"tenant"`
	Health HealthReport   `json:"health"`
}

// PlanCounts breaks the tenant base down by commercial situation.
// Blocked is counted independently: a blocked tenant still appears in
// its plan bucket.
type PlanCounts struct {
	Trial     int `json:"trial"`
	Exclusive int `json:"exclusive"`
	Bundle    int `json:"bundle"`
	Blocked   int `json:"blocked"`
}

// FinancialSummary aggregates recurring revenue across the tenant base.
type FinancialSummary struct {
	MonthlyRecurringRevenue float64    `json:"monthlyRecurringRevenue"`
	Counts                  PlanCounts `json:"counts"`
}

// InvoiceEntry is one flattened service request row in the recent or
// forecast invoice tables, annotated with its tenant.
type InvoiceEntry struct {
	TenantID      string    `json:"tenantId"`
	CompanyName   string    `json:"companyName"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	Amount        float64   `json:"amount"`
	RequestedAt   time.Time `json:"requestedAt"`
	ReferenceCode string    `json:"referenceCode"`
}

// QueueItem is one entry in the manual-execution service queue.
// Details carries the decoded request payload when the type is known;
// the queue modal renders it next to the raw request.
type QueueItem struct {
	TenantID     string         `json:"tenantId"`
	CompanyName  string         `json:"companyName"`
	Request      ServiceRequest `json:"request"`
	Details      any            `json:"details,omitempty"`
	InternalTask bool           `json:"internalTask"`
}

// ConsoleOverview is the dashboard payload: snapshot-derived tables plus
// the current broadcast list, fetched in one round trip.
type ConsoleOverview struct {
	Tenants    []TenantOverview `json:"tenants"`
	Financials FinancialSummary `json:"financials"`
	Queue      []QueueItem      `json:"serviceQueue"`
	Broadcasts []Broadcast      `json:"broadcasts"`
	FetchedAt  time.Time        `json:"fetchedAt"`
}
