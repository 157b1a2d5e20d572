package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ============================================================
// Tenant snapshot — read-only records owned by the platform API
// ============================================================

// Plan identifiers as reported by the platform API.
const (
	PlanTrial        = "trial"
	PlanSingleTenant = "single_tenant"
)

// Tenant status values.
const (
	TenantActive  = "active"
	TenantBlocked = "blocked"
)

// System types offered by the platform.
const (
	SystemCommerce = "commerce"
	SystemIndustry = "industry"
	SystemServices = "services"
)

// Telemetry holds the usage counters the platform reports per tenant.
// Counters reset monthly; a missing LastLoginAt means the owner never
// logged in.
type Telemetry struct {
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty"`
	SalesCountMonth int        `json:"salesCountMonth"`
	RevenueMonth    float64    `json:"revenueMonth"`
	ProductCount    int        `json:"productCount"`
}

// TenantOwner identifies the person responsible for the tenant account.
type TenantOwner struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Document string `json:"document,omitempty"`
}

// TenantSnapshot describes one customer organization as returned by the
// platform API. The console never mutates a snapshot locally; admin
// actions are sent back to the platform and followed by a refetch.
type TenantSnapshot struct {
	ID              string           `json:"id"`
	CompanyName     string           `json:"companyName"`
	Document        string           `json:"document"`
	SystemType      string           `json:"systemType"`
	Plan            string           `json:"plan"`
	Status          string           `json:"status"`
	EcommerceActive bool             `json:"ecommerceActive"`
	CreatedAt       time.Time        `json:"createdAt"`
	TrialEndsAt     *time.Time       `json:"trialEndsAt,omitempty"`
	Owner           TenantOwner      `json:"owner"`
	Telemetry       Telemetry        `json:"telemetry"`
	ServiceRequests []ServiceRequest `json:"serviceRequests"`
}

// Blocked reports whether the tenant is blocked.
func (t *TenantSnapshot) Blocked() bool {
	return t.Status == TenantBlocked
}

// ============================================================
// Service requests
// ============================================================

// Service request types.
const (
	RequestExtension  = "extension"
	RequestUpgrade    = "upgrade"
	RequestMigrate    = "migrate"
	RequestMonthly    = "monthly"
	RequestGoogleMaps = "google_maps"
	RequestEcommerce  = "ecommerce"
	RequestDomain     = "domain"
)

// Service request statuses. Lifecycle owned by the platform API:
// pending → waiting_payment → approved → completed, pending → rejected,
// with waiting_switch as a transient state between approved and
// completed for infrastructure-switch requests.
const (
	StatusPending        = "pending"
	StatusWaitingPayment = "waiting_payment"
	StatusApproved       = "approved"
	StatusRejected       = "rejected"
	StatusCompleted      = "completed"
	StatusWaitingSwitch  = "waiting_switch"
)

// ServiceRequest is a discrete unit of work or entitlement change for a
// tenant. Amount == 0 marks an internally generated task; anything else
// is a customer-paid request.
type ServiceRequest struct {
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Amount        float64         `json:"amount"`
	RequestedAt   time.Time       `json:"requestedAt"`
	ReferenceCode string          `json:"referenceCode"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// InternalTask reports whether the request was generated by the platform
// itself rather than paid for by the customer.
func (r *ServiceRequest) InternalTask() bool {
	return r.Amount == 0
}

// ============================================================
// Request payloads — one variant per request type
// ============================================================

// GoogleMapsPayload carries the business-listing data for a directory task.
type GoogleMapsPayload struct {
	BusinessName string `json:"businessName"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	Category     string `json:"category,omitempty"`
}

// UpgradePayload carries the target plan for a plan-change request.
type UpgradePayload struct {
	TargetPlan     string `json:"targetPlan"`
	WithEcommerce  bool   `json:"withEcommerce"`
	BillingCycle   string `json:"billingCycle,omitempty"`
	RequestedSeats int    `json:"requestedSeats,omitempty"`
}

// MigratePayload carries the source system info for a data migration.
type MigratePayload struct {
	SourceSystem string `json:"sourceSystem"`
	RecordCount  int    `json:"recordCount,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ExtensionPayload carries the requested trial extension length.
type ExtensionPayload struct {
	Days   int    `json:"days"`
	Reason string `json:"reason,omitempty"`
}

// MonthlyPayload carries the billing period of a recurring invoice.
type MonthlyPayload struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// EcommercePayload carries the storefront settings for an e-commerce add-on.
type EcommercePayload struct {
	StoreName string `json:"storeName"`
	Subdomain string `json:"subdomain,omitempty"`
}

// DomainPayload carries the custom domain being registered.
type DomainPayload struct {
	DomainName string `json:"domainName"`
	DNSManaged bool   `json:"dnsManaged"`
}

// DecodePayload decodes the raw payload into the variant struct matching
// the request type. A nil payload decodes to nil without error; an
// unknown type is an error so new platform request types fail loudly.
func (r *ServiceRequest) DecodePayload() (any, error) {
	if len(r.Payload) == 0 {
		return nil, nil
	}

	decode := func(v any) (any, error) {
		if err := json.Unmarshal(r.Payload, v); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", r.Type, err)
		}
		return v, nil
	}

	switch r.Type {
	case RequestGoogleMaps:
		return decode(&GoogleMapsPayload{})
	case RequestUpgrade:
		return decode(&UpgradePayload{})
	case RequestMigrate:
		return decode(&MigratePayload{})
	case RequestExtension:
		return decode(&ExtensionPayload{})
	case RequestMonthly:
		return decode(&MonthlyPayload{})
	case RequestEcommerce:
		return decode(&EcommercePayload{})
	case RequestDomain:
		return decode(&DomainPayload{})
	default:
		return nil, fmt.Errorf("unknown service request type: %q", r.Type)
	}
}
