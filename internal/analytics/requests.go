package analytics

import (
	"sort"
	"time"

	"github.com/fluxoclean/console-bfa-go/internal/domain"
)

// DefaultRecentInvoiceLimit caps the "latest invoices" table.
const DefaultRecentInvoiceLimit = 15

// settledStatuses make up the paid side of the invoice tables.
var settledStatuses = map[string]bool{
	domain.StatusApproved:  true,
	domain.StatusCompleted: true,
}

// awaitingStatuses make up the forecast (not yet paid) side.
var awaitingStatuses = map[string]bool{
	domain.StatusPending:        true,
	domain.StatusWaitingPayment: true,
}

func invoiceEntry(t *domain.TenantSnapshot, r *domain.ServiceRequest) domain.InvoiceEntry {
	return domain.InvoiceEntry{
		TenantID:      t.ID,
		CompanyName:   t.CompanyName,
		Type:          r.Type,
		Status:        r.Status,
		Amount:        r.Amount,
		RequestedAt:   r.RequestedAt,
		ReferenceCode: r.ReferenceCode,
	}
}

// SelectRecentInvoices flattens every settled service request across the
// tenant base, newest first, truncated to limit. The sort is stable so
// ties keep tenant-then-request encounter order.
func SelectRecentInvoices(tenants []domain.TenantSnapshot, limit int) []domain.InvoiceEntry {
	entries := make([]domain.InvoiceEntry, 0)
	for i := range tenants {
		t := &tenants[i]
		for j := range t.ServiceRequests {
			r := &t.ServiceRequests[j]
			if settledStatuses[r.Status] {
				entries = append(entries, invoiceEntry(t, r))
			}
		}
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].RequestedAt.After(entries[b].RequestedAt)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// SelectForecastInvoices flattens every awaiting-payment request whose
// requestedAt falls inside the given calendar month, oldest first.
func SelectForecastInvoices(tenants []domain.TenantSnapshot, month time.Month, year int) []domain.InvoiceEntry {
	entries := make([]domain.InvoiceEntry, 0)
	for i := range tenants {
		t := &tenants[i]
		for j := range t.ServiceRequests {
			r := &t.ServiceRequests[j]
			if !awaitingStatuses[r.Status] {
				continue
			}
			if r.RequestedAt.Month() != month || r.RequestedAt.Year() != year {
				continue
			}
			entries = append(entries, invoiceEntry(t, r))
		}
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].RequestedAt.Before(entries[b].RequestedAt)
	})
	return entries
}

// SelectServiceQueue builds the manual-execution queue, newest first.
// Two kinds of work land here: internal zero-amount directory tasks
// created by the platform, and paid requests already approved whose type
// requires manual execution. The manual type set is deployment
// configuration, not a constant.
func SelectServiceQueue(tenants []domain.TenantSnapshot, manualTypes []string) []domain.QueueItem {
	manual := make(map[string]bool, len(manualTypes))
	for _, t := range manualTypes {
		manual[t] = true
	}

	items := make([]domain.QueueItem, 0)
	for i := range tenants {
		t := &tenants[i]
		for j := range t.ServiceRequests {
			r := &t.ServiceRequests[j]

			internal := r.InternalTask() &&
				r.Status == domain.StatusPending &&
				r.Type == domain.RequestGoogleMaps
			paid := !r.InternalTask() &&
				r.Status == domain.StatusApproved &&
				manual[r.Type]

			if !internal && !paid {
				continue
			}
			item := domain.QueueItem{
				TenantID:     t.ID,
				CompanyName:  t.CompanyName,
				Request:      *r,
				InternalTask: internal,
			}
			// A payload that fails to decode still queues; the raw
			// JSON rides along in Request.
			if details, err := r.DecodePayload(); err == nil {
				item.Details = details
			}
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Request.RequestedAt.After(items[b].Request.RequestedAt)
	})
	return items
}
