// Package service holds the console use cases on top of the platform
// gateways: snapshot-derived analytics, admin mutations, broadcasts and
// authentication.
package service

import (
	"context"
	"time"

	"github.com/fluxoclean/console-bfa-go/internal/analytics"
	"github.com/fluxoclean/console-bfa-go/internal/domain"
	"github.com/fluxoclean/console-bfa-go/internal/infra/observability"
	"github.com/fluxoclean/console-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service")

// ConsoleService answers the super-admin console: tenant listings with
// health, financial cards, invoice tables, the manual service queue and
// the admin mutations. All reads come from the polled snapshot; every
// mutation goes to the platform and forces a refetch.
type ConsoleService struct {
	snapshot    port.SnapshotSource
	tenants     port.TenantGateway
	broadcasts  port.BroadcastGateway
	manualTypes []string
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewConsoleService wires the console use cases.
func NewConsoleService(
	snapshot port.SnapshotSource,
	tenants port.TenantGateway,
	broadcasts port.BroadcastGateway,
	manualTypes []string,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ConsoleService {
	return &ConsoleService{
		snapshot:    snapshot,
		tenants:     tenants,
		broadcasts:  broadcasts,
		manualTypes: manualTypes,
		metrics:     metrics,
		logger:      logger,
	}
}

// Ready reports whether a tenant snapshot has been loaded.
func (s *ConsoleService) Ready() bool {
	_, _, loaded := s.snapshot.Snapshot()
	return loaded
}

// current returns the latest snapshot or ErrSnapshotUnavailable.
func (s *ConsoleService) current() ([]domain.TenantSnapshot, time.Time, error) {
	tenants, fetchedAt, loaded := s.snapshot.Snapshot()
	if !loaded {
		return nil, time.Time{}, &domain.ErrSnapshotUnavailable{}
	}
	return tenants, fetchedAt, nil
}

// ListTenants returns every tenant with its health report computed at now.
func (s *ConsoleService) ListTenants(ctx context.Context, now time.Time) ([]domain.TenantOverview, error) {
	_, span := tracer.Start(ctx, "ConsoleService.ListTenants")
	defer span.End()

	tenants, _, err := s.current()
	if err != nil {
		return nil, err
	}

	out := make([]domain.TenantOverview, 0, len(tenants))
	for i := range tenants {
		out = append(out, domain.TenantOverview{
			Tenant: tenants[i],
			Health: analytics.ClassifyTenantHealth(&tenants[i], now),
		})
	}
	span.SetAttributes(attribute.Int("tenants.count", len(out)))
	return out, nil
}

// Financials aggregates the revenue card.
func (s *ConsoleService) Financials(ctx context.Context) (domain.FinancialSummary, error) {
	_, span := tracer.Start(ctx, "ConsoleService.Financials")
	defer span.End()

	tenants, _, err := s.current()
	if err != nil {
		return domain.FinancialSummary{}, err
	}
	return analytics.AggregateFinancials(tenants), nil
}

// RecentInvoices lists the latest settled invoices, newest first.
// limit <= 0 falls back to the console default.
func (s *ConsoleService) RecentInvoices(ctx context.Context, limit int) ([]domain.InvoiceEntry, error) {
	_, span := tracer.Start(ctx, "ConsoleService.RecentInvoices")
	defer span.End()

	if limit <= 0 {
		limit = analytics.DefaultRecentInvoiceLimit
	}
	tenants, _, err := s.current()
	if err != nil {
		return nil, err
	}
	return analytics.SelectRecentInvoices(tenants, limit), nil
}

// ForecastInvoices lists awaiting-payment invoices inside a month.
func (s *ConsoleService) ForecastInvoices(ctx context.Context, month time.Month, year int) ([]domain.InvoiceEntry, error) {
	_, span := tracer.Start(ctx, "ConsoleService.ForecastInvoices")
	defer span.End()

	tenants, _, err := s.current()
	if err != nil {
		return nil, err
	}
	return analytics.SelectForecastInvoices(tenants, month, year), nil
}

// ServiceQueue lists the requests waiting for manual execution.
func (s *ConsoleService) ServiceQueue(ctx context.Context) ([]domain.QueueItem, error) {
	_, span := tracer.Start(ctx, "ConsoleService.ServiceQueue")
	defer span.End()

	tenants, _, err := s.current()
	if err != nil {
		return nil, err
	}
	queue := analytics.SelectServiceQueue(tenants, s.manualTypes)
	if s.metrics != nil {
		s.metrics.SetQueueDepth(len(queue))
	}
	return queue, nil
}

// Overview builds the whole dashboard in one call: snapshot-derived
// tables plus the broadcast list, fetched concurrently.
func (s *ConsoleService) Overview(ctx context.Context, now time.Time) (*domain.ConsoleOverview, error) {
	ctx, span := tracer.Start(ctx, "ConsoleService.Overview")
	defer span.End()

	tenants, fetchedAt, err := s.current()
	if err != nil {
		return nil, err
	}

	out := &domain.ConsoleOverview{FetchedAt: fetchedAt}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		overviews := make([]domain.TenantOverview, 0, len(tenants))
		for i := range tenants {
			overviews = append(overviews, domain.TenantOverview{
				Tenant: tenants[i],
				Health: analytics.ClassifyTenantHealth(&tenants[i], now),
			})
		}
		out.Tenants = overviews
		out.Financials = analytics.AggregateFinancials(tenants)
		out.Queue = analytics.SelectServiceQueue(tenants, s.manualTypes)
		return nil
	})
	g.Go(func() error {
		broadcasts, err := s.broadcasts.ListBroadcasts(gctx)
		if err != nil {
			// The dashboard is still useful without announcements.
			s.logger.Warn("overview: broadcasts unavailable", zap.Error(err))
			return nil
		}
		out.Broadcasts = broadcasts
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SetQueueDepth(len(out.Queue))
	}
	return out, nil
}

// ============================================================
// Admin mutations — platform call followed by a snapshot refetch
// ============================================================

// SetTenantStatus blocks or unblocks a tenant.
func (s *ConsoleService) SetTenantStatus(ctx context.Context, tenantID, status string) error {
	ctx, span := tracer.Start(ctx, "ConsoleService.SetTenantStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("tenant.id", tenantID),
		attribute.String("tenant.status", status),
	)

	if status != domain.TenantActive && status != domain.TenantBlocked {
		return &domain.ErrValidation{Field: "status", Message: "status deve ser active ou blocked"}
	}

	if err := s.mutate(ctx, "set_tenant_status", func() error {
		return s.tenants.SetTenantStatus(ctx, tenantID, status)
	}); err != nil {
		return err
	}

	s.logger.Info("tenant status changed",
		zap.String("tenant_id", tenantID),
		zap.String("status", status),
	)
	return nil
}

// ApprovePayment toggles manual payment approval on a service request.
func (s *ConsoleService) ApprovePayment(ctx context.Context, tenantID, referenceCode string) error {
	ctx, span := tracer.Start(ctx, "ConsoleService.ApprovePayment")
	defer span.End()
	span.SetAttributes(
		attribute.String("tenant.id", tenantID),
		attribute.String("request.reference", referenceCode),
	)

	return s.mutate(ctx, "approve_payment", func() error {
		return s.tenants.TogglePaymentApproval(ctx, tenantID, referenceCode)
	})
}

// CompleteService marks a queued request as executed.
func (s *ConsoleService) CompleteService(ctx context.Context, tenantID, referenceCode string) error {
	ctx, span := tracer.Start(ctx, "ConsoleService.CompleteService")
	defer span.End()
	span.SetAttributes(
		attribute.String("tenant.id", tenantID),
		attribute.String("request.reference", referenceCode),
	)

	return s.mutate(ctx, "complete_service", func() error {
		return s.tenants.CompleteService(ctx, tenantID, referenceCode)
	})
}

// Impersonate returns a one-time login URL into the tenant's dashboard.
func (s *ConsoleService) Impersonate(ctx context.Context, tenantID string) (string, error) {
	ctx, span := tracer.Start(ctx, "ConsoleService.Impersonate")
	defer span.End()
	span.SetAttributes(attribute.String("tenant.id", tenantID))

	url, err := s.tenants.Impersonate(ctx, tenantID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncrPlatformError("impersonate")
		}
		return "", err
	}
	s.logger.Info("impersonation issued", zap.String("tenant_id", tenantID))
	return url, nil
}

// RefreshSnapshot forces an immediate snapshot refetch.
func (s *ConsoleService) RefreshSnapshot(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "ConsoleService.RefreshSnapshot")
	defer span.End()
	return s.snapshot.Refresh(ctx)
}

// mutate runs a platform mutation with timing metrics, then refetches
// the snapshot so the console reflects the change.
func (s *ConsoleService) mutate(ctx context.Context, operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	if s.metrics != nil {
		s.metrics.RecordRequestDuration(operation, time.Since(start))
		if err != nil {
			s.metrics.IncrPlatformError(operation)
		}
	}
	if err != nil {
		return err
	}

	if refreshErr := s.snapshot.Refresh(ctx); refreshErr != nil {
		// The mutation took effect; the next poll will catch up.
		s.logger.Warn("post-mutation refresh failed",
			zap.String("operation", operation),
			zap.Error(refreshErr),
		)
	}
	return nil
}
