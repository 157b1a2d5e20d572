package platform

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fluxoclean/console-bfa-go/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// idempotencyHeaders stamps a mutation so platform-side retries are safe.
func idempotencyHeaders() map[string]string {
	return map[string]string{"X-Idempotency-Key": uuid.New().String()}
}

// ListTenants fetches the full tenant snapshot.
// Implements port.TenantGateway.
func (c *Client) ListTenants(ctx context.Context) ([]domain.TenantSnapshot, error) {
	ctx, span := tracer.Start(ctx, "Platform.ListTenants")
	defer span.End()

	var tenants []domain.TenantSnapshot
	if err := c.execute(ctx, http.MethodGet, "/admin/tenants", nil, nil, &tenants); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("tenants.count", len(tenants)))
	return tenants, nil
}

// SetTenantStatus blocks or unblocks a tenant.
func (c *Client) SetTenantStatus(ctx context.Context, tenantID, status string) error {
	ctx, span := tracer.Start(ctx, "Platform.SetTenantStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("tenant.id", tenantID),
		attribute.String("tenant.status", status),
	)

	path := fmt.Sprintf("/admin/tenants/%s/status", tenantID)
	body := map[string]string{"status": status}
	return c.execute(ctx, http.MethodPatch, path, idempotencyHeaders(), body, nil)
}

// TogglePaymentApproval flips manual payment approval on a service request.
func (c *Client) TogglePaymentApproval(ctx context.Context, tenantID, referenceCode string) error {
	ctx, span := tracer.Start(ctx, "Platform.TogglePaymentApproval")
	defer span.End()
	span.SetAttributes(
		attribute.String("tenant.id", tenantID),
		attribute.String("request.reference", referenceCode),
	)

	path := fmt.Sprintf("/admin/tenants/%s/payments/%s/toggle", tenantID, referenceCode)
	return c.execute(ctx, http.MethodPost, path, idempotencyHeaders(), nil, nil)
}

// CompleteService marks a queued service request as executed.
func (c *Client) CompleteService(ctx context.Context, tenantID, referenceCode string) error {
	ctx, span := tracer.Start(ctx, "Platform.CompleteService")
	defer span.End()
	span.SetAttributes(
		attribute.String("tenant.id", tenantID),
		attribute.String("request.reference", referenceCode),
	)

	path := fmt.Sprintf("/admin/tenants/%s/services/%s/complete", tenantID, referenceCode)
	return c.execute(ctx, http.MethodPost, path, idempotencyHeaders(), nil, nil)
}

// Impersonate asks the platform for a one-time login URL into the
// tenant's dashboard.
func (c *Client) Impersonate(ctx context.Context, tenantID string) (string, error) {
	ctx, span := tracer.Start(ctx, "Platform.Impersonate")
	defer span.End()
	span.SetAttributes(attribute.String("tenant.id", tenantID))

	var out struct {
		LoginURL string `json:"loginUrl"`
	}
	path := fmt.Sprintf("/admin/tenants/%s/impersonate", tenantID)
	if err := c.execute(ctx, http.MethodPost, path, idempotencyHeaders(), nil, &out); err != nil {
		return "", err
	}
	return out.LoginURL, nil
}
