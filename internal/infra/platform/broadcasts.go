package platform

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fluxoclean/console-bfa-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ListBroadcasts fetches every active announcement.
// Implements port.BroadcastGateway.
func (c *Client) ListBroadcasts(ctx context.Context) ([]domain.Broadcast, error) {
	ctx, span := tracer.Start(ctx, "Platform.ListBroadcasts")
	defer span.End()

	var broadcasts []domain.Broadcast
	if err := c.execute(ctx, http.MethodGet, "/communication/broadcasts", nil, nil, &broadcasts); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("broadcasts.count", len(broadcasts)))
	return broadcasts, nil
}

// CreateBroadcast publishes a new announcement to tenant dashboards.
func (c *Client) CreateBroadcast(ctx context.Context, in *domain.BroadcastInput) (*domain.Broadcast, error) {
	ctx, span := tracer.Start(ctx, "Platform.CreateBroadcast")
	defer span.End()
	span.SetAttributes(attribute.String("broadcast.audience", in.Audience))

	var out domain.Broadcast
	if err := c.execute(ctx, http.MethodPost, "/communication/admin/broadcasts", idempotencyHeaders(), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBroadcast removes an announcement.
func (c *Client) DeleteBroadcast(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Platform.DeleteBroadcast")
	defer span.End()
	span.SetAttributes(attribute.String("broadcast.id", id))

	path := fmt.Sprintf("/communication/admin/broadcasts/%s", id)
	return c.execute(ctx, http.MethodDelete, path, idempotencyHeaders(), nil, nil)
}
