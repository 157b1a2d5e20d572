package service

import (
	"context"
	"strings"
	"time"

	"github.com/fluxoclean/console-bfa-go/internal/domain"
	"github.com/fluxoclean/console-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var broadcastTracer = otel.Tracer("service/broadcast")

// validAudiences the console accepts for new announcements.
var validAudiences = map[string]bool{
	domain.AudienceAll:     true,
	domain.AudienceTrial:   true,
	domain.AudiencePaying:  true,
	domain.AudienceBlocked: true,
}

// BroadcastService manages dashboard announcements through the platform.
type BroadcastService struct {
	gateway port.BroadcastGateway
	logger  *zap.Logger
}

func NewBroadcastService(gateway port.BroadcastGateway, logger *zap.Logger) *BroadcastService {
	return &BroadcastService{gateway: gateway, logger: logger}
}

// List returns announcements, optionally filtered to one calendar month.
// month == 0 disables the filter.
func (s *BroadcastService) List(ctx context.Context, month time.Month, year int) ([]domain.Broadcast, error) {
	ctx, span := broadcastTracer.Start(ctx, "BroadcastService.List")
	defer span.End()

	broadcasts, err := s.gateway.ListBroadcasts(ctx)
	if err != nil {
		return nil, err
	}
	if month == 0 {
		return broadcasts, nil
	}

	filtered := make([]domain.Broadcast, 0, len(broadcasts))
	for _, b := range broadcasts {
		if b.CreatedAt.Month() == month && b.CreatedAt.Year() == year {
			filtered = append(filtered, b)
		}
	}
	span.SetAttributes(attribute.Int("broadcasts.count", len(filtered)))
	return filtered, nil
}

// Create validates and publishes a new announcement.
func (s *BroadcastService) Create(ctx context.Context, in *domain.BroadcastInput) (*domain.Broadcast, error) {
	ctx, span := broadcastTracer.Start(ctx, "BroadcastService.Create")
	defer span.End()

	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)

	if in.Title == "" {
		return nil, &domain.ErrValidation{Field: "title", Message: "Título é obrigatório."}
	}
	if in.Message == "" {
		return nil, &domain.ErrValidation{Field: "message", Message: "Mensagem é obrigatória."}
	}
	if !validAudiences[in.Audience] {
		return nil, &domain.ErrValidation{Field: "audience", Message: "Público-alvo inválido."}
	}

	created, err := s.gateway.CreateBroadcast(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("broadcast created",
		zap.String("broadcast_id", created.ID),
		zap.String("audience", created.Audience),
	)
	return created, nil
}

// Delete removes an announcement.
func (s *BroadcastService) Delete(ctx context.Context, id string) error {
	ctx, span := broadcastTracer.Start(ctx, "BroadcastService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("broadcast.id", id))

	if strings.TrimSpace(id) == "" {
		return &domain.ErrValidation{Field: "id", Message: "Identificador do comunicado ausente."}
	}
	if err := s.gateway.DeleteBroadcast(ctx, id); err != nil {
		return err
	}
	s.logger.Info("broadcast deleted", zap.String("broadcast_id", id))
	return nil
}
