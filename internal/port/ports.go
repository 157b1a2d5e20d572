// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/fluxoclean/console-bfa-go/internal/domain"
)

// TenantGateway covers the tenant surface of the platform API: the
// snapshot read plus the discrete admin mutations. Mutations never
// change local state; callers refetch the snapshot afterwards.
type TenantGateway interface {
	ListTenants(ctx context.Context) ([]domain.TenantSnapshot, error)
	SetTenantStatus(ctx context.Context, tenantID, status string) error
	TogglePaymentApproval(ctx context.Context, tenantID, referenceCode string) error
	CompleteService(ctx context.Context, tenantID, referenceCode string) error
	Impersonate(ctx context.Context, tenantID string) (string, error)
}

// BroadcastGateway manages platform-delivered announcements.
type BroadcastGateway interface {
	ListBroadcasts(ctx context.Context) ([]domain.Broadcast, error)
	CreateBroadcast(ctx context.Context, in *domain.BroadcastInput) (*domain.Broadcast, error)
	DeleteBroadcast(ctx context.Context, id string) error
}

// RegistrationGateway covers the signup and password flows the console
// proxies for the marketing site.
type RegistrationGateway interface {
	PreRegister(ctx context.Context, req *domain.PreRegisterRequest) (*domain.PreRegisterResponse, error)
	ValidateRegistrationToken(ctx context.Context, token string) (*domain.PendingRegistration, error)
	CompleteRegistration(ctx context.Context, req *domain.CompleteRegistrationRequest) error
	ForgotPassword(ctx context.Context, email string) error
	ValidateResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, req *domain.ResetPasswordRequest) error
}

// SnapshotSource exposes the latest polled tenant snapshot.
type SnapshotSource interface {
	Snapshot() ([]domain.TenantSnapshot, time.Time, bool)
	Refresh(ctx context.Context) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	SetWithTTL(key string, value T, ttl time.Duration)
	Delete(key string)
	DeleteFunc(match func(value T) bool)
}
