package platform

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fluxoclean/console-bfa-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// PreRegister forwards a normalized signup to the platform, which
// creates a pending registration and sends the completion e-mail.
// Implements port.RegistrationGateway.
func (c *Client) PreRegister(ctx context.Context, req *domain.PreRegisterRequest) (*domain.PreRegisterResponse, error) {
	ctx, span := tracer.Start(ctx, "Platform.PreRegister")
	defer span.End()
	span.SetAttributes(attribute.String("registration.system_type", req.SystemType))

	var out domain.PreRegisterResponse
	if err := c.execute(ctx, http.MethodPost, "/auth/pre-register", idempotencyHeaders(), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateRegistrationToken checks an email-gated completion token.
func (c *Client) ValidateRegistrationToken(ctx context.Context, token string) (*domain.PendingRegistration, error) {
	ctx, span := tracer.Start(ctx, "Platform.ValidateRegistrationToken")
	defer span.End()

	var out domain.PendingRegistration
	body := domain.RegistrationTokenRequest{Token: token}
	if err := c.execute(ctx, http.MethodPost, "/auth/validate-registration", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteRegistration finishes a pending signup.
func (c *Client) CompleteRegistration(ctx context.Context, req *domain.CompleteRegistrationRequest) error {
	ctx, span := tracer.Start(ctx, "Platform.CompleteRegistration")
	defer span.End()

	return c.execute(ctx, http.MethodPost, "/auth/complete-registration", idempotencyHeaders(), req, nil)
}

// ForgotPassword asks the platform to e-mail a reset token.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	ctx, span := tracer.Start(ctx, "Platform.ForgotPassword")
	defer span.End()

	body := domain.ForgotPasswordRequest{Email: email}
	return c.execute(ctx, http.MethodPost, "/auth/forgot-password", nil, body, nil)
}

// ValidateResetToken checks that a reset token is still usable.
func (c *Client) ValidateResetToken(ctx context.Context, token string) error {
	ctx, span := tracer.Start(ctx, "Platform.ValidateResetToken")
	defer span.End()

	path := fmt.Sprintf("/auth/reset-password/%s", token)
	return c.execute(ctx, http.MethodGet, path, nil, nil, nil)
}

// ResetPassword sets a new password using an emailed token.
func (c *Client) ResetPassword(ctx context.Context, req *domain.ResetPasswordRequest) error {
	ctx, span := tracer.Start(ctx, "Platform.ResetPassword")
	defer span.End()

	return c.execute(ctx, http.MethodPost, "/auth/reset-password", idempotencyHeaders(), req, nil)
}
