package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fluxoclean/console-bfa-go/internal/domain"
	"github.com/fluxoclean/console-bfa-go/internal/validation"

	"go.uber.org/zap"
)

// ============================================================
// Public signup flows — validated locally, executed by the platform
// ============================================================

// validSystemTypes gates the segment picker of the signup form.
var validSystemTypes = map[string]bool{
	domain.SystemCommerce: true,
	domain.SystemIndustry: true,
	domain.SystemServices: true,
}

// PreRegister validates and normalizes a signup form, then forwards it
// to the platform. The document travels digits-only; the company name is
// canonicalized before storage.
func (s *AuthService) PreRegister(ctx context.Context, req *domain.PreRegisterRequest) (*domain.PreRegisterResponse, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.PreRegister")
	defer span.End()

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validation.ValidateName(req.CompanyName) {
		return nil, &domain.ErrValidation{Field: "companyName", Message: "Nome muito curto ou inválido."}
	}
	if !validation.ValidateRegister(req.Document) {
		return nil, &domain.ErrValidation{Field: "document", Message: "CPF ou CNPJ inválido."}
	}
	if !validation.ValidateEmail(email) {
		return nil, &domain.ErrValidation{Field: "email", Message: "Formato de e-mail inválido."}
	}
	if !validSystemTypes[req.SystemType] {
		return nil, &domain.ErrValidation{Field: "systemType", Message: "Tipo de sistema inválido."}
	}

	normalized := &domain.PreRegisterRequest{
		CompanyName: validation.FormatName(req.CompanyName),
		Document:    validation.Digits(req.Document),
		SystemType:  req.SystemType,
		Email:       email,
	}

	resp, err := s.registrations.PreRegister(ctx, normalized)
	if err != nil {
		return nil, err
	}
	s.logger.Info("pre-registration created",
		zap.String("registration_id", resp.RegistrationID),
		zap.String("system_type", normalized.SystemType),
	)
	return resp, nil
}

// ValidateRegistrationToken resolves an email-gated completion token to
// its pending registration.
func (s *AuthService) ValidateRegistrationToken(ctx context.Context, token string) (*domain.PendingRegistration, error) {
	ctx, span := authTracer.Start(ctx, "AuthService.ValidateRegistrationToken")
	defer span.End()

	if strings.TrimSpace(token) == "" {
		return nil, &domain.ErrValidation{Field: "token", Message: "Token de cadastro ausente."}
	}
	return s.registrations.ValidateRegistrationToken(ctx, token)
}

// CompleteRegistration finishes a signup: validates the owner name and
// password, then lets the platform create the account.
func (s *AuthService) CompleteRegistration(ctx context.Context, req *domain.CompleteRegistrationRequest) error {
	ctx, span := authTracer.Start(ctx, "AuthService.CompleteRegistration")
	defer span.End()

	if strings.TrimSpace(req.Token) == "" {
		return &domain.ErrValidation{Field: "token", Message: "Token de cadastro ausente."}
	}
	if !validation.ValidateName(req.UserName) {
		return &domain.ErrValidation{Field: "userName", Message: "Nome muito curto ou inválido."}
	}
	if !validation.CheckPasswordStrength(req.Password).Acceptable() {
		return &domain.ErrValidation{Field: "password", Message: "Senha não atende aos requisitos mínimos."}
	}

	normalized := &domain.CompleteRegistrationRequest{
		Token:    req.Token,
		UserName: validation.FormatName(req.UserName),
		Password: req.Password,
	}
	if err := s.registrations.CompleteRegistration(ctx, normalized); err != nil {
		return err
	}
	s.logger.Info("registration completed")
	return nil
}

// ============================================================
// Password reset flows
// ============================================================

// ForgotPassword starts a tenant-user password reset. The response is
// uniform whether or not the email exists; only malformed input errors.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	ctx, span := authTracer.Start(ctx, "AuthService.ForgotPassword")
	defer span.End()

	normalized := strings.ToLower(strings.TrimSpace(email))
	if !validation.ValidateEmail(normalized) {
		return &domain.ErrValidation{Field: "email", Message: "Formato de e-mail inválido."}
	}
	return s.registrations.ForgotPassword(ctx, normalized)
}

// ValidateResetToken checks whether an emailed reset token is still
// good. Probe results are cached briefly so page reloads don't hammer
// the platform.
func (s *AuthService) ValidateResetToken(ctx context.Context, token string) error {
	ctx, span := authTracer.Start(ctx, "AuthService.ValidateResetToken")
	defer span.End()

	if strings.TrimSpace(token) == "" {
		return &domain.ErrValidation{Field: "token", Message: "Token de redefinição ausente."}
	}

	key := hashToken(token)
	if valid, ok := s.resetProbes.Get(key); ok {
		if valid {
			return nil
		}
		return &domain.ErrInvalidToken{}
	}

	err := s.registrations.ValidateResetToken(ctx, token)
	var invalid *domain.ErrInvalidToken
	switch {
	case err == nil:
		s.resetProbes.Set(key, true)
		return nil
	case errors.As(err, &invalid):
		s.resetProbes.Set(key, false)
		return err
	default:
		// Transient failures are not cached.
		return err
	}
}

// ResetPassword sets a new password through an emailed token.
func (s *AuthService) ResetPassword(ctx context.Context, req *domain.ResetPasswordRequest) error {
	ctx, span := authTracer.Start(ctx, "AuthService.ResetPassword")
	defer span.End()

	if strings.TrimSpace(req.Token) == "" {
		return &domain.ErrValidation{Field: "token", Message: "Token de redefinição ausente."}
	}
	if !validation.CheckPasswordStrength(req.Password).Acceptable() {
		return &domain.ErrValidation{Field: "password", Message: "Senha não atende aos requisitos mínimos."}
	}
	if err := s.registrations.ResetPassword(ctx, req); err != nil {
		return err
	}
	// The token is consumed; a cached "valid" probe would now lie.
	s.resetProbes.Delete(hashToken(req.Token))
	s.logger.Info("password reset completed")
	return nil
}
