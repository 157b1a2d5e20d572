package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fluxoclean/console-bfa-go/internal/domain"
	"github.com/fluxoclean/console-bfa-go/internal/infra/cache"
	"github.com/fluxoclean/console-bfa-go/internal/service"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// --- Mocks ---

type mockRegistrationGateway struct {
	preRegister     *domain.PreRegisterRequest
	pending         *domain.PendingRegistration
	completed       *domain.CompleteRegistrationRequest
	forgotEmail     string
	resetProbeCalls int
	err             error
}

func (m *mockRegistrationGateway) PreRegister(_ context.Context, req *domain.PreRegisterRequest) (*domain.PreRegisterResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.preRegister = req
	return &domain.PreRegisterResponse{RegistrationID: "reg-1", Email: req.Email}, nil
}

func (m *mockRegistrationGateway) ValidateRegistrationToken(_ context.Context, _ string) (*domain.PendingRegistration, error) {
	return m.pending, m.err
}

func (m *mockRegistrationGateway) CompleteRegistration(_ context.Context, req *domain.CompleteRegistrationRequest) error {
	m.completed = req
	return m.err
}

func (m *mockRegistrationGateway) ForgotPassword(_ context.Context, email string) error {
	m.forgotEmail = email
	return m.err
}

func (m *mockRegistrationGateway) ValidateResetToken(_ context.Context, _ string) error {
	m.resetProbeCalls++
	return m.err
}

func (m *mockRegistrationGateway) ResetPassword(_ context.Context, _ *domain.ResetPasswordRequest) error {
	return m.err
}

// --- Fixtures ---

const (
	adminEmail    = "admin@fluxoclean.com.br"
	adminPassword = "Sup3r!Segredo"
)

func newAuth(t *testing.T, gw *mockRegistrationGateway) (*service.AuthService, *cache.InMemory[service.RefreshSession]) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash fixture password: %v", err)
	}
	sessions := cache.New[service.RefreshSession](time.Hour)
	t.Cleanup(sessions.Close)
	resetProbes := cache.New[bool](time.Minute)
	t.Cleanup(resetProbes.Close)

	svc := service.NewAuthService(
		gw,
		sessions,
		resetProbes,
		"test-secret-key-with-32-characters",
		15*time.Minute,
		7*24*time.Hour,
		adminEmail,
		string(hash),
		zap.NewNop(),
	)
	return svc, sessions
}

// --- Login / token tests ---

func TestLogin_Success(t *testing.T) {
	svc, _ := newAuth(t, &mockRegistrationGateway{})

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "  Admin@FluxoClean.com.br ",
		Password: adminPassword,
	})
	if err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
	if resp.Email != adminEmail {
		t.Errorf("expected email %q, got %q", adminEmail, resp.Email)
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("unexpected expiresIn: %d", resp.ExpiresIn)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuth(t, &mockRegistrationGateway{})

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    adminEmail,
		Password: "errada",
	})
	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newAuth(t, &mockRegistrationGateway{})

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "intruso@example.com",
		Password: adminPassword,
	})
	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestValidateAccessToken_RoundTrip(t *testing.T) {
	svc, _ := newAuth(t, &mockRegistrationGateway{})

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{Email: adminEmail, Password: adminPassword})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := svc.ValidateAccessToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if claims.Sub != adminEmail {
		t.Errorf("expected sub %q, got %q", adminEmail, claims.Sub)
	}
	if claims.Type != "access" {
		t.Errorf("expected type access, got %q", claims.Type)
	}
}

func TestValidateAccessToken_RejectsGarbage(t *testing.T) {
	svc, _ := newAuth(t, &mockRegistrationGateway{})

	if _, err := svc.ValidateAccessToken("not.a.jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _ := newAuth(t, &mockRegistrationGateway{})

	login, err := svc.Login(context.Background(), &domain.LoginRequest{Email: adminEmail, Password: adminPassword})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), &domain.RefreshRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("refresh must rotate the refresh token")
	}

	// The old token is dead after rotation.
	if _, err := svc.Refresh(context.Background(), &domain.RefreshRequest{RefreshToken: login.RefreshToken}); err == nil {
		t.Fatal("expected rotated-out token to be rejected")
	}
}

func TestLogout_RevokesSessions(t *testing.T) {
	svc, _ := newAuth(t, &mockRegistrationGateway{})

	login, err := svc.Login(context.Background(), &domain.LoginRequest{Email: adminEmail, Password: adminPassword})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), adminEmail); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), &domain.RefreshRequest{RefreshToken: login.RefreshToken}); err == nil {
		t.Fatal("expected refresh to fail after logout")
	}
}

// --- Signup flow tests ---

func TestPreRegister_NormalizesInput(t *testing.T) {
	gw := &mockRegistrationGateway{}
	svc, _ := newAuth(t, gw)

	resp, err := svc.PreRegister(context.Background(), &domain.PreRegisterRequest{
		CompanyName: "  padaria do   joão ",
		Document:    "111.444.777-35",
		SystemType:  domain.SystemCommerce,
		Email:       " Dono@Padaria.com ",
	})
	if err != nil {
		t.Fatalf("expected pre-register to succeed, got %v", err)
	}
	if resp.RegistrationID != "reg-1" {
		t.Errorf("unexpected registration id: %q", resp.RegistrationID)
	}
	if gw.preRegister.CompanyName != "Padaria do João" {
		t.Errorf("company name not formatted: %q", gw.preRegister.CompanyName)
	}
	if gw.preRegister.Document != "11144477735" {
		t.Errorf("document must be digits-only: %q", gw.preRegister.Document)
	}
	if gw.preRegister.Email != "dono@padaria.com" {
		t.Errorf("email not normalized: %q", gw.preRegister.Email)
	}
}

func TestPreRegister_RejectsBadInput(t *testing.T) {
	valid := domain.PreRegisterRequest{
		CompanyName: "Padaria do João",
		Document:    "111.444.777-35",
		SystemType:  domain.SystemCommerce,
		Email:       "dono@padaria.com",
	}

	cases := []struct {
		name   string
		mutate func(r *domain.PreRegisterRequest)
		field  string
	}{
		{"short name", func(r *domain.PreRegisterRequest) { r.CompanyName = "Al" }, "companyName"},
		{"bad document", func(r *domain.PreRegisterRequest) { r.Document = "111.444.777-36" }, "document"},
		{"bad email", func(r *domain.PreRegisterRequest) { r.Email = "dono@padaria" }, "email"},
		{"bad system type", func(r *domain.PreRegisterRequest) { r.SystemType = "restaurant" }, "systemType"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &mockRegistrationGateway{}
			svc, _ := newAuth(t, gw)

			req := valid
			tc.mutate(&req)

			_, err := svc.PreRegister(context.Background(), &req)
			var validation *domain.ErrValidation
			if !errors.As(err, &validation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if validation.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, validation.Field)
			}
			if gw.preRegister != nil {
				t.Error("invalid input must not reach the gateway")
			}
		})
	}
}

func TestCompleteRegistration_WeakPassword(t *testing.T) {
	svc, _ := newAuth(t, &mockRegistrationGateway{})

	err := svc.CompleteRegistration(context.Background(), &domain.CompleteRegistrationRequest{
		Token:    "tok-1",
		UserName: "Maria Souza",
		Password: "semnumero",
	})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(validation.Message, "Senha") {
		t.Errorf("unexpected message: %q", validation.Message)
	}
}

func TestCompleteRegistration_FormatsUserName(t *testing.T) {
	gw := &mockRegistrationGateway{}
	svc, _ := newAuth(t, gw)

	err := svc.CompleteRegistration(context.Background(), &domain.CompleteRegistrationRequest{
		Token:    "tok-1",
		UserName: "maria de souza",
		Password: "Abcdef1!",
	})
	if err != nil {
		t.Fatalf("expected completion to succeed, got %v", err)
	}
	if gw.completed.UserName != "Maria de Souza" {
		t.Errorf("user name not formatted: %q", gw.completed.UserName)
	}
}

func TestForgotPassword_NormalizesEmail(t *testing.T) {
	gw := &mockRegistrationGateway{}
	svc, _ := newAuth(t, gw)

	if err := svc.ForgotPassword(context.Background(), " Dono@Padaria.com "); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gw.forgotEmail != "dono@padaria.com" {
		t.Errorf("email not normalized: %q", gw.forgotEmail)
	}
}

func TestValidateResetToken_CachesProbeResult(t *testing.T) {
	gw := &mockRegistrationGateway{}
	svc, _ := newAuth(t, gw)

	for i := 0; i < 3; i++ {
		if err := svc.ValidateResetToken(context.Background(), "tok-1"); err != nil {
			t.Fatalf("probe %d failed: %v", i, err)
		}
	}
	if gw.resetProbeCalls != 1 {
		t.Errorf("expected a single platform probe, got %d", gw.resetProbeCalls)
	}
}

func TestValidateResetToken_CachesRejection(t *testing.T) {
	gw := &mockRegistrationGateway{err: &domain.ErrInvalidToken{}}
	svc, _ := newAuth(t, gw)

	var invalid *domain.ErrInvalidToken
	if err := svc.ValidateResetToken(context.Background(), "tok-velho"); !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if err := svc.ValidateResetToken(context.Background(), "tok-velho"); !errors.As(err, &invalid) {
		t.Fatalf("expected cached rejection, got %v", err)
	}
	if gw.resetProbeCalls != 1 {
		t.Errorf("expected a single platform probe, got %d", gw.resetProbeCalls)
	}
}

func TestResetPassword_DropsCachedProbe(t *testing.T) {
	gw := &mockRegistrationGateway{}
	svc, _ := newAuth(t, gw)

	if err := svc.ValidateResetToken(context.Background(), "tok-1"); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	err := svc.ResetPassword(context.Background(), &domain.ResetPasswordRequest{
		Token:    "tok-1",
		Password: "Abcdef1!",
	})
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	// The consumed token must be re-probed, not answered from cache.
	if err := svc.ValidateResetToken(context.Background(), "tok-1"); err != nil {
		t.Fatalf("probe after reset failed: %v", err)
	}
	if gw.resetProbeCalls != 2 {
		t.Errorf("expected a fresh probe after reset, got %d calls", gw.resetProbeCalls)
	}
}

func TestResetPassword_RequiresStrongPassword(t *testing.T) {
	svc, _ := newAuth(t, &mockRegistrationGateway{})

	err := svc.ResetPassword(context.Background(), &domain.ResetPasswordRequest{
		Token:    "tok-1",
		Password: "curta",
	})
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
