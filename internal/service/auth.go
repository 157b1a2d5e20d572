// Package service — AuthService handles the console super-admin session
// (JWT access tokens, rotating refresh tokens) and proxies the public
// signup/password flows to the platform after client-side validation.
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/fluxoclean/console-bfa-go/internal/domain"
	"github.com/fluxoclean/console-bfa-go/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var authTracer = otel.Tracer("service/auth")

// RefreshSession is the server-side record behind a refresh token.
type RefreshSession struct {
	Email     string
	ExpiresAt time.Time
}

// AuthService orchestrates console authentication and signup proxying.
// resetProbes caches reset-token probe results: the reset page probes
// its token on every load and the answer only changes when the token
// expires or is consumed.
type AuthService struct {
	registrations port.RegistrationGateway
	sessions      port.Cache[RefreshSession]
	resetProbes   port.Cache[bool]
	jwtSecret     []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	adminEmail    string
	adminHash     string
	logger        *zap.Logger
}

// NewAuthService creates the auth service. adminHash is the bcrypt hash
// of the console super-admin password (from configuration).
func NewAuthService(
	registrations port.RegistrationGateway,
	sessions port.Cache[RefreshSession],
	resetProbes port.Cache[bool],
	jwtSecret string,
	accessTTL, refreshTTL time.Duration,
	adminEmail, adminHash string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		registrations: registrations,
		sessions:      sessions,
		resetProbes:   resetProbes,
		jwtSecret:     []byte(jwtSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		adminEmail:    adminEmail,
		adminHash:     adminHash,
		logger:        logger,
	}
}

// ============================================================
// Console login — POST /v1/auth/login
// ============================================================

// Login authenticates the console super-admin against the configured
// credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	_, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	if s.adminEmail == "" || s.adminHash == "" {
		return nil, &domain.ErrForbidden{Action: "console login desabilitado: credenciais não configuradas"}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != strings.ToLower(s.adminEmail) {
		s.logger.Warn("login: unknown email", zap.String("email", email))
		return nil, &domain.ErrUnauthorized{Message: "E-mail ou senha incorretos"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.adminHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login: wrong password", zap.String("email", email))
		return nil, &domain.ErrUnauthorized{Message: "E-mail ou senha incorretos"}
	}

	resp, err := s.issueTokens(email)
	if err != nil {
		return nil, err
	}
	s.logger.Info("console login", zap.String("email", email))
	return resp, nil
}

// Refresh rotates a refresh token into a fresh token pair.
func (s *AuthService) Refresh(ctx context.Context, req *domain.RefreshRequest) (*domain.LoginResponse, error) {
	_, span := authTracer.Start(ctx, "AuthService.Refresh")
	defer span.End()

	tokenHash := hashToken(req.RefreshToken)
	session, ok := s.sessions.Get(tokenHash)
	if !ok {
		return nil, &domain.ErrUnauthorized{Message: "Token de atualização inválido"}
	}
	if session.ExpiresAt.Before(time.Now()) {
		s.sessions.Delete(tokenHash)
		return nil, &domain.ErrUnauthorized{Message: "Token de atualização expirado"}
	}

	// Rotation: the old token dies with this exchange.
	s.sessions.Delete(tokenHash)

	return s.issueTokens(session.Email)
}

// Logout revokes every refresh session of the subject.
func (s *AuthService) Logout(ctx context.Context, email string) error {
	_, span := authTracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	s.sessions.DeleteFunc(func(sess RefreshSession) bool {
		return sess.Email == email
	})
	s.logger.Info("console logout", zap.String("email", email))
	return nil
}

func (s *AuthService) issueTokens(email string) (*domain.LoginResponse, error) {
	accessToken, err := s.signAccessToken(email)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, refreshHash, err := generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	s.sessions.SetWithTTL(refreshHash, RefreshSession{
		Email:     email,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}, s.refreshTTL)

	return &domain.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.accessTTL.Seconds()),
		Email:        email,
	}, nil
}

// ============================================================
// Access token validation — used by middleware
// ============================================================

// JWTClaims represents the custom claims in access tokens.
type JWTClaims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

func (s *AuthService) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "Token inválido ou expirado"}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "Token inválido"}
	}

	if claims.Type != "access" {
		return nil, &domain.ErrUnauthorized{Message: "Tipo de token inválido"}
	}
	if claims.Role != "superadmin" {
		return nil, &domain.ErrForbidden{Action: "acesso restrito ao super-admin"}
	}

	return claims, nil
}

// ============================================================
// Internal JWT helpers
// ============================================================

func (s *AuthService) signAccessToken(email string) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Sub:  email,
		Role: "superadmin",
		Type: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			Issuer:    "console-bfa",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func generateRefreshToken() (raw string, hashed string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(b)
	hashed = hashToken(raw)
	return raw, hashed, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
