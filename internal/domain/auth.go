package domain

import "time"

// ============================================================
// Auth — Request / Response types (matches frontend API contract)
// ============================================================

// PreRegisterRequest starts a tenant signup from the marketing site.
// Fields arrive raw from the form; the console normalizes them before
// forwarding to the platform.
type PreRegisterRequest struct {
	CompanyName string `json:"companyName"`
	Document    string `json:"document"`
	SystemType  string `json:"systemType"`
	Email       string `json:"email"`
}

// PreRegisterResponse echoes the pending registration created by the
// platform. Completion happens through an email-gated token.
type PreRegisterResponse struct {
	RegistrationID string `json:"registrationId"`
	Email          string `json:"email"`
}

// RegistrationTokenRequest validates an email-gated completion token.
type RegistrationTokenRequest struct {
	Token string `json:"token"`
}

// PendingRegistration is what the platform returns for a valid
// completion token.
type PendingRegistration struct {
	RegistrationID string    `json:"registrationId"`
	CompanyName    string    `json:"companyName"`
	Email          string    `json:"email"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// CompleteRegistrationRequest finishes the signup: the owner picks a
// name and password for the account created during pre-registration.
type CompleteRegistrationRequest struct {
	Token    string `json:"token"`
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// LoginRequest carries console super-admin credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the signed token pair for a console session.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	Email        string `json:"email"`
}

// RefreshRequest rotates a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordRequest starts a tenant-user password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest sets a new password using an emailed token.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}
