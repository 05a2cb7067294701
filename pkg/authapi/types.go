// Package authapi defines the wire-level request and response types of the
// authentication API. Handlers and client code share these so the envelope
// stays consistent across endpoints.
package authapi

import "time"

// User is the public projection of an account. Sensitive columns such as
// password and reset-token material never appear here.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is returned by register, login, and Google login.
type AuthResponse struct {
	Success             bool      `json:"success"`
	Token               string    `json:"token"`
	RefreshToken        string    `json:"refreshToken"`
	AccessTokenExpires  time.Time `json:"accessTokenExpires"`
	RefreshTokenExpires time.Time `json:"refreshTokenExpires"`
	User                User      `json:"user"`
}

// RefreshResponse is returned by the token refresh endpoint. Only a new
// access token is issued; the refresh token is not rotated.
type RefreshResponse struct {
	Success            bool      `json:"success"`
	Token              string    `json:"token"`
	AccessTokenExpires time.Time `json:"accessTokenExpires"`
}

// UserResponse wraps the authenticated user's profile.
type UserResponse struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

// MessageResponse is the generic success envelope for endpoints that carry
// no payload beyond a human-readable message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the failure envelope shared by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Tokens   string `json:"tokens"`
}

// RegisterRequest creates a new password-backed account. Role is optional
// and limited to the self-assignable roles; it defaults to "user".
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleLoginRequest authenticates with a Google-issued ID token. Role is
// only honoured when the login creates a new account.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken"`
	Role    string `json:"role,omitempty"`
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordRequest starts the password-reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest completes the password-reset flow. The reset token
// itself travels in the URL path, not the body.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}
