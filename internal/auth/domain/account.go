package domain

import (
	"strings"
	"time"
)

// Role is the coarse permission level of an account.
type Role string

const (
	RoleUser   Role = "user"
	RoleTalent Role = "talent"
	RoleAdmin  Role = "admin"
)

// ParseAssignableRole maps a client-supplied role string to a Role. Only
// user and talent may be chosen at registration; admin is never
// self-assignable. Empty input defaults to user, anything else is rejected.
func ParseAssignableRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "user":
		return RoleUser, true
	case "talent":
		return RoleTalent, true
	default:
		return "", false
	}
}

// Account represents a stored account record.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // argon2 encoded; empty for federated-only accounts
	Role         Role
	GoogleID     *string // Google subject ID (nullable)
	Avatar       string

	ResetTokenHash      string // fingerprint (base64url SHA-256), empty when no reset pending
	ResetTokenExpiresAt *time.Time

	RefreshToken          string // only populated when refresh persistence is enabled
	RefreshTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPassword reports whether the account can authenticate with a password.
// Accounts created through federated login carry no password hash.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}
