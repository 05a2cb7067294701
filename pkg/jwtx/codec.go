package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Both are configurable per-service; these mirror the
// usual web-session expectations of a day-long access window and a week-long
// refresh window.
const (
	DefaultAccessTokenTTL  = 24 * time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Token kinds, carried in the "typ" claim. The kind is checked on
// verification so an access token can never be replayed as a refresh token,
// which matters when both kinds share a signing secret.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

var (
	// ErrMissingSecret reports a codec constructed without a signing secret.
	// This is a configuration fault, not a request-level failure.
	ErrMissingSecret = errors.New("jwtx: signing secret not configured")

	// ErrInvalid covers malformed tokens, bad signatures and kind mismatches.
	ErrInvalid = errors.New("jwtx: invalid token")

	// ErrExpired reports a well-formed, correctly signed token past its expiry.
	ErrExpired = errors.New("jwtx: token expired")

	// ErrRevoked reports a token present in the revocation registry.
	ErrRevoked = errors.New("jwtx: token revoked")
)

// RevocationChecker reports whether a raw token value has been revoked before
// its natural expiry. A nil checker disables the check.
type RevocationChecker interface {
	IsRevoked(token string) bool
}

// Claims are the signed assertions embedded in both token kinds. Refresh
// tokens carry no role.
type Claims struct {
	jwt.RegisteredClaims

	Kind string `json:"typ,omitempty"`
	Role string `json:"role,omitempty"`
}

// Codec issues and verifies signed, time-bound tokens without server-side
// state. Tokens are opaque strings to every other component.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	revocations   RevocationChecker
}

// CodecConfig carries the knobs for NewCodec. RefreshSecret may be empty, in
// which case refresh tokens are signed with AccessSecret; this is a weaker
// isolation mode but keeps single-secret deployments working.
type CodecConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Revocations   RevocationChecker
}

// NewCodec validates the configuration and returns a ready codec. A missing
// access secret is fatal misconfiguration and the only failure mode.
func NewCodec(cfg CodecConfig) (*Codec, error) {
	if cfg.AccessSecret == "" {
		return nil, ErrMissingSecret
	}

	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.AccessSecret
	}

	accessTTL := cfg.AccessTTL
	if accessTTL == 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL == 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}

	return &Codec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        cfg.Issuer,
		revocations:   cfg.Revocations,
	}, nil
}

// AccessTTL returns the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssueAccess signs a new access token asserting the subject and role.
// Expiry is deterministic: issuance time plus the configured TTL.
func (c *Codec) IssueAccess(subject, role string) (string, time.Time, error) {
	return c.issue(c.accessSecret, KindAccess, subject, role, c.accessTTL)
}

// IssueRefresh signs a new refresh token asserting the subject only.
func (c *Codec) IssueRefresh(subject string) (string, time.Time, error) {
	return c.issue(c.refreshSecret, KindRefresh, subject, "", c.refreshTTL)
}

func (c *Codec) issue(secret []byte, kind, subject, role string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Kind: kind,
		Role: role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// VerifyAccess validates signature, expiry and revocation state of an access
// token and returns its claims. Failures are distinguishable via ErrRevoked,
// ErrInvalid and ErrExpired so callers can choose status and message.
func (c *Codec) VerifyAccess(token string) (Claims, error) {
	return c.verify(c.accessSecret, KindAccess, token)
}

// VerifyRefresh is VerifyAccess for refresh tokens.
func (c *Codec) VerifyRefresh(token string) (Claims, error) {
	return c.verify(c.refreshSecret, KindRefresh, token)
}

func (c *Codec) verify(secret []byte, kind, token string) (Claims, error) {
	// Revocation wins over every other check: a revoked token stays rejected
	// even while signature and expiry would still pass.
	if c.revocations != nil && c.revocations.IsRevoked(token) {
		return Claims{}, ErrRevoked
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}

	if claims.Kind != kind {
		return Claims{}, ErrInvalid
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalid
	}

	return claims, nil
}

// Expiry decodes the token without verifying it and returns its expiry
// timestamp. Used for best-effort revocation scheduling; ok is false when the
// token cannot be decoded or carries no expiry.
func (c *Codec) Expiry(token string) (time.Time, bool) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
