package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubRevocations struct {
	revoked map[string]bool
}

func (s *stubRevocations) IsRevoked(token string) bool { return s.revoked[token] }

func newTestCodec(t *testing.T, cfg CodecConfig) *Codec {
	t.Helper()
	if cfg.AccessSecret == "" {
		cfg.AccessSecret = "test-access-secret"
	}
	c, err := NewCodec(cfg)
	require.NoError(t, err)
	return c
}

func TestNewCodec_RequiresAccessSecret(t *testing.T) {
	_, err := NewCodec(CodecConfig{})
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestNewCodec_Defaults(t *testing.T) {
	c := newTestCodec(t, CodecConfig{})
	require.Equal(t, DefaultAccessTokenTTL, c.AccessTTL())
	require.Equal(t, DefaultRefreshTokenTTL, c.RefreshTTL())
}

func TestIssueAndVerifyAccess(t *testing.T) {
	c := newTestCodec(t, CodecConfig{Issuer: "taskbridge-auth"})

	token, expiresAt, err := c.IssueAccess("acct-1", "talent")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(c.AccessTTL()), expiresAt, 5*time.Second)

	claims, err := c.VerifyAccess(token)
	require.NoError(t, err)
	require.Equal(t, "acct-1", claims.Subject)
	require.Equal(t, "talent", claims.Role)
	require.Equal(t, "taskbridge-auth", claims.Issuer)
	require.Equal(t, KindAccess, claims.Kind)
}

func TestIssueAndVerifyRefresh(t *testing.T) {
	c := newTestCodec(t, CodecConfig{RefreshSecret: "test-refresh-secret"})

	token, _, err := c.IssueRefresh("acct-1")
	require.NoError(t, err)

	claims, err := c.VerifyRefresh(token)
	require.NoError(t, err)
	require.Equal(t, "acct-1", claims.Subject)
	require.Empty(t, claims.Role, "refresh tokens carry no role")
}

func TestVerify_Expired(t *testing.T) {
	c := newTestCodec(t, CodecConfig{AccessTTL: -time.Minute, RefreshTTL: -time.Minute})

	access, _, err := c.IssueAccess("acct-1", "user")
	require.NoError(t, err)
	_, err = c.VerifyAccess(access)
	require.ErrorIs(t, err, ErrExpired)

	refresh, _, err := c.IssueRefresh("acct-1")
	require.NoError(t, err)
	_, err = c.VerifyRefresh(refresh)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := newTestCodec(t, CodecConfig{AccessSecret: "secret-a"})
	verifier := newTestCodec(t, CodecConfig{AccessSecret: "secret-b"})

	token, _, err := issuer.IssueAccess("acct-1", "user")
	require.NoError(t, err)

	_, err = verifier.VerifyAccess(token)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_Garbage(t *testing.T) {
	c := newTestCodec(t, CodecConfig{})

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := c.VerifyAccess(raw)
		require.ErrorIs(t, err, ErrInvalid)
	}
}

func TestVerify_KindMismatch(t *testing.T) {
	// With no separate refresh secret both kinds share a key, so only the
	// "typ" claim keeps them apart.
	c := newTestCodec(t, CodecConfig{})

	refresh, _, err := c.IssueRefresh("acct-1")
	require.NoError(t, err)
	_, err = c.VerifyAccess(refresh)
	require.ErrorIs(t, err, ErrInvalid)

	access, _, err := c.IssueAccess("acct-1", "user")
	require.NoError(t, err)
	_, err = c.VerifyRefresh(access)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestVerify_RevocationPrecedence(t *testing.T) {
	revocations := &stubRevocations{revoked: map[string]bool{}}
	c := newTestCodec(t, CodecConfig{Revocations: revocations})

	token, _, err := c.IssueAccess("acct-1", "user")
	require.NoError(t, err)

	_, err = c.VerifyAccess(token)
	require.NoError(t, err)

	revocations.revoked[token] = true

	_, err = c.VerifyAccess(token)
	require.ErrorIs(t, err, ErrRevoked, "revocation must win while signature and expiry still pass")
}

func TestExpiry_UnverifiedDecode(t *testing.T) {
	c := newTestCodec(t, CodecConfig{})

	token, expiresAt, err := c.IssueAccess("acct-1", "user")
	require.NoError(t, err)

	got, ok := c.Expiry(token)
	require.True(t, ok)
	require.WithinDuration(t, expiresAt, got, time.Second)

	_, ok = c.Expiry("not-a-token")
	require.False(t, ok)
}

func TestRefreshSecretFallback(t *testing.T) {
	// Without a dedicated refresh secret the access secret signs both kinds.
	shared := newTestCodec(t, CodecConfig{AccessSecret: "only-secret"})

	token, _, err := shared.IssueRefresh("acct-1")
	require.NoError(t, err)

	claims, err := shared.VerifyRefresh(token)
	require.NoError(t, err)
	require.Equal(t, "acct-1", claims.Subject)

	// A codec with a distinct refresh secret must reject it.
	isolated := newTestCodec(t, CodecConfig{
		AccessSecret:  "only-secret",
		RefreshSecret: "different-secret",
	})
	_, err = isolated.VerifyRefresh(token)
	require.ErrorIs(t, err, ErrInvalid)
}
