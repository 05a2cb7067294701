package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskbridge/taskbridge/internal/auth/identity"
	"github.com/taskbridge/taskbridge/internal/auth/store/drivers/sqlite"
	"github.com/taskbridge/taskbridge/pkg/cryptox"
	"github.com/taskbridge/taskbridge/pkg/jwtx"
	"github.com/taskbridge/taskbridge/pkg/revoke"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "service-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

// fakeMailer records sends and can be told to fail.
type fakeMailer struct {
	welcomes    []string
	resetTokens []string
	failReset   bool
	failWelcome bool
}

func (f *fakeMailer) SendWelcome(ctx context.Context, to, name string) error {
	if f.failWelcome {
		return assert.AnError
	}
	f.welcomes = append(f.welcomes, to)
	return nil
}

func (f *fakeMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	if f.failReset {
		return assert.AnError
	}
	f.resetTokens = append(f.resetTokens, token)
	return nil
}

// fakeVerifier returns a canned profile for a single accepted token.
type fakeVerifier struct {
	accept  string
	profile identity.Profile
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (identity.Profile, error) {
	if token != f.accept {
		return identity.Profile{}, identity.ErrInvalidToken
	}
	return f.profile, nil
}

func newTestService(t *testing.T) (*AuthService, *fakeMailer, *fakeVerifier) {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	registry := revoke.NewRegistry()
	codec, err := jwtx.NewCodec(jwtx.CodecConfig{
		AccessSecret: "test-secret",
		Issuer:       "taskbridge-test",
		Revocations:  registry,
	})
	require.NoError(t, err)

	mailer := &fakeMailer{}
	verifier := &fakeVerifier{
		accept: "good-google-token",
		profile: identity.Profile{
			SubjectID: "google-sub-123",
			Email:     "fed@example.com",
			Name:      "Fede Rated",
			Picture:   "https://img.example/fed.png",
		},
	}

	svc := &AuthService{
		Store:          st,
		Codec:          codec,
		Revocations:    registry,
		Mailer:         mailer,
		Identity:       verifier,
		PersistRefresh: true,
	}
	return svc, mailer, verifier
}

func TestRegisterAndLogin(t *testing.T) {
	svc, mailer, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "Dana Oblak", "dana@example.com", "hunter2hunter2", "talent")
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", session.Account.Email)
	assert.Equal(t, "talent", string(session.Account.Role))
	assert.NotEmpty(t, session.Tokens.AccessToken)
	assert.NotEmpty(t, session.Tokens.RefreshToken)
	assert.Equal(t, []string{"dana@example.com"}, mailer.welcomes)

	// Access token must verify and carry the subject and role.
	claims, err := svc.Codec.VerifyAccess(session.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.Account.ID, claims.Subject)
	assert.Equal(t, "talent", claims.Role)

	login, err := svc.Login(ctx, "Dana@Example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, session.Account.ID, login.Account.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "First", "dup@example.com", "password-one", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Second", "dup@example.com", "password-two", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "Sneaky", "admin@example.com", "password", "admin")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegisterSurvivesWelcomeMailFailure(t *testing.T) {
	svc, mailer, _ := newTestService(t)
	mailer.failWelcome = true

	session, err := svc.Register(context.Background(), "Dana", "dana@example.com", "hunter2hunter2", "")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Tokens.AccessToken)
}

func TestLoginFailureModesAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Dana", "dana@example.com", "correct-password", "")
	require.NoError(t, err)

	// Federated-only account with no password hash.
	_, err = svc.LoginWithGoogle(ctx, "good-google-token", "")
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, "missing@example.com", "whatever")
	_, wrongErr := svc.Login(ctx, "dana@example.com", "wrong-password")
	_, passwordlessErr := svc.Login(ctx, "fed@example.com", "whatever")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.ErrorIs(t, passwordlessErr, ErrInvalidCredentials)
}

func TestLoginWithGoogleCreatesAccount(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.LoginWithGoogle(ctx, "good-google-token", "talent")
	require.NoError(t, err)
	assert.Equal(t, "fed@example.com", session.Account.Email)
	assert.Equal(t, "talent", string(session.Account.Role))
	require.NotNil(t, session.Account.GoogleID)
	assert.Equal(t, "google-sub-123", *session.Account.GoogleID)
	assert.Equal(t, "https://img.example/fed.png", session.Account.Avatar)
	assert.False(t, session.Account.HasPassword())
}

func TestLoginWithGoogleLinksExistingAccount(t *testing.T) {
	svc, _, verifier := newTestService(t)
	ctx := context.Background()

	verifier.profile.Email = "dana@example.com"

	registered, err := svc.Register(ctx, "Dana", "dana@example.com", "hunter2hunter2", "user")
	require.NoError(t, err)

	session, err := svc.LoginWithGoogle(ctx, "good-google-token", "talent")
	require.NoError(t, err)

	// Same account, original role kept, subject linked.
	assert.Equal(t, registered.Account.ID, session.Account.ID)
	assert.Equal(t, "user", string(session.Account.Role))
	require.NotNil(t, session.Account.GoogleID)
	assert.Equal(t, "google-sub-123", *session.Account.GoogleID)

	// Password login still works after linking.
	_, err = svc.Login(ctx, "dana@example.com", "hunter2hunter2")
	assert.NoError(t, err)
}

func TestLoginWithGoogleRejectsBadToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.LoginWithGoogle(context.Background(), "forged-token", "")
	assert.ErrorIs(t, err, ErrInvalidIdentityToken)
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "Dana", "dana@example.com", "hunter2hunter2", "")
	require.NoError(t, err)

	_, err = svc.Codec.VerifyAccess(session.Tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.Account.ID, session.Tokens.AccessToken))

	_, err = svc.Codec.VerifyAccess(session.Tokens.AccessToken)
	assert.ErrorIs(t, err, jwtx.ErrRevoked)

	// Persisted refresh token was dropped, so refresh is refused too.
	_, _, err = svc.Refresh(ctx, session.Tokens.RefreshToken)
	assert.ErrorIs(t, err, jwtx.ErrInvalid)
}

func TestLogoutWithGarbageTokenIsNoop(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Logout(context.Background(), "", "not-a-jwt")
	assert.NoError(t, err)
	assert.Equal(t, 0, svc.Revocations.Len())
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "Dana", "dana@example.com", "hunter2hunter2", "talent")
	require.NoError(t, err)

	token, expiresAt, err := svc.Refresh(ctx, session.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.Codec.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, session.Account.ID, claims.Subject)
	assert.Equal(t, "talent", claims.Role)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "Dana", "dana@example.com", "hunter2hunter2", "")
	require.NoError(t, err)

	_, _, err = svc.Refresh(ctx, session.Tokens.AccessToken)
	assert.ErrorIs(t, err, jwtx.ErrInvalid)
}

func TestRefreshRejectsSupersededToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "Dana", "dana@example.com", "hunter2hunter2", "")
	require.NoError(t, err)

	// Refresh tokens embed second-granularity timestamps; a later login in
	// the same second would mint an identical token.
	time.Sleep(1100 * time.Millisecond)

	second, err := svc.Login(ctx, "dana@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)

	_, _, err = svc.Refresh(ctx, first.Tokens.RefreshToken)
	assert.ErrorIs(t, err, jwtx.ErrInvalid)

	_, _, err = svc.Refresh(ctx, second.Tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, mailer, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Dana", "dana@example.com", "old-password-1", "")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "dana@example.com"))
	require.Len(t, mailer.resetTokens, 1)
	token := mailer.resetTokens[0]

	require.NoError(t, svc.ResetPassword(ctx, token, "new-password-1"))

	_, err = svc.Login(ctx, "dana@example.com", "old-password-1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "dana@example.com", "new-password-1")
	assert.NoError(t, err)

	// The token is single use.
	err = svc.ResetPassword(ctx, token, "yet-another-password")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	svc, mailer, _ := newTestService(t)

	err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	assert.NoError(t, err)
	assert.Empty(t, mailer.resetTokens)
}

func TestForgotPasswordRollsBackOnMailFailure(t *testing.T) {
	svc, mailer, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Dana", "dana@example.com", "hunter2hunter2", "")
	require.NoError(t, err)

	mailer.failReset = true
	err = svc.ForgotPassword(ctx, "dana@example.com")
	assert.ErrorIs(t, err, ErrEmailDelivery)

	acc, err := svc.Store.Accounts().GetAccountByID(ctx, reg.Account.ID)
	require.NoError(t, err)
	assert.Empty(t, acc.ResetTokenHash)
}

func TestResetPasswordRejectsWrongToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.ResetPassword(context.Background(), "completely-made-up", "new-password-1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	svc, mailer, _ := newTestService(t)
	svc.ResetTTL = -time.Minute
	ctx := context.Background()

	_, err := svc.Register(ctx, "Dana", "dana@example.com", "hunter2hunter2", "")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "dana@example.com"))
	require.Len(t, mailer.resetTokens, 1)

	err = svc.ResetPassword(ctx, mailer.resetTokens[0], "new-password-1")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}

func TestCurrentAccount(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, "Dana", "dana@example.com", "hunter2hunter2", "")
	require.NoError(t, err)

	acc, err := svc.CurrentAccount(ctx, session.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", acc.Email)

	_, err = svc.CurrentAccount(ctx, "01JUNKJUNKJUNKJUNKJUNKJUNK")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
