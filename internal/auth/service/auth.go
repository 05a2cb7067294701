package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/taskbridge/taskbridge/internal/auth/domain"
	"github.com/taskbridge/taskbridge/internal/auth/identity"
	"github.com/taskbridge/taskbridge/internal/auth/mail"
	"github.com/taskbridge/taskbridge/internal/auth/store"
	"github.com/taskbridge/taskbridge/pkg/cryptox"
	"github.com/taskbridge/taskbridge/pkg/idx"
	"github.com/taskbridge/taskbridge/pkg/jwtx"
	"github.com/taskbridge/taskbridge/pkg/revoke"
	"github.com/taskbridge/taskbridge/pkg/slogx"
)

// DefaultResetTokenTTL is how long a password-reset token stays valid.
const DefaultResetTokenTTL = 10 * time.Minute

var (
	ErrEmailTaken           = errors.New("email_taken")
	ErrInvalidCredentials   = errors.New("invalid_credentials")
	ErrInvalidRole          = errors.New("invalid_role")
	ErrInvalidIdentityToken = errors.New("invalid_identity_token")
	ErrAccountNotFound      = errors.New("account_not_found")
	ErrEmailDelivery        = errors.New("email_delivery_failed")
	ErrResetTokenInvalid    = errors.New("reset_token_invalid")
)

// Session bundles the authenticated account with its freshly issued tokens.
type Session struct {
	Account domain.Account
	Tokens  domain.TokenPair
}

// AuthService implements registration, login, federated login, token
// refresh, and the password-reset flow.
type AuthService struct {
	Store       store.Store
	Codec       *jwtx.Codec
	Revocations *revoke.Registry
	Mailer      mail.Mailer
	Identity    identity.Verifier

	// ResetTTL is the reset-token lifetime; zero means DefaultResetTokenTTL.
	ResetTTL time.Duration

	// PersistRefresh mirrors issued refresh tokens onto the account row so
	// logout invalidates them server-side and refresh can cross-check.
	PersistRefresh bool
}

// Register creates a password-backed account and opens a session. The role
// is restricted to the self-assignable set. A duplicate email, including the
// create race, surfaces as ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*Session, error) {
	l := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	assigned, ok := domain.ParseAssignableRole(role)
	if !ok {
		return nil, ErrInvalidRole
	}

	if _, err := s.Store.Accounts().GetAccountByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acc := domain.Account{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         assigned,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Accounts().CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	session, err := s.openSession(ctx, acc)
	if err != nil {
		return nil, err
	}

	// The account exists either way; a failed welcome mail only gets logged.
	if s.Mailer != nil {
		if err := s.Mailer.SendWelcome(ctx, acc.Email, acc.Name); err != nil {
			l.Warn("welcome email failed", slog.String("account_id", acc.ID), slog.Any("error", err))
		}
	}

	l.Info("account registered", slog.String("account_id", acc.ID), slog.String("role", string(assigned)))
	return session, nil
}

// Login authenticates with email and password. Unknown email, a
// federated-only account, and a wrong password all return the same
// ErrInvalidCredentials so callers cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	l := slogx.FromContext(ctx)

	acc, err := s.Store.Accounts().GetAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !acc.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	if err := cryptox.VerifyPassword(password, acc.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, acc)
	if err != nil {
		return nil, err
	}

	l.Info("login", slog.String("account_id", acc.ID))
	return session, nil
}

// LoginWithGoogle verifies a Google ID token and either links it to the
// account holding the verified email or creates a fresh account. The role is
// only honoured on creation.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken, role string) (*Session, error) {
	l := slogx.FromContext(ctx)

	profile, err := s.Identity.Verify(ctx, idToken)
	if err != nil {
		return nil, ErrInvalidIdentityToken
	}

	email := normalizeEmail(profile.Email)

	acc, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.Store.Accounts().LinkGoogleIdentity(ctx, acc.ID, profile.SubjectID, profile.Picture); err != nil {
			return nil, err
		}
		acc, err = s.Store.Accounts().GetAccountByID(ctx, acc.ID)
		if err != nil {
			return nil, err
		}

	case errors.Is(err, store.ErrNotFound):
		assigned, ok := domain.ParseAssignableRole(role)
		if !ok {
			return nil, ErrInvalidRole
		}

		now := time.Now().UTC()
		subject := profile.SubjectID
		acc = domain.Account{
			ID:        idx.New().String(),
			Name:      profile.Name,
			Email:     email,
			Role:      assigned,
			GoogleID:  &subject,
			Avatar:    profile.Picture,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if acc.Name == "" {
			acc.Name = email
		}

		if createErr := s.Store.Accounts().CreateAccount(ctx, acc); createErr != nil {
			if !errors.Is(createErr, store.ErrAlreadyExists) {
				return nil, createErr
			}
			// Lost the create race; the other writer owns the email now.
			acc, err = s.Store.Accounts().GetAccountByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
		} else {
			l.Info("account created via google", slog.String("account_id", acc.ID))
		}

	default:
		return nil, err
	}

	session, err := s.openSession(ctx, acc)
	if err != nil {
		return nil, err
	}

	l.Info("google login", slog.String("account_id", acc.ID))
	return session, nil
}

// CurrentAccount resolves a verified token subject back to its account.
func (s *AuthService) CurrentAccount(ctx context.Context, accountID string) (domain.Account, error) {
	acc, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return acc, nil
}

// Logout revokes the presented access token and, when refresh persistence is
// on, drops the stored refresh token. Logout never fails: an undecodable
// token simply has nothing to revoke.
func (s *AuthService) Logout(ctx context.Context, accountID, accessToken string) error {
	l := slogx.FromContext(ctx)

	if accessToken != "" {
		if expiresAt, ok := s.Codec.Expiry(accessToken); ok {
			s.Revocations.Revoke(accessToken, expiresAt)
		}
	}

	if s.PersistRefresh && accountID != "" {
		if err := s.Store.Accounts().ClearRefreshToken(ctx, accountID); err != nil && !errors.Is(err, store.ErrNotFound) {
			l.Warn("clearing refresh token failed", slog.String("account_id", accountID), slog.Any("error", err))
		}
	}

	l.Info("logout", slog.String("account_id", accountID))
	return nil
}

// Refresh verifies a refresh token and issues a new access token. The
// refresh token is not rotated. Verification failures pass through with
// their jwtx error kinds so the transport can distinguish expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.Codec.VerifyRefresh(refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}

	acc, err := s.Store.Accounts().GetAccountByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", time.Time{}, ErrAccountNotFound
		}
		return "", time.Time{}, err
	}

	// With persistence on, only the refresh token recorded on the account is
	// honoured. A logged-out or superseded token verifies but is refused.
	if s.PersistRefresh && acc.RefreshToken != refreshToken {
		return "", time.Time{}, jwtx.ErrInvalid
	}

	return s.Codec.IssueAccess(acc.ID, string(acc.Role))
}

// ForgotPassword starts the reset flow. When the email is unknown it does
// nothing and reports success, so the endpoint cannot be used to enumerate
// accounts. When mail delivery fails the pending token is rolled back and
// ErrEmailDelivery is returned.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)

	acc, err := s.Store.Accounts().GetAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}

	expiresAt := time.Now().UTC().Add(s.resetTTL())
	if err := s.Store.Accounts().SetResetToken(ctx, acc.ID, cryptox.FingerprintToken(token), expiresAt); err != nil {
		return err
	}

	if err := s.Mailer.SendPasswordReset(ctx, acc.Email, acc.Name, token); err != nil {
		// Roll the token back so a token that was never delivered cannot
		// linger as an open reset window.
		if clearErr := s.Store.Accounts().ClearResetToken(ctx, acc.ID); clearErr != nil {
			l.Warn("reset token rollback failed", slog.String("account_id", acc.ID), slog.Any("error", clearErr))
		}
		return ErrEmailDelivery
	}

	l.Info("password reset email sent", slog.String("account_id", acc.ID))
	return nil
}

// ResetPassword completes the flow: the raw token is fingerprinted, matched
// against an unexpired pending reset, and consumed together with the
// password update. A wrong, expired, or already-used token returns
// ErrResetTokenInvalid.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	l := slogx.FromContext(ctx)

	if token == "" || newPassword == "" {
		return ErrResetTokenInvalid
	}

	fingerprint := cryptox.FingerprintToken(token)
	now := time.Now().UTC()

	acc, err := s.Store.Accounts().GetAccountByResetTokenHash(ctx, fingerprint, now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.Accounts().ConsumeResetToken(ctx, acc.ID, fingerprint, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	l.Info("password reset completed", slog.String("account_id", acc.ID))
	return nil
}

// openSession issues the token pair and, when enabled, persists the refresh
// token onto the account.
func (s *AuthService) openSession(ctx context.Context, acc domain.Account) (*Session, error) {
	access, accessExp, err := s.Codec.IssueAccess(acc.ID, string(acc.Role))
	if err != nil {
		return nil, err
	}

	refresh, refreshExp, err := s.Codec.IssueRefresh(acc.ID)
	if err != nil {
		return nil, err
	}

	if s.PersistRefresh {
		if err := s.Store.Accounts().SetRefreshToken(ctx, acc.ID, refresh, refreshExp); err != nil {
			return nil, err
		}
		acc.RefreshToken = refresh
		acc.RefreshTokenExpiresAt = &refreshExp
	}

	return &Session{
		Account: acc,
		Tokens: domain.TokenPair{
			AccessToken:      access,
			RefreshToken:     refresh,
			AccessExpiresAt:  accessExp,
			RefreshExpiresAt: refreshExp,
		},
	}, nil
}

func (s *AuthService) resetTTL() time.Duration {
	if s.ResetTTL != 0 {
		return s.ResetTTL
	}
	return DefaultResetTokenTTL
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
