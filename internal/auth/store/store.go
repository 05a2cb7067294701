package store

import (
	"context"
	"errors"
	"time"

	"github.com/taskbridge/taskbridge/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Accounts() Accounts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail is used during login and registration checks.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// GetAccountByResetTokenHash looks up the account holding the given
	// reset-token fingerprint, provided its reset window has not passed.
	// An expired token behaves exactly like an unknown one (ErrNotFound).
	GetAccountByResetTokenHash(ctx context.Context, hash string, now time.Time) (domain.Account, error)

	// CreateAccount inserts a new account (id is provided by app via ULID).
	// A duplicate email returns ErrAlreadyExists.
	CreateAccount(ctx context.Context, a domain.Account) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, accountID string, newHash string) error

	// LinkGoogleIdentity attaches a Google subject ID to an existing account.
	// The subject is only written when the column is still empty, and the
	// avatar only when the account has none yet.
	LinkGoogleIdentity(ctx context.Context, accountID, googleID, avatar string) error

	// SetResetToken stores a reset-token fingerprint and its expiry.
	// Any previously pending reset token is replaced.
	SetResetToken(ctx context.Context, accountID, hash string, expiresAt time.Time) error

	// ClearResetToken drops any pending reset token from the account.
	ClearResetToken(ctx context.Context, accountID string) error

	// ConsumeResetToken atomically applies the new password hash and clears
	// the reset token, but only when the stored fingerprint still matches.
	// Returns ErrNotFound when the token was already consumed or replaced,
	// which makes the reset token strictly single-use under concurrency.
	ConsumeResetToken(ctx context.Context, accountID, hash, newPasswordHash string) error

	// SetRefreshToken mirrors the issued refresh token onto the account.
	// Only called when refresh persistence is enabled.
	SetRefreshToken(ctx context.Context, accountID, token string, expiresAt time.Time) error

	// ClearRefreshToken drops the persisted refresh token, ending the session
	// server-side.
	ClearRefreshToken(ctx context.Context, accountID string) error

	// DeleteAccount removes the account record.
	DeleteAccount(ctx context.Context, accountID string) error

	// DeleteExpiredResetTokens clears reset tokens whose window has passed.
	// Returns the number of accounts touched. Called by housekeeping.
	DeleteExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}
