package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/taskbridge/taskbridge/internal/auth/domain"
	"github.com/taskbridge/taskbridge/internal/auth/store"
)

type accountsRepo struct {
	q querier
}

const accountColumns = `id, name, email, password_hash, role, google_id, avatar,
	reset_token_hash, reset_token_expires_at,
	refresh_token, refresh_token_expires_at,
	created_at, updated_at`

func scanAccount(row *sql.Row) (domain.Account, error) {
	var (
		a                  domain.Account
		role               string
		googleID           sql.NullString
		resetTokenHash     sql.NullString
		resetTokenExpires  sql.NullTime
		refreshToken       sql.NullString
		refreshTokenExpire sql.NullTime
	)

	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.PasswordHash, &role, &googleID, &a.Avatar,
		&resetTokenHash, &resetTokenExpires,
		&refreshToken, &refreshTokenExpire,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}

	a.Role = domain.Role(role)
	a.GoogleID = mapNullStringPtr(googleID)
	a.ResetTokenHash = mapNullString(resetTokenHash)
	a.ResetTokenExpiresAt = mapNullTimePtr(resetTokenExpires)
	a.RefreshToken = mapNullString(refreshToken)
	a.RefreshTokenExpiresAt = mapNullTimePtr(refreshTokenExpire)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	return scanAccount(row)
}

func (r *accountsRepo) GetAccountByResetTokenHash(ctx context.Context, hash string, now time.Time) (domain.Account, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts
		 WHERE reset_token_hash = ? AND reset_token_expires_at > ?`,
		hash, now.UTC())
	return scanAccount(row)
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO accounts (
			id, name, email, password_hash, role, google_id, avatar,
			reset_token_hash, reset_token_expires_at,
			refresh_token, refresh_token_expires_at,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Email, a.PasswordHash, string(a.Role),
		mapOptionalString(a.GoogleID), a.Avatar,
		mapStringNull(a.ResetTokenHash), mapOptionalTime(a.ResetTokenExpiresAt),
		mapStringNull(a.RefreshToken), mapOptionalTime(a.RefreshTokenExpiresAt),
		a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, accountID string, newHash string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) LinkGoogleIdentity(ctx context.Context, accountID, googleID, avatar string) error {
	// The subject is written once and never overwritten; the avatar only
	// fills in when the account has none yet.
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET
			google_id = COALESCE(google_id, ?),
			avatar = CASE WHEN avatar = '' THEN ? ELSE avatar END,
			updated_at = ?
		 WHERE id = ?`,
		googleID, avatar, time.Now().UTC(), accountID)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRow(res)
}

func (r *accountsRepo) SetResetToken(ctx context.Context, accountID, hash string, expiresAt time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET reset_token_hash = ?, reset_token_expires_at = ?, updated_at = ?
		 WHERE id = ?`,
		hash, expiresAt.UTC(), time.Now().UTC(), accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) ClearResetToken(ctx context.Context, accountID string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = ?
		 WHERE id = ?`,
		time.Now().UTC(), accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) ConsumeResetToken(ctx context.Context, accountID, hash, newPasswordHash string) error {
	// Conditional on the stored fingerprint so two racing resets cannot both
	// succeed; the loser sees zero rows and gets ErrNotFound.
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET
			password_hash = ?,
			reset_token_hash = NULL,
			reset_token_expires_at = NULL,
			updated_at = ?
		 WHERE id = ? AND reset_token_hash = ?`,
		newPasswordHash, time.Now().UTC(), accountID, hash)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) SetRefreshToken(ctx context.Context, accountID, token string, expiresAt time.Time) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET refresh_token = ?, refresh_token_expires_at = ?, updated_at = ?
		 WHERE id = ?`,
		token, expiresAt.UTC(), time.Now().UTC(), accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) ClearRefreshToken(ctx context.Context, accountID string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET refresh_token = NULL, refresh_token_expires_at = NULL, updated_at = ?
		 WHERE id = ?`,
		time.Now().UTC(), accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, accountID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) DeleteExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET reset_token_hash = NULL, reset_token_expires_at = NULL
		 WHERE reset_token_hash IS NOT NULL AND reset_token_expires_at <= ?`,
		now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
