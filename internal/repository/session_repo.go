package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionSQLite stores revoked token ids (jti) until the token would
// have expired anyway. Persisting them means sign-out survives a
// process restart.
type SessionSQLite struct {
	db *sql.DB
}

func NewSessionSQLite(db *sql.DB) *SessionSQLite { return &SessionSQLite{db: db} }

var _ Sessions = (*SessionSQLite)(nil)

const (
	insertRevokedSQL = `INSERT OR IGNORE INTO revoked_tokens (jti, expires_at) VALUES (?, ?)`
	selectRevokedSQL = `SELECT jti FROM revoked_tokens WHERE jti = ?`
	deleteExpiredSQL = `DELETE FROM revoked_tokens WHERE expires_at <= ?`
)

// Revoke marks a token id as dead. Revoking twice is a no-op.
func (r *SessionSQLite) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, insertRevokedSQL,
		jti, expiresAt.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return fmt.Errorf("revoke token %q: %w", jti, err)
	}
	return nil
}

func (r *SessionSQLite) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var got string
	err := r.db.QueryRowContext(ctx, selectRevokedSQL, jti).Scan(&got)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check revoked token %q: %w", jti, err)
	}
	return true, nil
}

// PurgeExpired deletes revocations whose tokens are past expiry and
// returns how many rows went away.
func (r *SessionSQLite) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteExpiredSQL, now.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, fmt.Errorf("purge expired revocations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge expired revocations: rows affected: %w", err)
	}
	return n, nil
}
