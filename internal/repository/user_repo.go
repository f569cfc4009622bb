package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"studybuddy/internal/models"
)

// ErrUserExists is returned by Create when the username is already taken.
var ErrUserExists = errors.New("user already exists")

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite { return &UserSQLite{db: db} }

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserSQLite)(nil)

const (
	insertUserSQL           = `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`
	selectUserByUsernameSQL = `SELECT username, password_hash, created_at FROM users WHERE username = ?`
	updatePasswordHashSQL   = `UPDATE users SET password_hash = ? WHERE username = ?`
)

// Create inserts a new user row. The username PRIMARY KEY makes this an
// atomic create-if-absent: under two concurrent registrations of the
// same name exactly one INSERT succeeds and the other gets ErrUserExists.
func (r *UserSQLite) Create(ctx context.Context, username, passwordHash string) error {
	createdAt := time.Now().UTC().Format("2006-01-02 15:04:05")
	_, err := r.db.ExecContext(ctx, insertUserSQL, username, passwordHash, createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("insert user %q: %w", username, err)
	}
	return nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username).
		Scan(&u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// UpdatePasswordHash replaces the stored credential hash. Used when a
// legacy digest is upgraded after a successful sign-in.
func (r *UserSQLite) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, updatePasswordHashSQL, passwordHash, username)
	if err != nil {
		return fmt.Errorf("update password hash for %q: %w", username, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update password hash for %q: %w", username, ErrUserNotFound)
	}
	return nil
}

// isUniqueViolation matches the sqlite driver's constraint error text;
// modernc.org/sqlite exposes no typed constraint errors.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
