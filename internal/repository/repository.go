package repository

import (
	"context"
	"database/sql"
	"time"

	"studybuddy/internal/models"
	"studybuddy/internal/repository/db"
)

// Users is the credential store: one row per registered username.
type Users interface {
	Create(ctx context.Context, username, passwordHash string) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
}

// History is the per-user append-only interaction log.
type History interface {
	Append(ctx context.Context, rec models.InteractionRecord) error
	List(ctx context.Context, username string) ([]models.InteractionRecord, error)
}

// Sessions tracks revoked token ids until their natural expiry.
type Sessions interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type Repository struct {
	Users    Users
	History  History
	Sessions Sessions
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Users:    NewUserSQLite(sqlDB),
		History:  NewHistorySQLite(sqlDB),
		Sessions: NewSessionSQLite(sqlDB),
	}
}

// InitDB opens the SQLite file and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
