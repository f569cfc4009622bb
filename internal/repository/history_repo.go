package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"studybuddy/internal/models"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned by Append when the owning user row does
// not exist. Callers only append for authenticated users, so hitting
// this means the account vanished mid-request; it is surfaced rather
// than swallowed.
var ErrUserNotFound = errors.New("user not found")

type HistorySQLite struct {
	db *sql.DB
}

func NewHistorySQLite(db *sql.DB) *HistorySQLite { return &HistorySQLite{db: db} }

var _ History = (*HistorySQLite)(nil)

const (
	insertInteractionSQL = `
		INSERT INTO interactions (id, username, created_at, kind, input, response)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	selectInteractionsSQL = `
		SELECT id, created_at, kind, input, response
		FROM interactions WHERE username = ? ORDER BY rowid DESC
	`
)

// Append inserts one interaction row. If ID or CreatedAt are empty,
// they're set. A single INSERT is the atomic "push to front": ordering
// comes from rowid, so concurrent appends for one user cannot clobber
// each other.
func (r *HistorySQLite) Append(ctx context.Context, rec models.InteractionRecord) error {
	if !models.ValidKind(rec.Kind) {
		return fmt.Errorf("append history for %q: unknown kind %q", rec.Username, rec.Kind)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	} else {
		rec.CreatedAt = rec.CreatedAt.UTC()
	}

	var inputPtr *string
	if rec.Input != nil {
		b, err := json.Marshal(rec.Input)
		if err != nil {
			return fmt.Errorf("append history for %q: encode input: %w", rec.Username, err)
		}
		s := string(b)
		inputPtr = &s
	}

	_, err := r.db.ExecContext(ctx, insertInteractionSQL,
		rec.ID,
		rec.Username,
		rec.CreatedAt.Format("2006-01-02 15:04:05"),
		rec.Kind,
		inputPtr,
		rec.Response,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("append history for %q: %w", rec.Username, ErrUserNotFound)
		}
		return fmt.Errorf("append history for %q: %w", rec.Username, err)
	}
	return nil
}

// List returns the user's full history, most recent first. An unknown
// user or a user with no interactions yields an empty slice.
func (r *HistorySQLite) List(ctx context.Context, username string) ([]models.InteractionRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectInteractionsSQL, username)
	if err != nil {
		return nil, fmt.Errorf("list history for %q: %w", username, err)
	}
	defer rows.Close()

	out := make([]models.InteractionRecord, 0, 16)
	for rows.Next() {
		rec := models.InteractionRecord{Username: username}
		var inputStr sql.NullString
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Kind, &inputStr, &rec.Response); err != nil {
			return nil, fmt.Errorf("scan history row for %q: %w", username, err)
		}
		rec.CreatedAt = rec.CreatedAt.UTC()

		if inputStr.Valid && inputStr.String != "" {
			var m map[string]any
			if err := json.Unmarshal([]byte(inputStr.String), &m); err == nil {
				rec.Input = m
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history for %q: %w", username, err)
	}
	return out, nil
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
