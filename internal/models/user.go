package models

import "time"

// User is a registered account. The username is the primary key and is
// immutable once created.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // don't expose hash
	CreatedAt    time.Time `json:"created_at"`
}
