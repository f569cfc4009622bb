package models

import "time"

// InteractionRecord is one logged tool invocation. Records are created
// once, after a successful generation, and never updated or deleted.
type InteractionRecord struct {
	ID        string         `json:"id"`
	Username  string         `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	Kind      string         `json:"kind"`  // Explanation | Summary | Quiz | Flashcards
	Input     map[string]any `json:"input"` // tool-specific summary of what the user supplied
	Response  string         `json:"response"`
}
