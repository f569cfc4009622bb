package service

import (
	"context"
	"time"

	"studybuddy/internal/llm"
	"studybuddy/internal/models"
	"studybuddy/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) error
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(ctx context.Context, accessToken string) (string, error)
	RevokeToken(ctx context.Context, accessToken string) error
}

// Tools invokes the four canned study tools. Each call builds a prompt,
// asks the generator, and on success appends an interaction record to
// the caller's history.
type Tools interface {
	Explain(ctx context.Context, username string, p ExplainParams) (string, error)
	Summarize(ctx context.Context, username string, p SummarizeParams) (string, error)
	Quiz(ctx context.Context, username string, p QuizParams) (string, error)
	Flashcards(ctx context.Context, username string, p FlashcardsParams) (string, error)
}

// History exposes the per-user interaction log, most recent first.
type History interface {
	List(ctx context.Context, username string) ([]models.InteractionRecord, error)
}

// Janitor runs the background loop purging expired token revocations.
// Stop via context cancellation in main() for graceful shutdown.
type Janitor interface {
	Run(ctx context.Context, tick time.Duration)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Tools
	History
	Janitor
}

// AuthConfig carries the token-signing settings loaded from config.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// NewService wires the repository layer and the generation boundary
// into concrete services.
func NewService(repos *repository.Repository, gen llm.Generator, auth AuthConfig) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, repos.Sessions, auth),
		Tools:         NewToolsService(repos.History, gen),
		History:       NewHistoryService(repos.History),
		Janitor:       NewJanitorService(repos.Sessions),
	}
}
