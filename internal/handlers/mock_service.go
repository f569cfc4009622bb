package handlers

import (
	"context"
	"errors"
	"time"

	"studybuddy/internal/models"
	"studybuddy/internal/service"

	"github.com/gin-gonic/gin"
)

// Function-backed mocks for the service interfaces. Unset functions
// return an error so a test touching an unexpected path fails loudly.

var errUnexpectedCall = errors.New("unexpected service call")

type mockAuthorization struct {
	SignUpFn        func(ctx context.Context, username, password string) error
	GenerateTokenFn func(ctx context.Context, username, password string) (string, error)
	ParseTokenFn    func(ctx context.Context, accessToken string) (string, error)
	RevokeTokenFn   func(ctx context.Context, accessToken string) error
}

func (m *mockAuthorization) SignUp(ctx context.Context, username, password string) error {
	if m.SignUpFn == nil {
		return errUnexpectedCall
	}
	return m.SignUpFn(ctx, username, password)
}

func (m *mockAuthorization) GenerateToken(ctx context.Context, username, password string) (string, error) {
	if m.GenerateTokenFn == nil {
		return "", errUnexpectedCall
	}
	return m.GenerateTokenFn(ctx, username, password)
}

func (m *mockAuthorization) ParseToken(ctx context.Context, accessToken string) (string, error) {
	if m.ParseTokenFn == nil {
		return "", errUnexpectedCall
	}
	return m.ParseTokenFn(ctx, accessToken)
}

func (m *mockAuthorization) RevokeToken(ctx context.Context, accessToken string) error {
	if m.RevokeTokenFn == nil {
		return errUnexpectedCall
	}
	return m.RevokeTokenFn(ctx, accessToken)
}

type mockTools struct {
	ExplainFn    func(ctx context.Context, username string, p service.ExplainParams) (string, error)
	SummarizeFn  func(ctx context.Context, username string, p service.SummarizeParams) (string, error)
	QuizFn       func(ctx context.Context, username string, p service.QuizParams) (string, error)
	FlashcardsFn func(ctx context.Context, username string, p service.FlashcardsParams) (string, error)
}

func (m *mockTools) Explain(ctx context.Context, username string, p service.ExplainParams) (string, error) {
	if m.ExplainFn == nil {
		return "", errUnexpectedCall
	}
	return m.ExplainFn(ctx, username, p)
}

func (m *mockTools) Summarize(ctx context.Context, username string, p service.SummarizeParams) (string, error) {
	if m.SummarizeFn == nil {
		return "", errUnexpectedCall
	}
	return m.SummarizeFn(ctx, username, p)
}

func (m *mockTools) Quiz(ctx context.Context, username string, p service.QuizParams) (string, error) {
	if m.QuizFn == nil {
		return "", errUnexpectedCall
	}
	return m.QuizFn(ctx, username, p)
}

func (m *mockTools) Flashcards(ctx context.Context, username string, p service.FlashcardsParams) (string, error) {
	if m.FlashcardsFn == nil {
		return "", errUnexpectedCall
	}
	return m.FlashcardsFn(ctx, username, p)
}

type mockHistory struct {
	ListFn func(ctx context.Context, username string) ([]models.InteractionRecord, error)
}

func (m *mockHistory) List(ctx context.Context, username string) ([]models.InteractionRecord, error) {
	if m.ListFn == nil {
		return nil, errUnexpectedCall
	}
	return m.ListFn(ctx, username)
}

type mockJanitor struct{}

func (m *mockJanitor) Run(ctx context.Context, tick time.Duration) {}

// newTestRouter builds the full route tree over the given mocks with
// logging disabled.
func newTestRouter(auth service.Authorization, tools service.Tools, history service.History) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := &service.Service{
		Authorization: auth,
		Tools:         tools,
		History:       history,
		Janitor:       &mockJanitor{},
	}
	return NewHandler(svc, nil).InitRoutes()
}

// validParseToken returns a ParseToken that accepts exactly one token.
func validParseToken(token, username string) func(context.Context, string) (string, error) {
	return func(ctx context.Context, got string) (string, error) {
		if got != token {
			return "", service.ErrInvalidToken
		}
		return username, nil
	}
}
