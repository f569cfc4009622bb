package service

import (
	"context"
	"errors"
	"strings"

	"studybuddy/internal/models"
	"studybuddy/internal/repository"
)

type HistoryService struct {
	history repository.History
}

func NewHistoryService(history repository.History) *HistoryService {
	return &HistoryService{history: history}
}

var _ History = (*HistoryService)(nil)

var errEmptyUsername = errors.New("username is empty")

// List returns the user's interactions, most recent first. Two calls
// with no intervening append return identical sequences.
func (s *HistoryService) List(ctx context.Context, username string) ([]models.InteractionRecord, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errEmptyUsername
	}
	return s.history.List(ctx, username)
}
