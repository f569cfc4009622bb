package service

import (
	"context"
	"time"

	"studybuddy/internal/repository"
)

// JanitorService drops token revocations once the tokens they block
// have expired on their own.
type JanitorService struct {
	sessions repository.Sessions
}

func NewJanitorService(sessions repository.Sessions) *JanitorService {
	return &JanitorService{sessions: sessions}
}

var _ Janitor = (*JanitorService)(nil)

// Run ticks at the given interval until ctx is canceled. Purge errors
// are transient (next tick retries), so the loop keeps going.
func (j *JanitorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			_, _ = j.sessions.PurgeExpired(ctx, now.UTC())
		}
	}
}
