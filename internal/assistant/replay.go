package assistant

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sandeepkv93/taskbrain/internal/storage"
)

var ErrNoRepository = errors.New("assistant: no task log configured")

// Replay feeds the newest limit entries per user from the task log back into
// the learner, oldest first, using their original capture times. It returns
// the number of entries replayed.
func (s *Service) Replay(ctx context.Context, limit int) (int, error) {
	if s.repo == nil {
		return 0, ErrNoRepository
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	total := 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		entries, err := s.repo.ListUserTasks(ctx, storage.UserTaskFilter{UserID: u.UserID, Limit: limit})
		if err != nil {
			return total, fmt.Errorf("list tasks for %s: %w", u.UserID, err)
		}
		for i := len(entries) - 1; i >= 0; i-- {
			outcome := s.learner.LearnAt(ctx, u.UserID, entries[i].Text, entries[i].CreatedAt)
			s.metrics.Refit(string(outcome.Status), outcome.Degraded())
			total++
		}
	}
	s.metrics.SetProfiles(len(s.learner.Store().Users()))
	s.logger.Info(ctx, "task log replayed", zap.Int("users", len(users)), zap.Int("tasks", total))
	return total, nil
}
