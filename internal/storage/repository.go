package storage

import (
	"context"
	"errors"
)

var ErrInvalidEntry = errors.New("storage: invalid entry")

const DefaultListLimit = 100

// Repository is the append-only task log. Entries are never updated.
type Repository interface {
	AppendTask(ctx context.Context, in TaskLogEntry) (int64, error)
	ListUserTasks(ctx context.Context, filter UserTaskFilter) ([]TaskLogEntry, error)
	ListUsers(ctx context.Context) ([]UserSummary, error)
	CountTasks(ctx context.Context, userID string) (int, error)
}
