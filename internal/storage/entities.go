package storage

import "time"

// TaskLogEntry is one captured task as written to the audit log.
type TaskLogEntry struct {
	ID         int64
	UserID     string
	Text       string
	CreatedAt  time.Time
	ExternalID string
}

type UserTaskFilter struct {
	UserID string
	Limit  int
	Offset int
}

// UserSummary is a per-user row count.
type UserSummary struct {
	UserID    string
	TaskCount int
	LastAt    time.Time
}
