// Package tracker creates user-facing task records in a remote system.
package tracker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/sandeepkv93/taskbrain/internal/model"
)

var ErrInvalidTask = errors.New("tracker: invalid task")

// Tracker creates one remote task and returns its opaque identifier.
type Tracker interface {
	CreateTask(ctx context.Context, userID, text string, category model.Category) (string, error)
}

// categoryLabel renders category for display, or "" when it should be
// omitted.
func categoryLabel(category model.Category) string {
	if category == "" || category == model.CategoryUnknown {
		return ""
	}
	s := strings.ToLower(string(category))
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func validate(userID, text string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(text) == "" {
		return ErrInvalidTask
	}
	return nil
}

// LocalTask is a task held by LocalTracker.
type LocalTask struct {
	ID        string
	UserID    string
	Text      string
	Category  string
	Status    string
	CreatedAt time.Time
}

// LocalTracker keeps tasks in memory and issues uuid identifiers. It is used
// when no remote tracker is configured.
type LocalTracker struct {
	mu    sync.Mutex
	tasks []LocalTask
	now   func() time.Time
}

func NewLocalTracker() *LocalTracker {
	return &LocalTracker{now: time.Now}
}

func (t *LocalTracker) CreateTask(ctx context.Context, userID, text string, category model.Category) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validate(userID, text); err != nil {
		return "", err
	}
	id := uuid.NewString()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tasks = append(t.tasks, LocalTask{
		ID:        id,
		UserID:    userID,
		Text:      text,
		Category:  categoryLabel(category),
		Status:    statusTodo,
		CreatedAt: t.now(),
	})
	return id, nil
}

// Tasks returns a copy of everything created so far, oldest first.
func (t *LocalTracker) Tasks() []LocalTask {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]LocalTask(nil), t.tasks...)
}
