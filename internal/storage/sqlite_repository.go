package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Fixed width so created_at sorts lexically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Open opens path and applies pending migrations.
func Open(path string) (*SQLiteRepository, error) {
	repo, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := MigrateUp(repo.db); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) AppendTask(ctx context.Context, in TaskLogEntry) (int64, error) {
	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.Text) == "" {
		return 0, fmt.Errorf("%w: user id and text are required", ErrInvalidEntry)
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO task_log (user_id, text, created_at, external_id)
		VALUES (?, ?, ?, ?)`,
		in.UserID, in.Text, formatTime(in.CreatedAt), in.ExternalID,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListUserTasks returns the user's entries newest first.
func (r *SQLiteRepository) ListUserTasks(ctx context.Context, filter UserTaskFilter) ([]TaskLogEntry, error) {
	query := `
		SELECT id, user_id, text, created_at, external_id
		FROM task_log
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`
	args := []any{filter.UserID}
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TaskLogEntry, 0)
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]UserSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, COUNT(*), MAX(created_at)
		FROM task_log
		GROUP BY user_id
		ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UserSummary, 0)
	for rows.Next() {
		var s UserSummary
		var last string
		if err := rows.Scan(&s.UserID, &s.TaskCount, &last); err != nil {
			return nil, err
		}
		if s.LastAt, err = parseTime(last); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountTasks counts one user's entries, or every entry when userID is empty.
func (r *SQLiteRepository) CountTasks(ctx context.Context, userID string) (int, error) {
	query := "SELECT COUNT(*) FROM task_log"
	var args []any
	if userID != "" {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func formatTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	*args = append(*args, limit)
	clause := " LIMIT ?"
	if offset > 0 {
		*args = append(*args, offset)
		clause += " OFFSET ?"
	}
	return clause
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (TaskLogEntry, error) {
	var out TaskLogEntry
	var created string
	if err := s.Scan(&out.ID, &out.UserID, &out.Text, &created, &out.ExternalID); err != nil {
		return TaskLogEntry{}, err
	}
	createdAt, err := parseTime(created)
	if err != nil {
		return TaskLogEntry{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}
