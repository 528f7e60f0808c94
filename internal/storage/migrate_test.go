package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("repeat migrate up failed: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	id, err := repo.AppendTask(t.Context(), TaskLogEntry{
		UserID:     "u1",
		Text:       "Roundtrip task",
		CreatedAt:  now,
		ExternalID: "ext-rt-1",
	})
	if err != nil {
		t.Fatalf("insert after roundtrip failed: %v", err)
	}

	got, err := repo.getTask(t.Context(), id)
	if err != nil {
		t.Fatalf("get after roundtrip failed: %v", err)
	}
	if got.Text != "Roundtrip task" || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected entry after roundtrip: %#v", got)
	}
}

func TestMigrationsAreRecorded(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "versions.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	versions, err := AppliedMigrations(db)
	if err != nil {
		t.Fatalf("applied migrations: %v", err)
	}
	if len(versions) != 1 || versions[0] != "0001_task_log" {
		t.Fatalf("unexpected versions: %v", versions)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	versions, err = AppliedMigrations(db)
	if err != nil {
		t.Fatalf("applied migrations after down: %v", err)
	}
	if len(versions) != 0 {
		t.Fatalf("expected no versions after down, got %v", versions)
	}
	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'task_log'`).Scan(&name)
	if err != sql.ErrNoRows {
		t.Fatalf("expected task_log dropped, got %q (%v)", name, err)
	}
}
