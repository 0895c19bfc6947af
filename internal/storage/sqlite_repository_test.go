package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "habitd-test.db")
	repo, err := OpenSQLite(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	repo.now = func() time.Time { return time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC) }
	return repo
}

func TestEntryPutGetDeleteAndKeys(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.Get(ctx, "habits"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	if err := repo.Put(ctx, "habits", `[]`); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, "habits", `[{"id":"a"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := repo.Put(ctx, "completions", `{}`); err != nil {
		t.Fatalf("put completions: %v", err)
	}

	got, err := repo.Get(ctx, "habits")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Value != `[{"id":"a"}]` {
		t.Fatalf("unexpected value: %q", got.Value)
	}
	if !got.UpdatedAt.Equal(time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected updated_at: %v", got.UpdatedAt)
	}

	keys, err := repo.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "completions" || keys[1] != "habits" {
		t.Fatalf("unexpected keys: %v", keys)
	}

	if err := repo.Delete(ctx, "habits"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "habits"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestPutAllWritesEveryEntry(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	if err := repo.PutAll(ctx, map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("put all: %v", err)
	}
	for key, want := range map[string]string{"a": "1", "b": "2"} {
		got, err := repo.Get(ctx, key)
		if err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
		if got.Value != want {
			t.Fatalf("key %s: got %q want %q", key, got.Value, want)
		}
	}
}

func TestMigrateRoundTrip(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate-roundtrip.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	if err := MigrateUp(ctx, db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	if err := MigrateUp(ctx, db); err != nil {
		t.Fatalf("migrate up is not idempotent: %v", err)
	}
	if got := countVersions(t, db); got != 1 {
		t.Fatalf("expected one recorded migration, got %d", got)
	}
	if err := MigrateDown(ctx, db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}
	if got := countVersions(t, db); got != 0 {
		t.Fatalf("expected no recorded migrations after down, got %d", got)
	}
	if err := MigrateUp(ctx, db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	if err := repo.Put(ctx, "k", "v"); err != nil {
		t.Fatalf("insert after roundtrip failed: %v", err)
	}
}

func countVersions(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	return n
}

func TestNewSQLiteRepositoryRejectsNilDB(t *testing.T) {
	if _, err := NewSQLiteRepository(nil); err == nil {
		t.Fatal("expected error for nil db")
	}
}
