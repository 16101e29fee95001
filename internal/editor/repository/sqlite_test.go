package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const migration = "../../../migrations/001_init_editor.sql"

func newRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "editor.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := New(db)
	if err := repo.Init(context.Background(), migration); err != nil {
		t.Fatalf("init: %v", err)
	}
	return repo
}

func TestRepository_PutGetUpsert(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	if _, err := repo.Get(ctx, "data[sys_file_reference][1][focus_points]"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Put(ctx, "field", `[{"x":0.1}]`); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, "field", `[]`); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := repo.Get(ctx, "field")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "[]" {
		t.Fatalf("expected upserted value, got %q", got)
	}
	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestRepository_InitIsIdempotent(t *testing.T) {
	repo := newRepo(t)
	if err := repo.Init(context.Background(), migration); err != nil {
		t.Fatalf("second init: %v", err)
	}
	if err := repo.Init(context.Background(), "missing.sql"); err == nil {
		t.Fatalf("expected error for missing migration")
	}
}
