package db

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestOpenCreatesSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "app.db")
	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, table := range []string{"users", "games", "daily_results", "_migrations"} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}

	var fk int
	if err := db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk); err != nil || fk != 1 {
		t.Fatalf("foreign_keys = %d (%v)", fk, err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := open(filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	fsys := fstest.MapFS{
		"001_a.sql":  {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"002_b.sql":  {Data: []byte(`INSERT INTO a VALUES (1);`)},
		"notes.txt":  {Data: []byte(`ignored`)},
		"003_ws.sql": {Data: []byte("  \n")},
	}
	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db, fsys); err != nil {
			t.Fatalf("migrate run %d: %v", i, err)
		}
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM a`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("rows in a = %d (%v), want 1", n, err)
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil || n != 2 {
		t.Fatalf("recorded = %d (%v), want 2", n, err)
	}
}

func TestMigrateRollsBackFailures(t *testing.T) {
	ctx := context.Background()
	db, err := open(filepath.Join(t.TempDir(), "bad.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	fsys := fstest.MapFS{
		"001_bad.sql": {Data: []byte(`CREATE TABLE ok (id INTEGER); NOT SQL;`)},
	}
	if err := Migrate(ctx, db, fsys); err == nil {
		t.Fatal("expected error")
	}
	var n int
	_ = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM _migrations`).Scan(&n)
	if n != 0 {
		t.Fatalf("failed migration was recorded")
	}
}
