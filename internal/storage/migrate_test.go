package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/rlt-lab/gigsly/internal/storage"
)

func TestOpen_CreatesParentDirAndSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "gigsly.db")

	db, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	var version int
	err = db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if version != storage.SchemaVersion {
		t.Fatalf("schema version = %d, want %d", version, storage.SchemaVersion)
	}

	for _, table := range []string{"venues", "shows", "recurring_gigs", "contact_logs"} {
		var name string
		err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %q missing: %v", table, err)
		}
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := storage.Open(""); err == nil {
		t.Fatalf("expected error for empty db path")
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "gigsly.db")

	db, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := storage.Migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count)
	if err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if count != 1 {
		t.Fatalf("schema_migrations has %d rows, want 1", count)
	}
}
