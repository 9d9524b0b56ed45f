package sqlitemigrate

import (
	"database/sql"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyMigrationsRecordsApplied(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE members(id INTEGER PRIMARY KEY);"),
		},
	}

	if err := ApplyMigrations(db, migrations); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations")
	if rows != 1 {
		t.Fatalf("expected 1 migration row, got %d", rows)
	}

	if !tableExists(t, db, "members") {
		t.Fatal("expected applied table to exist")
	}
}

func TestApplyMigrationsSkipsAlreadyApplied(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE members(id INTEGER PRIMARY KEY);"),
		},
	}
	if err := ApplyMigrations(db, migrations); err != nil {
		t.Fatalf("apply initial migrations: %v", err)
	}
	if err := ApplyMigrations(db, migrations); err != nil {
		t.Fatalf("re-apply migrations should be idempotent: %v", err)
	}

	rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations")
	if rows != 1 {
		t.Fatalf("expected single migration row after replay, got %d", rows)
	}
}

func TestApplyMigrationsOrdersFiles(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"002_alter.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nALTER TABLE members ADD COLUMN address TEXT;"),
		},
		"001_create.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE members(id INTEGER PRIMARY KEY);"),
		},
	}

	if err := ApplyMigrations(db, migrations); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	rows := queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations")
	if rows != 2 {
		t.Fatalf("expected 2 migration rows, got %d", rows)
	}
}

func TestApplyMigrationsRequiresDB(t *testing.T) {
	if err := ApplyMigrations(nil, fstest.MapFS{}); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestExtractUpMigrationStripsDownSection(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE members(id INTEGER PRIMARY KEY);\n-- +migrate Down\nDROP TABLE members;"
	up := ExtractUpMigration(content)
	if !strings.Contains(up, "CREATE TABLE members") {
		t.Fatalf("expected up section, got %q", up)
	}
	if strings.Contains(up, "DROP TABLE") {
		t.Fatalf("expected down section removed, got %q", up)
	}
}

func TestExtractUpMigrationWithoutMarkers(t *testing.T) {
	content := "CREATE TABLE members(id INTEGER PRIMARY KEY);"
	if up := ExtractUpMigration(content); up != content {
		t.Fatalf("expected full content without markers, got %q", up)
	}
}

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func queryInt64(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow(query).Scan(&value); err != nil {
		t.Fatalf("query %q: %v", query, err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found int
	err := db.QueryRow("SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("check table %s: %v", name, err)
	}
	return true
}
