package migrate_test

import (
	"testing"

	"clipdesk/internal/db"
	"clipdesk/internal/migrate"
)

func TestMigrateAppliesAndRecords(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	v, err := migrate.Version(conn)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v < 1 {
		t.Fatalf("expected at least version 1 applied, got %d", v)
	}
	for _, table := range []string{"buyer_requests", "jobs", "job_checklist", "templates", "admins"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}

	var appliedAt string
	if err := conn.QueryRow(`SELECT applied_at FROM schema_migrations WHERE version=1`).Scan(&appliedAt); err != nil {
		t.Fatalf("read applied_at: %v", err)
	}
	if appliedAt == "" {
		t.Fatal("expected applied_at to be recorded")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	first, err := migrate.Version(conn)
	if err != nil {
		t.Fatal(err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	second, err := migrate.Version(conn)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("version moved on re-run: %d -> %d", first, second)
	}
	var rows int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != first {
		t.Fatalf("expected one record per applied migration, got %d rows for version %d", rows, first)
	}
}
