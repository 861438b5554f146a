// Package testutil provides helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"homemeds/m/internal/database"
	"homemeds/m/internal/migrations"
)

// OpenDB returns a migrated SQLite database in a temp dir, closed when the test ends.
func OpenDB(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "medicines.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}
