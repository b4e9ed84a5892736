package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/isdelr/devblogs-be/internal/database"
)

// NewDB opens a migrated SQLite database in a per-test temporary directory.
func NewDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
