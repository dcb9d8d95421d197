// Package dbtest opens throwaway SQLite databases for package tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-quiz/internal/db"
)

// Open returns a fresh in-memory database with the full schema applied.
// Each call gets its own named memory DB so parallel tests never share state.
func Open(tb testing.TB) *sql.DB {
	tb.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	h, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	tb.Cleanup(func() { _ = h.Close() })
	return h
}
