// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"testing"

	"agri_market/internal/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a fresh in-memory SQLite database with the schema applied.
// The pool is capped at one connection because every connection to
// ":memory:" would otherwise see its own empty database. That also means
// concurrent transactions queue at the pool, so SELECT ... FOR UPDATE is
// never contended here; row locking is only exercised against Postgres.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		sqlDB.Close()
		t.Fatalf("creating test database schema: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })

	return db
}
