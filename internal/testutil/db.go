// Package testutil opens migrated in-memory databases for package tests.
package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"facilities/internal/config"
	"facilities/internal/utils"
)

// NewDB returns a fresh SQLite database with every migration applied.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()
	utils.Log.SetLevel(logrus.FatalLevel)

	db, err := config.Open(config.DatabaseOptions{Driver: config.DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := config.Migrate(db, config.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
