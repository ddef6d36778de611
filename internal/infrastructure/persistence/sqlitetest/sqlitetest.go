// Package sqlitetest opens a migrated, throwaway sqlite database for tests.
package sqlitetest

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ngoclaw/agenthub/internal/infrastructure/config"
	"github.com/ngoclaw/agenthub/internal/infrastructure/persistence"
)

// New returns a database file under t.TempDir(), closed on cleanup.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Type:     "sqlite",
		DSN:      filepath.Join(t.TempDir(), "agenthub_test.db"),
		LogLevel: "silent",
	}
	db, err := persistence.NewDBConnection(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := persistence.AutoMigrate(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	t.Cleanup(func() { _ = persistence.Close(db) })
	return db
}
