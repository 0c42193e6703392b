package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/yeremiapane/cook-platform/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private, migrated in-memory SQLite database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := config.OpenDatabase("sqlite", dsn, logger.Silent)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
