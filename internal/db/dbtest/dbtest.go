// Package dbtest opens throwaway SQLite databases with the schema applied.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"planner-go/internal/config"
	"planner-go/internal/db"
	"planner-go/pkg/logger"
)

var counter atomic.Int64

// Open returns a migrated in-memory database that lives until the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := config.Default().DB
	cfg.Driver = config.DriverSQLite
	cfg.SQLitePath = fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, counter.Add(1))

	log := logger.Discard()
	gormDB, err := db.Open(cfg, log)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(gormDB)
	})

	if err := db.Migrate(gormDB, cfg); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return gormDB
}
