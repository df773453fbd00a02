package testutil

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/rsvp-backend/internal/data/db"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error

	dbSeq atomic.Int64
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a freshly migrated database private to the calling test.
// With TEST_POSTGRES_DSN set it uses Postgres and truncates the guest tables;
// otherwise it opens a private in-memory sqlite database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	}

	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		conn, err := gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			tb.Fatalf("open postgres: %v", err)
		}
		if err := db.AutoMigrateAll(conn); err != nil {
			tb.Fatalf("migrate: %v", err)
		}
		truncate(tb, conn)
		tb.Cleanup(func() { truncate(tb, conn) })
		return conn
	}

	name := fmt.Sprintf("file:rsvp_test_%d?mode=memory&cache=shared&_busy_timeout=5000", dbSeq.Add(1))
	conn, err := gorm.Open(sqlite.Open(name), cfg)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	if err := db.AutoMigrateAll(conn); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func truncate(tb testing.TB, conn *gorm.DB) {
	tb.Helper()
	for _, table := range []string{"guest", "menu_option", "bridal_party_member", "gallery_image"} {
		if err := conn.Exec("DELETE FROM " + table).Error; err != nil {
			tb.Fatalf("truncate %s: %v", table, err)
		}
	}
}
