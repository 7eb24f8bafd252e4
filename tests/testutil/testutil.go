package testutil

import (
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/kendall-kelly/jobshop-api/config"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testEnv = "test"

// RequireTestEnvironment fails t unless GO_ENV=test. Suites that create
// tables or wipe rows call it first.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()
	if env := os.Getenv("GO_ENV"); env != testEnv {
		t.Fatalf("refusing to touch a database with GO_ENV=%q; set GO_ENV=test", env)
	}
}

// RequireTestEnvironmentOrSkip skips t unless GO_ENV=test
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()
	if env := os.Getenv("GO_ENV"); env != testEnv {
		t.Skipf("GO_ENV=%q, want %q", env, testEnv)
	}
}

// NewTestDB opens a migrated in-memory SQLite database. The pool is pinned to
// one connection so every query and transaction sees the same memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	if err := config.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// NewTestLogger returns a logger that discards output
func NewTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// PrintEnvironmentInfo writes the variables a test run depends on to stdout
func PrintEnvironmentInfo() {
	for _, key := range []string{"GO_ENV", "DATABASE_URL", "PORT"} {
		value := os.Getenv(key)
		if key == "DATABASE_URL" {
			value = maskDatabaseURL(value)
		}
		fmt.Printf("  %s=%s\n", key, value)
	}
}

// maskDatabaseURL truncates url after the first 20 bytes
func maskDatabaseURL(url string) string {
	switch {
	case url == "":
		return "(not set)"
	case len(url) > 20:
		return url[:20] + "..."
	default:
		return url
	}
}
