package config

import (
	"fmt"
	"strings"

	"github.com/kendall-kelly/jobshop-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDatabase opens the database named by the config. URLs starting with
// "sqlite:" or "file:" use the SQLite driver, everything else PostgreSQL.
func ConnectDatabase(cfg *Config, log logrus.FieldLogger) error {
	databaseURL := cfg.DatabaseURL
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel))}

	var (
		db  *gorm.DB
		err error
	)
	switch {
	case strings.HasPrefix(databaseURL, "sqlite:"):
		db, err = gorm.Open(sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite:")), gormConfig)
	case strings.HasPrefix(databaseURL, "file:"):
		db, err = gorm.Open(sqlite.Open(databaseURL), gormConfig)
	default:
		db, err = gorm.Open(postgres.Open(databaseURL), gormConfig)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if db.Dialector.Name() == "sqlite" {
		// SQLite allows one writer; a shared connection also keeps :memory: databases intact
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	DB = db
	log.WithField("dialect", db.Dialector.Name()).Info("Database connection established")
	return nil
}

// AutoMigrate creates or updates every table the API uses
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Material{},
		&models.Service{},
		&models.Machine{},
		&models.Staff{},
		&models.Order{},
		&models.OrderStaff{},
		&models.Payment{},
		&models.Supplier{},
		&models.Expense{},
	)
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return logger.Info
	case "warn", "warning":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
