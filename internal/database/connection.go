package database

import (
	"fmt"
	"strings"
	"time"

	"invoice_manager/internal/logger"
	"invoice_manager/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Initialize opens the database named by databaseURL and migrates the schema.
// URLs starting with "sqlite://" open an embedded SQLite file, anything else
// is handed to the Postgres driver.
func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := Open(databaseURL)
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log := logger.WithComponent("database")
	log.Info().Str("dialect", db.Dialector.Name()).Msg("database connected and migrated")
	return db, nil
}

// Open connects without migrating.
func Open(databaseURL string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if path, ok := strings.CutPrefix(databaseURL, "sqlite://"); ok {
		dialector = sqlite.Open(path)
	} else {
		dialector = postgres.Open(databaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// newGormLogger routes gorm's slow-query and error output through zerolog.
func newGormLogger() gormlogger.Interface {
	zl := logger.WithComponent("gorm")
	return gormlogger.New(&zl, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
