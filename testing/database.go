// Package testing provides test utilities and database setup for testing the pricing system
package testing

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/klb1963/yachtpricer/models"
)

// TestDB represents an in-memory test database instance
type TestDB struct {
	DB *gorm.DB
}

// SetupTestDB creates a fresh in-memory sqlite database and runs migrations.
// Each call returns an isolated database; nothing leaks between tests.
func SetupTestDB() (*TestDB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return &TestDB{DB: db}, nil
}

// runMigrations creates the schema for all domain models
func runMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Yacht{},
		&models.YachtManager{},
		&models.YachtOwner{},
		&models.CompetitorPrice{},
		&models.CompetitorSnapshot{},
		&models.PricingDecision{},
		&models.PriceAuditLog{},
		&models.FilterConfig{},
		&models.PriceListEntry{},
		&models.Country{},
		&models.Region{},
		&models.Location{},
		&models.YachtModel{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// CleanupTestDB closes the underlying connection
func (tdb *TestDB) CleanupTestDB() error {
	sqlDB, err := tdb.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
