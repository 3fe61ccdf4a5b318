// Package database owns the GORM connection to PostgreSQL and the trivial
// probe used by the health endpoints.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"userapi/internal/models"
)

// Connect opens the PostgreSQL connection and migrates the schema. A failure
// here is unrecoverable and should terminate the process.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema for all persisted models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping runs a trivial statement to verify the storage engine is reachable.
func Ping(db *gorm.DB) error {
	return db.Exec("SELECT 1").Error
}
