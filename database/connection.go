package database

import (
	"fmt"
	"log"

	"github.com/Ananth-NQI/docverify-backend/internal/config"
	"github.com/Ananth-NQI/docverify-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DSN builds the postgres connection string for the configured environment
func DSN(cfg *config.Config) string {
	// For Cloud Run with Cloud SQL
	if cfg.InstanceConnectionName != "" {
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.InstanceConnectionName, cfg.DBUser, cfg.DBPass, cfg.DBName)
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort)
}

// Connect opens the postgres connection
func Connect(cfg *config.Config) (*gorm.DB, error) {
	if cfg.InstanceConnectionName != "" {
		log.Printf("Connecting to Cloud SQL via socket: %s", cfg.InstanceConnectionName)
	} else {
		log.Println("Connecting to local PostgreSQL")
	}

	db, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("✅ Database connected successfully!")
	return db, nil
}

// Migrate creates or updates the tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Driver{},
		&models.Document{},
		&models.VerificationLog{},
	)
}

// Ping reports whether the database answers
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
