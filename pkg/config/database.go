package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"coinlaunch/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection
func InitDB() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance:", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db

	// File-based migrations when a migrations dir is configured, otherwise
	// fall back to AutoMigrate.
	if os.Getenv("MIGRATIONS_DIR") != "" {
		ExecuteMigrations()
		return
	}

	err = DB.AutoMigrate(
		&models.CoinRecord{},
		&models.SettlementRecord{},
		&models.CoinStatRecord{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
}
