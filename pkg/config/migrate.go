package config

import (
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ExecuteMigrations runs all pending database migrations from MIGRATIONS_DIR
func ExecuteMigrations() {
	db, err := DB.DB()
	if err != nil {
		log.Fatal("Failed to get database connection:", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("Failed to create postgres driver:", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+os.Getenv("MIGRATIONS_DIR"),
		"postgres",
		driver,
	)
	if err != nil {
		log.Fatal("Failed to create migrate instance:", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Database migrations completed successfully")
}

// RollbackMigration rolls back the last migration
func RollbackMigration() {
	db, err := DB.DB()
	if err != nil {
		log.Fatal("Failed to get database connection:", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal("Failed to create postgres driver:", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+os.Getenv("MIGRATIONS_DIR"),
		"postgres",
		driver,
	)
	if err != nil {
		log.Fatal("Failed to create migrate instance:", err)
	}

	if err := m.Steps(-1); err != nil {
		log.Fatal("Failed to rollback migration:", err)
	}

	log.Println("Migration rolled back successfully")
}
