package main

import (
	"log"

	"clinicbook/internal/config"
	"clinicbook/internal/db"
	"clinicbook/internal/model"
)

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Appointment{},
		&model.NotificationLog{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	created, err := db.SeedFixtures(gormDB)
	if err != nil {
		log.Fatalf("Failed to seed fixtures: %v", err)
	}

	if created == 0 {
		log.Println("Database already seeded, nothing to do")
		return
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Rows created: %d", created)
}
