package main

import (
	"log"

	"lexi-drafting-be/internal/config"
	"lexi-drafting-be/internal/model"
	"lexi-drafting-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.DefaultOptions())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running migration...")
	if err := database.Migrate(db, model.All(), model.Indexes...); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}
	log.Println("Migration completed successfully")
}
