package main

import (
	"log"

	"github.com/oliver-zyn/productivity-hub/internal/config"
	"github.com/oliver-zyn/productivity-hub/internal/db"
)

func main() {
	cfg := config.Load()
	database, err := db.Open(cfg.DBDriver, cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	log.Printf("migrations applied successfully (%s)", cfg.DBPath)
}
