package main

import (
	"log"

	"gymflow-be/internal/config"
	"gymflow-be/internal/model"
	"gymflow-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.LogLevel)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Running AutoMigrate...")
	if err := db.AutoMigrate(model.Models()...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// Newest-first listing of a key reads this index backwards.
	log.Println("Step 2: Ensuring recents ordering index...")
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_ai_recents_key_order ON ai_recents (user_id, tool, kind, created_at DESC, id DESC)`).Error; err != nil {
		log.Printf("Warn: Failed to create ordering index: %v", err)
	}

	log.Println("✅ Success: Database migration completed.")
}
