package main

import (
	"contacts_app/internal/config" // Custom import path (Config)
	"contacts_app/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logging library
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err) // Fatal error if configuration is incomplete
	}
	db.Migrate(cfg.DSN()) // Apply the schema
}
