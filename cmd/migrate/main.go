package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/GuilhermeKulkamp/tasklist/internal/config"
	"github.com/GuilhermeKulkamp/tasklist/internal/database"
	"github.com/GuilhermeKulkamp/tasklist/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	dbPath := flag.String("db", "", "task store file (overrides config)")
	flag.Parse()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New(config.Default().Log, os.Stderr).Fatal("Failed to load config", "err", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	logger := logging.New(cfg.Log, os.Stderr)
	if envErr != nil {
		logger.Debug("No .env file found")
	}

	if err := cfg.ValidateConfig(); err != nil {
		logger.Fatal("Invalid configuration", "err", err)
	}

	db, err := database.Open(database.Config{
		Path:  cfg.Database.Path,
		Debug: cfg.Database.Debug || cfg.IsDevelopment(),
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open task store", "err", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Running task store migration...", "path", db.Path())
	if err := db.Migrate(ctx); err != nil {
		logger.Error("Failed to run migration", "err", err)
		cancel()
		db.Close()
		os.Exit(1)
	}

	logger.Info("Migration completed successfully")
}
