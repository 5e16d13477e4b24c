package main

import (
	"flag"
	"log"

	"certprep/internal/config"
	"certprep/internal/database"
	"certprep/internal/logger"

	"go.uber.org/zap"
)

func main() {
	migrationsDir := flag.String("dir", "database/migrations", "directory holding *.up.sql migration files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.NewMigrateOracleDB(cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}

	l.Info("Migrations completed successfully", zap.String("dir", *migrationsDir))
}
