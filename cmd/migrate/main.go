package main

import (
	"context"
	"taskboard/internal/common/security"
	"taskboard/internal/platform/config"
	"taskboard/internal/platform/database"
	"taskboard/internal/platform/logger"
	"time"
)

func main() {
	config.Load()
	logger.Init(config.AppConfig.Env)
	security.SetHashCost(config.AppConfig.BcryptCost)

	database.Connect()
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.L.Info().Msg("Starting database migration...")
	if err := database.Migrate(ctx, database.DB); err != nil {
		logger.L.Fatal().Err(err).Msg("Migration failed")
	}
	if err := database.Seed(ctx, database.DB); err != nil {
		logger.L.Fatal().Err(err).Msg("Seeding failed")
	}
	logger.L.Info().Msg("Migration completed successfully")
}
