package database

import (
	"database/sql"
	"taskboard/internal/platform/config"
	"taskboard/internal/platform/logger"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

var DB *sql.DB

func Connect() {
	var err error
	DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		logger.L.Fatal().Err(err).Msg("Error opening database")
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err = DB.Ping(); err != nil {
		logger.L.Fatal().Err(err).Msg("Error connecting to database")
	}

	logger.L.Info().Str("db", config.AppConfig.DBName).Msg("Connected to PostgreSQL")
}

func Close() {
	if DB != nil {
		DB.Close()
		logger.L.Info().Msg("Database connection closed")
	}
}
