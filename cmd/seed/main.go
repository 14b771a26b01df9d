// Command seed creates the storefront schema and loads the fixture data
// without starting any listener. Tables that already hold rows are skipped.
package main

import (
	"context"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/config"
	"storefront-service/internal/logging"
	"storefront-service/internal/store"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg(".env file not found or error loading, relying on system environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}
	logger := logging.New(cfg, "StorefrontSeed")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := store.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("Database unavailable")
	}
	dbStore := store.NewPostgresStore(db, logger)
	defer dbStore.Close()

	if err := dbStore.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Schema creation failed")
	}

	hash, err := auth.HashPassword(cfg.Seed.UserPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("Hashing the fixture password failed")
	}
	if err := dbStore.Seed(ctx, hash); err != nil {
		logger.Fatal().Err(err).Msg("Seeding failed")
	}
	logger.Info().Msg("Schema and fixture data are in place.")
}
