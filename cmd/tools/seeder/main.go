package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/noah-isme/warehouse-report/internal/app"
	"github.com/noah-isme/warehouse-report/internal/obs"
	"github.com/noah-isme/warehouse-report/internal/orders"
)

func main() {
	_ = godotenv.Load()

	logger := obs.NewLogger(os.Stderr, "console", "info")

	file := flag.String("file", envOrDefault("DATA_FILE", "trial_task.json"), "JSON order document to load")
	skipMigrate := flag.Bool("skip-migrate", false, "do not apply schema migrations before seeding")
	flag.Parse()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}

	if !*skipMigrate {
		if err := orders.Migrate(dbURL); err != nil {
			logger.Fatal().Err(err).Msg("apply migrations")
		}
		logger.Info().Msg("migrations applied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	list, err := orders.FileSource{Path: *file}.Load(ctx)
	if err != nil {
		if errors.Is(err, orders.ErrInvalidInput) {
			logger.Fatal().Err(err).Str("file", *file).Msg("order document is invalid")
		}
		logger.Fatal().Err(err).Str("file", *file).Msg("read order document")
	}

	pool, err := app.NewPool(ctx, dbURL, "warehouse-report-seeder")
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if err := (orders.Store{DB: pool}).Replace(ctx, list); err != nil {
		logger.Fatal().Err(err).Msg("seed orders")
	}

	lines := 0
	for _, o := range list {
		lines += len(o.Products)
	}
	logger.Info().Int("orders", len(list)).Int("lines", lines).Msg("seeding completed")
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
