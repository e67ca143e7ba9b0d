package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/warehouse-report/internal/config"
	"github.com/noah-isme/warehouse-report/internal/obs"
	"github.com/noah-isme/warehouse-report/internal/orders"
)

// Dependencies holds the shared clients a binary opened while wiring its data source.
type Dependencies struct {
	Source orders.Source
	DB     *pgxpool.Pool
	Redis  *redis.Client
}

// Close releases every opened client.
func (d *Dependencies) Close(logger zerolog.Logger) {
	if d == nil {
		return
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
}

// NewSource builds the order source selected by cfg.DataSource.
// Postgres connections are traced with obs.PGXTracer and tagged with appName.
func NewSource(ctx context.Context, cfg *config.Config, appName string) (*Dependencies, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	deps := &Dependencies{}
	switch cfg.DataSource {
	case config.SourceFile, "":
		deps.Source = orders.FileSource{Path: cfg.DataFile}
	case config.SourceHTTP:
		deps.Source = orders.HTTPSource{URL: cfg.DataURL, Client: orders.HTTPClient(cfg.DataHTTPTimeout)}
	case config.SourcePostgres:
		pool, err := NewPool(ctx, cfg.DatabaseURL, appName)
		if err != nil {
			return nil, err
		}
		deps.DB = pool
		deps.Source = orders.PostgresSource{DB: pool}
	default:
		return nil, fmt.Errorf("unsupported data source %q", cfg.DataSource)
	}
	return deps, nil
}

// NewPool opens and pings a traced pgx pool.
func NewPool(ctx context.Context, databaseURL, appName string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = map[string]string{}
	}
	poolConfig.ConnConfig.RuntimeParams["application_name"] = appName

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// NewRedis opens an instrumented Redis client, or returns nil when redisURL is empty.
func NewRedis(ctx context.Context, redisURL string, withMetrics bool, logger zerolog.Logger) (*redis.Client, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if withMetrics {
		if err := redisotel.InstrumentMetrics(client); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
