package main

import (
	"bufio"
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/warehouse-report/internal/app"
	"github.com/noah-isme/warehouse-report/internal/config"
	"github.com/noah-isme/warehouse-report/internal/obs"
	"github.com/noah-isme/warehouse-report/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := obs.NewLogger(os.Stderr, "console", "info")
		fallback.Fatal().Err(err).Msg("load config")
	}

	logger := obs.NewLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel).With().
		Str("env", cfg.AppEnv).
		Str("run_id", uuid.NewString()).
		Logger()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error().Err(err).Msg("report failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	shutdown, err := obs.InitTracer(ctx, obs.TracingConfig{
		ServiceName:   "warehouse-report",
		Endpoint:      os.Getenv("OBS_OTLP_ENDPOINT"),
		Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "none"),
		SamplingRatio: 1,
		Environment:   cfg.AppEnv,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("shutdown tracer")
		}
	}()

	loadCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	deps, err := app.NewSource(loadCtx, cfg, "warehouse-report")
	if err != nil {
		return err
	}
	defer deps.Close(logger)

	start := time.Now()
	list, err := deps.Source.Load(loadCtx)
	if err != nil {
		return err
	}
	logger.Debug().Str("source", deps.Source.Name()).Int("orders", len(list)).Dur("elapsed", time.Since(start)).Msg("orders loaded")

	pipeline, err := report.NewPipeline(list, cfg.ABC)
	if err != nil {
		return err
	}
	tables, err := pipeline.Tables(cfg.ReportViews)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	for _, table := range tables {
		if err := table.Render(out); err != nil {
			return err
		}
	}
	if err := out.Flush(); err != nil {
		return err
	}
	logger.Info().Strs("views", cfg.ReportViews).Int("orders", pipeline.OrderCount()).Msg("report rendered")
	return nil
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
