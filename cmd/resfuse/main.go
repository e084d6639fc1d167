// Package main is the entrypoint for the resfuse pipeline.
//
// One run fuses a single site's historical power series with the weather of
// its nearest synoptic station: load the station registry and power history,
// resolve the station, download the yearly archives covering the power span,
// align everything onto the power sampling grid, and join. The fused dataset
// goes to Postgres when DATABASE_URL is set and to CSV (file or stdout)
// always.
//
// This file handles dependency wiring and delegates the domain work to the
// internal packages.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"resfuse/internal/config"
	"resfuse/internal/db"
	"resfuse/internal/export"
	"resfuse/internal/fuse"
	"resfuse/internal/meteo"
	"resfuse/internal/power"
	"resfuse/internal/registry"
	"resfuse/internal/types"
)

func main() {
	// Bootstrap logger; replaced once the configured level is known.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))

	runID := uuid.NewString()
	ctx := types.WithRunID(context.Background(), runID)
	logger = logger.With("run_id", runID, "service", cfg.Service, "env", cfg.Environment)

	logger.InfoContext(ctx, "starting fuse run",
		"site", cfg.Site.Name,
		"resource_type", cfg.Site.ResourceType,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
	)

	if err := run(ctx, cfg, logger); err != nil {
		logger.ErrorContext(ctx, "fuse run failed",
			"error", err,
			"code", types.CodeOf(err),
		)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "fuse run complete")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	site, err := types.NewSite(
		cfg.Site.Name,
		cfg.Site.InstalledPowerKW,
		cfg.Site.Longitude,
		cfg.Site.Latitude,
		cfg.Site.ResourceType,
	)
	if err != nil {
		return err
	}

	stations, err := registry.Load(cfg.Sources.StationRegistryPath)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "loaded station registry",
		"stations", len(stations), "path", cfg.Sources.StationRegistryPath)

	samples, err := power.Load(cfg.Sources.PowerHistoryPath)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "loaded power history",
		"samples", len(samples), "path", cfg.Sources.PowerHistoryPath)

	fetcher := meteo.NewHTTPFetcher(meteo.HTTPFetcherConfig{
		BaseURL: cfg.Meteo.BaseURL,
		Timeout: cfg.Meteo.HTTPTimeout,
		Logger:  logger,
	})
	loader := meteo.NewArchiveLoader(meteo.ArchiveLoaderConfig{
		Fetcher: fetcher,
		TempDir: cfg.Meteo.TempDir,
		Logger:  logger,
	})
	builder := meteo.NewSeriesBuilder(meteo.SeriesBuilderConfig{
		Source: loader,
		Logger: logger,
	})

	pipeline, err := fuse.New(ctx, fuse.PipelineConfig{
		Site:     site,
		Stations: stations,
		Power:    samples,
		Series:   builder,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	recs, err := pipeline.Collect(ctx)
	if err != nil {
		return err
	}

	if cfg.Database.URL != "" {
		if err := storeRecords(ctx, cfg, logger, recs); err != nil {
			return err
		}
	}

	return writeCSV(ctx, cfg, logger, recs)
}

// storeRecords opens a short-lived pool, ensures the schema, and bulk-loads
// the fused records.
func storeRecords(ctx context.Context, cfg *config.Config, logger *slog.Logger, recs []types.FusedRecord) error {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL.Unmask())
	if err != nil {
		return types.NewAppError(types.ErrCodeStoreWrite, "invalid database url", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	poolCfg.MinConns = int32(cfg.Database.MinConns)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return types.NewAppError(types.ErrCodeStoreWrite, "failed to create database pool", err)
	}
	defer pool.Close()

	if err := pool.Ping(connectCtx); err != nil {
		return types.NewAppError(types.ErrCodeStoreWrite, "failed to ping database", err)
	}

	repo := db.NewFusedRecordRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	count, err := repo.InsertBatch(ctx, recs)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "stored fused records", "rows", count)
	return nil
}

// writeCSV writes the fused dataset to the configured file, or to stdout
// when no path is set.
func writeCSV(ctx context.Context, cfg *config.Config, logger *slog.Logger, recs []types.FusedRecord) error {
	if cfg.Output.CSVPath == "" {
		return export.WriteCSV(os.Stdout, recs)
	}

	f, err := os.Create(cfg.Output.CSVPath)
	if err != nil {
		return types.NewAppError(types.ErrCodeStoreWrite, "failed to create output file", err)
	}

	if err := export.WriteCSV(f, recs); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return types.NewAppError(types.ErrCodeStoreWrite, "failed to finalize output file", err)
	}

	logger.InfoContext(ctx, "wrote fused dataset",
		"path", cfg.Output.CSVPath, "rows", len(recs))
	return nil
}

// parseLogLevel maps the configured level name onto slog's levels. Unknown
// names fall back to info.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
