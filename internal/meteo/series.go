package meteo

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"resfuse/internal/types"
)

// ArchiveSource abstracts per-year archive loading so the builder can be
// tested without network or filesystem access.
type ArchiveSource interface {
	Load(ctx context.Context, stationCode string, year int) ([]types.WeatherObservation, error)
}

// SeriesBuilderConfig configures a SeriesBuilder.
type SeriesBuilderConfig struct {
	Source ArchiveSource
	Logger *slog.Logger
}

// SeriesBuilder assembles the multi-year weather series covering a power
// history span. Years load sequentially and the first failure aborts the
// build: a partial series would silently misalign downstream, so there are
// no partial results.
type SeriesBuilder struct {
	source ArchiveSource
	logger *slog.Logger
}

// NewSeriesBuilder creates a SeriesBuilder.
func NewSeriesBuilder(cfg SeriesBuilderConfig) *SeriesBuilder {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SeriesBuilder{
		source: cfg.Source,
		logger: logger,
	}
}

// Build loads every requested year for the station and returns the combined
// observations sorted chronologically.
func (b *SeriesBuilder) Build(ctx context.Context, stationCode string, years []int) ([]types.WeatherObservation, error) {
	if len(years) == 0 {
		return nil, types.NewAppError(types.ErrCodeAlignment,
			"no years to cover; power series is empty", nil)
	}

	var series []types.WeatherObservation
	for _, year := range years {
		obs, err := b.source.Load(ctx, stationCode, year)
		if err != nil {
			return nil, fmt.Errorf("weather series year %d: %w", year, err)
		}
		b.logger.InfoContext(ctx, "loaded weather archive",
			"station", stationCode, "year", year, "rows", len(obs))
		series = append(series, obs...)
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})
	return series, nil
}
