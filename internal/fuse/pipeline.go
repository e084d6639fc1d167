package fuse

import (
	"context"
	"log/slog"
	"time"

	"resfuse/internal/geo"
	"resfuse/internal/power"
	"resfuse/internal/timeseries"
	"resfuse/internal/types"
)

// WeatherSource builds the multi-year weather series for a station.
type WeatherSource interface {
	Build(ctx context.Context, stationCode string, years []int) ([]types.WeatherObservation, error)
}

// PipelineConfig configures a Pipeline.
type PipelineConfig struct {
	Site     types.Site
	Stations []types.StationRecord
	Power    []types.PowerSample
	Series   WeatherSource
	Logger   *slog.Logger
}

// Pipeline holds one site's inputs through the fuse: the power history, the
// station resolved for the site, and the weather series covering the power
// span. Construction does the expensive work up front; Collect only aligns
// and joins.
type Pipeline struct {
	site    types.Site
	station types.StationRecord
	power   []types.PowerSample
	weather []types.WeatherObservation
	period  time.Duration
	logger  *slog.Logger
}

// New validates the power series, resolves the nearest station, and builds
// the weather series for the years the power history spans. Any failure
// surfaces here so a Pipeline in hand is ready to collect.
func New(ctx context.Context, cfg PipelineConfig) (*Pipeline, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// The power series gates everything: an unusable cadence must fail
	// before any archive is downloaded.
	period, err := power.SamplingPeriod(cfg.Power)
	if err != nil {
		return nil, err
	}

	station, err := geo.NearestStation(cfg.Stations, cfg.Site.Longitude, cfg.Site.Latitude)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "resolved nearest weather station",
		"station", station.Code,
		"station_name", station.Name,
		"distance_km", geo.Haversine(cfg.Site.Latitude, cfg.Site.Longitude, station.Latitude, station.Longitude))

	weather, err := cfg.Series.Build(ctx, station.Code, power.Years(cfg.Power))
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		site:    cfg.Site,
		station: station,
		power:   cfg.Power,
		weather: weather,
		period:  period,
		logger:  logger,
	}, nil
}

// Station returns the synoptic station resolved for the site.
func (p *Pipeline) Station() types.StationRecord { return p.station }

// Weather returns the raw weather series before grid alignment.
func (p *Pipeline) Weather() []types.WeatherObservation { return p.weather }

// Collect aligns the weather series onto the power grid and joins the two.
// It fails when the series do not overlap at all; a partial overlap yields
// the matched subset.
func (p *Pipeline) Collect(ctx context.Context) ([]types.FusedRecord, error) {
	if len(p.weather) == 0 {
		return nil, types.NewAppError(types.ErrCodeAlignment,
			"weather series is empty", nil)
	}

	powerStart, powerEnd := p.power[0].Timestamp, p.power[len(p.power)-1].Timestamp
	if powerEnd.Before(powerStart) {
		powerStart, powerEnd = powerEnd, powerStart
	}
	weatherStart := p.weather[0].Timestamp
	weatherEnd := p.weather[len(p.weather)-1].Timestamp

	if weatherEnd.Before(powerStart) || weatherStart.After(powerEnd) {
		return nil, types.NewAppErrorWithDetails(types.ErrCodeAlignment,
			"weather series does not overlap the power history", nil,
			map[string]any{
				"power_start":   powerStart,
				"power_end":     powerEnd,
				"weather_start": weatherStart,
				"weather_end":   weatherEnd,
			})
	}

	aligned, err := timeseries.Resample(p.weather, p.period)
	if err != nil {
		return nil, err
	}

	recs := Fuse(p.power, aligned, p.site)
	if len(recs) == 0 {
		return nil, types.NewAppError(types.ErrCodeAlignment,
			"no power samples matched the aligned weather grid", nil)
	}

	p.logger.InfoContext(ctx, "fused dataset assembled",
		"site", p.site.Name,
		"station", p.station.Code,
		"rows", len(recs),
		"period", p.period.String())
	return recs, nil
}
