package fuse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resfuse/internal/types"
)

type stubWeather struct {
	obs []types.WeatherObservation
	err error

	calls   int
	station string
	years   []int
}

func (s *stubWeather) Build(_ context.Context, stationCode string, years []int) ([]types.WeatherObservation, error) {
	s.calls++
	s.station = stationCode
	s.years = years
	if s.err != nil {
		return nil, s.err
	}
	return s.obs, nil
}

func testStations() []types.StationRecord {
	return []types.StationRecord{
		{Code: "252200150", Name: "WARSZAWA", Latitude: 52.1628, Longitude: 20.9611},
		{Code: "252160230", Name: "POZNAN", Latitude: 52.4210, Longitude: 16.8514},
	}
}

func TestPipelineCollect(t *testing.T) {
	site := testSite(t)
	power := []types.PowerSample{
		{Timestamp: at(0, 0), PowerKW: 100},
		{Timestamp: at(0, 15), PowerKW: 105},
		{Timestamp: at(0, 30), PowerKW: 110},
		{Timestamp: at(0, 45), PowerKW: 115},
		{Timestamp: at(1, 0), PowerKW: 120},
	}
	source := &stubWeather{obs: []types.WeatherObservation{
		{Timestamp: at(0, 0), Clouds: ptr(50)},
		{Timestamp: at(1, 0), Clouds: ptr(70)},
	}}

	p, err := New(context.Background(), PipelineConfig{
		Site:     site,
		Stations: testStations(),
		Power:    power,
		Series:   source,
	})
	require.NoError(t, err)

	// The site sits near Poznan, not Warszawa.
	assert.Equal(t, "252160230", p.Station().Code)
	assert.Equal(t, "252160230", source.station)
	assert.Equal(t, []int{2021}, source.years)
	assert.Len(t, p.Weather(), 2)

	recs, err := p.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 5)

	// Hourly clouds interpolated onto the 15-minute power grid.
	mid := recs[2]
	assert.Equal(t, at(0, 30), mid.Timestamp)
	assert.Equal(t, 110.0, mid.PowerKW)
	require.NotNil(t, mid.Clouds)
	assert.InDelta(t, 60, *mid.Clouds, 1e-9)
	assert.Equal(t, "windfarm-alpha", mid.SiteName)
	assert.Equal(t, types.ResourceWind, mid.ResourceKind)
}

func TestPipelineRequestsEveryCoveredYear(t *testing.T) {
	site := testSite(t)
	power := []types.PowerSample{
		{Timestamp: time.Date(2020, 12, 31, 23, 45, 0, 0, time.UTC), PowerKW: 1},
		{Timestamp: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), PowerKW: 2},
		{Timestamp: time.Date(2021, 1, 1, 0, 15, 0, 0, time.UTC), PowerKW: 3},
	}
	source := &stubWeather{obs: []types.WeatherObservation{
		{Timestamp: time.Date(2020, 12, 31, 23, 0, 0, 0, time.UTC), Temp: ptr(1)},
	}}

	_, err := New(context.Background(), PipelineConfig{
		Site:     site,
		Stations: testStations(),
		Power:    power,
		Series:   source,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2020, 2021}, source.years)
}

func TestPipelineFailsBeforeFetchOnBadPower(t *testing.T) {
	site := testSite(t)
	source := &stubWeather{}

	_, err := New(context.Background(), PipelineConfig{
		Site:     site,
		Stations: testStations(),
		Power:    []types.PowerSample{{Timestamp: at(0, 0), PowerKW: 1}},
		Series:   source,
	})
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeAlignment, types.CodeOf(err))
	assert.Zero(t, source.calls, "weather must not be fetched for an unusable power series")
}

func TestPipelineFailsOnEmptyRegistry(t *testing.T) {
	site := testSite(t)
	source := &stubWeather{}

	_, err := New(context.Background(), PipelineConfig{
		Site:     site,
		Stations: nil,
		Power: []types.PowerSample{
			{Timestamp: at(0, 0), PowerKW: 1},
			{Timestamp: at(0, 15), PowerKW: 2},
		},
		Series: source,
	})
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeRegistryEmpty, types.CodeOf(err))
	assert.Zero(t, source.calls)
}

func TestPipelinePropagatesSeriesFailure(t *testing.T) {
	site := testSite(t)
	source := &stubWeather{err: types.NewAppError(types.ErrCodeArchiveFetch, "archive download failed", nil)}

	_, err := New(context.Background(), PipelineConfig{
		Site:     site,
		Stations: testStations(),
		Power: []types.PowerSample{
			{Timestamp: at(0, 0), PowerKW: 1},
			{Timestamp: at(0, 15), PowerKW: 2},
		},
		Series: source,
	})
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeArchiveFetch, types.CodeOf(err))
}

func TestPipelineCollectNoOverlap(t *testing.T) {
	site := testSite(t)
	source := &stubWeather{obs: []types.WeatherObservation{
		{Timestamp: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), Temp: ptr(0)},
		{Timestamp: time.Date(2019, 1, 1, 1, 0, 0, 0, time.UTC), Temp: ptr(1)},
	}}

	p, err := New(context.Background(), PipelineConfig{
		Site:     site,
		Stations: testStations(),
		Power: []types.PowerSample{
			{Timestamp: at(0, 0), PowerKW: 1},
			{Timestamp: at(0, 15), PowerKW: 2},
		},
		Series: source,
	})
	require.NoError(t, err)

	_, err = p.Collect(context.Background())
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeAlignment, types.CodeOf(err))
	assert.ErrorContains(t, err, "overlap")
}

func TestPipelineCollectEmptyWeather(t *testing.T) {
	site := testSite(t)
	source := &stubWeather{}

	p, err := New(context.Background(), PipelineConfig{
		Site:     site,
		Stations: testStations(),
		Power: []types.PowerSample{
			{Timestamp: at(0, 0), PowerKW: 1},
			{Timestamp: at(0, 15), PowerKW: 2},
		},
		Series: source,
	})
	require.NoError(t, err)

	_, err = p.Collect(context.Background())
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeAlignment, types.CodeOf(err))
}
