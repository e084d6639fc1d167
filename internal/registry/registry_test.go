package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resfuse/internal/types"
)

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stations.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeRegistry(t,
		"code,name,lat,lon\n"+
			"252160230,POZNAN,52.4210,16.8353\n"+
			"250190390,WARSZAWA,52.1626,20.9614\n")

	stations, err := Load(path)
	require.NoError(t, err)
	require.Len(t, stations, 2)

	assert.Equal(t, types.StationRecord{
		Code: "252160230", Name: "POZNAN", Latitude: 52.4210, Longitude: 16.8353,
	}, stations[0])
	assert.Equal(t, "250190390", stations[1].Code)
}

func TestLoadHeaderVariants(t *testing.T) {
	// Uppercase headers, long coordinate names, extra columns, no name column.
	path := writeRegistry(t,
		"Elevation,CODE,Latitude,LONGITUDE\n"+
			"94,252160230,52.4210,16.8353\n")

	stations, err := Load(path)
	require.NoError(t, err)
	require.Len(t, stations, 1)

	assert.Equal(t, "252160230", stations[0].Code)
	assert.Empty(t, stations[0].Name)
	assert.Equal(t, 52.4210, stations[0].Latitude)
	assert.Equal(t, 16.8353, stations[0].Longitude)
}

func TestLoadBOMHeader(t *testing.T) {
	path := writeRegistry(t, "﻿code,lat,lon\n252160230,52.42,16.83\n")

	stations, err := Load(path)
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "252160230", stations[0].Code)
}

func TestLoadEmptyRegistryIsNotAnError(t *testing.T) {
	// Only a header row. The empty-registry condition belongs to
	// nearest-station resolution, not to loading.
	path := writeRegistry(t, "code,lat,lon\n")

	stations, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, stations)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "definitely-not-there.csv"))
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeRegistryLoad, types.CodeOf(err))
}

func TestLoadMissingColumns(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no code", "name,lat,lon"},
		{"no lat", "code,name,lon"},
		{"no lon", "code,name,lat"},
		{"nothing recognized", "a,b,c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRegistry(t, tt.header+"\nx,1,2\n")
			_, err := Load(path)
			require.Error(t, err)
			assert.Equal(t, types.ErrCodeRegistryLoad, types.CodeOf(err))
		})
	}
}

func TestLoadBadCoordinates(t *testing.T) {
	path := writeRegistry(t,
		"code,lat,lon\n"+
			"252160230,not-a-number,16.83\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeRegistryLoad, types.CodeOf(err))

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 2, appErr.Details["row"])
}

func TestLoadOutOfRangeCoordinates(t *testing.T) {
	path := writeRegistry(t,
		"code,lat,lon\n"+
			"252160230,152.42,16.83\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeRegistryLoad, types.CodeOf(err))
}

func TestLoadRaggedRow(t *testing.T) {
	path := writeRegistry(t,
		"code,lat,lon\n"+
			"252160230,52.42\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, types.ErrCodeRegistryLoad, types.CodeOf(err))
}
