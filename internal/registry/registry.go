// Package registry loads the synoptic station registry from a CSV file.
//
// The registry is a plain CSV with a header row. Column positions are not
// fixed: the loader resolves them by header name (case-insensitive), so
// registries exported from different tools keep working as long as they carry
// a station code and coordinates.
package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"resfuse/internal/types"
)

// Header names recognized for each column. Matching is case-insensitive and
// the first hit wins.
var (
	codeHeaders = []string{"code", "station_code"}
	nameHeaders = []string{"name", "station_name"}
	latHeaders  = []string{"lat", "latitude"}
	lonHeaders  = []string{"lon", "longitude"}
)

// Load reads the station registry CSV at path and returns every station row.
// An empty registry is not an error here; nearest-station resolution reports
// that case. Unreadable files, missing columns, and malformed rows surface as
// registry errors.
func Load(path string) ([]types.StationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrCodeRegistryLoad,
			"failed to open station registry", err, map[string]any{"path": path})
	}
	defer f.Close()

	records, err := parse(f)
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) {
			return nil, appErr.WithDetails(map[string]any{"path": path})
		}
		return nil, types.NewAppErrorWithDetails(types.ErrCodeRegistryLoad,
			"failed to parse station registry", err, map[string]any{"path": path})
	}
	return records, nil
}

// parse reads registry rows from r. Split from Load so tests can feed
// in-memory CSV without touching the filesystem.
func parse(r io.Reader) ([]types.StationRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeRegistryLoad,
			"station registry is missing a header row", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var records []types.StationRecord
	row := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrCodeRegistryLoad,
				"malformed station registry row", err, map[string]any{"row": row})
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(fields[cols.lat]), 64)
		if err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrCodeRegistryLoad,
				"station latitude is not numeric", err,
				map[string]any{"row": row, "value": fields[cols.lat]})
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(fields[cols.lon]), 64)
		if err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrCodeRegistryLoad,
				"station longitude is not numeric", err,
				map[string]any{"row": row, "value": fields[cols.lon]})
		}

		rec := types.StationRecord{
			Code:      strings.TrimSpace(fields[cols.code]),
			Latitude:  lat,
			Longitude: lon,
		}
		if cols.name >= 0 {
			rec.Name = strings.TrimSpace(fields[cols.name])
		}
		if err := rec.Validate(); err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrCodeRegistryLoad,
				"invalid station record", err, map[string]any{"row": row})
		}
		records = append(records, rec)
	}
	return records, nil
}

// columnIndexes holds the resolved position of each registry column.
// name is -1 when the registry carries no station names.
type columnIndexes struct {
	code int
	name int
	lat  int
	lon  int
}

func resolveColumns(header []string) (columnIndexes, error) {
	cols := columnIndexes{code: -1, name: -1, lat: -1, lon: -1}
	for i, h := range header {
		// A UTF-8 BOM on the first header cell is common in exported CSVs.
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "﻿")))
		switch {
		case cols.code < 0 && matches(h, codeHeaders):
			cols.code = i
		case cols.name < 0 && matches(h, nameHeaders):
			cols.name = i
		case cols.lat < 0 && matches(h, latHeaders):
			cols.lat = i
		case cols.lon < 0 && matches(h, lonHeaders):
			cols.lon = i
		}
	}

	var missing []string
	if cols.code < 0 {
		missing = append(missing, "code")
	}
	if cols.lat < 0 {
		missing = append(missing, "lat")
	}
	if cols.lon < 0 {
		missing = append(missing, "lon")
	}
	if len(missing) > 0 {
		return cols, types.NewAppErrorWithDetails(types.ErrCodeRegistryLoad,
			fmt.Sprintf("station registry header is missing columns: %s", strings.Join(missing, ", ")),
			nil, map[string]any{"header": header})
	}
	return cols, nil
}

func matches(h string, candidates []string) bool {
	for _, c := range candidates {
		if h == c {
			return true
		}
	}
	return false
}
