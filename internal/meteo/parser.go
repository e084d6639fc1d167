package meteo

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"resfuse/internal/types"
)

// Synoptic "terminowe" archive rows carry 70+ comma-separated columns. Only a
// handful are of interest; positions are 0-based and fixed by the archive
// format, not by any header (the files have none).
const (
	colYear  = 2
	colMonth = 3
	colDay   = 4
	colHour  = 5

	colClouds    = 21
	colWindDir   = 23
	colWindSpeed = 25
	colTemp      = 29
	colSun       = 69
)

// minSynopFields is the smallest row width that still contains every column
// the pipeline reads.
const minSynopFields = 70

// variableColumns maps each weather variable to its archive column.
var variableColumns = map[types.WeatherVariable]int{
	types.VarClouds:    colClouds,
	types.VarWindDir:   colWindDir,
	types.VarWindSpeed: colWindSpeed,
	types.VarTemp:      colTemp,
	types.VarSun:       colSun,
}

// ParseSynop reads one yearly station CSV and returns its observations in
// file order. The function performs no I/O beyond the reader: fetching,
// extraction, and decoding happen in ArchiveLoader.
//
// Per row: columns 2..5 form the UTC observation timestamp and must be valid
// integers describing a real calendar instant; the five value columns are
// parsed as floats, with any unparseable cell recorded as nil (absent) rather
// than failing the row. Rows narrower than the minimum width mean the archive
// layout is broken and fail the whole parse.
func ParseSynop(r io.Reader) ([]types.WeatherObservation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var observations []types.WeatherObservation
	row := 0
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrCodeArchiveCorrupt,
				"malformed archive row", err, map[string]any{"row": row})
		}
		if len(fields) < minSynopFields {
			return nil, types.NewAppErrorWithDetails(types.ErrCodeArchiveCorrupt,
				"archive row is too short", nil,
				map[string]any{"row": row, "fields": len(fields)})
		}

		ts, err := rowTimestamp(fields)
		if err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrCodeArchiveCorrupt,
				"invalid archive timestamp", err, map[string]any{"row": row})
		}

		obs := types.WeatherObservation{Timestamp: ts}
		for _, v := range types.AllWeatherVariables {
			raw := strings.TrimSpace(fields[variableColumns[v]])
			if val, parseErr := strconv.ParseFloat(raw, 64); parseErr == nil {
				obs.SetValue(v, &val)
			}
		}
		observations = append(observations, obs)
	}
	return observations, nil
}

// rowTimestamp assembles the UTC timestamp from the four date columns.
func rowTimestamp(fields []string) (time.Time, error) {
	year, err := atoiField(fields[colYear], "year")
	if err != nil {
		return time.Time{}, err
	}
	month, err := atoiField(fields[colMonth], "month")
	if err != nil {
		return time.Time{}, err
	}
	day, err := atoiField(fields[colDay], "day")
	if err != nil {
		return time.Time{}, err
	}
	hour, err := atoiField(fields[colHour], "hour")
	if err != nil {
		return time.Time{}, err
	}

	if year < 1900 || year > 2200 {
		return time.Time{}, fmt.Errorf("year %d out of range", year)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day %d out of range", day)
	}
	if hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("hour %d out of range", hour)
	}

	ts := time.Date(year, time.Month(month), day, hour, 0, 0, 0, time.UTC)
	// time.Date normalizes impossible dates (Feb 30 becomes Mar 2); reject
	// instead of silently shifting the observation.
	if ts.Day() != day || ts.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("day %d does not exist in month %d", day, month)
	}
	return ts, nil
}

func atoiField(raw, name string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s column %q is not an integer", name, raw)
	}
	return n, nil
}
