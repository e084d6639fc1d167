// Package power loads the site's historical generation series and derives
// the properties the alignment stage needs from it: the sampling period and
// the span of years to cover with weather data.
package power

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"resfuse/internal/types"
)

// timestampLayouts are tried in order when parsing power history timestamps.
// Naive layouts are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02.01.2006 15:04",
}

// Load reads the power history CSV at path. The file must have a header row
// and exactly two columns per row: timestamp and produced power in kW.
func Load(path string) ([]types.PowerSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrCodePowerData,
			"failed to open power history", err, map[string]any{"path": path})
	}
	defer f.Close()

	samples, err := parse(f)
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) {
			return nil, appErr.WithDetails(map[string]any{"path": path})
		}
		return nil, types.NewAppErrorWithDetails(types.ErrCodePowerData,
			"failed to parse power history", err, map[string]any{"path": path})
	}
	return samples, nil
}

// parse reads power samples from r. Split from Load so tests can feed
// in-memory CSV without touching the filesystem.
func parse(r io.Reader) ([]types.PowerSample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 2

	// First row is a header; its content is not interpreted.
	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, types.NewAppError(types.ErrCodePowerData,
				"power history is empty", err)
		}
		return nil, types.NewAppError(types.ErrCodePowerData,
			"power history header must have exactly two columns", err)
	}

	var samples []types.PowerSample
	row := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrCodePowerData,
				"power history row must have exactly two columns", err,
				map[string]any{"row": row})
		}

		ts, err := parseTimestamp(fields[0])
		if err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrCodePowerData,
				"unparseable power history timestamp", err,
				map[string]any{"row": row, "value": fields[0]})
		}
		kw, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrCodePowerData,
				"power value is not numeric", err,
				map[string]any{"row": row, "value": fields[1]})
		}

		samples = append(samples, types.PowerSample{Timestamp: ts, PowerKW: kw})
	}
	return samples, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// SamplingPeriod derives the series cadence as the absolute difference
// between the first two timestamps. The series must be strictly monotonic
// (either direction); anything else makes the cadence ambiguous and is
// rejected as an alignment error.
func SamplingPeriod(samples []types.PowerSample) (time.Duration, error) {
	if len(samples) < 2 {
		return 0, types.NewAppErrorWithDetails(types.ErrCodeAlignment,
			"power series needs at least two samples to infer a sampling period",
			nil, map[string]any{"samples": len(samples)})
	}

	period := samples[0].Timestamp.Sub(samples[1].Timestamp)
	descending := period > 0
	if period < 0 {
		period = -period
	}
	if period == 0 {
		return 0, types.NewAppError(types.ErrCodeAlignment,
			"power series has duplicate leading timestamps", nil)
	}

	for i := 1; i < len(samples); i++ {
		step := samples[i-1].Timestamp.Sub(samples[i].Timestamp)
		if descending && step <= 0 || !descending && step >= 0 {
			return 0, types.NewAppErrorWithDetails(types.ErrCodeAlignment,
				"power series timestamps are not strictly monotonic", nil,
				map[string]any{"row": i + 1})
		}
	}

	return period, nil
}

// Years returns the inclusive span of calendar years covered by the series,
// earliest first. Order-agnostic: it looks at the first and last samples and
// takes min..max, so both ascending and descending series yield the same span.
func Years(samples []types.PowerSample) []int {
	if len(samples) == 0 {
		return nil
	}

	first := samples[0].Timestamp.Year()
	last := samples[len(samples)-1].Timestamp.Year()
	if first > last {
		first, last = last, first
	}

	years := make([]int, 0, last-first+1)
	for y := first; y <= last; y++ {
		years = append(years, y)
	}
	return years
}
