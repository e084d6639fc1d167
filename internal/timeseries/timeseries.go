// Package timeseries aligns irregular weather observations onto the regular
// sampling grid of a power history.
package timeseries

import (
	"time"

	"resfuse/internal/types"
)

// point is one known value of a single weather variable.
type point struct {
	ts  time.Time
	val float64
}

// Resample projects observations onto a regular grid anchored at the first
// observation and stepping by period up to the last one. Each variable is
// interpolated linearly in time between its surrounding known values; grid
// points before a variable's first known value or after its last stay
// absent. Observations must already be in chronological order, which the
// weather series builder guarantees.
func Resample(obs []types.WeatherObservation, period time.Duration) ([]types.WeatherObservation, error) {
	if period <= 0 {
		return nil, types.NewAppErrorWithDetails(types.ErrCodeAlignment,
			"resample period must be positive", nil,
			map[string]any{"period": period.String()})
	}
	if len(obs) == 0 {
		return nil, types.NewAppError(types.ErrCodeAlignment,
			"no weather observations to resample", nil)
	}

	start := obs[0].Timestamp
	end := obs[len(obs)-1].Timestamp

	grid := make([]time.Time, 0, end.Sub(start)/period+1)
	for ts := start; !ts.After(end); ts = ts.Add(period) {
		grid = append(grid, ts)
	}

	out := make([]types.WeatherObservation, len(grid))
	for i, ts := range grid {
		out[i].Timestamp = ts
	}

	for _, v := range types.AllWeatherVariables {
		vals := interpolate(variablePoints(obs, v), grid)
		for i := range out {
			out[i].SetValue(v, vals[i])
		}
	}
	return out, nil
}

// variablePoints extracts the known values of one variable. When several
// observations share a timestamp the first one wins.
func variablePoints(obs []types.WeatherObservation, v types.WeatherVariable) []point {
	points := make([]point, 0, len(obs))
	for i := range obs {
		val := obs[i].Value(v)
		if val == nil {
			continue
		}
		if n := len(points); n > 0 && points[n-1].ts.Equal(obs[i].Timestamp) {
			continue
		}
		points = append(points, point{ts: obs[i].Timestamp, val: *val})
	}
	return points
}

// interpolate evaluates one variable at every grid timestamp. Both points and
// grid are ascending, so a single forward sweep suffices.
func interpolate(points []point, grid []time.Time) []*float64 {
	vals := make([]*float64, len(grid))
	if len(points) == 0 {
		return vals
	}

	i := 0
	for g, ts := range grid {
		for i < len(points) && points[i].ts.Before(ts) {
			i++
		}
		switch {
		case i < len(points) && points[i].ts.Equal(ts):
			v := points[i].val
			vals[g] = &v
		case i == 0 || i == len(points):
			// Outside the variable's known span; never extrapolate.
		default:
			left, right := points[i-1], points[i]
			frac := ts.Sub(left.ts).Seconds() / right.ts.Sub(left.ts).Seconds()
			v := left.val + (right.val-left.val)*frac
			vals[g] = &v
		}
	}
	return vals
}
