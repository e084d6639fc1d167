// Package export serializes fused datasets for downstream consumers.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"resfuse/internal/types"
)

var csvHeader = []string{
	"timestamp",
	"power_kw",
	"clouds",
	"wind_speed",
	"wind_dir",
	"sun",
	"temp",
	"resource_type",
	"name",
	"installed_power",
}

// WriteCSV writes fused records as CSV with a header row. Absent weather
// values become empty cells and timestamps are RFC 3339 in UTC.
func WriteCSV(w io.Writer, recs []types.FusedRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return types.NewAppError(types.ErrCodeStoreWrite, "failed to write csv header", err)
	}

	for _, rec := range recs {
		row := []string{
			rec.Timestamp.UTC().Format(time.RFC3339),
			formatFloat(rec.PowerKW),
			formatOptional(rec.Clouds),
			formatOptional(rec.WindSpeed),
			formatOptional(rec.WindDir),
			formatOptional(rec.Sun),
			formatOptional(rec.Temp),
			string(rec.ResourceKind),
			rec.SiteName,
			formatFloat(rec.InstalledPowerKW),
		}
		if err := cw.Write(row); err != nil {
			return types.NewAppError(types.ErrCodeStoreWrite, "failed to write csv row", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return types.NewAppError(types.ErrCodeStoreWrite, "failed to flush csv output", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
