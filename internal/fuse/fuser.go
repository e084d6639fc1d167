// Package fuse joins a site's power history with the weather series of its
// nearest synoptic station into one analysis-ready dataset.
package fuse

import (
	"resfuse/internal/types"
)

// Fuse inner-joins power samples with weather aligned to the same grid.
// Matching is exact timestamp equality; power samples without a weather row
// are dropped. Output preserves the power-series order, and every record
// carries the site metadata unchanged.
func Fuse(power []types.PowerSample, weather []types.WeatherObservation, site types.Site) []types.FusedRecord {
	byTime := make(map[int64]types.WeatherObservation, len(weather))
	for _, o := range weather {
		byTime[o.Timestamp.UnixNano()] = o
	}

	recs := make([]types.FusedRecord, 0, len(power))
	for _, s := range power {
		o, ok := byTime[s.Timestamp.UnixNano()]
		if !ok {
			continue
		}
		recs = append(recs, types.FusedRecord{
			Timestamp:        s.Timestamp,
			PowerKW:          s.PowerKW,
			Clouds:           o.Clouds,
			WindSpeed:        o.WindSpeed,
			WindDir:          o.WindDir,
			Sun:              o.Sun,
			Temp:             o.Temp,
			ResourceKind:     site.ResourceKind,
			SiteName:         site.Name,
			InstalledPowerKW: site.InstalledPowerKW,
		})
	}
	return recs
}
