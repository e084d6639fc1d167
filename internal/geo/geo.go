// Package geo provides great-circle distance math and nearest-station
// resolution over the synoptic station registry.
package geo

import (
	"math"

	"resfuse/internal/types"
)

// earthRadiusKM is the mean Earth radius used for great-circle distances.
const earthRadiusKM = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// points given as decimal-degree latitude/longitude pairs.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlon1 := lon1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlon2 := lon2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1

	a := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusKM * c
}

// NearestStation scans the registry and returns the station closest to the
// given site coordinates. Distances compare strictly, so when several
// stations are equally close the one earliest in the registry wins.
func NearestStation(stations []types.StationRecord, lon, lat float64) (types.StationRecord, error) {
	if len(stations) == 0 {
		return types.StationRecord{}, types.NewAppError(
			types.ErrCodeRegistryEmpty,
			"station registry contains no stations",
			nil,
		)
	}

	best := stations[0]
	bestDist := Haversine(lat, lon, stations[0].Latitude, stations[0].Longitude)
	for _, st := range stations[1:] {
		d := Haversine(lat, lon, st.Latitude, st.Longitude)
		if d < bestDist {
			best = st
			bestDist = d
		}
	}
	return best, nil
}
