package types

import "fmt"

// ResourceKind identifies the generation technology of a renewable site.
type ResourceKind string

const (
	ResourceWind ResourceKind = "wind"
	ResourcePV   ResourceKind = "pv"
)

// Valid reports whether the value is one of the recognized resource kinds.
func (k ResourceKind) Valid() bool {
	switch k {
	case ResourceWind, ResourcePV:
		return true
	}
	return false
}

// ParseResourceKind converts a raw string into a ResourceKind. Anything
// outside the recognized set is rejected, including near-misses like "solar".
func ParseResourceKind(s string) (ResourceKind, error) {
	k := ResourceKind(s)
	if !k.Valid() {
		return "", NewAppErrorWithDetails(
			ErrCodeValidationResourceKind,
			fmt.Sprintf("unsupported resource kind %q", s),
			nil,
			map[string]any{"value": s, "allowed": []string{string(ResourceWind), string(ResourcePV)}},
		)
	}
	return k, nil
}

// WeatherVariable identifies one observed meteorological quantity.
type WeatherVariable string

const (
	VarClouds    WeatherVariable = "clouds"
	VarWindDir   WeatherVariable = "wind_dir"
	VarWindSpeed WeatherVariable = "wind_speed"
	VarTemp      WeatherVariable = "temp"
	VarSun       WeatherVariable = "sun"
)

// AllWeatherVariables defines the complete set of variables carried on a
// WeatherObservation. Used by the resampler to iterate fields generically.
var AllWeatherVariables = []WeatherVariable{
	VarClouds,
	VarWindDir,
	VarWindSpeed,
	VarTemp,
	VarSun,
}
