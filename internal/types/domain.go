package types

import (
	"fmt"
	"strings"
	"time"
)

// Site is the core domain entity representing a renewable generation site.
// Its metadata is carried verbatim onto every fused record.
type Site struct {
	Name             string       `json:"name" db:"site_name"`
	InstalledPowerKW float64      `json:"installed_power_kw" db:"installed_power_kw"`
	Longitude        float64      `json:"longitude" db:"longitude"`
	Latitude         float64      `json:"latitude" db:"latitude"`
	ResourceKind     ResourceKind `json:"resource_kind" db:"resource_type"`
}

// NewSite constructs a validated Site. The resource kind is parsed through
// ParseResourceKind, so an unrecognized kind surfaces as a validation error
// before any pipeline work starts.
func NewSite(name string, installedPowerKW, longitude, latitude float64, kind string) (Site, error) {
	resourceKind, err := ParseResourceKind(kind)
	if err != nil {
		return Site{}, err
	}
	if strings.TrimSpace(name) == "" {
		return Site{}, NewAppError(ErrCodeValidationSite, "site name must not be empty", nil)
	}
	if installedPowerKW < 0 {
		return Site{}, NewAppErrorWithDetails(ErrCodeValidationSite,
			"installed power must not be negative", nil,
			map[string]any{"installed_power_kw": installedPowerKW})
	}
	if latitude < -90 || latitude > 90 {
		return Site{}, NewAppErrorWithDetails(ErrCodeValidationSite,
			"latitude out of range", nil, map[string]any{"latitude": latitude})
	}
	if longitude < -180 || longitude > 180 {
		return Site{}, NewAppErrorWithDetails(ErrCodeValidationSite,
			"longitude out of range", nil, map[string]any{"longitude": longitude})
	}
	return Site{
		Name:             name,
		InstalledPowerKW: installedPowerKW,
		Longitude:        longitude,
		Latitude:         latitude,
		ResourceKind:     resourceKind,
	}, nil
}

// PowerSample is one row of the site's historical generation series.
type PowerSample struct {
	Timestamp time.Time `json:"timestamp" db:"sample_time"`
	PowerKW   float64   `json:"power_kw" db:"power_kw"`
}

// StationRecord describes one synoptic station from the station registry.
type StationRecord struct {
	Code      string  `json:"code" db:"code"`
	Name      string  `json:"name,omitempty" db:"name"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Validate checks that the station's coordinates are plausible.
func (s StationRecord) Validate() error {
	if strings.TrimSpace(s.Code) == "" {
		return fmt.Errorf("station code is empty")
	}
	if s.Latitude < -90 || s.Latitude > 90 {
		return fmt.Errorf("station %s: latitude %v out of range", s.Code, s.Latitude)
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return fmt.Errorf("station %s: longitude %v out of range", s.Code, s.Longitude)
	}
	return nil
}

// WeatherObservation is one timestamped row of the station series. Fields are
// pointers because any variable can be absent from a given archive row; nil
// means "not observed", which is distinct from zero.
type WeatherObservation struct {
	Timestamp time.Time `json:"timestamp" db:"observed_at"`
	Clouds    *float64  `json:"clouds,omitempty" db:"clouds"`
	WindDir   *float64  `json:"wind_dir,omitempty" db:"wind_dir"`
	WindSpeed *float64  `json:"wind_speed,omitempty" db:"wind_speed"`
	Temp      *float64  `json:"temp,omitempty" db:"temp"`
	Sun       *float64  `json:"sun,omitempty" db:"sun"`
}

// Value returns the field holding the given variable. Unknown variables
// resolve to nil rather than panicking so callers can range over arbitrary
// variable lists.
func (o *WeatherObservation) Value(v WeatherVariable) *float64 {
	switch v {
	case VarClouds:
		return o.Clouds
	case VarWindDir:
		return o.WindDir
	case VarWindSpeed:
		return o.WindSpeed
	case VarTemp:
		return o.Temp
	case VarSun:
		return o.Sun
	}
	return nil
}

// SetValue assigns the field holding the given variable.
func (o *WeatherObservation) SetValue(v WeatherVariable, val *float64) {
	switch v {
	case VarClouds:
		o.Clouds = val
	case VarWindDir:
		o.WindDir = val
	case VarWindSpeed:
		o.WindSpeed = val
	case VarTemp:
		o.Temp = val
	case VarSun:
		o.Sun = val
	}
}

// FusedRecord is one row of the final dataset: a power sample joined with the
// weather aligned to its timestamp, stamped with the site metadata.
type FusedRecord struct {
	Timestamp        time.Time    `json:"timestamp" db:"sample_time"`
	PowerKW          float64      `json:"power_kw" db:"power_kw"`
	Clouds           *float64     `json:"clouds,omitempty" db:"clouds"`
	WindSpeed        *float64     `json:"wind_speed,omitempty" db:"wind_speed"`
	WindDir          *float64     `json:"wind_dir,omitempty" db:"wind_dir"`
	Sun              *float64     `json:"sun,omitempty" db:"sun"`
	Temp             *float64     `json:"temp,omitempty" db:"temp"`
	ResourceKind     ResourceKind `json:"resource_type" db:"resource_type"`
	SiteName         string       `json:"name" db:"site_name"`
	InstalledPowerKW float64      `json:"installed_power" db:"installed_power_kw"`
}
