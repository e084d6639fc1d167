// Package config defines the global configuration structure for the resfuse
// pipeline. Configuration is loaded once at process initialization and is
// immutable thereafter. It follows 12-Factor App principles by strictly
// separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File (Lowest)
//
// Any missing required value or invalid format causes the process to exit
// immediately on startup (fail fast).
package config

import (
	"time"

	"resfuse/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type
// used throughout configuration to prevent accidental logging of sensitive
// values.
type SecretString = types.SecretString

// Config is the top-level configuration struct for the resfuse pipeline.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"resfuse"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Site     SiteConfig
	Sources  SourcesConfig
	Meteo    MeteoConfig
	Database DatabaseConfig
	Output   OutputConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// SiteConfig describes the renewable generation site the pipeline runs for.
// Exactly one site per run; batch orchestration across sites is out of scope.
type SiteConfig struct {
	Name             string  `envconfig:"SITE_NAME" validate:"required"`
	InstalledPowerKW float64 `envconfig:"SITE_INSTALLED_POWER_KW" required:"true" validate:"gte=0"`
	Longitude        float64 `envconfig:"SITE_LONGITUDE" required:"true" validate:"longitude"`
	Latitude         float64 `envconfig:"SITE_LATITUDE" required:"true" validate:"latitude"`
	ResourceType     string  `envconfig:"SITE_RESOURCE_TYPE" validate:"required,oneof=wind pv"`
}

// SourcesConfig holds the local input collaborators: the station registry and
// the site's historical power series.
type SourcesConfig struct {
	StationRegistryPath string `envconfig:"STATION_REGISTRY_PATH" validate:"required"`
	PowerHistoryPath    string `envconfig:"POWER_HISTORY_PATH" validate:"required"`
}

// MeteoConfig holds the upstream archive host settings and the scratch
// directory used for archive extraction.
type MeteoConfig struct {
	BaseURL     string        `envconfig:"METEO_BASE_URL" default:"https://dane.imgw.pl/data/dane_pomiarowo_obserwacyjne/dane_meteorologiczne/terminowe/synop" validate:"required,url"`
	HTTPTimeout time.Duration `envconfig:"METEO_HTTP_TIMEOUT" default:"60s"`
	// TempDir is the parent for per-archive scratch directories.
	// Empty means the OS default temp location.
	TempDir string `envconfig:"TEMP_DIR"`
}

// DatabaseConfig holds database connection and pool tuning parameters.
// The URL is optional: without it the pipeline skips the Postgres sink.
type DatabaseConfig struct {
	URL SecretString `envconfig:"DATABASE_URL" validate:"omitempty,url"`

	// Tuning Parameters
	MaxConns       int           `envconfig:"DB_MAX_CONNS" default:"4"`
	MinConns       int           `envconfig:"DB_MIN_CONNS" default:"1"`
	ConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"5s"`
}

// OutputConfig holds the file sink settings.
// An empty CSVPath writes the fused dataset to stdout.
type OutputConfig struct {
	CSVPath string `envconfig:"OUTPUT_CSV_PATH"`
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrMissingEnv indicates a required environment variable was not found.
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
