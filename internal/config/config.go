// Package config provides configuration management for the collector companion.
package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Catalog   CatalogConfig   `mapstructure:"catalog" validate:"required"`
	HTTP      HTTPConfig      `mapstructure:"http" validate:"required"`
	Estimator EstimatorConfig `mapstructure:"estimator" validate:"required"`
	Roster    RosterConfig    `mapstructure:"roster"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// CatalogConfig describes where the master catalog is read from.
// Exactly one of URL or Path must be set. CacheFile keeps fetched feeds
// between runs; empty means the user cache directory.
type CatalogConfig struct {
	URL             string `mapstructure:"url" validate:"omitempty,url"`
	Path            string `mapstructure:"path"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheFile       string `mapstructure:"cache_file"`
	SeedOwned       bool   `mapstructure:"seed_owned"`
}

// HTTPConfig tunes the catalog fetch client.
type HTTPConfig struct {
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryWaitMinMS    int     `mapstructure:"retry_wait_min_ms" validate:"gte=0"`
	RetryWaitMaxMS    int     `mapstructure:"retry_wait_max_ms" validate:"gtefield=RetryWaitMinMS"`
	RateLimit         float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CircuitBreakerMax int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
}

// EstimatorConfig holds probability workbench defaults.
type EstimatorConfig struct {
	DefaultDraws int `mapstructure:"default_draws" validate:"required,gt=0,lte=100"`
	CurveBound   int `mapstructure:"curve_bound" validate:"required,gt=0,lte=1000"`
}

// RosterConfig points at the player roster feed.
type RosterConfig struct {
	URL  string `mapstructure:"url" validate:"omitempty,url"`
	Path string `mapstructure:"path"`
}

// MetricsConfig controls the data-quality metrics dump.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// CacheTTL returns how long fetched feeds are reused.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Catalog.CacheTTLSeconds) * time.Second
}

// HTTPTimeout returns the per-request timeout for catalog fetches.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
