// Package config provides configuration management for the collector companion.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "COMPANION"

// DefaultCatalogURL is the published master catalog.
const DefaultCatalogURL = "https://raw.githubusercontent.com/kmgilland/GILLAND-Python-Portfolio/refs/heads/main/StreamlitAppFinal/box_data.csv"

// DefaultRosterURL is the published player roster.
const DefaultRosterURL = "https://raw.githubusercontent.com/kmgilland/GILLAND-Python-Portfolio/refs/heads/main/basic_streamlit_app/data/female_players.csv"

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
// and fills every optional field with a default. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	// .env is optional; values already in the environment win
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			expanded := os.ExpandEnv(string(data))
			if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		case os.IsNotExist(err):
			// continue with defaults and environment variables
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// an explicit local path replaces the default remote catalog
	if cfg.Catalog.Path != "" && !v.InConfig("catalog.url") && os.Getenv(envPrefix+"_CATALOG_URL") == "" {
		cfg.Catalog.URL = ""
	}
	if cfg.Roster.Path != "" && !v.InConfig("roster.url") && os.Getenv(envPrefix+"_ROSTER_URL") == "" {
		cfg.Roster.URL = ""
	}

	return cfg, nil
}

// LoadStrict reads the configuration and fails if the file does not exist.
func LoadStrict(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Load(configPath)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "blindbox-companion")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("catalog.url", DefaultCatalogURL)
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.cache_ttl_seconds", 300)
	v.SetDefault("catalog.cache_file", "")
	v.SetDefault("catalog.seed_owned", false)

	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.retry_wait_min_ms", 100)
	v.SetDefault("http.retry_wait_max_ms", 5000)
	v.SetDefault("http.rate_limit", 5.0)
	v.SetDefault("http.circuit_breaker_max", 5)

	v.SetDefault("estimator.default_draws", 10)
	v.SetDefault("estimator.curve_bound", 50)

	v.SetDefault("roster.url", DefaultRosterURL)
	v.SetDefault("roster.path", "")

	v.SetDefault("metrics.enabled", false)
}
