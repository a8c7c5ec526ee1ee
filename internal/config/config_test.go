// Package config provides configuration management for the collector companion.
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	expansionConfigPath   = "testdata/expansion_config.yaml"
	invalidConfigPath     = "testdata/invalid_config.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
	companionName         = "blindbox-companion"
	testAppName           = "test-app"
	testCatalogURL        = "https://example.com/box_data.csv"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, companionName, cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "testdata/catalog.csv", cfg.Catalog.Path)
	assert.Empty(t, cfg.Catalog.URL, "a local path replaces the default remote catalog")
	assert.Equal(t, 60*time.Second, cfg.CacheTTL())
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	require.NoError(t, Validate(cfg))
}

// TestLoadConfigDefaults tests that a missing file falls back to defaults
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := Load(nonexistentConfigPath)
	require.NoError(t, err)

	assert.Equal(t, DefaultCatalogURL, cfg.Catalog.URL)
	assert.Equal(t, 10, cfg.Estimator.DefaultDraws)
	assert.Equal(t, 50, cfg.Estimator.CurveBound)
	assert.Equal(t, "info", cfg.App.LogLevel)
	require.NoError(t, Validate(cfg))
}

// TestLoadStrictFileNotFound tests handling of missing configuration file
func TestLoadStrictFileNotFound(t *testing.T) {
	_, err := LoadStrict(nonexistentConfigPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("COMPANION_APP_NAME", testAppName)
	t.Setenv("COMPANION_ESTIMATOR_CURVE_BOUND", "80")

	cfg, err := Load(validConfigPath)
	require.NoError(t, err)

	assert.Equal(t, testAppName, cfg.App.Name)
	assert.Equal(t, 80, cfg.Estimator.CurveBound)
}

// TestLoadConfigExpansion tests ${VAR} placeholder expansion
func TestLoadConfigExpansion(t *testing.T) {
	t.Setenv("TEST_APP_NAME", testAppName)
	t.Setenv("TEST_CATALOG_URL", testCatalogURL)

	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)

	assert.Equal(t, testAppName, cfg.App.Name)
	assert.Equal(t, testCatalogURL, cfg.Catalog.URL)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

// TestValidateInvalidConfig tests custom environment and log level rules
func TestValidateInvalidConfig(t *testing.T) {
	cfg, err := Load(invalidConfigPath)
	require.NoError(t, err)

	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Environment")
	assert.Contains(t, err.Error(), "LogLevel")
}

func TestValidateCatalogSource(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		path    string
		wantErr bool
	}{
		{name: "url only", url: testCatalogURL},
		{name: "path only", path: "box_data.csv"},
		{name: "both set", url: testCatalogURL, path: "box_data.csv", wantErr: true},
		{name: "neither set", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(nonexistentConfigPath)
			require.NoError(t, err)
			cfg.Catalog.URL = tt.url
			cfg.Catalog.Path = tt.path

			err = Validate(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "exactly one of 'url' or 'path'")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateCrossField(t *testing.T) {
	cfg, err := Load(nonexistentConfigPath)
	require.NoError(t, err)

	cfg.Estimator.DefaultDraws = 60
	cfg.Estimator.CurveBound = 50
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot exceed curve_bound")

	cfg.Estimator.DefaultDraws = 10
	cfg.App.Environment = "production"
	cfg.App.LogLevel = "debug"
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debug level")
}

func TestValidateNil(t *testing.T) {
	assert.Error(t, Validate(nil))
}
