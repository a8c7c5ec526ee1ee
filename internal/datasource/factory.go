package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/blindbox-companion/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// RemoteSourceType fetches a CSV over HTTP
	RemoteSourceType SourceType = "remote"
	// FileSourceType reads a local CSV file
	FileSourceType SourceType = "file"
)

// Factory creates CatalogSource implementations based on configuration
type Factory struct {
	logger     *logrus.Logger
	httpClient *RateLimitedHTTPClient
}

// NewFactory creates a new data source factory sharing one HTTP client.
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	httpCfg := DefaultHTTPClientConfig()
	if cfg != nil {
		httpCfg = HTTPClientConfig{
			Timeout:           cfg.HTTPTimeout(),
			MaxRetries:        cfg.HTTP.MaxRetries,
			RetryWaitMin:      msDuration(cfg.HTTP.RetryWaitMinMS),
			RetryWaitMax:      msDuration(cfg.HTTP.RetryWaitMaxMS),
			RateLimit:         cfg.HTTP.RateLimit,
			CircuitBreakerMax: cfg.HTTP.CircuitBreakerMax,
		}
	}
	return &Factory{
		logger:     logger,
		httpClient: NewRateLimitedHTTPClient(httpCfg, logger),
	}
}

// NewSource returns a remote source when url is set, otherwise a file source.
func (f *Factory) NewSource(url, path string) (CatalogSource, error) {
	switch {
	case url != "" && path != "":
		return nil, fmt.Errorf("both url and path configured; pick one")
	case url != "":
		return f.Create(RemoteSourceType, url)
	case path != "":
		return f.Create(FileSourceType, path)
	default:
		return nil, fmt.Errorf("no data source configured")
	}
}

// Create creates a new data source based on the type
func (f *Factory) Create(sourceType SourceType, location string) (CatalogSource, error) {
	switch sourceType {
	case RemoteSourceType:
		return NewRemoteCSVSource(f.httpClient, location), nil
	case FileSourceType:
		return NewFileCSVSource(location), nil
	default:
		return nil, fmt.Errorf("unknown data source type: %s", sourceType)
	}
}

// Close releases the shared HTTP client.
func (f *Factory) Close() error {
	return f.httpClient.Close()
}
