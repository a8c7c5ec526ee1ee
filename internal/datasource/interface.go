package datasource

import (
	"context"
	"errors"
)

// CatalogSource fetches a tabular feed (master catalog, roster) from a provider.
type CatalogSource interface {
	// Fetch retrieves and parses the whole feed
	Fetch(ctx context.Context) (*Table, error)

	// Name returns the name of the data source
	Name() string

	// Location returns the URL or path the feed is read from
	Location() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
	ErrCodeEmpty             = "empty"
)

// Error constructors
var (
	ErrNotFound       = errors.New("data not found")
	ErrInvalidData    = errors.New("invalid data format")
	ErrEmptyFeed      = errors.New("feed is empty")
	ErrCircuitOpen    = errors.New("circuit breaker open")
	ErrMissingColumns = errors.New("missing required columns")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
