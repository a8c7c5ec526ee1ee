package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// RemoteCSVSource fetches a CSV feed over HTTP.
type RemoteCSVSource struct {
	httpClient *RateLimitedHTTPClient
	url        string
}

// NewRemoteCSVSource creates a remote CSV source.
func NewRemoteCSVSource(httpClient *RateLimitedHTTPClient, url string) *RemoteCSVSource {
	return &RemoteCSVSource{
		httpClient: httpClient,
		url:        url,
	}
}

// Fetch downloads and parses the feed.
func (s *RemoteCSVSource) Fetch(ctx context.Context) (*Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, NewDataSourceError(s.Name(), ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(s.Name(), ErrCodeNetworkError, "failed to fetch feed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(s.Name(), ErrCodeNotFound, "feed not found: "+s.url, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(s.Name(), ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(s.Name(), ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	table, err := ParseCSV(resp.Body)
	if err != nil {
		code := ErrCodeInvalidData
		if errors.Is(err, ErrEmptyFeed) {
			code = ErrCodeEmpty
		}
		return nil, NewDataSourceError(s.Name(), code, "failed to parse response", err)
	}
	return table, nil
}

// Name returns the data source name
func (s *RemoteCSVSource) Name() string {
	return "remote"
}

// Location returns the feed URL.
func (s *RemoteCSVSource) Location() string {
	return s.url
}
