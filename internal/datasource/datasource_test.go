package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogCSV = `character_name,series_name,figure_name,price,probability,figure_photo
Peach Riot,Rise Up,Poppy: Acorn,$12.00,1/10,
Peach Riot,Rise Up,Birdy,$12.00,0.05,https://example.com/birdy.png
`

func testClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:           2 * time.Second,
		MaxRetries:        2,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      5 * time.Millisecond,
		RateLimit:         1000,
		CircuitBreakerMax: 3,
	}
}

func TestParseCSV(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(catalogCSV))
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.True(t, table.Has("FIGURE_NAME"), "header lookup is case-insensitive")
	assert.Equal(t, "Birdy", table.Get(1, "figure_name"))
	assert.Equal(t, "", table.Get(0, "figure_photo"))
	assert.Equal(t, "", table.Get(0, "quantity"), "absent column reads as empty")
	assert.Equal(t, []string{"quantity"}, table.Missing("figure_name", "quantity"))
}

func TestParseCSVRaggedRows(t *testing.T) {
	table, err := ParseCSV(strings.NewReader("a,b,c\n1\n1,2,3,4\n"))
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, "1", table.Get(0, "a"))
	assert.Equal(t, "", table.Get(0, "c"))
	assert.Equal(t, "3", table.Get(1, "c"))
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFeed)
}

func TestParseCSVStripsBOM(t *testing.T) {
	table, err := ParseCSV(strings.NewReader("\ufeffName,OVR\nSam,90\n"))
	require.NoError(t, err)
	assert.Equal(t, "Sam", table.Get(0, "name"))
}

func TestFileCSVSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "box_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(catalogCSV), 0o600))

	src := NewFileCSVSource(path)
	table, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "file", src.Name())
	assert.Equal(t, path, src.Location())
}

func TestFileCSVSourceMissing(t *testing.T) {
	src := NewFileCSVSource(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := src.Fetch(context.Background())
	require.Error(t, err)

	var dsErr DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeNotFound, dsErr.Code)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoteCSVSourceSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(catalogCSV))
	}))
	defer server.Close()

	client := NewRateLimitedHTTPClient(testClientConfig(), nil)
	defer client.Close()

	src := NewRemoteCSVSource(client, server.URL)
	table, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, server.URL, src.Location())
}

func TestRemoteCSVSourceNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	src := NewRemoteCSVSource(NewRateLimitedHTTPClient(testClientConfig(), nil), server.URL)
	_, err := src.Fetch(context.Background())

	var dsErr DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeNotFound, dsErr.Code)
}

func TestRemoteCSVSourceRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(catalogCSV))
	}))
	defer server.Close()

	src := NewRemoteCSVSource(NewRateLimitedHTTPClient(testClientConfig(), nil), server.URL)
	table, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRemoteCSVSourceServerErrorExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	src := NewRemoteCSVSource(NewRateLimitedHTTPClient(testClientConfig(), nil), server.URL)
	_, err := src.Fetch(context.Background())

	var dsErr DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeServerError, dsErr.Code)
}

func TestCircuitBreakerOpens(t *testing.T) {
	cfg := testClientConfig()
	cfg.MaxRetries = 0
	cfg.CircuitBreakerMax = 2
	client := NewRateLimitedHTTPClient(cfg, nil)

	// nothing listens on this address
	url := "http://127.0.0.1:1/feed.csv"
	for i := 0; i < cfg.CircuitBreakerMax; i++ {
		_, err := client.Get(context.Background(), url)
		require.Error(t, err)
	}
	assert.True(t, client.IsOpen())

	_, err := client.Get(context.Background(), url)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreakerCountsServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testClientConfig()
	cfg.MaxRetries = 0
	cfg.CircuitBreakerMax = 2
	client := NewRateLimitedHTTPClient(cfg, nil)

	for i := 0; i < cfg.CircuitBreakerMax; i++ {
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	}
	assert.True(t, client.IsOpen())

	_, err := client.Get(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(cfg.CircuitBreakerMax), atomic.LoadInt32(&calls))
}

func TestCircuitBreakerResetsOnSuccess(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1)%2 == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(catalogCSV))
	}))
	defer server.Close()

	cfg := testClientConfig()
	cfg.MaxRetries = 0
	cfg.CircuitBreakerMax = 2
	client := NewRateLimitedHTTPClient(cfg, nil)

	for i := 0; i < 4; i++ {
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.False(t, client.IsOpen(), "failures were never consecutive")
}

func TestFactoryNewSource(t *testing.T) {
	f := NewFactory(nil, nil)
	defer f.Close()

	src, err := f.NewSource("https://example.com/a.csv", "")
	require.NoError(t, err)
	assert.Equal(t, "remote", src.Name())

	src, err = f.NewSource("", "a.csv")
	require.NoError(t, err)
	assert.Equal(t, "file", src.Name())

	_, err = f.NewSource("", "")
	assert.Error(t, err)

	_, err = f.NewSource("https://example.com/a.csv", "a.csv")
	assert.Error(t, err)

	_, err = f.Create(SourceType("ftp"), "x")
	assert.Error(t, err)
}

func TestDataSourceErrorMessage(t *testing.T) {
	err := NewDataSourceError("remote", ErrCodeServerError, "bad", errors.New("cause"))
	assert.Equal(t, "remote: server_error: bad (cause)", err.Error())

	err = NewDataSourceError("remote", ErrCodeServerError, "bad", nil)
	assert.Equal(t, "remote: server_error: bad", err.Error())
}

type countingSource struct {
	table *Table
	calls int
}

func (s *countingSource) Fetch(ctx context.Context) (*Table, error) {
	s.calls++
	return s.table, nil
}

func (s *countingSource) Name() string     { return "counting" }
func (s *countingSource) Location() string { return "mem://feed" }

func mustParse(t *testing.T, csv string) *Table {
	t.Helper()
	table, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return table
}

func TestCacheStats(t *testing.T) {
	c := NewCache(time.Minute)
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", mustParse(t, "figure_name\n"))
	_, ok = c.Get("a")
	assert.False(t, ok, "feeds without rows are not cached")

	c.Set("a", mustParse(t, catalogCSV))
	table, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, table.Len())

	hits, misses, ratio := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(2), misses)
	assert.InDelta(t, 1.0/3, ratio, 1e-9)

	c.Invalidate("a")
	_, ok = c.Get("a")
	assert.False(t, ok)

	c.Set("b", mustParse(t, catalogCSV))
	c.Clear()
	assert.Zero(t, c.Len())
	hits, misses, _ = c.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestCacheDisabled(t *testing.T) {
	c := NewCache(0)
	assert.False(t, c.Enabled())
	c.Set("a", mustParse(t, catalogCSV))
	_, ok := c.Get("a")
	assert.False(t, ok)

	path := filepath.Join(t.TempDir(), "feeds.json")
	require.NoError(t, c.SaveFile(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCacheSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "feeds.json")

	first := NewCache(time.Minute)
	first.Set("https://example.com/box_data.csv", mustParse(t, catalogCSV))
	require.NoError(t, first.SaveFile(path))

	second := NewCache(time.Minute)
	require.NoError(t, second.LoadFile(path))
	table, ok := second.Get("https://example.com/box_data.csv")
	require.True(t, ok)
	assert.Equal(t, "Birdy", table.Get(1, "figure_name"))
	assert.True(t, table.Has("FIGURE_NAME"), "header index is rebuilt")

	require.NoError(t, NewCache(time.Minute).LoadFile(filepath.Join(t.TempDir(), "missing.json")))
}

func TestCacheLoadFileSkipsExpiredEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.json")
	data := `{"old":{"header":["a"],"rows":[["1"]],"expires":"2000-01-01T00:00:00Z"}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	c := NewCache(time.Minute)
	require.NoError(t, c.LoadFile(path))
	assert.Zero(t, c.Len())

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	assert.Error(t, c.LoadFile(path))
}

func TestCachedSource(t *testing.T) {
	src := &countingSource{table: mustParse(t, catalogCSV)}
	cached := NewCachedSource(src, NewCache(time.Minute))

	_, err := cached.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, cached.Cached())

	table, err := cached.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, cached.Cached())
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, "counting", cached.Name())
	assert.Equal(t, "mem://feed", cached.Location())

	passthrough := NewCachedSource(src, nil)
	_, err = passthrough.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, passthrough.Cached())
	assert.Equal(t, 2, src.calls)
}
