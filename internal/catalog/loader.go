package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/blindbox-companion/internal/datasource"
	"github.com/yourusername/blindbox-companion/internal/logger"
	"github.com/yourusername/blindbox-companion/internal/metrics"
)

// LoadError reports that the master catalog could not be loaded. The loader
// still returns a usable empty catalog alongside it.
type LoadError struct {
	Source   string
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog from %s %s: %v", e.Source, e.Location, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one load.
type Result struct {
	Catalog    *Catalog
	Rejections []RowRejection
	Cached     bool
	Duration   time.Duration
}

// Loader runs fetch, parse, normalize and cache for the master feed.
type Loader struct {
	cache      *datasource.Cache
	normalizer *Normalizer
	dq         *logger.DataQualityLogger
	logger     *logrus.Entry
}

// NewLoader creates a loader. A nil cache disables caching.
func NewLoader(c *datasource.Cache, log *logrus.Logger) *Loader {
	if log == nil {
		log = logger.Discard()
	}
	return &Loader{
		cache:      c,
		normalizer: NewNormalizer(log),
		dq:         logger.NewDataQualityLogger(log),
		logger:     log.WithField("component", "catalog_loader"),
	}
}

// Load returns the catalog for src. On failure it returns an empty catalog
// and a *LoadError; callers are expected to carry on with the empty state.
func (l *Loader) Load(ctx context.Context, src datasource.CatalogSource) (*Result, error) {
	start := time.Now()
	l.logger.WithFields(logrus.Fields{
		"source":   src.Name(),
		"location": src.Location(),
	}).Debug("Fetching catalog")

	cached := datasource.NewCachedSource(src, l.cache)
	table, err := cached.Fetch(ctx)
	if err != nil {
		return l.fail(src, start, err)
	}

	items, rejections, err := l.normalizer.Normalize(table)
	if err != nil {
		// a cached feed that no longer normalizes is not kept
		l.cache.Invalidate(src.Location())
		return l.fail(src, start, err)
	}

	cat := New(items)
	elapsed := time.Since(start)

	result := "success"
	if cached.Cached() {
		result = "cached"
	}
	l.dq.LogCatalogLoad(src.Name(), cat.Len(), len(rejections), cached.Cached(), nil)
	metrics.RecordCatalogLoad(result, cat.Len(), elapsed.Seconds())

	return &Result{
		Catalog:    cat,
		Rejections: rejections,
		Cached:     cached.Cached(),
		Duration:   elapsed,
	}, nil
}

func (l *Loader) fail(src datasource.CatalogSource, start time.Time, err error) (*Result, error) {
	elapsed := time.Since(start)
	loadErr := &LoadError{Source: src.Name(), Location: src.Location(), Err: err}

	l.dq.LogCatalogLoad(src.Name(), 0, 0, false, loadErr)
	metrics.RecordCatalogLoad("failure", 0, elapsed.Seconds())

	return &Result{Catalog: Empty(), Duration: elapsed}, loadErr
}
