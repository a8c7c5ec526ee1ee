// Package metrics provides the Prometheus registry for data-quality signals.
package metrics

import (
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	CatalogLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "companion",
		Name:      "catalog_loads_total",
		Help:      "Catalog load attempts by result",
	}, []string{"result"})
	RowsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "companion",
		Name:      "rows_rejected_total",
		Help:      "Feed rows dropped during ingestion",
	}, []string{"feed", "reason"})
	OwnershipUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "companion",
		Name:      "ownership_updates_total",
		Help:      "Ownership assertions applied by the reconciler",
	}, []string{"action"})
	ProbabilityClampedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "companion",
		Name:      "probability_clamped_total",
		Help:      "Estimates where summed target probabilities exceeded 1",
	}, []string{"series"})
	EstimatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "companion",
		Name:      "estimates_total",
		Help:      "Draw probability estimates computed",
	})
)

// Gauge metrics
var (
	CatalogItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "companion",
		Name:      "catalog_items",
		Help:      "Figures in the loaded catalog",
	})
	OwnedItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "companion",
		Name:      "owned_items",
		Help:      "Distinct figures with quantity above zero",
	})
	CatalogCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "companion",
		Name:      "catalog_cache_hit_ratio",
		Help:      "Hit ratio of the parsed catalog cache",
	})
)

// Histogram metrics
var (
	CatalogFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "companion",
		Name:      "catalog_fetch_duration_seconds",
		Help:      "Duration of catalog fetches in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(CatalogLoadsTotal)
		registry.MustRegister(RowsRejectedTotal)
		registry.MustRegister(OwnershipUpdatesTotal)
		registry.MustRegister(ProbabilityClampedTotal)
		registry.MustRegister(EstimatesTotal)

		registry.MustRegister(CatalogItems)
		registry.MustRegister(OwnedItems)
		registry.MustRegister(CatalogCacheHitRatio)

		registry.MustRegister(CatalogFetchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// WriteText writes every registered metric family in the Prometheus text format.
func WriteText(w io.Writer) error {
	families, err := GetRegistry().Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// RecordCatalogLoad records a catalog load outcome and its size.
func RecordCatalogLoad(result string, items int, durationSeconds float64) {
	CatalogLoadsTotal.WithLabelValues(result).Inc()
	CatalogItems.Set(float64(items))
	if durationSeconds > 0 {
		CatalogFetchDuration.Observe(durationSeconds)
	}
}

// RecordRowRejected records a dropped feed row.
func RecordRowRejected(feed, reason string) {
	RowsRejectedTotal.WithLabelValues(feed, reason).Inc()
}

// RecordOwnershipUpdate records a reconciler write.
func RecordOwnershipUpdate(action string) {
	OwnershipUpdatesTotal.WithLabelValues(action).Inc()
}

// RecordProbabilityClamped records an invalid-probability clamp for a series.
func RecordProbabilityClamped(series string) {
	ProbabilityClampedTotal.WithLabelValues(series).Inc()
}

// RecordEstimate records a computed estimate.
func RecordEstimate() {
	EstimatesTotal.Inc()
}

// UpdateOwnedItems sets the owned figures gauge.
func UpdateOwnedItems(count int) {
	OwnedItems.Set(float64(count))
}

// UpdateCacheHitRatio sets the catalog cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	CatalogCacheHitRatio.Set(ratio)
}
