package logger

import (
	"github.com/sirupsen/logrus"
)

// DataQualityLogger reports recoverable problems in the catalog and collection feeds.
type DataQualityLogger struct {
	*logrus.Entry
}

// NewDataQualityLogger creates a new data quality logger.
func NewDataQualityLogger(baseLogger *logrus.Logger) *DataQualityLogger {
	return &DataQualityLogger{
		Entry: baseLogger.WithField("component", "data_quality"),
	}
}

// LogRowRejected logs a dropped feed row.
func (dl *DataQualityLogger) LogRowRejected(feed string, row int, item, reason string) {
	dl.WithFields(logrus.Fields{
		"feed":   feed,
		"row":    row,
		"item":   item,
		"reason": reason,
	}).Warn("Row rejected")
}

// LogProbabilityClamped logs a series whose target probabilities sum above one.
func (dl *DataQualityLogger) LogProbabilityClamped(series string, sum float64) {
	dl.WithFields(logrus.Fields{
		"series":          series,
		"probability_sum": sum,
	}).Warn("Summed draw probabilities exceed 1, clamping miss probability to 0")
}

// LogCatalogLoad logs a catalog load attempt.
func (dl *DataQualityLogger) LogCatalogLoad(source string, items, rejected int, cached bool, err error) {
	entry := dl.WithFields(logrus.Fields{
		"source":   source,
		"items":    items,
		"rejected": rejected,
		"cached":   cached,
	})
	switch {
	case err != nil:
		entry.WithError(err).Error("Catalog load failed")
	case items == 0:
		entry.Warn("Catalog loaded but contains no valid rows")
	default:
		entry.Info("Catalog loaded")
	}
}
