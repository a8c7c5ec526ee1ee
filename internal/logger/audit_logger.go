// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated trail of ownership changes.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogOwnershipChange logs a reconciled ownership assertion.
func (al *AuditLogger) LogOwnershipChange(itemName, action, source string, oldQuantity, newQuantity int, priceRefreshed bool) {
	al.WithFields(logrus.Fields{
		"item_name":       itemName,
		"action":          action,
		"source":          source,
		"old_quantity":    oldQuantity,
		"new_quantity":    newQuantity,
		"price_refreshed": priceRefreshed,
	}).Info("Ownership changed")
}

// LogImportSummary logs the outcome of a collection batch import.
func (al *AuditLogger) LogImportSummary(batchID string, applied, rejected int) {
	entry := al.WithFields(logrus.Fields{
		"batch_id": batchID,
		"applied":  applied,
		"rejected": rejected,
	})
	if rejected > 0 {
		entry.Warn("Collection import completed with rejected rows")
		return
	}
	entry.Info("Collection import completed")
}
