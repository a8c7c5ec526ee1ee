// Package collection maintains the canonical per-figure ownership table.
package collection

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/blindbox-companion/internal/logger"
	"github.com/yourusername/blindbox-companion/internal/metrics"
	"github.com/yourusername/blindbox-companion/internal/models"
)

// Audit actions.
const (
	ActionUpsert    = "upsert"
	ActionAdd       = "add"
	ActionMarkOwned = "mark_owned"
	ActionUnmark    = "unmark"
	ActionImport    = "import"
)

// Reconciler is the only writer of ownership records. Records are keyed by
// figure name; there is never more than one per name.
type Reconciler struct {
	records  map[string]*models.OwnershipRecord
	validate *validator.Validate
	audit    *logger.AuditLogger
	logger   *logrus.Entry
}

// NewReconciler creates an empty reconciler. A nil logger discards output.
func NewReconciler(log *logrus.Logger) *Reconciler {
	if log == nil {
		log = logger.Discard()
	}
	return &Reconciler{
		records:  make(map[string]*models.OwnershipRecord),
		validate: validator.New(),
		audit:    logger.NewAuditLogger(log),
		logger:   log.WithField("component", "reconciler"),
	}
}

// Upsert applies a partial update. A new record takes quantity 1 when none is
// supplied; an existing record only changes the supplied fields.
func (r *Reconciler) Upsert(u models.OwnershipUpdate) (models.OwnershipRecord, error) {
	return r.apply(u, models.SourceUnset, ActionUpsert)
}

// Add is an explicit entry by the collector. New records default to source manual.
func (r *Reconciler) Add(u models.OwnershipUpdate) (models.OwnershipRecord, error) {
	return r.apply(u, models.SourceManual, ActionAdd)
}

// MarkOwned toggles a catalog figure on with the given quantity; zero acts as
// Unmark. Records that are auto-tracked (source marked-owned or unset) pick
// up the current catalog price, line and series. Manual and imported prices
// are left alone.
func (r *Reconciler) MarkOwned(item models.CatalogItem, quantity int) (models.OwnershipRecord, error) {
	if quantity < 0 {
		return models.OwnershipRecord{}, fmt.Errorf("%s: %w", item.Name, models.ErrNegativeQuantity)
	}
	if quantity == 0 {
		return r.Unmark(item.Name)
	}

	existing, ok := r.records[item.Name]
	if !ok {
		return r.apply(models.OwnershipUpdate{
			ItemName:      item.Name,
			Line:          models.StringPtr(item.Line),
			Series:        models.StringPtr(item.Series),
			Quantity:      models.IntPtr(quantity),
			UnitPricePaid: models.DecimalPtr(item.UnitPrice),
			Source:        models.SourcePtr(models.SourceMarkedOwned),
		}, models.SourceMarkedOwned, ActionMarkOwned)
	}

	u := models.OwnershipUpdate{
		ItemName: item.Name,
		Quantity: models.IntPtr(quantity),
	}
	if existing.Source.AutoTracked() {
		u.Line = models.StringPtr(item.Line)
		u.Series = models.StringPtr(item.Series)
		u.UnitPricePaid = models.DecimalPtr(item.UnitPrice)
	}
	return r.apply(u, models.SourceMarkedOwned, ActionMarkOwned)
}

// Unmark toggles a figure off: quantity drops to zero and every other field
// is kept so a later MarkOwned restores it without re-entry.
func (r *Reconciler) Unmark(itemName string) (models.OwnershipRecord, error) {
	rec, ok := r.records[strings.TrimSpace(itemName)]
	if !ok {
		return models.OwnershipRecord{}, fmt.Errorf("%s: %w", itemName, models.ErrNotFound)
	}
	old := rec.Quantity
	rec.Quantity = 0

	r.audit.LogOwnershipChange(rec.ItemName, ActionUnmark, string(rec.Source), old, 0, false)
	metrics.RecordOwnershipUpdate(ActionUnmark)
	r.updateGauge()
	return rec.Clone(), nil
}

// ImportRow is one collection feed row ready to apply. Rejected rows from
// parsing keep their position so reports line up with the file.
type ImportRow struct {
	Row    int
	Update models.OwnershipUpdate
}

// ImportReport summarizes a batch import.
type ImportReport struct {
	BatchID    string
	Applied    int
	Rejections []RowRejection
}

// Import applies rows in input order, so a later row for the same figure
// wins. A bad row is rejected and the batch carries on.
func (r *Reconciler) Import(rows []ImportRow) ImportReport {
	report := ImportReport{BatchID: uuid.NewString()}

	for _, row := range rows {
		if _, err := r.apply(row.Update, models.SourceImported, ActionImport); err != nil {
			report.Rejections = append(report.Rejections, RowRejection{
				Row:    row.Row,
				Item:   row.Update.ItemName,
				Reason: err.Error(),
			})
			metrics.RecordRowRejected(collectionFeed, rejectionCode(err))
			continue
		}
		report.Applied++
	}

	r.audit.LogImportSummary(report.BatchID, report.Applied, len(report.Rejections))
	return report
}

// Get returns the record for a figure name.
func (r *Reconciler) Get(itemName string) (models.OwnershipRecord, bool) {
	rec, ok := r.records[itemName]
	if !ok {
		return models.OwnershipRecord{}, false
	}
	return rec.Clone(), true
}

// Quantity returns the owned quantity, zero when no record exists.
func (r *Reconciler) Quantity(itemName string) int {
	if rec, ok := r.records[itemName]; ok {
		return rec.Quantity
	}
	return 0
}

// IsOwned reports whether a figure is actively owned.
func (r *Reconciler) IsOwned(itemName string) bool {
	return r.Quantity(itemName) > 0
}

// Records returns every record, including zeroed ones, sorted by name.
func (r *Reconciler) Records() []models.OwnershipRecord {
	return r.list(func(models.OwnershipRecord) bool { return true })
}

// Owned returns the records with quantity above zero, sorted by name.
func (r *Reconciler) Owned() []models.OwnershipRecord {
	return r.list(models.OwnershipRecord.IsOwned)
}

// Len returns the number of records, zeroed ones included.
func (r *Reconciler) Len() int {
	return len(r.records)
}

func (r *Reconciler) list(keep func(models.OwnershipRecord) bool) []models.OwnershipRecord {
	names := make([]string, 0, len(r.records))
	for name := range r.records {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]models.OwnershipRecord, 0, len(names))
	for _, name := range names {
		rec := r.records[name]
		if keep(*rec) {
			out = append(out, rec.Clone())
		}
	}
	return out
}

func (r *Reconciler) apply(u models.OwnershipUpdate, defaultSource models.Source, action string) (models.OwnershipRecord, error) {
	u.ItemName = strings.TrimSpace(u.ItemName)
	if err := r.check(u); err != nil {
		return models.OwnershipRecord{}, err
	}

	rec, exists := r.records[u.ItemName]
	oldQty := 0
	if !exists {
		rec = &models.OwnershipRecord{
			ItemName: u.ItemName,
			Quantity: 1,
			Source:   defaultSource,
		}
	} else {
		oldQty = rec.Quantity
	}

	if u.Line != nil {
		rec.Line = *u.Line
	}
	if u.Series != nil {
		rec.Series = *u.Series
	}
	if u.Quantity != nil {
		rec.Quantity = *u.Quantity
	}
	priceRefreshed := false
	if u.UnitPricePaid != nil {
		p := *u.UnitPricePaid
		priceRefreshed = rec.UnitPricePaid == nil || !rec.UnitPricePaid.Equal(p)
		rec.UnitPricePaid = &p
	}
	if u.Source != nil {
		rec.Source = *u.Source
	}
	if u.AcquiredAt != nil {
		t := *u.AcquiredAt
		rec.AcquiredAt = &t
	}

	r.records[rec.ItemName] = rec

	r.audit.LogOwnershipChange(rec.ItemName, action, string(rec.Source), oldQty, rec.Quantity, priceRefreshed)
	metrics.RecordOwnershipUpdate(action)
	r.updateGauge()
	return rec.Clone(), nil
}

// check maps struct validation failures onto the package sentinel errors.
func (r *Reconciler) check(u models.OwnershipUpdate) error {
	if u.UnitPricePaid != nil && u.UnitPricePaid.IsNegative() {
		return fmt.Errorf("%s: %w", u.ItemName, models.ErrNegativePrice)
	}

	err := r.validate.Struct(u)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	switch verrs[0].StructField() {
	case "ItemName":
		return models.ErrMissingItemName
	case "Quantity":
		if verrs[0].Tag() == "lte" {
			return fmt.Errorf("%s: %w", u.ItemName, models.ErrInvalidQuantity)
		}
		return fmt.Errorf("%s: %w", u.ItemName, models.ErrNegativeQuantity)
	case "Source":
		return fmt.Errorf("%s: %w", u.ItemName, models.ErrInvalidSource)
	default:
		return fmt.Errorf("%s: %w", u.ItemName, err)
	}
}

func (r *Reconciler) updateGauge() {
	owned := 0
	for _, rec := range r.records {
		if rec.IsOwned() {
			owned++
		}
	}
	metrics.UpdateOwnedItems(owned)
}
