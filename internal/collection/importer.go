package collection

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/blindbox-companion/internal/datasource"
	"github.com/yourusername/blindbox-companion/internal/logger"
	"github.com/yourusername/blindbox-companion/internal/metrics"
	"github.com/yourusername/blindbox-companion/internal/models"
)

// Collection feed columns.
const (
	ColItemName  = "figure_name"
	ColLine      = "series_name"
	ColSeries    = "sub_series_name"
	ColPricePaid = "price_paid"
	ColOwnedDate = "owned_date"
	ColSource    = "source"
	ColQuantity  = "quantity"
)

// Columns is the collection feed layout, in export order.
var Columns = []string{ColItemName, ColLine, ColSeries, ColPricePaid, ColOwnedDate, ColSource, ColQuantity}

// RequiredColumns must be present in an uploaded collection.
var RequiredColumns = []string{ColItemName, ColLine, ColSeries, ColPricePaid}

const collectionFeed = "collection"

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// RowRejection describes a collection row that was not applied.
type RowRejection struct {
	Row    int
	Item   string
	Reason string
}

func (r RowRejection) String() string {
	if r.Item == "" {
		return fmt.Sprintf("row %d: %s", r.Row, r.Reason)
	}
	return fmt.Sprintf("row %d (%s): %s", r.Row, r.Item, r.Reason)
}

// Importer turns a collection feed into reconciler updates.
type Importer struct {
	dq     *logger.DataQualityLogger
	logger *logrus.Entry
}

// NewImporter creates an importer. A nil logger discards output.
func NewImporter(log *logrus.Logger) *Importer {
	if log == nil {
		log = logger.Discard()
	}
	return &Importer{
		dq:     logger.NewDataQualityLogger(log),
		logger: log.WithField("component", "collection_importer"),
	}
}

// ParseImport maps every table row to an update. Missing required columns
// fail the whole feed; a bad row is rejected on its own.
func (im *Importer) ParseImport(table *datasource.Table) ([]ImportRow, []RowRejection, error) {
	if missing := table.Missing(RequiredColumns...); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", datasource.ErrMissingColumns, strings.Join(missing, ", "))
	}

	var (
		rows       []ImportRow
		rejections []RowRejection
	)
	for i := 0; i < table.Len(); i++ {
		rowNum := i + 1
		update, err := im.parseRow(table, i)
		if err != nil {
			rej := RowRejection{Row: rowNum, Item: table.Get(i, ColItemName), Reason: err.Error()}
			im.dq.LogRowRejected(collectionFeed, rej.Row, rej.Item, rej.Reason)
			metrics.RecordRowRejected(collectionFeed, rejectionCode(err))
			rejections = append(rejections, rej)
			continue
		}
		rows = append(rows, ImportRow{Row: rowNum, Update: update})
	}
	return rows, rejections, nil
}

func (im *Importer) parseRow(table *datasource.Table, i int) (models.OwnershipUpdate, error) {
	name := table.Get(i, ColItemName)
	if name == "" {
		return models.OwnershipUpdate{}, models.ErrMissingItemName
	}

	price, err := parsePricePaid(table.Get(i, ColPricePaid))
	if err != nil {
		return models.OwnershipUpdate{}, err
	}

	qty, err := parseQuantity(table.Get(i, ColQuantity))
	if err != nil {
		return models.OwnershipUpdate{}, err
	}

	u := models.OwnershipUpdate{
		ItemName:      name,
		Line:          models.StringPtr(table.Get(i, ColLine)),
		Series:        models.StringPtr(table.Get(i, ColSeries)),
		Quantity:      models.IntPtr(qty),
		UnitPricePaid: price,
		AcquiredAt:    parseDate(table.Get(i, ColOwnedDate)),
	}

	src, err := models.ParseSource(table.Get(i, ColSource))
	if err != nil {
		im.logger.WithFields(logrus.Fields{
			"row":    i + 1,
			"item":   name,
			"source": table.Get(i, ColSource),
		}).Warn("Unknown source label, recording as imported")
	}
	if src == models.SourceUnset {
		src = models.SourceImported
	}
	u.Source = models.SourcePtr(src)

	return u, nil
}

// ImportTable parses a collection feed and applies it to r. Parse and apply
// rejections are merged in row order.
func (r *Reconciler) ImportTable(im *Importer, table *datasource.Table) (ImportReport, error) {
	rows, parseRejections, err := im.ParseImport(table)
	if err != nil {
		return ImportReport{}, err
	}
	report := r.Import(rows)
	report.Rejections = append(report.Rejections, parseRejections...)
	sort.SliceStable(report.Rejections, func(a, b int) bool {
		return report.Rejections[a].Row < report.Rejections[b].Row
	})
	return report, nil
}

// parsePricePaid leaves a blank cell unset; anything else must be numeric.
func parsePricePaid(raw string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(strings.TrimPrefix(raw, "$"))
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidPrice, raw)
	}
	return &d, nil
}

// parseQuantity defaults to 1 for blank or non-numeric cells. Numbers beyond
// models.MaxQuantity in either direction are rejected; other negatives pass
// through for the reconciler to reject.
func parseQuantity(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return 1, nil
	}
	if math.Abs(f) > models.MaxQuantity {
		return 0, fmt.Errorf("%w: %s", models.ErrInvalidQuantity, raw)
	}
	return int(f), nil
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

func rejectionCode(err error) string {
	switch {
	case errors.Is(err, models.ErrMissingItemName):
		return "missing_item_name"
	case errors.Is(err, models.ErrNegativeQuantity):
		return "negative_quantity"
	case errors.Is(err, models.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, models.ErrNegativePrice):
		return "negative_price"
	case errors.Is(err, models.ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(err, models.ErrInvalidSource):
		return "invalid_source"
	default:
		return "other"
	}
}
