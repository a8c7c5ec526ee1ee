package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/blindbox-companion/internal/datasource"
	"github.com/yourusername/blindbox-companion/internal/logger"
	"github.com/yourusername/blindbox-companion/internal/metrics"
	"github.com/yourusername/blindbox-companion/internal/models"
)

// Master feed columns.
const (
	ColLine        = "character_name"
	ColSeries      = "series_name"
	ColName        = "figure_name"
	ColPrice       = "price"
	ColProbability = "probability"
	ColImage       = "figure_photo"
	ColQuantity    = "quantity"
)

// RequiredColumns must all be present in the master feed header.
var RequiredColumns = []string{ColLine, ColSeries, ColName, ColPrice, ColProbability}

// Rejection reason codes, used as metric labels.
const (
	ReasonMissingField       = "missing_field"
	ReasonInvalidPrice       = "invalid_price"
	ReasonInvalidProbability = "invalid_probability"
	ReasonDuplicate          = "duplicate"
	ReasonConflict           = "conflicting_duplicate"
	ReasonInvalidItem        = "invalid_item"
)

const feedName = "catalog"

// RowRejection describes one feed row that was dropped.
type RowRejection struct {
	Row    int    // 1-based data row, header excluded
	Item   string
	Code   string
	Reason string
}

func (r RowRejection) String() string {
	if r.Item == "" {
		return fmt.Sprintf("row %d: %s", r.Row, r.Reason)
	}
	return fmt.Sprintf("row %d (%s): %s", r.Row, r.Item, r.Reason)
}

// Normalizer maps raw master feed rows to catalog items.
type Normalizer struct {
	validate *validator.Validate
	dq       *logger.DataQualityLogger
}

// NewNormalizer creates a normalizer. A nil logger discards output.
func NewNormalizer(log *logrus.Logger) *Normalizer {
	if log == nil {
		log = logger.Discard()
	}
	return &Normalizer{
		validate: validator.New(),
		dq:       logger.NewDataQualityLogger(log),
	}
}

// Normalize converts every row of table. Invalid rows are dropped and
// reported; they never fail the batch. The header must carry RequiredColumns.
func (n *Normalizer) Normalize(table *datasource.Table) ([]models.CatalogItem, []RowRejection, error) {
	if missing := table.Missing(RequiredColumns...); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", datasource.ErrMissingColumns, strings.Join(missing, ", "))
	}

	var (
		items      []models.CatalogItem
		rejections []RowRejection
		seen       = make(map[string]models.CatalogItem)
	)

	for i := 0; i < table.Len(); i++ {
		item, rej := n.normalizeRow(table, i)
		if rej == nil {
			if prev, ok := seen[item.Key()]; ok {
				if sameItem(prev, item) {
					rej = &RowRejection{Code: ReasonDuplicate, Reason: "duplicate row"}
				} else {
					rej = &RowRejection{Code: ReasonConflict, Reason: "item already listed in series with different values"}
				}
			}
		}
		if rej != nil {
			rej.Row = i + 1
			if rej.Item == "" {
				rej.Item = table.Get(i, ColName)
			}
			n.reject(*rej)
			rejections = append(rejections, *rej)
			continue
		}
		seen[item.Key()] = item
		items = append(items, item)
	}

	return items, rejections, nil
}

func (n *Normalizer) normalizeRow(table *datasource.Table, i int) (models.CatalogItem, *RowRejection) {
	for _, col := range RequiredColumns {
		if table.Get(i, col) == "" {
			return models.CatalogItem{}, &RowRejection{Code: ReasonMissingField, Reason: "missing " + col}
		}
	}

	price, err := ParsePrice(table.Get(i, ColPrice))
	if err != nil {
		return models.CatalogItem{}, &RowRejection{Code: ReasonInvalidPrice, Reason: err.Error()}
	}
	prob, err := ParseProbability(table.Get(i, ColProbability))
	if err != nil {
		return models.CatalogItem{}, &RowRejection{Code: ReasonInvalidProbability, Reason: err.Error()}
	}

	item := models.CatalogItem{
		Line:            table.Get(i, ColLine),
		Series:          table.Get(i, ColSeries),
		Name:            table.Get(i, ColName),
		UnitPrice:       price,
		DrawProbability: prob,
		ImageURL:        table.Get(i, ColImage),
		SeedQuantity:    parseSeedQuantity(table.Get(i, ColQuantity)),
	}
	if err := n.validate.Struct(item); err != nil {
		return models.CatalogItem{}, &RowRejection{Code: ReasonInvalidItem, Reason: err.Error()}
	}
	return item, nil
}

func (n *Normalizer) reject(r RowRejection) {
	n.dq.LogRowRejected(feedName, r.Row, r.Item, r.Reason)
	metrics.RecordRowRejected(feedName, r.Code)
}

// ParsePrice parses a currency cell such as "$12.00" or "1,299.50".
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", models.ErrInvalidPrice)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", models.ErrInvalidPrice, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", models.ErrNegativePrice, d)
	}
	return d, nil
}

// ParseProbability accepts a decimal ("0.05") or a fraction ("1/12") and
// requires the result to lie in [0,1].
func ParseProbability(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	var p float64
	if num, den, ok := strings.Cut(s, "/"); ok {
		a, errA := strconv.ParseFloat(strings.TrimSpace(num), 64)
		b, errB := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if errA != nil || errB != nil {
			return 0, fmt.Errorf("invalid probability fraction %q", raw)
		}
		if b == 0 {
			return 0, fmt.Errorf("probability fraction %q has zero denominator", raw)
		}
		p = a / b
	} else {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid probability %q", raw)
		}
		p = v
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("probability %q outside [0,1]", raw)
	}
	return p, nil
}

func sameItem(a, b models.CatalogItem) bool {
	return a.Line == b.Line &&
		a.Series == b.Series &&
		a.Name == b.Name &&
		a.UnitPrice.Equal(b.UnitPrice) &&
		a.DrawProbability == b.DrawProbability &&
		a.ImageURL == b.ImageURL &&
		a.SeedQuantity == b.SeedQuantity
}

// parseSeedQuantity reads the optional quantity column; anything that is not
// a positive integer counts as zero.
func parseSeedQuantity(raw string) int {
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
