package models

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Source records how an ownership record was last asserted.
type Source string

const (
	// SourceUnset means the source was never recorded.
	SourceUnset Source = ""
	// SourceManual is a record typed in by the collector.
	SourceManual Source = "manual"
	// SourceMarkedOwned is a record created by toggling a catalog figure as owned.
	SourceMarkedOwned Source = "marked-owned"
	// SourceImported is a record loaded from a collection CSV.
	SourceImported Source = "imported"
)

// ParseSource accepts canonical values and the legacy labels used by older exports.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SourceUnset, nil
	case "manual", "manual entry":
		return SourceManual, nil
	case "marked-owned", "marked owned":
		return SourceMarkedOwned, nil
	case "imported", "csv upload":
		return SourceImported, nil
	default:
		return SourceUnset, ErrInvalidSource
	}
}

// AutoTracked reports whether catalog price drift may be applied to the record.
func (s Source) AutoTracked() bool {
	return s == SourceMarkedOwned || s == SourceUnset
}

// OwnershipRecord is the canonical per-item ownership entry.
type OwnershipRecord struct {
	ItemName      string           `json:"item_name"`
	Line          string           `json:"line,omitempty"`
	Series        string           `json:"series,omitempty"`
	Quantity      int              `json:"quantity"`
	UnitPricePaid *decimal.Decimal `json:"unit_price_paid,omitempty"`
	Source        Source           `json:"source,omitempty"`
	AcquiredAt    *time.Time       `json:"acquired_at,omitempty"`
}

// IsOwned reports whether the record counts as actively owned.
func (r OwnershipRecord) IsOwned() bool {
	return r.Quantity > 0
}

// Clone returns a deep copy so callers cannot mutate the canonical table.
func (r OwnershipRecord) Clone() OwnershipRecord {
	out := r
	if r.UnitPricePaid != nil {
		p := *r.UnitPricePaid
		out.UnitPricePaid = &p
	}
	if r.AcquiredAt != nil {
		t := *r.AcquiredAt
		out.AcquiredAt = &t
	}
	return out
}

// OwnershipUpdate is a partial field set. Nil fields are "not supplied".
type OwnershipUpdate struct {
	ItemName      string           `validate:"required"`
	Line          *string
	Series        *string
	Quantity      *int             `validate:"omitempty,gte=0,lte=2147483647"`
	UnitPricePaid *decimal.Decimal
	Source        *Source          `validate:"omitempty,oneof=manual marked-owned imported"`
	AcquiredAt    *time.Time
}

// MaxQuantity is the largest quantity a record may hold.
const MaxQuantity = math.MaxInt32

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }

// DecimalPtr returns a pointer to v.
func DecimalPtr(v decimal.Decimal) *decimal.Decimal { return &v }

// SourcePtr returns a pointer to v.
func SourcePtr(v Source) *Source { return &v }
