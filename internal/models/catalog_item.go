package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CatalogItem is one figure of the master catalog. It is immutable once loaded.
// Series is the purchasable container a draw is made from; Line groups series.
type CatalogItem struct {
	Line            string          `json:"line" validate:"required"`
	Series          string          `json:"series" validate:"required"`
	Name            string          `json:"name" validate:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DrawProbability float64         `json:"draw_probability" validate:"gte=0,lte=1"`
	ImageURL        string          `json:"image_url,omitempty"`
	// SeedQuantity is the optional owned quantity carried by the feed.
	SeedQuantity int `json:"seed_quantity,omitempty"`
}

// Key returns the catalog identity of the item.
func (c CatalogItem) Key() string {
	return c.Series + "/" + c.Name
}

// HasImage reports whether the image reference looks displayable.
func (c CatalogItem) HasImage() bool {
	u := strings.ToLower(c.ImageURL)
	return strings.HasPrefix(u, "http") || strings.Contains(u, ".jpg") || strings.Contains(u, ".png")
}
