package collection

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/yourusername/blindbox-companion/internal/models"
)

// Export writes records as a collection feed that ParseImport reads back.
func Export(w io.Writer, records []models.OwnershipRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(exportRow(rec)); err != nil {
			return fmt.Errorf("failed to write %s: %w", rec.ItemName, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportRow(rec models.OwnershipRecord) []string {
	price := ""
	if rec.UnitPricePaid != nil {
		price = rec.UnitPricePaid.StringFixed(2)
	}
	date := ""
	if rec.AcquiredAt != nil {
		date = rec.AcquiredAt.Format("2006-01-02")
	}
	return []string{
		rec.ItemName,
		rec.Line,
		rec.Series,
		price,
		date,
		string(rec.Source),
		strconv.Itoa(rec.Quantity),
	}
}
