package collection

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/blindbox-companion/internal/models"
)

const maxHistogramBins = 20

// Stats summarizes the actively owned part of a collection.
type Stats struct {
	TotalFigures  int
	UniqueFigures int
	TotalSpent    decimal.Decimal
	AverageCost   decimal.Decimal
	Histogram     []Bin
}

// Bin is one bucket of the per-unit price histogram. The last bin is closed
// on both ends.
type Bin struct {
	Lower float64
	Upper float64
	Count int
}

// ComputeStats aggregates owned records. Zeroed records are ignored and
// records without a price add nothing to the spend.
func ComputeStats(records []models.OwnershipRecord) Stats {
	st := Stats{TotalSpent: decimal.Zero, AverageCost: decimal.Zero}

	var prices []Weighted
	for _, rec := range records {
		if !rec.IsOwned() {
			continue
		}
		st.UniqueFigures++
		st.TotalFigures += rec.Quantity
		if rec.UnitPricePaid == nil {
			continue
		}
		st.TotalSpent = st.TotalSpent.Add(rec.UnitPricePaid.Mul(decimal.NewFromInt(int64(rec.Quantity))))
		prices = append(prices, Weighted{Value: rec.UnitPricePaid.InexactFloat64(), Count: rec.Quantity})
	}

	if st.TotalFigures > 0 {
		st.AverageCost = st.TotalSpent.Div(decimal.NewFromInt(int64(st.TotalFigures)))
	}
	st.Histogram = WeightedHistogram(prices)
	return st
}

// Weighted is a value that occurs Count times.
type Weighted struct {
	Value float64
	Count int
}

// Histogram buckets values into max(1, min(20, n/2)) equal-width bins.
func Histogram(values []float64) []Bin {
	weighted := make([]Weighted, len(values))
	for i, v := range values {
		weighted[i] = Weighted{Value: v, Count: 1}
	}
	return WeightedHistogram(weighted)
}

// WeightedHistogram is Histogram over values repeated by their counts, without
// expanding them. n is the total count.
func WeightedHistogram(values []Weighted) []Bin {
	var (
		total  int
		lo, hi float64
	)
	for _, w := range values {
		if w.Count <= 0 {
			continue
		}
		if total == 0 || w.Value < lo {
			lo = w.Value
		}
		if total == 0 || w.Value > hi {
			hi = w.Value
		}
		total += w.Count
	}
	if total == 0 {
		return nil
	}

	n := total / 2
	if n > maxHistogramBins {
		n = maxHistogramBins
	}
	if n < 1 {
		n = 1
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Lower = lo + float64(i)*width
		bins[i].Upper = lo + float64(i+1)*width
	}
	bins[n-1].Upper = hi

	for _, w := range values {
		if w.Count <= 0 {
			continue
		}
		idx := int((w.Value - lo) / width)
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].Count += w.Count
	}
	return bins
}
