// Package estimator computes the chance of drawing at least one wanted figure
// from a blind-box series within a number of independent draws.
package estimator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/blindbox-companion/internal/catalog"
	"github.com/yourusername/blindbox-companion/internal/logger"
	"github.com/yourusername/blindbox-companion/internal/metrics"
	"github.com/yourusername/blindbox-companion/internal/models"
)

// DefaultCurveBound is the number of draws a curve covers when none is given.
const DefaultCurveBound = 50

// Errors returned by the estimator, shared with the models package.
var (
	ErrNoTargets      = models.ErrNoTargets
	ErrNegativeDraws  = models.ErrNegativeDraws
	ErrEmptyCatalog   = models.ErrEmptyCatalog
	ErrSeriesNotFound = models.ErrSeriesNotFound
)

// Estimate is the result for one series, target set and draw count.
type Estimate struct {
	Series string
	Draws  int
	// Resolved are the targets found in the series, in catalog order.
	Resolved []string
	// Excluded are targets listed in the catalog under another series.
	Excluded []string
	// Unresolved are targets absent from the catalog.
	Unresolved            []string
	SingleDrawProbability float64
	MissProbability       float64
	AtLeastOne            float64
	UnitPrice             decimal.Decimal
	Cost                  decimal.Decimal
	// Clamped is set when the target probabilities summed above 1.
	Clamped bool
}

// Point is one step of a probability curve.
type Point struct {
	Draws       int
	Probability float64
	Cost        decimal.Decimal
}

// Estimator reads the catalog and never modifies it.
type Estimator struct {
	catalog *catalog.Catalog
	dq      *logger.DataQualityLogger
}

// New creates an estimator over cat. A nil logger discards output.
func New(cat *catalog.Catalog, log *logrus.Logger) *Estimator {
	if log == nil {
		log = logger.Discard()
	}
	return &Estimator{
		catalog: cat,
		dq:      logger.NewDataQualityLogger(log),
	}
}

// Estimate computes the single-draw hit probability for targets in series and
// the probability and cost of n draws.
func (e *Estimator) Estimate(series string, targets []string, n int) (*Estimate, error) {
	if n < 0 {
		return nil, ErrNegativeDraws
	}
	est, err := e.resolve(series, targets)
	if err != nil {
		return nil, err
	}
	est.Draws = n
	est.AtLeastOne = AtLeastOne(est.SingleDrawProbability, n)
	est.Cost = Cost(est.UnitPrice, n)

	metrics.RecordEstimate()
	return est, nil
}

// Curve evaluates n = 1..bound. A non-positive bound uses DefaultCurveBound.
func (e *Estimator) Curve(series string, targets []string, bound int) ([]Point, error) {
	if bound <= 0 {
		bound = DefaultCurveBound
	}
	est, err := e.resolve(series, targets)
	if err != nil {
		return nil, err
	}
	return CurveFor(est.SingleDrawProbability, est.UnitPrice, bound), nil
}

// EstimateWithCurve returns the estimate for n draws together with the curve
// up to bound, resolving the targets once.
func (e *Estimator) EstimateWithCurve(series string, targets []string, n, bound int) (*Estimate, []Point, error) {
	if n < 0 {
		return nil, nil, ErrNegativeDraws
	}
	if bound <= 0 {
		bound = DefaultCurveBound
	}
	est, err := e.resolve(series, targets)
	if err != nil {
		return nil, nil, err
	}
	est.Draws = n
	est.AtLeastOne = AtLeastOne(est.SingleDrawProbability, n)
	est.Cost = Cost(est.UnitPrice, n)

	metrics.RecordEstimate()
	return est, CurveFor(est.SingleDrawProbability, est.UnitPrice, bound), nil
}

func (e *Estimator) resolve(series string, targets []string) (*Estimate, error) {
	wanted := models.NewTargetSet(targets...)
	if len(wanted) == 0 {
		return nil, ErrNoTargets
	}
	if e.catalog.IsEmpty() {
		return nil, ErrEmptyCatalog
	}
	if !e.catalog.HasSeries(series) {
		return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, series)
	}

	est := &Estimate{Series: series}
	est.UnitPrice, _ = e.catalog.SeriesPrice(series)

	inSeries := make(map[string]struct{})
	pHit := 0.0
	for _, item := range e.catalog.InSeries(series) {
		if wanted.Contains(item.Name) {
			pHit += item.DrawProbability
			est.Resolved = append(est.Resolved, item.Name)
			inSeries[item.Name] = struct{}{}
		}
	}
	for _, name := range wanted.Names() {
		if _, ok := inSeries[name]; ok {
			continue
		}
		if _, ok := e.catalog.Lookup(name); ok {
			est.Excluded = append(est.Excluded, name)
		} else {
			est.Unresolved = append(est.Unresolved, name)
		}
	}

	est.SingleDrawProbability = pHit
	est.MissProbability = MissProbability(pHit)
	if pHit > 1 {
		est.Clamped = true
		e.dq.LogProbabilityClamped(series, pHit)
		metrics.RecordProbabilityClamped(series)
	}
	return est, nil
}

// MissProbability is 1 - pHit, floored at zero.
func MissProbability(pHit float64) float64 {
	return math.Max(0, 1-pHit)
}

// AtLeastOne returns 1 - (1 - pHit)^n, with n = 0 giving 0.
func AtLeastOne(pHit float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return 1 - math.Pow(MissProbability(pHit), float64(n))
}

// Cost returns n * unitPrice.
func Cost(unitPrice decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(n)))
}

// CurveFor evaluates AtLeastOne and Cost for n = 1..bound.
func CurveFor(pHit float64, unitPrice decimal.Decimal, bound int) []Point {
	points := make([]Point, 0, bound)
	for n := 1; n <= bound; n++ {
		points = append(points, Point{
			Draws:       n,
			Probability: AtLeastOne(pHit, n),
			Cost:        Cost(unitPrice, n),
		})
	}
	return points
}
