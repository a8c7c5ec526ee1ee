// Package session holds the per-invocation application state: the loaded
// catalog, the ownership table, the selection and the targets.
package session

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/blindbox-companion/internal/catalog"
	"github.com/yourusername/blindbox-companion/internal/collection"
	"github.com/yourusername/blindbox-companion/internal/estimator"
	"github.com/yourusername/blindbox-companion/internal/logger"
	"github.com/yourusername/blindbox-companion/internal/models"
)

// Errors returned by session operations, shared with the models package.
var (
	ErrLineNotFound    = models.ErrLineNotFound
	ErrSeriesNotInLine = models.ErrSeriesNotInLine
	ErrAllTargetsOwned = models.ErrAllTargetsOwned
)

// Session is the explicit application state for one run.
type Session struct {
	ID         string
	catalog    *catalog.Catalog
	reconciler *collection.Reconciler
	estimator  *estimator.Estimator
	targets    models.TargetSet
	lines      []string
	series     map[string][]string
	logger     *logrus.Entry
}

// TargetStatus is one row of the target overview.
type TargetStatus struct {
	Item      models.CatalogItem
	Owned     bool
	Quantity  int
	PricePaid *decimal.Decimal
}

// Analysis bundles an estimate with its curve.
type Analysis struct {
	Estimate *estimator.Estimate
	Curve    []estimator.Point
}

// New creates a session over cat. A nil reconciler starts an empty
// collection; a nil catalog behaves as an empty one.
func New(cat *catalog.Catalog, rec *collection.Reconciler, log *logrus.Logger) *Session {
	if log == nil {
		log = logger.Discard()
	}
	if cat == nil {
		cat = catalog.Empty()
	}
	if rec == nil {
		rec = collection.NewReconciler(log)
	}
	id := uuid.NewString()
	return &Session{
		ID:         id,
		catalog:    cat,
		reconciler: rec,
		estimator:  estimator.New(cat, log),
		targets:    models.NewTargetSet(),
		series:     make(map[string][]string),
		logger:     log.WithFields(logrus.Fields{"component": "session", "session_id": id}),
	}
}

// Catalog returns the loaded catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }

// Reconciler returns the ownership table.
func (s *Session) Reconciler() *collection.Reconciler { return s.reconciler }

// SelectSeries selects line and replaces its chosen series. A line selected
// with no series contributes nothing to ManagedItems.
func (s *Session) SelectSeries(line string, series ...string) error {
	known := s.catalog.SeriesOf(line)
	if len(known) == 0 {
		return fmt.Errorf("%w: %s", ErrLineNotFound, line)
	}
	valid := make(map[string]struct{}, len(known))
	for _, k := range known {
		valid[k] = struct{}{}
	}
	chosen := make([]string, 0, len(series))
	for _, sr := range series {
		if _, ok := valid[sr]; !ok {
			return fmt.Errorf("%w: %s / %s", ErrSeriesNotInLine, line, sr)
		}
		chosen = append(chosen, sr)
	}

	if _, ok := s.series[line]; !ok {
		s.lines = append(s.lines, line)
	}
	s.series[line] = chosen
	s.logger.WithFields(logrus.Fields{"line": line, "series": chosen}).Debug("Selection updated")
	return nil
}

// SelectAllSeries selects line with every series it has.
func (s *Session) SelectAllSeries(line string) error {
	return s.SelectSeries(line, s.catalog.SeriesOf(line)...)
}

// ManagedItems returns the catalog items of the selected line/series pairs,
// in selection order.
func (s *Session) ManagedItems() []models.CatalogItem {
	var out []models.CatalogItem
	for _, line := range s.lines {
		series := s.series[line]
		if len(series) == 0 {
			continue
		}
		out = append(out, s.catalog.Filter(line, series...)...)
	}
	return out
}

// SetTargets replaces the target set. Names absent from the catalog are left
// out and returned.
func (s *Session) SetTargets(names ...string) []string {
	var unresolved []string
	targets := models.NewTargetSet()
	for _, n := range models.NewTargetSet(names...).Names() {
		if _, ok := s.catalog.Lookup(n); !ok {
			unresolved = append(unresolved, n)
			continue
		}
		targets[n] = struct{}{}
	}
	s.targets = targets
	if len(unresolved) > 0 {
		s.logger.WithField("unresolved", unresolved).Warn("Some targets are not in the catalog")
	}
	return unresolved
}

// Targets returns the target names, sorted.
func (s *Session) Targets() []string {
	return s.targets.Names()
}

// TargetOverview reports ownership for every catalog entry of every target.
func (s *Session) TargetOverview() []TargetStatus {
	var out []TargetStatus
	for _, name := range s.targets.Names() {
		rec, hasRecord := s.reconciler.Get(name)
		for _, it := range s.catalog.LookupAll(name) {
			st := TargetStatus{Item: it}
			if hasRecord && rec.IsOwned() {
				st.Owned = true
				st.Quantity = rec.Quantity
				st.PricePaid = rec.UnitPricePaid
			}
			out = append(out, st)
		}
	}
	return out
}

// UnownedTargets returns the catalog entries of targets with no record or a
// zero quantity.
func (s *Session) UnownedTargets() []models.CatalogItem {
	var out []models.CatalogItem
	for _, name := range s.targets.Names() {
		if s.reconciler.IsOwned(name) {
			continue
		}
		out = append(out, s.catalog.LookupAll(name)...)
	}
	return out
}

// TargetSeries returns the sorted series that still hold an unowned target.
func (s *Session) TargetSeries() []string {
	seen := make(map[string]struct{})
	for _, it := range s.UnownedTargets() {
		seen[it.Series] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for sr := range seen {
		out = append(out, sr)
	}
	sort.Strings(out)
	return out
}

// Analyze estimates the chance of drawing an unowned target from series
// within draws boxes, plus the curve up to bound.
func (s *Session) Analyze(series string, draws, bound int) (*Analysis, error) {
	if s.catalog.IsEmpty() {
		return nil, estimator.ErrEmptyCatalog
	}
	if !s.catalog.HasSeries(series) {
		return nil, fmt.Errorf("%w: %s", estimator.ErrSeriesNotFound, series)
	}

	var wanted []string
	anyTarget := false
	for _, it := range s.catalog.InSeries(series) {
		if !s.targets.Contains(it.Name) {
			continue
		}
		anyTarget = true
		if !s.reconciler.IsOwned(it.Name) {
			wanted = append(wanted, it.Name)
		}
	}
	if len(wanted) == 0 {
		if anyTarget {
			return nil, fmt.Errorf("%w: %s", ErrAllTargetsOwned, series)
		}
		return nil, fmt.Errorf("%w in series %s", estimator.ErrNoTargets, series)
	}

	est, curve, err := s.estimator.EstimateWithCurve(series, wanted, draws, bound)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"series":       series,
		"draws":        draws,
		"targets":      len(wanted),
		"at_least_one": est.AtLeastOne,
	}).Debug("Estimate computed")
	return &Analysis{Estimate: est, Curve: curve}, nil
}

// MarkOwned toggles a catalog figure on.
func (s *Session) MarkOwned(name string, quantity int) (models.OwnershipRecord, error) {
	it, ok := s.catalog.Lookup(name)
	if !ok {
		return models.OwnershipRecord{}, fmt.Errorf("%s: %w", name, models.ErrItemNotFound)
	}
	return s.reconciler.MarkOwned(it, quantity)
}

// Unmark toggles a catalog figure off.
func (s *Session) Unmark(name string) (models.OwnershipRecord, error) {
	if _, ok := s.catalog.Lookup(name); !ok {
		return models.OwnershipRecord{}, fmt.Errorf("%s: %w", name, models.ErrItemNotFound)
	}
	return s.reconciler.Unmark(name)
}

// SeedOwned marks every catalog figure carrying a feed quantity as owned.
// Figures already in the collection are left as they are.
func (s *Session) SeedOwned() (int, error) {
	seeded := 0
	for _, it := range s.catalog.Items() {
		if it.SeedQuantity <= 0 {
			continue
		}
		if _, exists := s.reconciler.Get(it.Name); exists {
			continue
		}
		if _, err := s.reconciler.MarkOwned(it, it.SeedQuantity); err != nil {
			return seeded, err
		}
		seeded++
	}
	if seeded > 0 {
		s.logger.WithField("figures", seeded).Info("Seeded ownership from catalog quantities")
	}
	return seeded, nil
}
