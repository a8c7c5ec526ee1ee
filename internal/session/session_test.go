package session

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/blindbox-companion/internal/catalog"
	"github.com/yourusername/blindbox-companion/internal/estimator"
	"github.com/yourusername/blindbox-companion/internal/models"
)

func item(line, series, name string, p float64, price string, seed int) models.CatalogItem {
	return models.CatalogItem{
		Line:            line,
		Series:          series,
		Name:            name,
		UnitPrice:       decimal.RequireFromString(price),
		DrawProbability: p,
		SeedQuantity:    seed,
	}
}

func newTestSession() *Session {
	cat := catalog.New([]models.CatalogItem{
		item("Peach Riot", "Rise Up", "A", 0.10, "12.00", 0),
		item("Peach Riot", "Rise Up", "B", 0.05, "12.00", 0),
		item("Peach Riot", "Rise Up", "C", 0.50, "12.00", 1),
		item("Peach Riot", "Punk Drive", "D", 0.20, "14.00", 0),
		item("Hirono", "Mime", "E", 0.25, "11.00", 2),
	})
	return New(cat, nil, nil)
}

func TestNewSession(t *testing.T) {
	s := newTestSession()
	assert.NotEmpty(t, s.ID)
	assert.NotEqual(t, s.ID, newTestSession().ID)
	assert.Equal(t, 5, s.Catalog().Len())
	assert.Zero(t, s.Reconciler().Len())

	empty := New(nil, nil, nil)
	assert.True(t, empty.Catalog().IsEmpty())
}

func TestSelectionAndManagedItems(t *testing.T) {
	s := newTestSession()
	assert.Empty(t, s.ManagedItems())

	require.NoError(t, s.SelectSeries("Peach Riot", "Rise Up"))
	require.NoError(t, s.SelectSeries("Hirono"))
	items := s.ManagedItems()
	require.Len(t, items, 3)
	assert.Equal(t, "A", items[0].Name)

	require.NoError(t, s.SelectAllSeries("Hirono"))
	assert.Len(t, s.ManagedItems(), 4)

	require.NoError(t, s.SelectSeries("Peach Riot", "Punk Drive"))
	items = s.ManagedItems()
	require.Len(t, items, 2)
	assert.Equal(t, "D", items[0].Name, "selection order is kept when a line is reselected")

	assert.ErrorIs(t, s.SelectSeries("Nope"), ErrLineNotFound)
	assert.ErrorIs(t, s.SelectSeries("Hirono", "Rise Up"), ErrSeriesNotInLine)
}

func TestSetTargets(t *testing.T) {
	s := newTestSession()
	unresolved := s.SetTargets("B", "A", "Ghost", "", "A")
	assert.Equal(t, []string{"Ghost"}, unresolved)
	assert.Equal(t, []string{"A", "B"}, s.Targets())

	assert.Empty(t, s.SetTargets("D"))
	assert.Equal(t, []string{"D"}, s.Targets(), "targets are replaced, not merged")
}

func TestTargetOverviewAndUnowned(t *testing.T) {
	s := newTestSession()
	s.SetTargets("A", "B", "D")

	_, err := s.MarkOwned("B", 2)
	require.NoError(t, err)

	overview := s.TargetOverview()
	require.Len(t, overview, 3)
	assert.Equal(t, "B", overview[1].Item.Name)
	assert.True(t, overview[1].Owned)
	assert.Equal(t, 2, overview[1].Quantity)
	require.NotNil(t, overview[1].PricePaid)
	assert.Equal(t, "12.00", overview[1].PricePaid.StringFixed(2))
	assert.False(t, overview[0].Owned)

	unowned := s.UnownedTargets()
	require.Len(t, unowned, 2)
	assert.Equal(t, []string{"Punk Drive", "Rise Up"}, s.TargetSeries())

	_, err = s.Unmark("B")
	require.NoError(t, err)
	assert.Len(t, s.UnownedTargets(), 3, "a zeroed record counts as unowned")
}

func TestAnalyzeUsesUnownedTargets(t *testing.T) {
	s := newTestSession()
	s.SetTargets("A", "B")

	a, err := s.Analyze("Rise Up", 10, 50)
	require.NoError(t, err)
	assert.InDelta(t, 0.8031, a.Estimate.AtLeastOne, 1e-4)
	assert.Equal(t, "120.00", a.Estimate.Cost.StringFixed(2))
	assert.Len(t, a.Curve, 50)

	_, err = s.MarkOwned("A", 1)
	require.NoError(t, err)
	a, err = s.Analyze("Rise Up", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, a.Estimate.Resolved)
	assert.InDelta(t, 0.05, a.Estimate.SingleDrawProbability, 1e-12)
	assert.Len(t, a.Curve, 5)

	_, err = s.MarkOwned("B", 1)
	require.NoError(t, err)
	_, err = s.Analyze("Rise Up", 10, 5)
	assert.ErrorIs(t, err, ErrAllTargetsOwned)
	assert.ErrorIs(t, err, models.ErrAllTargetsOwned)
}

func TestAnalyzeErrors(t *testing.T) {
	s := newTestSession()
	s.SetTargets("A")

	_, err := s.Analyze("Mime", 10, 50)
	assert.ErrorIs(t, err, estimator.ErrNoTargets)

	_, err = s.Analyze("Nope", 10, 50)
	assert.ErrorIs(t, err, estimator.ErrSeriesNotFound)
	assert.ErrorIs(t, err, models.ErrSeriesNotFound)

	_, err = s.Analyze("Rise Up", -1, 50)
	assert.ErrorIs(t, err, estimator.ErrNegativeDraws)

	_, err = New(nil, nil, nil).Analyze("Rise Up", 10, 50)
	assert.ErrorIs(t, err, estimator.ErrEmptyCatalog)
}

func TestMarkOwnedUnknownItem(t *testing.T) {
	s := newTestSession()
	_, err := s.MarkOwned("Ghost", 1)
	assert.ErrorIs(t, err, models.ErrItemNotFound)
	_, err = s.Unmark("Ghost")
	assert.ErrorIs(t, err, models.ErrItemNotFound)
}

func TestSeedOwned(t *testing.T) {
	s := newTestSession()
	_, err := s.Reconciler().Add(models.OwnershipUpdate{
		ItemName:      "E",
		Quantity:      models.IntPtr(5),
		UnitPricePaid: models.DecimalPtr(decimal.RequireFromString("9")),
	})
	require.NoError(t, err)

	seeded, err := s.SeedOwned()
	require.NoError(t, err)
	assert.Equal(t, 1, seeded)

	c, ok := s.Reconciler().Get("C")
	require.True(t, ok)
	assert.Equal(t, 1, c.Quantity)
	assert.Equal(t, models.SourceMarkedOwned, c.Source)

	e, _ := s.Reconciler().Get("E")
	assert.Equal(t, 5, e.Quantity, "existing records are not reseeded")
}
