package render

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/blindbox-companion/internal/collection"
	"github.com/yourusername/blindbox-companion/internal/estimator"
	"github.com/yourusername/blindbox-companion/internal/models"
	"github.com/yourusername/blindbox-companion/internal/roster"
	"github.com/yourusername/blindbox-companion/internal/session"
)

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$120.00", Money(decimal.RequireFromString("120")))
	assert.Equal(t, "$12.50", Money(decimal.RequireFromString("12.5")))
	assert.Equal(t, "80.31%", Percent(0.803125))
	assert.Equal(t, "100.00%", Percent(1))
}

func TestTableRender(t *testing.T) {
	tbl := NewTable("Figures", "Name", "Qty")
	tbl.AddRow("Birdy", "2")
	tbl.AddRow("Poppy: Acorn")

	out := tbl.Render(PlainStyles(), "nothing")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Figures", lines[0])
	assert.Contains(t, lines[1], "Name")
	assert.Contains(t, lines[1], "|")
	assert.True(t, strings.HasPrefix(lines[2], "---"))
	assert.Contains(t, lines[3], "Birdy")
	assert.Contains(t, lines[4], "Poppy: Acorn")
	assert.Equal(t, len(lines[3]), len(lines[4]), "rows are padded to the same width")
}

func TestTableRenderEmpty(t *testing.T) {
	out := NewTable("Figures", "Name").Render(PlainStyles(), "nothing here")
	assert.Contains(t, out, "nothing here")
	assert.NotContains(t, out, "Name")
}

func TestCatalogView(t *testing.T) {
	items := []models.CatalogItem{{
		Line: "Peach Riot", Series: "Rise Up", Name: "Birdy",
		UnitPrice: decimal.RequireFromString("12"), DrawProbability: 0.05,
	}}
	out := Catalog(PlainStyles(), "Browse", items, func(string) int { return 3 })
	assert.Contains(t, out, "Birdy")
	assert.Contains(t, out, "$12.00")
	assert.Contains(t, out, "5.00%")
	assert.Contains(t, out, "3")
}

func TestCollectionAndStatsViews(t *testing.T) {
	price := decimal.RequireFromString("15")
	records := []models.OwnershipRecord{
		{ItemName: "Birdy", Series: "Rise Up", Quantity: 2, UnitPricePaid: &price, Source: models.SourceManual},
	}
	out := Collection(PlainStyles(), records)
	assert.Contains(t, out, "Birdy")
	assert.Contains(t, out, "$15.00")
	assert.Contains(t, out, "manual")

	stats := Stats(PlainStyles(), collection.ComputeStats(records))
	assert.Contains(t, stats, "Total figures:        2")
	assert.Contains(t, stats, "$30.00")
	assert.Contains(t, stats, "Price distribution")

	assert.Contains(t, Collection(PlainStyles(), nil), "empty")
}

func TestTargetsView(t *testing.T) {
	price := decimal.RequireFromString("12")
	out := Targets(PlainStyles(), []session.TargetStatus{
		{Item: models.CatalogItem{Name: "A", Series: "Rise Up"}, Owned: true, Quantity: 1, PricePaid: &price},
		{Item: models.CatalogItem{Name: "B", Series: "Rise Up"}},
	})
	assert.Contains(t, out, "owned")
	assert.Contains(t, out, "not owned")
	assert.Contains(t, out, "$12.00")
}

func TestEstimateView(t *testing.T) {
	est := &estimator.Estimate{
		Series:                "Rise Up",
		Draws:                 10,
		Resolved:              []string{"A", "B"},
		Unresolved:            []string{"Ghost"},
		SingleDrawProbability: 0.15,
		AtLeastOne:            0.8031,
		UnitPrice:             decimal.RequireFromString("12"),
		Cost:                  decimal.RequireFromString("120"),
		Clamped:               true,
	}
	out := Estimate(PlainStyles(), est)
	assert.Contains(t, out, "80.31%")
	assert.Contains(t, out, "$120.00")
	assert.Contains(t, out, "A, B")
	assert.Contains(t, out, "Ghost")
	assert.Contains(t, out, "sum above 100%")
}

func TestCurveView(t *testing.T) {
	assert.Empty(t, Curve(PlainStyles(), nil, 10))

	sure := estimator.CurveFor(1, decimal.RequireFromString("12"), 5)
	out := Curve(PlainStyles(), sure, 5)
	assert.Contains(t, out, "100% |*****")
	assert.Contains(t, out, "boxes 1..5")

	never := estimator.CurveFor(0, decimal.RequireFromString("12"), 4)
	out = Curve(PlainStyles(), never, 5)
	assert.Contains(t, out, "  0% |****")
}

func TestRosterViews(t *testing.T) {
	players := []roster.Player{
		{Name: "Mary Earps", Position: "GK", OVR: 87, Team: "Paris SG", Nation: "England",
			GK: roster.GoalkeeperStats{Diving: 86, Reflexes: 89}},
	}
	out := Roster(PlainStyles(), players)
	assert.Contains(t, out, "Showing 1 players")
	assert.Contains(t, out, "Mary Earps")

	card := Player(PlainStyles(), players[0])
	assert.Contains(t, card, "Goalkeeper")
	assert.Contains(t, card, "GK Reflexes: 89")

	assert.Contains(t, Roster(PlainStyles(), nil), "no players")
}
