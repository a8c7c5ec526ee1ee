package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/blindbox-companion/internal/collection"
	"github.com/yourusername/blindbox-companion/internal/estimator"
	"github.com/yourusername/blindbox-companion/internal/models"
	"github.com/yourusername/blindbox-companion/internal/roster"
	"github.com/yourusername/blindbox-companion/internal/session"
)

// Money formats an amount as dollars with two decimals.
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Percent formats a probability as a percentage with two decimals.
func Percent(p float64) string {
	return strconv.FormatFloat(p*100, 'f', 2, 64) + "%"
}

// Catalog lists catalog items with the owned quantity reported by owned.
func Catalog(styles Styles, title string, items []models.CatalogItem, owned func(name string) int) string {
	t := NewTable(title, "Line", "Series", "Figure", "Price", "Probability", "Owned")
	for _, it := range items {
		qty := ""
		if owned != nil {
			if n := owned(it.Name); n > 0 {
				qty = strconv.Itoa(n)
			}
		}
		t.AddRow(it.Line, it.Series, it.Name, Money(it.UnitPrice), Percent(it.DrawProbability), qty)
	}
	return t.Render(styles, "No figures to show.")
}

// Collection lists ownership records.
func Collection(styles Styles, records []models.OwnershipRecord) string {
	t := NewTable("My Collection", "Figure", "Line", "Series", "Qty", "Paid", "Acquired", "Source")
	for _, rec := range records {
		paid := ""
		if rec.UnitPricePaid != nil {
			paid = Money(*rec.UnitPricePaid)
		}
		acquired := ""
		if rec.AcquiredAt != nil {
			acquired = rec.AcquiredAt.Format("2006-01-02")
		}
		t.AddRow(rec.ItemName, rec.Line, rec.Series, strconv.Itoa(rec.Quantity), paid, acquired, string(rec.Source))
	}
	return t.Render(styles, "Your collection is empty.")
}

// Stats summarizes collection statistics with a price histogram.
func Stats(styles Styles, st collection.Stats) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("My Collection Stats"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Total figures:        %d\n", st.TotalFigures)
	fmt.Fprintf(&sb, "Unique figures:       %d\n", st.UniqueFigures)
	fmt.Fprintf(&sb, "Total spent:          %s\n", Money(st.TotalSpent))
	fmt.Fprintf(&sb, "Average per figure:   %s\n", Money(st.AverageCost))

	if len(st.Histogram) == 0 {
		return sb.String()
	}
	sb.WriteString("\n")
	sb.WriteString(styles.Bold.Render("Price distribution"))
	sb.WriteString("\n")

	peak := 0
	for _, b := range st.Histogram {
		if b.Count > peak {
			peak = b.Count
		}
	}
	const barWidth = 30
	for _, b := range st.Histogram {
		n := int(int64(b.Count) * barWidth / int64(peak))
		fmt.Fprintf(&sb, "%8.2f - %8.2f | %s %d\n", b.Lower, b.Upper, styles.Success.Render(strings.Repeat("#", n)), b.Count)
	}
	return sb.String()
}

// Targets renders the target overview.
func Targets(styles Styles, rows []session.TargetStatus) string {
	t := NewTable("Target Overview", "Figure", "Line", "Series", "Status", "Qty", "Paid")
	for _, r := range rows {
		status := styles.Warning.Render("not owned")
		qty, paid := "", ""
		if r.Owned {
			status = styles.Success.Render("owned")
			qty = strconv.Itoa(r.Quantity)
			if r.PricePaid != nil {
				paid = Money(*r.PricePaid)
			}
		}
		t.AddRow(r.Item.Name, r.Item.Line, r.Item.Series, status, qty, paid)
	}
	return t.Render(styles, "No target figures selected.")
}

// Estimate summarizes one estimate.
func Estimate(styles Styles, est *estimator.Estimate) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Series: %s\n", est.Series)
	fmt.Fprintf(&sb, "Targets considered: %s\n", strings.Join(est.Resolved, ", "))
	fmt.Fprintf(&sb, "Single-draw probability: %s\n", Percent(est.SingleDrawProbability))
	fmt.Fprintf(&sb, "At least one in %d boxes: %s\n", est.Draws, styles.Bold.Render(Percent(est.AtLeastOne)))
	fmt.Fprintf(&sb, "Box price: %s\n", Money(est.UnitPrice))
	fmt.Fprintf(&sb, "Cost of %d boxes: %s\n", est.Draws, Money(est.Cost))
	if est.Clamped {
		sb.WriteString(styles.Warning.Render("Target probabilities sum above 100%; check the catalog data."))
		sb.WriteString("\n")
	}
	if len(est.Excluded) > 0 {
		sb.WriteString(styles.Muted.Render("Not in this series: " + strings.Join(est.Excluded, ", ")))
		sb.WriteString("\n")
	}
	if len(est.Unresolved) > 0 {
		sb.WriteString(styles.Muted.Render("Not in catalog: " + strings.Join(est.Unresolved, ", ")))
		sb.WriteString("\n")
	}
	return styles.Box.Render(strings.TrimRight(sb.String(), "\n")) + "\n"
}

// Curve draws P(at least one) against the number of draws as an ASCII chart
// with height rows.
func Curve(styles Styles, points []estimator.Point, height int) string {
	if len(points) == 0 {
		return ""
	}
	if height < 2 {
		height = 2
	}

	levels := make([]int, len(points))
	for i, p := range points {
		levels[i] = int(p.Probability*float64(height-1) + 0.5)
	}

	var sb strings.Builder
	sb.WriteString(styles.Bold.Render("P(at least one target) by number of boxes"))
	sb.WriteString("\n")
	for row := height - 1; row >= 0; row-- {
		label := "     "
		switch row {
		case height - 1:
			label = "100% "
		case 0:
			label = "  0% "
		case (height - 1) / 2:
			label = " 50% "
		}
		sb.WriteString(label)
		sb.WriteString("|")
		var line strings.Builder
		for _, lvl := range levels {
			if lvl == row {
				line.WriteString("*")
			} else {
				line.WriteString(" ")
			}
		}
		sb.WriteString(styles.Success.Render(strings.TrimRight(line.String(), " ")))
		sb.WriteString("\n")
	}
	sb.WriteString("     +")
	sb.WriteString(strings.Repeat("-", len(points)))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "      boxes 1..%d\n", points[len(points)-1].Draws)
	return sb.String()
}

// Roster lists players.
func Roster(styles Styles, players []roster.Player) string {
	t := NewTable(fmt.Sprintf("Showing %d players", len(players)),
		"Name", "Position", "OVR", "PAC", "SHO", "PAS", "DRI", "DEF", "PHY", "Team", "Nation")
	for _, p := range players {
		t.AddRow(p.Name, p.Position, strconv.Itoa(p.OVR),
			statCell(p.Pace), statCell(p.Shooting), statCell(p.Passing),
			statCell(p.Dribbling), statCell(p.Defending), statCell(p.Physical),
			p.Team, p.Nation)
	}
	return t.Render(styles, "There are no players that fit your selection.")
}

// Player renders the detail card of one player.
func Player(styles Styles, p roster.Player) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(p.Name))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Position: %s\n", p.FullPosition())
	fmt.Fprintf(&sb, "Overall Rating: %d\n", p.OVR)
	if p.IsGoalkeeper() {
		fmt.Fprintf(&sb, "GK Diving: %d, GK Handling: %d, GK Kicking: %d\n", p.GK.Diving, p.GK.Handling, p.GK.Kicking)
		fmt.Fprintf(&sb, "GK Positioning: %d, GK Reflexes: %d\n", p.GK.Positioning, p.GK.Reflexes)
	}
	fmt.Fprintf(&sb, "Pace: %d, Shooting: %d, Passing: %d\n", p.Pace, p.Shooting, p.Passing)
	fmt.Fprintf(&sb, "Dribbling: %d, Defending: %d, Physicality: %d\n", p.Dribbling, p.Defending, p.Physical)
	fmt.Fprintf(&sb, "Team: %s, Nation: %s\n", p.Team, p.Nation)
	if p.URL != "" {
		sb.WriteString(styles.Muted.Render(p.URL))
		sb.WriteString("\n")
	}
	return sb.String()
}

func statCell(v int) string {
	if v == 0 {
		return "-"
	}
	return strconv.Itoa(v)
}
