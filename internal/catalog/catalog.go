// Package catalog holds the master figure catalog and its ingestion pipeline.
package catalog

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yourusername/blindbox-companion/internal/models"
)

// Catalog is an indexed, read-only view of the master feed. An empty catalog
// is a valid state: every query returns an empty result rather than failing.
type Catalog struct {
	items    []models.CatalogItem
	bySeries map[string][]int
	byName   map[string][]int
	lines    map[string]map[string]struct{}
}

// New indexes items in the given order.
func New(items []models.CatalogItem) *Catalog {
	c := &Catalog{
		items:    make([]models.CatalogItem, len(items)),
		bySeries: make(map[string][]int),
		byName:   make(map[string][]int),
		lines:    make(map[string]map[string]struct{}),
	}
	copy(c.items, items)
	for i, it := range c.items {
		c.bySeries[it.Series] = append(c.bySeries[it.Series], i)
		c.byName[it.Name] = append(c.byName[it.Name], i)
		if c.lines[it.Line] == nil {
			c.lines[it.Line] = make(map[string]struct{})
		}
		c.lines[it.Line][it.Series] = struct{}{}
	}
	return c
}

// Empty returns a catalog with no items.
func Empty() *Catalog {
	return New(nil)
}

// IsEmpty reports whether the catalog holds no items.
func (c *Catalog) IsEmpty() bool {
	return c == nil || len(c.items) == 0
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Items returns a copy of all items in feed order.
func (c *Catalog) Items() []models.CatalogItem {
	if c == nil {
		return nil
	}
	out := make([]models.CatalogItem, len(c.items))
	copy(out, c.items)
	return out
}

// Lookup returns the first catalog entry for a figure name.
func (c *Catalog) Lookup(name string) (models.CatalogItem, bool) {
	if c == nil {
		return models.CatalogItem{}, false
	}
	idx, ok := c.byName[name]
	if !ok {
		return models.CatalogItem{}, false
	}
	return c.items[idx[0]], true
}

// LookupAll returns every entry for a figure name (one per series it appears in).
func (c *Catalog) LookupAll(name string) []models.CatalogItem {
	if c == nil {
		return nil
	}
	return c.collect(c.byName[name])
}

// HasSeries reports whether the series exists.
func (c *Catalog) HasSeries(series string) bool {
	if c == nil {
		return false
	}
	_, ok := c.bySeries[series]
	return ok
}

// InSeries returns the items of a series in feed order.
func (c *Catalog) InSeries(series string) []models.CatalogItem {
	if c == nil {
		return nil
	}
	return c.collect(c.bySeries[series])
}

// SeriesPrice returns the box price shared by the items of a series.
func (c *Catalog) SeriesPrice(series string) (decimal.Decimal, bool) {
	if c == nil {
		return decimal.Zero, false
	}
	idx, ok := c.bySeries[series]
	if !ok {
		return decimal.Zero, false
	}
	return c.items[idx[0]].UnitPrice, true
}

// Lines returns the distinct lines, sorted.
func (c *Catalog) Lines() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.lines))
	for l := range c.lines {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// SeriesOf returns the distinct series of a line, sorted.
func (c *Catalog) SeriesOf(line string) []string {
	if c == nil {
		return nil
	}
	set := c.lines[line]
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Filter returns the items of line restricted to series. An empty series list
// matches every series of the line; an empty line matches every item.
func (c *Catalog) Filter(line string, series ...string) []models.CatalogItem {
	if c == nil {
		return nil
	}
	want := make(map[string]struct{}, len(series))
	for _, s := range series {
		want[s] = struct{}{}
	}
	var out []models.CatalogItem
	for _, it := range c.items {
		if line != "" && it.Line != line {
			continue
		}
		if len(want) > 0 {
			if _, ok := want[it.Series]; !ok {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

func (c *Catalog) collect(idx []int) []models.CatalogItem {
	out := make([]models.CatalogItem, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.items[i])
	}
	return out
}
