// Package roster loads and filters the player roster feed.
package roster

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/blindbox-companion/internal/datasource"
	"github.com/yourusername/blindbox-companion/internal/logger"
	"github.com/yourusername/blindbox-companion/internal/metrics"
)

const feedName = "roster"

// RequiredColumns must be present in the roster header.
var RequiredColumns = []string{"Name", "Position", "OVR", "Team", "Nation"}

var positionNames = map[string]string{
	"GK":  "Goalkeeper",
	"CB":  "Center Back",
	"LB":  "Left Back",
	"RB":  "Right Back",
	"CDM": "Central Defensive Midfielder",
	"CM":  "Central Midfielder",
	"CAM": "Central Attacking Midfielder",
	"LM":  "Left Midfielder",
	"RM":  "Right Midfielder",
	"LW":  "Left Winger",
	"RW":  "Right Winger",
	"ST":  "Striker",
	"CF":  "Center Forward",
}

// PositionName expands a position code. Unknown codes are returned unchanged.
func PositionName(code string) string {
	if name, ok := positionNames[code]; ok {
		return name
	}
	return code
}

// GoalkeeperStats are only meaningful for goalkeepers.
type GoalkeeperStats struct {
	Diving      int
	Handling    int
	Kicking     int
	Positioning int
	Reflexes    int
}

// Player is one roster row.
type Player struct {
	Name      string
	Position  string
	OVR       int
	Pace      int
	Shooting  int
	Passing   int
	Dribbling int
	Defending int
	Physical  int
	Team      string
	Nation    string
	GK        GoalkeeperStats
	URL       string
}

// FullPosition returns the expanded position name.
func (p Player) FullPosition() string {
	return PositionName(p.Position)
}

// IsGoalkeeper reports whether the player plays in goal.
func (p Player) IsGoalkeeper() bool {
	return p.Position == "GK"
}

// Filter narrows the roster. Empty strings match everything; a zero MaxOVR
// means no upper bound.
type Filter struct {
	Team     string
	Nation   string
	Position string
	MinOVR   int
	MaxOVR   int
}

// Roster is the loaded player table.
type Roster struct {
	players []Player
}

// New wraps players in a roster.
func New(players []Player) *Roster {
	out := make([]Player, len(players))
	copy(out, players)
	return &Roster{players: out}
}

// FromTable builds a roster, dropping rows whose OVR is not a number.
func FromTable(table *datasource.Table, log *logrus.Logger) (*Roster, error) {
	if log == nil {
		log = logger.Discard()
	}
	if missing := table.Missing(RequiredColumns...); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", datasource.ErrMissingColumns, strings.Join(missing, ", "))
	}
	dq := logger.NewDataQualityLogger(log)

	players := make([]Player, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		ovr, err := strconv.Atoi(table.Get(i, "OVR"))
		if err != nil {
			dq.LogRowRejected(feedName, i+1, table.Get(i, "Name"), "non-numeric OVR")
			metrics.RecordRowRejected(feedName, "invalid_ovr")
			continue
		}
		players = append(players, Player{
			Name:      table.Get(i, "Name"),
			Position:  table.Get(i, "Position"),
			OVR:       ovr,
			Pace:      stat(table, i, "PAC"),
			Shooting:  stat(table, i, "SHO"),
			Passing:   stat(table, i, "PAS"),
			Dribbling: stat(table, i, "DRI"),
			Defending: stat(table, i, "DEF"),
			Physical:  stat(table, i, "PHY"),
			Team:      table.Get(i, "Team"),
			Nation:    table.Get(i, "Nation"),
			GK: GoalkeeperStats{
				Diving:      stat(table, i, "GK Diving"),
				Handling:    stat(table, i, "GK Handling"),
				Kicking:     stat(table, i, "GK Kicking"),
				Positioning: stat(table, i, "GK Positioning"),
				Reflexes:    stat(table, i, "GK Reflexes"),
			},
			URL: table.Get(i, "url"),
		})
	}
	return &Roster{players: players}, nil
}

// Load fetches and parses the roster feed.
func Load(ctx context.Context, src datasource.CatalogSource, log *logrus.Logger) (*Roster, error) {
	table, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster from %s: %w", src.Location(), err)
	}
	return FromTable(table, log)
}

// Players returns every player in feed order.
func (r *Roster) Players() []Player {
	out := make([]Player, len(r.players))
	copy(out, r.players)
	return out
}

// Len returns the number of players.
func (r *Roster) Len() int {
	return len(r.players)
}

// Filter returns the players matching f, in feed order.
func (r *Roster) Filter(f Filter) []Player {
	var out []Player
	for _, p := range r.players {
		if f.Team != "" && p.Team != f.Team {
			continue
		}
		if f.Nation != "" && p.Nation != f.Nation {
			continue
		}
		if f.Position != "" && p.Position != f.Position {
			continue
		}
		if p.OVR < f.MinOVR {
			continue
		}
		if f.MaxOVR > 0 && p.OVR > f.MaxOVR {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Find returns the first player with name.
func (r *Roster) Find(name string) (Player, bool) {
	for _, p := range r.players {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}

// OVRRange returns the lowest and highest overall rating.
func (r *Roster) OVRRange() (lo, hi int, ok bool) {
	if len(r.players) == 0 {
		return 0, 0, false
	}
	lo, hi = r.players[0].OVR, r.players[0].OVR
	for _, p := range r.players[1:] {
		if p.OVR < lo {
			lo = p.OVR
		}
		if p.OVR > hi {
			hi = p.OVR
		}
	}
	return lo, hi, true
}

// Teams returns the distinct teams, sorted.
func (r *Roster) Teams() []string {
	return r.distinct(func(p Player) string { return p.Team })
}

// Nations returns the distinct nations, sorted.
func (r *Roster) Nations() []string {
	return r.distinct(func(p Player) string { return p.Nation })
}

// Positions returns the distinct position codes, sorted.
func (r *Roster) Positions() []string {
	return r.distinct(func(p Player) string { return p.Position })
}

func (r *Roster) distinct(field func(Player) string) []string {
	seen := make(map[string]struct{})
	for _, p := range r.players {
		if v := field(p); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// stat reads an optional numeric attribute; blanks and junk read as zero.
func stat(table *datasource.Table, i int, column string) int {
	v, err := strconv.Atoi(table.Get(i, column))
	if err != nil {
		return 0
	}
	return v
}
