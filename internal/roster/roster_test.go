package roster

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/blindbox-companion/internal/datasource"
)

const rosterCSV = `Name,Position,OVR,PAC,SHO,PAS,DRI,DEF,PHY,Team,Nation,GK Diving,GK Handling,GK Kicking,GK Positioning,GK Reflexes,url
Aitana Bonmatí,CM,91,81,86,90,92,70,73,FC Barcelona,Spain,,,,,,https://example.com/aitana
Mary Earps,GK,87,,,,,,,Paris SG,England,86,85,82,86,89,
Sam Kerr,ST,89,88,90,76,86,42,84,Chelsea,Australia,,,,,,
Unknown,XX,??,,,,,,,Nowhere,Atlantis,,,,,,
Lucy Bronze,RB,87,80,70,78,78,86,85,Chelsea,England,,,,,,
`

func testRoster(t *testing.T) *Roster {
	t.Helper()
	table, err := datasource.ParseCSV(strings.NewReader(rosterCSV))
	require.NoError(t, err)
	r, err := FromTable(table, nil)
	require.NoError(t, err)
	return r
}

func TestFromTableDropsNonNumericOVR(t *testing.T) {
	r := testRoster(t)
	assert.Equal(t, 4, r.Len())

	_, ok := r.Find("Unknown")
	assert.False(t, ok)

	earps, ok := r.Find("Mary Earps")
	require.True(t, ok)
	assert.True(t, earps.IsGoalkeeper())
	assert.Equal(t, "Goalkeeper", earps.FullPosition())
	assert.Equal(t, 89, earps.GK.Reflexes)
	assert.Zero(t, earps.Pace)

	aitana, ok := r.Find("Aitana Bonmatí")
	require.True(t, ok)
	assert.Equal(t, 92, aitana.Dribbling)
	assert.Equal(t, "https://example.com/aitana", aitana.URL)
}

func TestFromTableMissingColumns(t *testing.T) {
	table, err := datasource.ParseCSV(strings.NewReader("Name,OVR\nSam,90\n"))
	require.NoError(t, err)
	_, err = FromTable(table, nil)
	assert.ErrorIs(t, err, datasource.ErrMissingColumns)
}

func TestPositionName(t *testing.T) {
	assert.Equal(t, "Central Attacking Midfielder", PositionName("CAM"))
	assert.Equal(t, "Center Forward", PositionName("CF"))
	assert.Equal(t, "LWB", PositionName("LWB"))
}

func TestFilter(t *testing.T) {
	r := testRoster(t)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "all", filter: Filter{}, want: []string{"Aitana Bonmatí", "Mary Earps", "Sam Kerr", "Lucy Bronze"}},
		{name: "team", filter: Filter{Team: "Chelsea"}, want: []string{"Sam Kerr", "Lucy Bronze"}},
		{name: "nation", filter: Filter{Nation: "England"}, want: []string{"Mary Earps", "Lucy Bronze"}},
		{name: "position", filter: Filter{Position: "GK"}, want: []string{"Mary Earps"}},
		{name: "ovr range", filter: Filter{MinOVR: 88, MaxOVR: 90}, want: []string{"Sam Kerr"}},
		{name: "combined", filter: Filter{Team: "Chelsea", Nation: "England", MinOVR: 80}, want: []string{"Lucy Bronze"}},
		{name: "none", filter: Filter{Team: "Arsenal"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, p := range r.Filter(tt.filter) {
				got = append(got, p.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDistinctValuesAndRange(t *testing.T) {
	r := testRoster(t)

	assert.Equal(t, []string{"Chelsea", "FC Barcelona", "Paris SG"}, r.Teams())
	assert.Equal(t, []string{"Australia", "England", "Spain"}, r.Nations())
	assert.Equal(t, []string{"CM", "GK", "RB", "ST"}, r.Positions())

	lo, hi, ok := r.OVRRange()
	require.True(t, ok)
	assert.Equal(t, 87, lo)
	assert.Equal(t, 91, hi)

	_, _, ok = New(nil).OVRRange()
	assert.False(t, ok)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.csv")
	require.NoError(t, os.WriteFile(path, []byte(rosterCSV), 0o600))

	r, err := Load(context.Background(), datasource.NewFileCSVSource(path), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, r.Len())

	_, err = Load(context.Background(), datasource.NewFileCSVSource(path+".missing"), nil)
	assert.Error(t, err)
}
