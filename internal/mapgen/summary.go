package mapgen

import (
	"sort"

	"golang.org/x/exp/maps"

	"github.com/talgya/torus-map/internal/world"
)

// Summary is the reportable outline of a result: no graph, just counts.
type Summary struct {
	Seed         int64          `json:"seed"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	Players      int            `json:"players"`
	Nodes        int            `json:"nodes"`
	Connections  int            `json:"connections"`
	CaveAttempts int            `json:"cave_attempts"`
	Warnings     []string       `json:"warnings"`
	Terrain      map[string]int `json:"terrain"` // Provinces carrying each flag
	Borders      map[string]int `json:"borders"` // Connections of each type
	Caves        map[string]int `json:"caves"`
}

// Feature is one named count of a summary.
type Feature struct {
	Kind  string `db:"kind" json:"kind"`
	Name  string `db:"name" json:"name"`
	Count int    `db:"count" json:"count"`
}

// Summary counts terrain flags, border types and underworld cells.
func (r *Result) Summary() Summary {
	m := r.Map
	s := Summary{
		Seed:         r.Seed,
		Width:        m.Width,
		Height:       m.Height,
		Players:      len(r.Capitals),
		Nodes:        m.NodeCount(),
		Connections:  m.ConnectionCount(),
		CaveAttempts: r.CaveAttempts,
		Terrain:      make(map[string]int),
		Borders:      make(map[string]int),
		Caves:        make(map[string]int),
	}
	for _, w := range r.Warnings {
		s.Warnings = append(s.Warnings, w.String())
	}

	for _, n := range m.Nodes {
		t := n.Terrain()
		if t.IsPlains() {
			s.Terrain["plains"]++
		}
		for _, f := range world.TerrainFlags() {
			if t.HasAny(f) {
				s.Terrain[world.TerrainName(f)]++
			}
		}

		pd := n.ProvinceData
		switch {
		case pd.IsCaveEntrance:
			s.Caves["entrance"]++
		case pd.IsCaveWall:
			s.Caves["wall"]++
		default:
			s.Caves["open"]++
		}
	}
	for _, c := range m.Connections {
		s.Borders[c.Type.String()]++
	}
	return s
}

// Features flattens the counts, sorted by kind then name.
func (s Summary) Features() []Feature {
	var out []Feature
	for _, group := range []struct {
		kind   string
		counts map[string]int
	}{
		{"border", s.Borders},
		{"cave", s.Caves},
		{"terrain", s.Terrain},
	} {
		names := maps.Keys(group.counts)
		sort.Strings(names)
		for _, name := range names {
			out = append(out, Feature{Kind: group.kind, Name: name, Count: group.counts[name]})
		}
	}
	return out
}
