package mapgen

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"

	"github.com/talgya/torus-map/internal/climate"
)

// Range is a min/max frequency, expressed as a fraction of the eligible
// provinces or borders.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Roll draws a value in [Min, Max).
func (r Range) Roll(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

func (r Range) valid() bool {
	return r.Min >= 0 && r.Max >= r.Min && r.Max <= 1
}

// Settings holds the frequency ranges the allocators draw from. A
// generation rolls each range once; Settings are never modified.
type Settings struct {
	// Province terrain.
	Swamp    Range `json:"swamp"`
	Waste    Range `json:"waste"`
	Highland Range `json:"highland"`
	Mountain Range `json:"mountain"`
	Forest   Range `json:"forest"`
	Cave     Range `json:"cave"`
	Farm     Range `json:"farm"`
	Large    Range `json:"large"`
	Small    Range `json:"small"`
	Lake     Range `json:"lake"`

	// Border features.
	River        Range `json:"river"`
	ShallowRiver Range `json:"shallow_river"`
	Cliff        Range `json:"cliff"`
	CliffPass    Range `json:"cliff_pass"`
	Road         Range `json:"road"`

	// Underworld.
	UnderworldCave            Range `json:"underworld_cave"`
	UnderworldForest          Range `json:"underworld_forest"`
	UnderworldSwamp           Range `json:"underworld_swamp"`
	UnderworldHighland        Range `json:"underworld_highland"`
	NumCaveEntrancesPerPlayer int   `json:"num_cave_entrances_per_player"`

	// Nations above this water percentage cluster around a shared sea when
	// ClusterWater is set.
	WaterClusterThreshold float64 `json:"water_cluster_threshold"`

	Climate climate.Config `json:"climate"`
}

// DefaultSettings returns balanced frequencies for a typical map.
func DefaultSettings() Settings {
	return Settings{
		Swamp:    Range{0.05, 0.09},
		Waste:    Range{0.05, 0.09},
		Highland: Range{0.06, 0.10},
		Mountain: Range{0.04, 0.07},
		Forest:   Range{0.12, 0.20},
		Cave:     Range{0.02, 0.05},
		Farm:     Range{0.10, 0.18},
		Large:    Range{0.10, 0.20},
		Small:    Range{0.10, 0.20},
		Lake:     Range{0.02, 0.05},

		River:        Range{0.06, 0.10},
		ShallowRiver: Range{0.03, 0.06},
		Cliff:        Range{0.04, 0.07},
		CliffPass:    Range{0.02, 0.04},
		Road:         Range{0.03, 0.06},

		UnderworldCave:            Range{0.55, 0.65},
		UnderworldForest:          Range{0.15, 0.25},
		UnderworldSwamp:           Range{0.05, 0.10},
		UnderworldHighland:        Range{0.10, 0.15},
		NumCaveEntrancesPerPlayer: 2,

		WaterClusterThreshold: 0.3,

		Climate: climate.DefaultConfig(),
	}
}

// SmallTestSettings returns fixed (min == max) frequencies so small test
// maps get predictable quotas.
func SmallTestSettings() Settings {
	s := DefaultSettings()
	fix := func(v float64) Range { return Range{v, v} }
	s.Swamp = fix(0.08)
	s.Waste = fix(0.08)
	s.Highland = fix(0.08)
	s.Mountain = fix(0.06)
	s.Forest = fix(0.15)
	s.Cave = fix(0.04)
	s.Farm = fix(0.12)
	s.Large = fix(0.15)
	s.Small = fix(0.15)
	s.Lake = fix(0.04)
	s.River = fix(0.10)
	s.ShallowRiver = fix(0.05)
	s.Cliff = fix(0.06)
	s.CliffPass = fix(0.03)
	s.Road = fix(0.05)
	s.UnderworldCave = fix(0.6)
	return s
}

// LoadSettings decodes JSON from r over DefaultSettings, so a file only
// needs the fields it changes.
func LoadSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that every range lies within [0, 1] with Min <= Max.
func (s Settings) Validate() error {
	for _, nr := range s.ranges() {
		if !nr.r.valid() {
			return fmt.Errorf("%w: %s range [%g, %g]", ErrBadSettings, nr.name, nr.r.Min, nr.r.Max)
		}
	}
	if s.NumCaveEntrancesPerPlayer < 0 {
		return fmt.Errorf("%w: negative cave entrance count", ErrBadSettings)
	}
	return nil
}

type namedRange struct {
	name string
	r    Range
}

// ranges lists every range in roll order.
func (s Settings) ranges() []namedRange {
	return []namedRange{
		{"swamp", s.Swamp},
		{"waste", s.Waste},
		{"highland", s.Highland},
		{"mountain", s.Mountain},
		{"forest", s.Forest},
		{"cave", s.Cave},
		{"farm", s.Farm},
		{"large", s.Large},
		{"small", s.Small},
		{"lake", s.Lake},
		{"river", s.River},
		{"shallow_river", s.ShallowRiver},
		{"cliff", s.Cliff},
		{"cliff_pass", s.CliffPass},
		{"road", s.Road},
		{"underworld_cave", s.UnderworldCave},
		{"underworld_forest", s.UnderworldForest},
		{"underworld_swamp", s.UnderworldSwamp},
		{"underworld_highland", s.UnderworldHighland},
	}
}

// Frequencies are the values rolled from Settings for one generation.
type Frequencies struct {
	Swamp, Waste, Highland, Mountain, Forest, Cave, Farm, Large, Small, Lake float64

	River, ShallowRiver, Cliff, CliffPass, Road float64

	UnderworldCave, UnderworldForest, UnderworldSwamp, UnderworldHighland float64
}

// Roll draws every range once, always in the same order.
func (s Settings) Roll(rng *rand.Rand) Frequencies {
	v := make([]float64, 0, 19)
	for _, nr := range s.ranges() {
		v = append(v, nr.r.Roll(rng))
	}
	return Frequencies{
		Swamp: v[0], Waste: v[1], Highland: v[2], Mountain: v[3], Forest: v[4],
		Cave: v[5], Farm: v[6], Large: v[7], Small: v[8], Lake: v[9],
		River: v[10], ShallowRiver: v[11], Cliff: v[12], CliffPass: v[13], Road: v[14],
		UnderworldCave: v[15], UnderworldForest: v[16], UnderworldSwamp: v[17], UnderworldHighland: v[18],
	}
}
