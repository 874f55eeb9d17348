package world

import (
	"strconv"
	"strings"
)

// Terrain is a single province terrain flag. Values match the integer
// codes a map file uses for province terrain masks.
type Terrain uint64

const (
	TerrainPlains     Terrain = 0 // Absence of every size/biome flag
	TerrainSmall      Terrain = 1
	TerrainLarge      Terrain = 2
	TerrainSea        Terrain = 4
	TerrainFreshwater Terrain = 8
	TerrainHighland   Terrain = 16
	TerrainSwamp      Terrain = 32
	TerrainWaste      Terrain = 64
	TerrainForest     Terrain = 128
	TerrainFarm       Terrain = 256
	TerrainNoStart    Terrain = 512
	TerrainManySites  Terrain = 1024
	TerrainDeepSea    Terrain = 2048
	TerrainCave       Terrain = 4096
	TerrainMountains  Terrain = 1 << 22
	TerrainThrone     Terrain = 1 << 24
	TerrainStart      Terrain = 1 << 25
	TerrainNoThrone   Terrain = 1 << 26
	TerrainWarmer     Terrain = 1 << 27
	TerrainColder     Terrain = 1 << 28
)

// plainsMask covers the flags whose absence makes a province plains.
const plainsMask = TerrainSmall | TerrainLarge | TerrainSea | TerrainFreshwater |
	TerrainHighland | TerrainSwamp | TerrainWaste | TerrainForest | TerrainFarm |
	TerrainDeepSea | TerrainCave | TerrainMountains

var terrainNames = []struct {
	flag Terrain
	name string
}{
	{TerrainSmall, "small"},
	{TerrainLarge, "large"},
	{TerrainSea, "sea"},
	{TerrainFreshwater, "freshwater"},
	{TerrainHighland, "highland"},
	{TerrainSwamp, "swamp"},
	{TerrainWaste, "waste"},
	{TerrainForest, "forest"},
	{TerrainFarm, "farm"},
	{TerrainNoStart, "nostart"},
	{TerrainManySites, "manysites"},
	{TerrainDeepSea, "deepsea"},
	{TerrainCave, "cave"},
	{TerrainMountains, "mountains"},
	{TerrainThrone, "throne"},
	{TerrainStart, "start"},
	{TerrainNoThrone, "nothrone"},
	{TerrainWarmer, "warmer"},
	{TerrainColder, "colder"},
}

// TerrainFlags lists every non-plains flag in code order.
func TerrainFlags() []Terrain {
	flags := make([]Terrain, len(terrainNames))
	for i, tn := range terrainNames {
		flags[i] = tn.flag
	}
	return flags
}

// TerrainName returns a human-readable name for a single flag.
func TerrainName(t Terrain) string {
	if t == TerrainPlains {
		return "plains"
	}
	for _, tn := range terrainNames {
		if tn.flag == t {
			return tn.name
		}
	}
	return "unknown"
}

// TerrainSet is the combined terrain of one province.
//
// Plains is not a bit: it is the absence of size and biome flags. Has
// reports true for TerrainPlains on every set, which is what map consumers
// have always relied on; use IsPlains to ask whether a province really is
// plain.
type TerrainSet struct {
	flags Terrain
}

// Terrains builds a set from the given flags.
func Terrains(flags ...Terrain) TerrainSet {
	var s TerrainSet
	for _, f := range flags {
		s.flags |= f
	}
	return s
}

// Has reports whether every bit of t is set. TerrainPlains always matches.
func (s TerrainSet) Has(t Terrain) bool {
	return s.flags&t == t
}

// HasAny reports whether at least one bit of t is set.
func (s TerrainSet) HasAny(t Terrain) bool {
	return s.flags&t != 0
}

// IsPlains reports whether no size or biome flag is set.
func (s TerrainSet) IsPlains() bool {
	return s.flags&plainsMask == 0
}

// IsWater reports whether the province is sea or deep sea.
func (s TerrainSet) IsWater() bool {
	return s.flags&(TerrainSea|TerrainDeepSea) != 0
}

// With returns a copy of s with t added.
func (s TerrainSet) With(t Terrain) TerrainSet {
	s.flags |= t
	return s
}

// Without returns a copy of s with t removed.
func (s TerrainSet) Without(t Terrain) TerrainSet {
	s.flags &^= t
	return s
}

// Add sets t in place.
func (s *TerrainSet) Add(t Terrain) {
	s.flags |= t
}

// Remove clears t in place.
func (s *TerrainSet) Remove(t Terrain) {
	s.flags &^= t
}

// Code returns the integer terrain mask.
func (s TerrainSet) Code() uint64 {
	return uint64(s.flags)
}

// Flags returns the raw flag bits.
func (s TerrainSet) Flags() Terrain {
	return s.flags
}

// MarshalJSON encodes the set as its integer code.
func (s TerrainSet) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(s.flags), 10), nil
}

// UnmarshalJSON decodes an integer code.
func (s *TerrainSet) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return err
	}
	s.flags = Terrain(v)
	return nil
}

func (s TerrainSet) String() string {
	if s.flags == 0 {
		return "plains"
	}
	var parts []string
	if s.IsPlains() {
		parts = append(parts, "plains")
	}
	for _, tn := range terrainNames {
		if s.flags&tn.flag != 0 {
			parts = append(parts, tn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ConnectionType classifies a border between two provinces. Values match
// the neighbour codes of the map file.
type ConnectionType uint8

const (
	ConnStandard     ConnectionType = 0
	ConnMountainPass ConnectionType = 1
	ConnRiver        ConnectionType = 2
	ConnMountain     ConnectionType = 4 // Impassable cliff
	ConnRoad         ConnectionType = 8
	ConnShallowRiver ConnectionType = 16
)

// ConnectionTypes lists every border type.
func ConnectionTypes() []ConnectionType {
	return []ConnectionType{ConnStandard, ConnMountainPass, ConnRiver, ConnMountain, ConnRoad, ConnShallowRiver}
}

func (c ConnectionType) String() string {
	switch c {
	case ConnStandard:
		return "standard"
	case ConnMountainPass:
		return "mountain-pass"
	case ConnRiver:
		return "river"
	case ConnMountain:
		return "mountain"
	case ConnRoad:
		return "road"
	case ConnShallowRiver:
		return "shallow-river"
	default:
		return "unknown"
	}
}

// IsRiver reports whether the border is a river of either depth.
func (c ConnectionType) IsRiver() bool {
	return c == ConnRiver || c == ConnShallowRiver
}

// IsCliff reports whether the border is a mountain ridge or its pass.
func (c ConnectionType) IsCliff() bool {
	return c == ConnMountain || c == ConnMountainPass
}
