package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidNation is returned by LoadNations for a template it cannot use.
var ErrInvalidNation = errors.New("world: invalid nation")

// NationData is the terrain template a nation brings to its start.
type NationData struct {
	Name       string     `json:"name"`
	CapTerrain TerrainSet `json:"cap_terrain"`
	// CapRingTerrain is applied to ring provinces in order; its length is
	// the ring size.
	CapRingTerrain     []TerrainSet `json:"cap_ring_terrain"`
	WaterPercentage    float64      `json:"water_percentage"` // Share of the player's provinces that should be sea
	CaveEntranceInRing bool         `json:"cave_entrance_in_ring"`
	Island             bool         `json:"island"`
}

// RingSize returns the number of templated ring provinces.
func (n *NationData) RingSize() int {
	return len(n.CapRingTerrain)
}

// IsWaterNation reports whether the nation wants sea around its capital.
func (n *NationData) IsWaterNation() bool {
	return n.WaterPercentage > 0
}

// PlayerData is one seat at the table.
type PlayerData struct {
	Nation *NationData `json:"nation"`
	Team   int         `json:"team"`
}

// DefaultNations returns a small set of built-in nation templates.
func DefaultNations() []*NationData {
	return []*NationData{
		{
			Name:       "Ironvale",
			CapTerrain: Terrains(TerrainLarge, TerrainFarm),
			CapRingTerrain: []TerrainSet{
				Terrains(TerrainForest),
				Terrains(TerrainHighland),
				Terrains(TerrainFarm),
				Terrains(TerrainPlains),
				Terrains(TerrainMountains),
			},
		},
		{
			Name:       "Greymarsh",
			CapTerrain: Terrains(TerrainSwamp),
			CapRingTerrain: []TerrainSet{
				Terrains(TerrainSwamp),
				Terrains(TerrainForest),
				Terrains(TerrainSwamp, TerrainSmall),
				Terrains(TerrainPlains),
			},
			CaveEntranceInRing: true,
		},
		{
			Name:       "Ashen Reach",
			CapTerrain: Terrains(TerrainWaste, TerrainWarmer),
			CapRingTerrain: []TerrainSet{
				Terrains(TerrainWaste),
				Terrains(TerrainHighland),
				Terrains(TerrainWaste, TerrainLarge),
				Terrains(TerrainFarm),
				Terrains(TerrainPlains),
			},
		},
		{
			Name:       "Saltdeep",
			CapTerrain: Terrains(TerrainSea),
			CapRingTerrain: []TerrainSet{
				Terrains(TerrainSea),
				Terrains(TerrainSea),
				Terrains(TerrainPlains),
				Terrains(TerrainForest),
			},
			WaterPercentage: 0.5,
		},
		{
			Name:       "Tide Isles",
			CapTerrain: Terrains(TerrainPlains),
			CapRingTerrain: []TerrainSet{
				Terrains(TerrainSea),
				Terrains(TerrainFarm),
				Terrains(TerrainForest),
				Terrains(TerrainSea),
			},
			WaterPercentage: 0.25,
			Island:          true,
		},
		{
			Name:       "Thornwood",
			CapTerrain: Terrains(TerrainForest, TerrainLarge),
			CapRingTerrain: []TerrainSet{
				Terrains(TerrainForest),
				Terrains(TerrainForest, TerrainSmall),
				Terrains(TerrainFarm),
				Terrains(TerrainHighland),
				Terrains(TerrainPlains),
			},
			CaveEntranceInRing: true,
		},
	}
}

// NationByName returns the built-in nation with the given name, or nil.
func NationByName(name string) *NationData {
	for _, n := range DefaultNations() {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// LoadNations decodes a JSON array of nation templates. Terrain sets are
// integer codes.
func LoadNations(r io.Reader) ([]*NationData, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var nations []*NationData
	if err := dec.Decode(&nations); err != nil {
		return nil, fmt.Errorf("decode nations: %w", err)
	}
	if len(nations) == 0 {
		return nil, fmt.Errorf("%w: no nations", ErrInvalidNation)
	}
	seen := make(map[string]bool, len(nations))
	for i, n := range nations {
		switch {
		case n == nil || n.Name == "":
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidNation, i)
		case seen[n.Name]:
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidNation, n.Name)
		case n.RingSize() == 0:
			return nil, fmt.Errorf("%w: %s has an empty cap ring", ErrInvalidNation, n.Name)
		case n.WaterPercentage < 0 || n.WaterPercentage > 1:
			return nil, fmt.Errorf("%w: %s water percentage %g", ErrInvalidNation, n.Name, n.WaterPercentage)
		}
		seen[n.Name] = true
	}
	return nations, nil
}
