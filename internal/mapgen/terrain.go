package mapgen

import (
	"math"

	"github.com/talgya/torus-map/internal/climate"
	"github.com/talgya/torus-map/internal/entropy"
	"github.com/talgya/torus-map/internal/world"
)

const (
	// Below this frequency a category avoids clumping.
	sparseFrequency = 0.3
	minQuotaFreq    = 0.01

	wasteClimateChance = 0.1
	caveForestChance   = 0.2
)

type biome struct {
	flag world.Terrain
	freq float64
}

func (ctx *Context) biomes() []biome {
	f := ctx.Freq
	return []biome{
		{world.TerrainSwamp, f.Swamp},
		{world.TerrainWaste, f.Waste},
		{world.TerrainHighland, f.Highland},
		{world.TerrainMountains, f.Mountain},
		{world.TerrainForest, f.Forest},
		{world.TerrainCave, f.Cave},
		{world.TerrainFarm, f.Farm},
	}
}

// allocateTerrain deals biome terrain to unassigned land, then province
// sizes to all non-capital land.
func allocateTerrain(ctx *Context) error {
	var pool []*world.Node
	for _, n := range ctx.Map.Nodes {
		if !n.IsWater() && !n.AssignedTerrain {
			pool = append(pool, n)
		}
	}

	biomes := ctx.biomes()
	if len(pool) < len(biomes) {
		entropy.Shuffle(ctx.rng, pool)
		for i, n := range pool {
			ctx.applyBiome(n, biomes[i].flag)
			n.AssignedTerrain = true
		}
	} else {
		eligible := len(pool)
		for _, b := range biomes {
			picked := fillQuota(ctx, pool, b.flag, quota(b.freq, eligible), b.freq < sparseFrequency, nil)
			for _, n := range picked {
				ctx.applyBiome(n, b.flag)
				n.AssignedTerrain = true
			}
			pool = without(pool, picked)
		}
	}

	var land []*world.Node
	for _, n := range ctx.Map.Nodes {
		if !n.IsWater() && !n.IsCapital() {
			land = append(land, n)
		}
	}
	sized := func(n *world.Node) bool {
		return n.Terrain().HasAny(world.TerrainLarge | world.TerrainSmall)
	}
	eligible := 0
	for _, n := range land {
		if !sized(n) {
			eligible++
		}
	}
	for _, s := range []biome{{world.TerrainLarge, ctx.Freq.Large}, {world.TerrainSmall, ctx.Freq.Small}} {
		for _, n := range fillQuota(ctx, land, s.flag, quota(s.freq, eligible), s.freq < sparseFrequency, sized) {
			n.AddTerrain(s.flag)
		}
	}
	return nil
}

// quota rounds freq × count, with a floor of one for any real frequency.
func quota(freq float64, count int) int {
	q := int(math.Round(freq * float64(count)))
	if q == 0 && freq > minQuotaFreq && count > 0 {
		q = 1
	}
	return q
}

// fillQuota walks a shuffled copy of pool and returns up to q nodes for
// flag. When sparse is set a node already bordering more than one flag
// holder is left for later categories. skip excludes nodes outright.
func fillQuota(ctx *Context, pool []*world.Node, flag world.Terrain, q int, sparse bool, skip func(*world.Node) bool) []*world.Node {
	if q <= 0 {
		return nil
	}
	order := make([]*world.Node, len(pool))
	copy(order, pool)
	entropy.Shuffle(ctx.rng, order)

	has := func(n *world.Node) bool { return n.Terrain().HasAny(flag) }
	var picked []*world.Node
	for _, n := range order {
		if len(picked) >= q {
			break
		}
		if skip != nil && skip(n) {
			continue
		}
		if sparse && n.CountNeighbors(has) > 1 {
			continue
		}
		// Set immediately so later candidates see it as a neighbor.
		n.AddTerrain(flag)
		picked = append(picked, n)
	}
	return picked
}

// applyBiome sets flag plus its modifiers.
func (ctx *Context) applyBiome(n *world.Node, flag world.Terrain) {
	n.AddTerrain(flag)
	switch flag {
	case world.TerrainWaste:
		ctx.applyClimate(n)
	case world.TerrainCave:
		if entropy.Chance(ctx.rng, caveForestChance) {
			n.AddTerrain(world.TerrainForest)
		}
	}
}

// applyClimate marks waste as warmer or colder, from the temperature field
// when one is configured.
func (ctx *Context) applyClimate(n *world.Node) {
	if ctx.climate != nil {
		switch ctx.climate.Classify(n.Coord) {
		case climate.Warm:
			n.AddTerrain(world.TerrainWarmer)
		case climate.Cold:
			n.AddTerrain(world.TerrainColder)
		}
		return
	}
	if entropy.Chance(ctx.rng, wasteClimateChance) {
		n.AddTerrain(world.TerrainWarmer)
	} else if entropy.Chance(ctx.rng, wasteClimateChance) {
		n.AddTerrain(world.TerrainColder)
	}
}

func without(pool, picked []*world.Node) []*world.Node {
	if len(picked) == 0 {
		return pool
	}
	drop := make(map[*world.Node]bool, len(picked))
	for _, n := range picked {
		drop[n] = true
	}
	out := pool[:0:0]
	for _, n := range pool {
		if !drop[n] {
			out = append(out, n)
		}
	}
	return out
}
