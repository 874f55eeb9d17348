package mapgen

import (
	"fmt"
	"math"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/torus-map/internal/entropy"
	"github.com/talgya/torus-map/internal/world"
)

const (
	maxCaveAttempts    = 20
	minRegionEntrances = 2
)

// placeThronesAndCaves marks throne sites, picks cave entrances around each
// capital and carves the underworld.
func placeThronesAndCaves(ctx *Context) error {
	placeThrones(ctx)
	placeCaveEntrances(ctx)
	carveCaves(ctx)
	return nil
}

// placeThrones marks every THRONE spawn. Only a handful of thrones may sit
// in water: once the counter passes the number of water nations, further
// water sites are drained to swamp.
func placeThrones(ctx *Context) {
	waterNations := 0
	for _, p := range ctx.Players {
		if p.Nation.IsWaterNation() {
			waterNations++
		}
	}
	waterThrones := entropy.Range(ctx.rng, -2, 1)

	for _, s := range ctx.Layout.ThroneSpawns() {
		n := ctx.Map.Get(s.Coord())
		if n.IsCapital() {
			continue
		}
		if n.IsWater() {
			waterThrones++
			if waterThrones > waterNations {
				n.SetTerrain(world.Terrains(world.TerrainSwamp))
			}
		}
		t := n.Terrain().Without(world.TerrainNoThrone).With(world.TerrainThrone)
		if ctx.Flags.NaturalStarts {
			t = t.With(world.TerrainNoStart)
		}
		n.SetTerrain(t)
		n.AssignedTerrain = true
	}
}

// placeCaveEntrances opens entrances on the second ring around each capital.
func placeCaveEntrances(ctx *Context) {
	per := max(1, ctx.Settings.NumCaveEntrancesPerPlayer)
	for _, capital := range ctx.capitals {
		near := mapset.New[int]()
		for _, n := range capital.Neighbors() {
			near.Put(n.Index())
		}

		var candidates []*world.Node
		added := mapset.New[int]()
		for _, n := range capital.Neighbors() {
			for _, o := range n.Neighbors() {
				if o == capital || near.Has(o.Index()) || added.Has(o.Index()) {
					continue
				}
				if o.CapRing || o.IsCapital() || o.IsWater() {
					continue
				}
				added.Put(o.Index())
				candidates = append(candidates, o)
			}
		}
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].Index() < candidates[j].Index()
		})
		entropy.Shuffle(ctx.rng, candidates)

		for i := 0; i < per && i < len(candidates); i++ {
			candidates[i].ProvinceData.IsCaveEntrance = true
		}
	}
}

// carveCaves decides which provinces are open underworld. Layouts are
// redrawn until every open region has at least two entrances or the
// attempt budget runs out.
func carveCaves(ctx *Context) {
	m := ctx.Map
	var entrances, rest []*world.Node
	nonCapitals := 0
	for _, n := range m.Nodes {
		if n.IsCapital() {
			continue
		}
		nonCapitals++
		if n.ProvinceData.IsCaveEntrance {
			entrances = append(entrances, n)
		} else {
			rest = append(rest, n)
		}
	}

	open := int(math.Round(ctx.Freq.UnderworldCave*float64(nonCapitals))) - len(entrances)
	open = max(0, min(open, len(rest)))

	valid := false
	for ctx.caveAttempts < maxCaveAttempts {
		ctx.caveAttempts++
		drawCaveWalls(ctx, rest, open)
		if validateCaves(m, entrances) {
			valid = true
			break
		}
	}
	if !valid {
		ctx.warn("caves", fmt.Sprintf("cave network still invalid after %d attempts", ctx.caveAttempts), "entrances", len(entrances))
	}

	sealed := sealPockets(m, entrances)
	dressCaves(ctx)
	ctx.Log.Debug("caves carved", "attempts", ctx.caveAttempts, "entrances", len(entrances), "sealed", sealed)
}

// drawCaveWalls opens a random subset of rest and walls everything else.
// Capitals are always walls; entrances always open.
func drawCaveWalls(ctx *Context, rest []*world.Node, open int) {
	for _, n := range ctx.Map.Nodes {
		pd := n.ProvinceData
		pd.IsCaveWall = n.IsCapital()
		if pd.IsCaveEntrance {
			pd.IsCaveWall = false
		}
	}
	order := make([]*world.Node, len(rest))
	copy(order, rest)
	entropy.Shuffle(ctx.rng, order)
	for i, n := range order {
		n.ProvinceData.IsCaveWall = i >= open
	}
}

func caveOpen(n *world.Node) bool {
	return !n.IsCapital() && !n.ProvinceData.IsCaveWall
}

// caveRegions flood fills open provinces from each entrance and returns,
// per region, how many entrances it holds. visited collects every reached
// node index.
func caveRegions(m *world.Map, entrances []*world.Node, visited mapset.Set[int]) []int {
	var regions []int
	for _, e := range entrances {
		if visited.Has(e.Index()) || !caveOpen(e) {
			continue
		}
		count := 0
		queue := []*world.Node{e}
		visited.Put(e.Index())
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			if n.ProvinceData.IsCaveEntrance {
				count++
			}
			for _, o := range n.Neighbors() {
				if visited.Has(o.Index()) || !caveOpen(o) {
					continue
				}
				visited.Put(o.Index())
				queue = append(queue, o)
			}
		}
		regions = append(regions, count)
	}
	return regions
}

// validateCaves reports whether every region reached from an entrance
// holds at least two entrances.
func validateCaves(m *world.Map, entrances []*world.Node) bool {
	for _, count := range caveRegions(m, entrances, mapset.New[int]()) {
		if count < minRegionEntrances {
			return false
		}
	}
	return true
}

// sealPockets walls every open province no entrance reaches.
func sealPockets(m *world.Map, entrances []*world.Node) int {
	visited := mapset.New[int]()
	caveRegions(m, entrances, visited)
	sealed := 0
	for _, n := range m.Nodes {
		if caveOpen(n) && !visited.Has(n.Index()) {
			n.ProvinceData.IsCaveWall = true
			sealed++
		}
	}
	return sealed
}

// dressCaves gives every open province underworld terrain: cave, plus
// forest, swamp or highland from shuffled quota pools.
func dressCaves(ctx *Context) {
	var open []*world.Node
	for _, n := range ctx.Map.Nodes {
		n.ProvinceData.CaveTerrain = world.TerrainSet{}
		if caveOpen(n) {
			open = append(open, n)
		}
	}
	entropy.Shuffle(ctx.rng, open)

	f := ctx.Freq
	quotas := []struct {
		flag world.Terrain
		n    int
	}{
		{world.TerrainForest, int(math.Round(f.UnderworldForest * float64(len(open))))},
		{world.TerrainSwamp, int(math.Round(f.UnderworldSwamp * float64(len(open))))},
		{world.TerrainHighland, int(math.Round(f.UnderworldHighland * float64(len(open))))},
	}
	next := 0
	for _, n := range open {
		t := world.Terrains(world.TerrainCave)
		for next < len(quotas) && quotas[next].n == 0 {
			next++
		}
		if next < len(quotas) {
			t = t.With(quotas[next].flag)
			quotas[next].n--
		}
		n.ProvinceData.CaveTerrain = t
	}
}
