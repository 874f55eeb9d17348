package mapgen

import (
	"math"

	"github.com/talgya/torus-map/internal/entropy"
	"github.com/talgya/torus-map/internal/world"
)

const (
	maxSeaWalks = 100
	minSeaHops  = 1
	maxSeaHops  = 3
)

// allocateWater grows sea around water nations, drops freshwater lakes on
// inland provinces and promotes enclosed sea to deep sea.
func allocateWater(ctx *Context) error {
	for _, capital := range ctx.capitals {
		if !capital.Nation.IsWaterNation() {
			continue
		}
		target := int(math.Round(capital.Nation.WaterPercentage*float64(ctx.Layout.ProvsPerPlayer))) - capital.Nation.RingSize()
		placed := growSea(ctx, capital, target)
		ctx.Log.Debug("sea grown", "nation", capital.Nation.Name, "target", target, "placed", placed)
	}

	lakes := placeLakes(ctx)
	deep := promoteDeepSea(ctx)
	ctx.Log.Debug("water allocated", "lakes", lakes, "deep", deep)
	return nil
}

// growSea turns up to target provinces near capital into sea by short
// random walks from the capital's neighbors.
func growSea(ctx *Context, capital *world.Node, target int) int {
	neighbors := capital.Neighbors()
	if target <= 0 || len(neighbors) == 0 {
		return 0
	}

	placed := 0
	for attempt := 0; attempt < maxSeaWalks && placed < target; attempt++ {
		cur, _ := entropy.Pick(ctx.rng, neighbors)
		hops := entropy.Range(ctx.rng, minSeaHops, maxSeaHops+1)
		for h := 0; h <= hops; h++ {
			if seaEligible(cur, capital) {
				cur.SetTerrain(world.Terrains(world.TerrainSea))
				cur.AssignedTerrain = true
				placed++
				break
			}
			if h == hops {
				break
			}
			next := landward(ctx, cur)
			if next == nil {
				break
			}
			cur = next
		}
	}
	return placed
}

// landward picks a random non-capital neighbor of n, or nil.
func landward(ctx *Context, n *world.Node) *world.Node {
	var options []*world.Node
	for _, o := range n.Neighbors() {
		if !o.IsCapital() {
			options = append(options, o)
		}
	}
	if len(options) == 0 {
		return nil
	}
	next, _ := entropy.Pick(ctx.rng, options)
	return next
}

// seaEligible reports whether n may become sea for owner: it must be plain
// land outside every ring and must not border another nation's start.
func seaEligible(n, owner *world.Node) bool {
	if n.IsCapital() || n.CapRing || n.IsWater() {
		return false
	}
	for _, o := range n.Neighbors() {
		if o.IsCapital() && o != owner {
			return false
		}
		if o.CapRing && o.RingOf != owner.Index() {
			return false
		}
	}
	return true
}

func isLake(n *world.Node) bool {
	return n.IsWater() && n.HasTerrain(world.TerrainFreshwater)
}

// placeLakes converts single inland provinces into freshwater lakes. The
// first pass only uses provinces with no water around them.
func placeLakes(ctx *Context) int {
	var candidates []*world.Node
	for _, n := range ctx.Map.Nodes {
		if n.IsWater() || n.IsCapital() || n.CapRing || n.AssignedTerrain {
			continue
		}
		candidates = append(candidates, n)
	}
	quota := int(math.Round(ctx.Freq.Lake * float64(len(candidates))))
	if quota == 0 {
		return 0
	}
	entropy.Shuffle(ctx.rng, candidates)

	placed := 0
	passes := []func(*world.Node) bool{
		func(n *world.Node) bool { return !n.HasWaterNeighbor() },
		func(n *world.Node) bool { return n.CountNeighbors(isLake) == 0 },
	}
	for _, ok := range passes {
		for _, n := range candidates {
			if placed >= quota {
				return placed
			}
			if n.IsWater() || !ok(n) {
				continue
			}
			n.SetTerrain(world.Terrains(world.TerrainSea, world.TerrainFreshwater))
			n.AssignedTerrain = true
			placed++
		}
	}
	return placed
}

// promoteDeepSea marks open sea surrounded by water as deep.
func promoteDeepSea(ctx *Context) int {
	var deep []*world.Node
	for _, n := range ctx.Map.Nodes {
		if !n.IsWater() || n.IsCapital() || isLake(n) {
			continue
		}
		if n.CountNeighbors((*world.Node).IsWater) == len(n.Connections) {
			deep = append(deep, n)
		}
	}
	for _, n := range deep {
		n.AddTerrain(world.TerrainDeepSea)
	}
	return len(deep)
}
