package mapgen

import (
	"math"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/torus-map/internal/entropy"
	"github.com/talgya/torus-map/internal/world"
)

const (
	minStandardBorders = 3
	immediateChance    = 0.6
	weightedPoolMin    = 5
)

// feature parameterises one run of the propagation engine.
type feature struct {
	typ      world.ConnectionType
	freq     float64
	seed     func(*world.Connection) bool
	conflict func(world.ConnectionType) bool
}

func riverSeed(c *world.Connection) bool {
	return c.Any(func(n *world.Node) bool {
		return n.HasTerrain(world.TerrainSwamp) || n.HasWaterNeighbor()
	})
}

func cliffSeed(c *world.Connection) bool {
	return c.Any((*world.Node).HasWaterNeighbor)
}

func roadSeed(c *world.Connection) bool {
	return c.Any(func(n *world.Node) bool {
		return n.CapRing || n.HasTerrain(world.TerrainFarm)
	})
}

func anyFeature(t world.ConnectionType) bool {
	return t != world.ConnStandard
}

// allocateConnections places rivers, cliffs and roads, balancing each
// paired feature against its quotas.
func allocateConnections(ctx *Context) error {
	f := ctx.Freq
	river := feature{world.ConnRiver, f.River, riverSeed, world.ConnectionType.IsCliff}
	shallow := feature{world.ConnShallowRiver, f.ShallowRiver, riverSeed, world.ConnectionType.IsCliff}
	cliff := feature{world.ConnMountain, f.Cliff, cliffSeed, world.ConnectionType.IsRiver}
	pass := feature{world.ConnMountainPass, f.CliffPass, cliffSeed, world.ConnectionType.IsRiver}
	road := feature{world.ConnRoad, f.Road, roadSeed, anyFeature}

	for _, pair := range [][2]feature{{river, shallow}, {cliff, pass}} {
		a := propagate(ctx, pair[0])
		b := propagate(ctx, pair[1])
		balance(ctx, pair[0].typ, pair[1].typ, a, b)
	}
	propagate(ctx, road)
	return nil
}

// borderQuota returns the number of borders a feature wants.
func borderQuota(ctx *Context, freq float64) int {
	eligible := 0
	for _, c := range ctx.Map.Connections {
		if c.Type == world.ConnStandard && !c.TouchesWater() && !c.TouchesCapital() {
			eligible++
		}
	}
	return int(math.Round(freq * float64(eligible)))
}

// propagate grows a feature from its seed pool along adjacent borders and
// returns its quota.
func propagate(ctx *Context, f feature) int {
	q := borderQuota(ctx, f.freq)
	if q <= 0 {
		return q
	}

	seen := mapset.New[int]()
	var pool, immediate []*world.Connection
	for _, c := range ctx.Map.Connections {
		if f.seed(c) {
			pool = append(pool, c)
			seen.Put(c.Index())
		}
	}

	placed := 0
	for placed < q && (len(immediate) > 0 || len(pool) > 0) {
		var c *world.Connection
		if len(immediate) > 0 {
			c, immediate = immediate[0], immediate[1:]
		} else {
			var i int
			c, i = pickWeighted(ctx, pool)
			pool = append(pool[:i], pool[i+1:]...)
		}

		if rejectBorder(c, f.conflict) {
			continue
		}
		c.Type = f.typ
		placed++

		for _, adj := range c.Adjacent {
			if adj.Type != world.ConnStandard || seen.Has(adj.Index()) {
				continue
			}
			seen.Put(adj.Index())
			if entropy.Chance(ctx.rng, immediateChance) {
				immediate = append(immediate, adj)
			} else {
				pool = append(pool, adj)
			}
		}
	}
	ctx.Log.Debug("feature placed", "type", f.typ, "quota", q, "placed", placed)
	return q
}

// waterScore counts water nodes around either endpoint.
func waterScore(c *world.Connection) int {
	return c.A.CountNeighbors((*world.Node).IsWater) + c.B.CountNeighbors((*world.Node).IsWater)
}

// pickWeighted favors borders far from water: with enough candidates it
// draws from the driest half.
func pickWeighted(ctx *Context, pool []*world.Connection) (*world.Connection, int) {
	if len(pool) < weightedPoolMin {
		return entropy.Pick(ctx.rng, pool)
	}
	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := pool[order[a]], pool[order[b]]
		sa, sb := waterScore(ca), waterScore(cb)
		if sa != sb {
			return sa < sb
		}
		return ca.Index() < cb.Index()
	})
	i := order[ctx.rng.Intn(len(order)/2)]
	return pool[i], i
}

// rejectBorder reports whether c cannot take a feature whose conflicting
// types are matched by conflict.
func rejectBorder(c *world.Connection, conflict func(world.ConnectionType) bool) bool {
	if c.Type != world.ConnStandard || c.TouchesCapital() || c.TouchesWater() {
		return true
	}
	if c.A.StandardConnections() < minStandardBorders || c.B.StandardConnections() < minStandardBorders {
		return true
	}
	for _, t := range c.Triangles {
		if conflict(t.Type) {
			return true
		}
	}
	return false
}

// balance moves the split between two paired features toward their quota
// ratio. Each of max(qa, qb) rounds draws one border of each type; a draw
// from the side above its target flips to the other type, otherwise the
// pair trades types. The deviation from the target never grows.
func balance(ctx *Context, a, b world.ConnectionType, qa, qb int) {
	if qa+qb == 0 {
		return
	}
	var as, bs []*world.Connection
	for _, c := range ctx.Map.Connections {
		switch c.Type {
		case a:
			as = append(as, c)
		case b:
			bs = append(bs, c)
		}
	}
	total := len(as) + len(bs)
	if len(as) == 0 || len(bs) == 0 {
		return
	}
	targetA := int(math.Round(float64(total) * float64(qa) / float64(qa+qb)))
	targetB := total - targetA

	rounds := max(qa, qb)
	for r := 0; r < rounds && len(as) > 0 && len(bs) > 0; r++ {
		ca, ia := entropy.Pick(ctx.rng, as)
		cb, ib := entropy.Pick(ctx.rng, bs)
		switch {
		case len(as) > targetA:
			ca.Type = b
			as = append(as[:ia], as[ia+1:]...)
			bs = append(bs, ca)
		case len(bs) > targetB:
			cb.Type = a
			bs = append(bs[:ib], bs[ib+1:]...)
			as = append(as, cb)
		default:
			ca.Type, cb.Type = b, a
			as[ia], bs[ib] = cb, ca
		}
	}
	ctx.Log.Debug("features balanced", "a", a, "b", b, "count_a", len(as), "count_b", len(bs), "target_a", targetA)
}
