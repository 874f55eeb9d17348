package mapgen

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/torus-map/internal/entropy"
	"github.com/talgya/torus-map/internal/world"
)

// placeCapitals assigns one PLAYER spawn to each player. Teamplay wins over
// water clustering; otherwise spawns are dealt at random.
func placeCapitals(ctx *Context) error {
	spawns := ctx.Layout.PlayerSpawns()
	var sites []int
	switch {
	case ctx.Flags.Teamplay:
		sites = teamSites(ctx, spawns)
	case ctx.Flags.ClusterWater:
		sites = waterSites(ctx, spawns)
	default:
		sites = flatSites(ctx, spawns)
	}

	ctx.capitals = make([]*world.Node, len(ctx.Players))
	for i, p := range ctx.Players {
		n := ctx.Map.Get(spawns[sites[i]].Coord())
		n.Nation = p.Nation
		n.Team = p.Team
		n.SetTerrain(p.Nation.CapTerrain)
		n.AssignedTerrain = true
		ctx.capitals[i] = n
		ctx.Log.Debug("capital placed", "nation", p.Nation.Name, "team", p.Team, "x", n.Coord.X, "y", n.Coord.Y)
	}
	return nil
}

// flatSites shuffles the spawn indices and deals them in player order.
func flatSites(ctx *Context, spawns []world.Spawn) []int {
	order := make([]int, len(spawns))
	for i := range order {
		order[i] = i
	}
	entropy.Shuffle(ctx.rng, order)
	return order[:len(ctx.Players)]
}

// teamSites places teams in ascending team number. Each team grows from an
// anchor; members take the free spawn with the least total distance to
// their placed teammates.
func teamSites(ctx *Context, spawns []world.Spawn) []int {
	t := ctx.Layout.Torus()
	sites := make([]int, len(ctx.Players))
	taken := mapset.New[int]()

	members := make(map[int][]int)
	for i, p := range ctx.Players {
		members[p.Team] = append(members[p.Team], i)
	}
	teams := make([]int, 0, len(members))
	for team := range members {
		teams = append(teams, team)
	}
	sort.Ints(teams)

	anchor := ctx.rng.Intn(len(spawns))
	for ti, team := range teams {
		if ti > 0 {
			anchor = closestFree(t, spawns, taken, spawns[anchor].Coord())
		}
		var placed []world.Coord
		for mi, player := range members[team] {
			site := anchor
			if mi > 0 {
				site = bestFree(t, spawns, taken, placed)
			}
			taken.Put(site)
			sites[player] = site
			placed = append(placed, spawns[site].Coord())
		}
	}
	return sites
}

// waterSites gathers water-affiliated nations around one random anchor and
// scatters the rest over the remaining spawns.
func waterSites(ctx *Context, spawns []world.Spawn) []int {
	t := ctx.Layout.Torus()
	sites := make([]int, len(ctx.Players))
	taken := mapset.New[int]()

	anchor := spawns[ctx.rng.Intn(len(spawns))].Coord()
	byDistance := make([]int, len(spawns))
	for i := range byDistance {
		byDistance[i] = i
	}
	sort.SliceStable(byDistance, func(a, b int) bool {
		return t.Distance(spawns[byDistance[a]].Coord(), anchor) < t.Distance(spawns[byDistance[b]].Coord(), anchor)
	})

	var rest []int
	next := 0
	for i, p := range ctx.Players {
		if !ctx.clustersWithWater(p.Nation) {
			rest = append(rest, i)
			continue
		}
		site := byDistance[next]
		next++
		taken.Put(site)
		sites[i] = site
	}

	free := make([]int, 0, len(spawns))
	for i := range spawns {
		if !taken.Has(i) {
			free = append(free, i)
		}
	}
	entropy.Shuffle(ctx.rng, free)
	for k, player := range rest {
		sites[player] = free[k]
	}
	return sites
}

func (ctx *Context) clustersWithWater(n *world.NationData) bool {
	if n.WaterPercentage > ctx.Settings.WaterClusterThreshold {
		return true
	}
	return ctx.Flags.ClusterIslands && n.Island
}

// closestFree returns the free spawn nearest to c. Ties go to the spawn
// declared first.
func closestFree(t world.Torus, spawns []world.Spawn, taken mapset.Set[int], c world.Coord) int {
	best, bestDist := -1, 0
	for i, s := range spawns {
		if taken.Has(i) {
			continue
		}
		if d := t.Distance(s.Coord(), c); best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// bestFree returns the free spawn minimising the summed distance to placed.
func bestFree(t world.Torus, spawns []world.Spawn, taken mapset.Set[int], placed []world.Coord) int {
	best, bestDist := -1, 0
	for i, s := range spawns {
		if taken.Has(i) {
			continue
		}
		d := 0
		for _, p := range placed {
			d += t.Distance(s.Coord(), p)
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
