package mapgen

import (
	"slices"

	"github.com/talgya/torus-map/internal/entropy"
	"github.com/talgya/torus-map/internal/world"
)

// assignCapRings stamps each nation's ring template onto the neighbors of
// its capital. Capitals run in placement order, so a node shared by two
// rings ends up with the template of the later capital.
func assignCapRings(ctx *Context) error {
	for _, capital := range ctx.capitals {
		nation := capital.Nation
		ensureRingConnections(ctx, capital, nation.RingSize())

		conns := slices.Clone(capital.Connections)
		entropy.Shuffle(ctx.rng, conns)

		n := min(nation.RingSize(), len(conns))
		var ring []*world.Node
		for i := 0; i < n; i++ {
			node := conns[i].Other(capital)
			if node.IsCapital() {
				continue
			}
			node.SetTerrain(nation.CapRingTerrain[i].With(world.TerrainNoThrone))
			if ctx.Flags.NaturalStarts {
				node.AddTerrain(world.TerrainNoStart)
			}
			node.CapRing = true
			node.RingOf = capital.Index()
			node.AssignedTerrain = true
			ring = append(ring, node)
		}

		if nation.CaveEntranceInRing {
			land := slices.DeleteFunc(slices.Clone(ring), (*world.Node).IsWater)
			if len(land) > 0 {
				entrance, _ := entropy.Pick(ctx.rng, land)
				entrance.ProvinceData.IsCaveEntrance = true
			}
		}
		ctx.Log.Debug("ring assigned", "nation", nation.Name, "size", len(ring))
	}

	if closed := closeDeferredCells(ctx); closed > 0 {
		ctx.Log.Debug("deferred cells closed", "count", closed)
	}
	return nil
}

// ensureRingConnections adds capital diagonals while the capital has fewer
// connections than its ring needs. A diagonal is only added in a lattice
// cell that has no diagonal yet, so diagonals never cross. The grid builder
// leaves those cells open next to every capital site.
func ensureRingConnections(ctx *Context, capital *world.Node, want int) {
	m := ctx.Map
	c := capital.Coord
	corners := [4]world.Coord{
		{X: c.X + 1, Y: c.Y + 1},
		{X: c.X - 1, Y: c.Y + 1},
		{X: c.X - 1, Y: c.Y - 1},
		{X: c.X + 1, Y: c.Y - 1},
	}
	for _, corner := range corners {
		if len(capital.Connections) >= want {
			return
		}
		far := m.Get(corner)
		// The crossing diagonal joins the two orthogonal corners of the cell.
		sideX := m.Get(world.Coord{X: corner.X, Y: c.Y})
		sideY := m.Get(world.Coord{X: c.X, Y: corner.Y})
		if crossed(m, sideX, sideY) || m.HasConnection(capital, far) {
			continue
		}
		if conn, ok := m.Connect(capital, far, true); ok {
			ctx.Log.Debug("ring connection added", "capital", capital.ID(), "to", conn.Other(capital).ID())
		}
	}
}
