package mapgen

import (
	"github.com/talgya/torus-map/internal/world"
)

// buildGrid creates every node, the orthogonal up/right connections, the
// wrap-corner diagonal and one diagonal per remaining lattice cell. Cells
// with a capital site on their anti-diagonal are left open for the ring
// assigner and closed by closeDeferredCells.
func buildGrid(ctx *Context) error {
	l := ctx.Layout
	m := world.NewMap(l.X, l.Y)
	ctx.Map = m

	for _, n := range m.Nodes {
		m.Connect(n, m.Get(m.Up(n.Coord)), false)
		m.Connect(n, m.Get(m.Right(n.Coord)), false)
	}

	origin := m.NodeAt(0, 0)
	corner := m.NodeAt(l.X-1, l.Y-1)
	if c, _ := m.Connect(origin, corner, true); c != nil {
		origin.WrapCorner = true
		corner.WrapCorner = true
	}

	for _, ll := range m.Nodes {
		lr := m.Get(m.Right(ll.Coord))
		ul := m.Get(m.Up(ll.Coord))
		ur := m.Get(m.Up(lr.Coord))

		// A cell whose either diagonal already exists keeps it alone.
		if crossed(m, ll, ur) || crossed(m, lr, ul) {
			continue
		}

		anti := ctx.Layout.IsPlayerSpawn(ll.Coord) || ctx.Layout.IsPlayerSpawn(ur.Coord)
		if !anti && (ctx.Layout.IsPlayerSpawn(lr.Coord) || ctx.Layout.IsPlayerSpawn(ul.Coord)) {
			ctx.deferred = append(ctx.deferred, ll)
			continue
		}
		if !anti {
			anti = ctx.rng.Intn(2) == 1
		}
		if anti {
			m.Connect(lr, ul, true)
		} else {
			m.Connect(ll, ur, true)
		}
	}
	return nil
}

// crossed reports whether a and b are joined by a diagonal. Orthogonal
// connections between the same pair (possible on 2-wide lattices) do not
// count.
func crossed(m *world.Map, a, b *world.Node) bool {
	c := m.Connection(a, b)
	return c != nil && c.Diagonal
}

// closeDeferredCells gives every cell still without a diagonal the one that
// avoids its capital site, so capitals gain no connections after their
// rings are assigned.
func closeDeferredCells(ctx *Context) int {
	m := ctx.Map
	closed := 0
	for _, ll := range ctx.deferred {
		lr := m.Get(m.Right(ll.Coord))
		ul := m.Get(m.Up(ll.Coord))
		ur := m.Get(m.Up(lr.Coord))
		if crossed(m, ll, ur) || crossed(m, lr, ul) {
			continue
		}
		m.Connect(ll, ur, true)
		closed++
	}
	ctx.deferred = nil
	return closed
}
