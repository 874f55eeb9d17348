package mapgen

import (
	"sort"

	"github.com/talgya/torus-map/internal/world"
)

// linkAdjacency fills Adjacent and Triangles on every connection. Both
// lists are in arena order.
func linkAdjacency(ctx *Context) error {
	m := ctx.Map
	for _, c := range m.Connections {
		c.Adjacent = c.Adjacent[:0]
		c.Triangles = c.Triangles[:0]

		for _, end := range [2]*world.Node{c.A, c.B} {
			for _, o := range end.Connections {
				if o == c || containsConn(c.Adjacent, o) {
					continue
				}
				c.Adjacent = append(c.Adjacent, o)
			}
		}
		sort.Slice(c.Adjacent, func(i, j int) bool {
			return c.Adjacent[i].Index() < c.Adjacent[j].Index()
		})

		for _, o := range c.Adjacent {
			var far, other *world.Node
			switch {
			case o.Touches(c.A):
				far, other = o.Other(c.A), c.B
			default:
				far, other = o.Other(c.B), c.A
			}
			if far != other && m.HasConnection(far, other) {
				c.Triangles = append(c.Triangles, o)
			}
		}
	}
	return nil
}

func containsConn(list []*world.Connection, c *world.Connection) bool {
	for _, o := range list {
		if o == c {
			return true
		}
	}
	return false
}
