package world

import "fmt"

// Connection is a border between two distinct provinces.
type Connection struct {
	A, B     *Node
	Type     ConnectionType
	Diagonal bool

	// Adjacent holds every other connection sharing an endpoint.
	Adjacent []*Connection
	// Triangles holds the connections closing a triangle with this one.
	Triangles []*Connection

	index int
}

// Index returns the connection's position in the map arena.
func (c *Connection) Index() int {
	return c.index
}

// Other returns the endpoint that is not n. It returns nil when n is not
// an endpoint.
func (c *Connection) Other(n *Node) *Node {
	switch n {
	case c.A:
		return c.B
	case c.B:
		return c.A
	}
	return nil
}

// Touches reports whether n is an endpoint.
func (c *Connection) Touches(n *Node) bool {
	return c.A == n || c.B == n
}

// SharesNode reports whether both connections have a common endpoint.
func (c *Connection) SharesNode(o *Connection) bool {
	return c.Touches(o.A) || c.Touches(o.B)
}

// TouchesWater reports whether either endpoint is sea.
func (c *Connection) TouchesWater() bool {
	return c.A.IsWater() || c.B.IsWater()
}

// TouchesCapital reports whether either endpoint is a capital.
func (c *Connection) TouchesCapital() bool {
	return c.A.IsCapital() || c.B.IsCapital()
}

// Any reports whether pred holds for either endpoint.
func (c *Connection) Any(pred func(*Node) bool) bool {
	return pred(c.A) || pred(c.B)
}

func (c *Connection) String() string {
	return fmt.Sprintf("Connection(%d-%d %s)", c.A.ID(), c.B.ID(), c.Type)
}

// pairKey identifies an unordered node pair.
type pairKey struct {
	lo, hi int
}

func keyOf(a, b *Node) pairKey {
	if a.index > b.index {
		a, b = b, a
	}
	return pairKey{lo: a.index, hi: b.index}
}
