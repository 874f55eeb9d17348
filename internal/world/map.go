package world

import "fmt"

// Map holds the province graph. Nodes and connections live in arenas and
// are addressed by index; neither is ever removed.
type Map struct {
	Torus
	Nodes       []*Node
	Connections []*Connection

	pairs map[pairKey]*Connection
}

// NewMap allocates one node per lattice cell, column by column, with no
// connections.
func NewMap(width, height int) *Map {
	m := &Map{
		Torus: Torus{Width: width, Height: height},
		Nodes: make([]*Node, 0, width*height),
		pairs: make(map[pairKey]*Connection, width*height*3),
	}
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			m.Nodes = append(m.Nodes, newNode(Coord{X: x, Y: y}, len(m.Nodes)))
		}
	}
	return m
}

// Get returns the node at the wrapped coordinate.
func (m *Map) Get(c Coord) *Node {
	if len(m.Nodes) == 0 {
		return nil
	}
	return m.Nodes[m.Index(c)]
}

// NodeAt returns the node at (x, y), wrapping out-of-range values.
func (m *Map) NodeAt(x, y int) *Node {
	return m.Get(Coord{X: x, Y: y})
}

// Connect joins a and b. It returns the new connection and true, or the
// existing one and false when the pair is already joined. Self loops are
// refused with (nil, false).
func (m *Map) Connect(a, b *Node, diagonal bool) (*Connection, bool) {
	if a == b {
		return nil, false
	}
	key := keyOf(a, b)
	if existing, ok := m.pairs[key]; ok {
		return existing, false
	}
	c := &Connection{A: a, B: b, Diagonal: diagonal, index: len(m.Connections)}
	m.pairs[key] = c
	m.Connections = append(m.Connections, c)
	a.Connections = append(a.Connections, c)
	b.Connections = append(b.Connections, c)
	return c, true
}

// Connection returns the connection joining a and b, or nil.
func (m *Map) Connection(a, b *Node) *Connection {
	if a == b {
		return nil
	}
	return m.pairs[keyOf(a, b)]
}

// HasConnection reports whether a and b are joined.
func (m *Map) HasConnection(a, b *Node) bool {
	return m.Connection(a, b) != nil
}

// Capitals returns every node with a nation, in arena order.
func (m *Map) Capitals() []*Node {
	var caps []*Node
	for _, n := range m.Nodes {
		if n.IsCapital() {
			caps = append(caps, n)
		}
	}
	return caps
}

// NodeCount returns the total number of provinces.
func (m *Map) NodeCount() int {
	return len(m.Nodes)
}

// ConnectionCount returns the total number of borders.
func (m *Map) ConnectionCount() int {
	return len(m.Connections)
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(%dx%d, nodes=%d, connections=%d)", m.Width, m.Height, m.NodeCount(), m.ConnectionCount())
}
