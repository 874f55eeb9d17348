package world

import "fmt"

// ProvinceData is the game-facing description of a province.
type ProvinceData struct {
	ID      int        `json:"id"` // 1-based province number
	Terrain TerrainSet `json:"terrain"`

	// Underworld plane.
	IsCaveEntrance bool       `json:"is_cave_entrance"`
	IsCaveWall     bool       `json:"is_cave_wall"`
	CaveTerrain    TerrainSet `json:"cave_terrain"`
}

// Node is one lattice cell of the generated map.
type Node struct {
	Coord        Coord
	ProvinceData *ProvinceData
	Connections  []*Connection // Shared with the node at the other end

	// Capital assignment; Nation is nil on non-capitals.
	Nation *NationData
	Team   int

	CapRing         bool
	RingOf          int // Arena index of the owning capital, -1 when not a ring node
	AssignedTerrain bool
	WrapCorner      bool

	index int
}

func newNode(c Coord, index int) *Node {
	return &Node{
		Coord: c,
		ProvinceData: &ProvinceData{
			ID: index + 1,
		},
		RingOf: -1,
		index:  index,
	}
}

// Index returns the node's position in the map arena.
func (n *Node) Index() int {
	return n.index
}

// ID returns the province number.
func (n *Node) ID() int {
	return n.ProvinceData.ID
}

// Terrain returns the province terrain set.
func (n *Node) Terrain() TerrainSet {
	return n.ProvinceData.Terrain
}

// SetTerrain replaces the province terrain.
func (n *Node) SetTerrain(t TerrainSet) {
	n.ProvinceData.Terrain = t
}

// AddTerrain adds a flag to the province terrain.
func (n *Node) AddTerrain(t Terrain) {
	n.ProvinceData.Terrain.Add(t)
}

// HasTerrain reports whether the province terrain carries t.
func (n *Node) HasTerrain(t Terrain) bool {
	return n.ProvinceData.Terrain.Has(t)
}

// IsCapital reports whether a nation starts here.
func (n *Node) IsCapital() bool {
	return n.Nation != nil
}

// IsWater reports whether the province is sea.
func (n *Node) IsWater() bool {
	return n.ProvinceData.Terrain.IsWater()
}

// Neighbors returns the nodes at the far end of every connection.
func (n *Node) Neighbors() []*Node {
	out := make([]*Node, 0, len(n.Connections))
	for _, c := range n.Connections {
		out = append(out, c.Other(n))
	}
	return out
}

// ConnectionTo returns the connection between n and other, or nil.
func (n *Node) ConnectionTo(other *Node) *Connection {
	for _, c := range n.Connections {
		if c.Other(n) == other {
			return c
		}
	}
	return nil
}

// StandardConnections counts borders that still carry no feature.
func (n *Node) StandardConnections() int {
	count := 0
	for _, c := range n.Connections {
		if c.Type == ConnStandard {
			count++
		}
	}
	return count
}

// CountNeighbors counts neighbors matching pred.
func (n *Node) CountNeighbors(pred func(*Node) bool) int {
	count := 0
	for _, c := range n.Connections {
		if pred(c.Other(n)) {
			count++
		}
	}
	return count
}

// HasWaterNeighbor reports whether any neighbor is sea.
func (n *Node) HasWaterNeighbor() bool {
	return n.CountNeighbors((*Node).IsWater) > 0
}

func (n *Node) String() string {
	return fmt.Sprintf("Node(%d @ %d,%d %s)", n.ID(), n.Coord.X, n.Coord.Y, n.Terrain())
}
