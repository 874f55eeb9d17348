// Package world provides the province graph generated on a toroidal lattice:
// terrain vocabulary, nodes, connections, layouts and nation templates.
package world

// Coord is a lattice position. X grows to the right, Y grows upward.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Torus describes lattice dimensions whose edges wrap to the opposite side.
type Torus struct {
	Width  int
	Height int
}

// Wrap folds c back onto the lattice.
func (t Torus) Wrap(c Coord) Coord {
	return Coord{X: mod(c.X, t.Width), Y: mod(c.Y, t.Height)}
}

// Index returns the arena index of a wrapped coordinate (column-major,
// matching node creation order).
func (t Torus) Index(c Coord) int {
	w := t.Wrap(c)
	return w.X*t.Height + w.Y
}

// Up returns the neighbor above c.
func (t Torus) Up(c Coord) Coord { return t.Wrap(Coord{X: c.X, Y: c.Y + 1}) }

// Right returns the neighbor right of c.
func (t Torus) Right(c Coord) Coord { return t.Wrap(Coord{X: c.X + 1, Y: c.Y}) }

// Down returns the neighbor below c.
func (t Torus) Down(c Coord) Coord { return t.Wrap(Coord{X: c.X, Y: c.Y - 1}) }

// Left returns the neighbor left of c.
func (t Torus) Left(c Coord) Coord { return t.Wrap(Coord{X: c.X - 1, Y: c.Y}) }

// Neighbors returns the four orthogonal neighbors: up, right, down, left.
func (t Torus) Neighbors(c Coord) [4]Coord {
	return [4]Coord{t.Up(c), t.Right(c), t.Down(c), t.Left(c)}
}

// Distance returns the toroidal Manhattan distance between a and b.
func (t Torus) Distance(a, b Coord) int {
	return wrapDelta(a.X-b.X, t.Width) + wrapDelta(a.Y-b.Y, t.Height)
}

// wrapDelta returns the shorter way around an axis of length n.
func wrapDelta(d, n int) int {
	if d < 0 {
		d = -d
	}
	if n > 0 {
		d %= n
		if n-d < d {
			return n - d
		}
	}
	return d
}

func mod(a, n int) int {
	if n <= 0 {
		return 0
	}
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
