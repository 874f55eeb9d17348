package world

import "math"

// SpawnKind tags a fixed layout coordinate.
type SpawnKind uint8

const (
	SpawnPlayer SpawnKind = iota // Candidate capital site
	SpawnThrone                  // Throne site
)

func (k SpawnKind) String() string {
	switch k {
	case SpawnPlayer:
		return "PLAYER"
	case SpawnThrone:
		return "THRONE"
	default:
		return "UNKNOWN"
	}
}

// Spawn is a fixed coordinate declared by a layout.
type Spawn struct {
	X    int       `json:"x"`
	Y    int       `json:"y"`
	Kind SpawnKind `json:"kind"`
}

// Coord returns the spawn position.
func (s Spawn) Coord() Coord {
	return Coord{X: s.X, Y: s.Y}
}

// NodeLayout fixes the lattice dimensions and special coordinates of a map.
type NodeLayout struct {
	X              int     `json:"x"`
	Y              int     `json:"y"`
	ProvsPerPlayer int     `json:"provs_per_player"`
	Spawns         []Spawn `json:"spawns"`
}

// NewLayout creates a layout with the given spawns.
func NewLayout(x, y, provsPerPlayer int, spawns ...Spawn) NodeLayout {
	return NodeLayout{X: x, Y: y, ProvsPerPlayer: provsPerPlayer, Spawns: spawns}
}

// Torus returns the wrap-around geometry of the layout.
func (l NodeLayout) Torus() Torus {
	return Torus{Width: l.X, Height: l.Y}
}

// PlayerSpawns returns the capital sites in declaration order.
func (l NodeLayout) PlayerSpawns() []Spawn {
	return l.spawnsOf(SpawnPlayer)
}

// ThroneSpawns returns the throne sites in declaration order.
func (l NodeLayout) ThroneSpawns() []Spawn {
	return l.spawnsOf(SpawnThrone)
}

func (l NodeLayout) spawnsOf(kind SpawnKind) []Spawn {
	var out []Spawn
	for _, s := range l.Spawns {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// IsPlayerSpawn reports whether c (wrapped) is a capital site.
func (l NodeLayout) IsPlayerSpawn(c Coord) bool {
	t := l.Torus()
	w := t.Wrap(c)
	for _, s := range l.Spawns {
		if s.Kind == SpawnPlayer && t.Wrap(s.Coord()) == w {
			return true
		}
	}
	return false
}

// NewGridLayout derives a lattice for the given player count and spreads
// one capital site and one throne site per player over it.
func NewGridLayout(players, provsPerPlayer int) NodeLayout {
	if players < 1 {
		players = 1
	}
	if provsPerPlayer < 4 {
		provsPerPlayer = 4
	}
	total := players * provsPerPlayer

	// Aim for a 4:3 lattice.
	height := int(math.Round(math.Sqrt(float64(total) * 3.0 / 4.0)))
	if height < 2 {
		height = 2
	}
	width := (total + height - 1) / height
	if width < 2 {
		width = 2
	}

	cols := int(math.Ceil(math.Sqrt(float64(players) * float64(width) / float64(height))))
	if cols < 1 {
		cols = 1
	}
	rows := (players + cols - 1) / cols
	sx := float64(width) / float64(cols)
	sy := float64(height) / float64(rows)

	t := Torus{Width: width, Height: height}
	used := make(map[Coord]bool)
	layout := NodeLayout{X: width, Y: height, ProvsPerPlayer: provsPerPlayer}

	place := func(c Coord, kind SpawnKind) {
		c = t.Wrap(c)
		for tries := 0; used[c] && tries < width*height; tries++ {
			c = t.Right(c)
			if tries%width == width-1 {
				c = t.Up(c)
			}
		}
		if used[c] {
			return
		}
		used[c] = true
		layout.Spawns = append(layout.Spawns, Spawn{X: c.X, Y: c.Y, Kind: kind})
	}

	for i := 0; i < players; i++ {
		col, row := i%cols, i/cols
		// Odd rows are staggered by half a cell so capitals do not line up.
		fx := float64(col)*sx + sx/2 + float64(row%2)*sx/2
		fy := float64(row)*sy + sy/2
		place(Coord{X: int(fx), Y: int(fy)}, SpawnPlayer)
	}
	for i := 0; i < players; i++ {
		col, row := i%cols, i/cols
		fx := float64(col)*sx + float64(row%2)*sx/2
		fy := float64(row) * sy
		place(Coord{X: int(fx), Y: int(fy)}, SpawnThrone)
	}
	return layout
}
