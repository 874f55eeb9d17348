package mapgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyedidia/generic/mapset"

	"github.com/talgya/torus-map/internal/world"
)

// runStages prepares a context and runs the pipeline up to and including
// the named stage.
func runStages(t *testing.T, in Input, last string) *Context {
	t.Helper()
	ctx, err := NewContext(in)
	require.NoError(t, err)
	for _, s := range pipeline {
		require.NoError(t, s.run(ctx), s.name)
		if s.name == last {
			return ctx
		}
	}
	t.Fatalf("unknown stage %q", last)
	return nil
}

// cellDiagonals reports which diagonals the cell with lower-left corner ll
// carries.
func cellDiagonals(m *world.Map, ll *world.Node) (main, anti bool) {
	lr := m.Get(m.Right(ll.Coord))
	ul := m.Get(m.Up(ll.Coord))
	ur := m.Get(m.Up(lr.Coord))
	return crossed(m, ll, ur), crossed(m, lr, ul)
}

func TestGridOneDiagonalPerCell(t *testing.T) {
	in := fourPlayerInput(21)
	ctx := runStages(t, in, "grid")
	m := ctx.Map

	// Each capital site leaves its two anti-diagonal cells open.
	open := mapset.New[int]()
	for _, ll := range ctx.deferred {
		open.Put(ll.Index())
	}
	require.Equal(t, 8, open.Size())
	assert.Equal(t, 3*m.NodeCount()-open.Size(), m.ConnectionCount())

	for _, ll := range m.Nodes {
		lr := m.Get(m.Right(ll.Coord))
		ul := m.Get(m.Up(ll.Coord))
		ur := m.Get(m.Up(lr.Coord))

		main, anti := cellDiagonals(m, ll)
		if open.Has(ll.Index()) {
			assert.False(t, main || anti, "open cell at %v has a diagonal", ll.Coord)
			assert.True(t, in.Layout.IsPlayerSpawn(lr.Coord) || in.Layout.IsPlayerSpawn(ul.Coord))
			continue
		}
		assert.True(t, main != anti, "cell at %v has %v/%v diagonals", ll.Coord, main, anti)

		if in.Layout.IsPlayerSpawn(ll.Coord) || in.Layout.IsPlayerSpawn(ur.Coord) {
			assert.True(t, anti, "cell at %v must avoid the capital diagonal", ll.Coord)
		}
	}

	origin, corner := m.NodeAt(0, 0), m.NodeAt(7, 5)
	assert.True(t, crossed(m, origin, corner))
	assert.True(t, origin.WrapCorner)
	assert.True(t, corner.WrapCorner)

	// The ring stage closes every open cell.
	require.NoError(t, placeCapitals(ctx))
	require.NoError(t, assignCapRings(ctx))
	assert.Empty(t, ctx.deferred)
	assert.Equal(t, 3*m.NodeCount(), m.ConnectionCount())
	for _, ll := range m.Nodes {
		main, anti := cellDiagonals(m, ll)
		assert.True(t, main != anti, "cell at %v has %v/%v diagonals", ll.Coord, main, anti)
	}
}

func TestLinkAdjacencyTriangles(t *testing.T) {
	ctx := runStages(t, fourPlayerInput(4), "adjacency")

	for _, c := range ctx.Map.Connections {
		for i, adj := range c.Adjacent {
			assert.True(t, c.SharesNode(adj))
			assert.NotSame(t, c, adj)
			if i > 0 {
				assert.Less(t, c.Adjacent[i-1].Index(), adj.Index())
			}
		}
		for _, tri := range c.Triangles {
			assert.True(t, containsConn(c.Adjacent, tri), "%s not adjacent to %s", tri, c)
		}
		if c.Diagonal {
			assert.GreaterOrEqual(t, len(c.Triangles), 4, "%s", c)
		}
	}
}

func TestCapRingAssignment(t *testing.T) {
	in := fourPlayerInput(12)
	ctx := runStages(t, in, "cap-ring")

	for _, capital := range ctx.Capitals() {
		var ring []*world.Node
		for _, n := range ctx.Map.Nodes {
			if n.RingOf == capital.Index() {
				ring = append(ring, n)
			}
		}
		assert.Len(t, ring, min(capital.Nation.RingSize(), len(capital.Connections)))

		entrances := 0
		for _, n := range ring {
			assert.True(t, n.AssignedTerrain)
			assert.True(t, n.HasTerrain(world.TerrainNoThrone))
			assert.NotNil(t, capital.ConnectionTo(n), "ring nodes border their capital")
			if n.ProvinceData.IsCaveEntrance {
				entrances++
			}
		}
		if capital.Nation.CaveEntranceInRing {
			assert.Equal(t, 1, entrances, capital.Nation.Name)
		} else {
			assert.Zero(t, entrances, capital.Nation.Name)
		}
	}
}

func TestTeamCapitalsCluster(t *testing.T) {
	in := fourPlayerInput(8)
	in.Players[0].Team = 1
	in.Players[1].Team = 2
	in.Players[2].Team = 1
	in.Players[3].Team = 2
	in.Flags.Teamplay = true
	ctx := runStages(t, in, "capitals")

	caps := ctx.Capitals()
	for i, c := range caps {
		assert.Equal(t, in.Players[i].Team, c.Team)
		assert.Same(t, in.Players[i].Nation, c.Nation)
	}
	// On this layout the closest pair of sites is three steps apart and
	// teammates always take one.
	tor := in.Layout.Torus()
	assert.Equal(t, 3, tor.Distance(caps[0].Coord, caps[2].Coord))
	assert.Equal(t, 3, tor.Distance(caps[1].Coord, caps[3].Coord))
}

func TestWaterCapitalsCluster(t *testing.T) {
	layout := world.NewLayout(12, 4, 12,
		world.Spawn{X: 0, Y: 0, Kind: world.SpawnPlayer},
		world.Spawn{X: 2, Y: 0, Kind: world.SpawnPlayer},
		world.Spawn{X: 6, Y: 2, Kind: world.SpawnPlayer},
		world.Spawn{X: 8, Y: 2, Kind: world.SpawnPlayer},
	)
	in := Input{
		Layout: layout,
		Players: []world.PlayerData{
			{Nation: world.NationByName("Saltdeep"), Team: 1},
			{Nation: world.NationByName("Ironvale"), Team: 2},
			{Nation: world.NationByName("Tide Isles"), Team: 3},
			{Nation: world.NationByName("Thornwood"), Team: 4},
		},
		Flags:  Flags{ClusterWater: true, ClusterIslands: true},
		Logger: quietLogger(),
	}
	for _, seed := range []int64{1, 2, 3, 4, 5} {
		in.Seed = seed
		ctx := runStages(t, in, "capitals")
		caps := ctx.Capitals()
		assert.Equal(t, 2, layout.Torus().Distance(caps[0].Coord, caps[2].Coord), "seed %d", seed)
	}
}

func TestClosestAndBestFree(t *testing.T) {
	tor := world.Torus{Width: 10, Height: 10}
	spawns := []world.Spawn{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 9, Y: 9}, {X: 2, Y: 0}}
	taken := mapset.New[int]()

	assert.Equal(t, 0, closestFree(tor, spawns, taken, world.Coord{X: 0, Y: 0}))
	taken.Put(0)
	assert.Equal(t, 2, closestFree(tor, spawns, taken, world.Coord{X: 0, Y: 0}), "wraps to (9,9)")

	placed := []world.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}}
	assert.Equal(t, 3, bestFree(tor, spawns, taken, placed))
}

func TestWaterScenario(t *testing.T) {
	settings := SmallTestSettings()
	settings.Lake = Range{}
	layout := world.NewLayout(6, 6, 18,
		world.Spawn{X: 1, Y: 1, Kind: world.SpawnPlayer},
		world.Spawn{X: 4, Y: 4, Kind: world.SpawnPlayer},
	)
	saltdeep := world.NationByName("Saltdeep")
	in := Input{
		Layout: layout,
		Players: []world.PlayerData{
			{Nation: saltdeep, Team: 1},
			{Nation: world.NationByName("Ironvale"), Team: 2},
		},
		Settings: &settings,
		Logger:   quietLogger(),
	}
	target := 9 - saltdeep.RingSize()

	for _, seed := range []int64{1, 2, 3, 4, 5, 6} {
		in.Seed = seed
		ctx := runStages(t, in, "water")
		water, land := ctx.Capitals()[0], ctx.Capitals()[1]

		grown := 0
		for _, n := range ctx.Map.Nodes {
			if !n.IsWater() || n.IsCapital() || n.CapRing {
				continue
			}
			grown++
			for _, o := range n.Neighbors() {
				assert.NotSame(t, land, o, "seed %d: sea at %v borders the enemy capital", seed, n.Coord)
				assert.False(t, o.CapRing && o.RingOf == land.Index(), "seed %d: sea at %v borders the enemy ring", seed, n.Coord)
			}
		}
		assert.LessOrEqual(t, grown, target, "seed %d", seed)
		assert.True(t, water.IsWater())
		assert.False(t, land.IsWater())
	}
}

func TestPromoteDeepSea(t *testing.T) {
	ctx := runStages(t, fourPlayerInput(2), "adjacency")
	m := ctx.Map
	center := m.NodeAt(3, 3)
	for _, n := range append(center.Neighbors(), center) {
		if !n.IsCapital() {
			n.SetTerrain(world.Terrains(world.TerrainSea))
		}
	}
	require.Equal(t, len(center.Connections), center.CountNeighbors((*world.Node).IsWater))

	promoteDeepSea(ctx)
	assert.True(t, center.HasTerrain(world.TerrainDeepSea))
	for _, n := range center.Neighbors() {
		if n.CountNeighbors((*world.Node).IsWater) < len(n.Connections) {
			assert.False(t, n.Terrain().HasAny(world.TerrainDeepSea), "%s", n)
		}
	}
}

func TestPlaceLakes(t *testing.T) {
	in := fourPlayerInput(17)
	in.Settings.Lake = Range{Min: 0.1, Max: 0.1}
	ctx := runStages(t, in, "water")

	lakes := 0
	for _, n := range ctx.Map.Nodes {
		if !isLake(n) {
			continue
		}
		lakes++
		assert.False(t, n.CapRing)
		assert.False(t, n.IsCapital())
		assert.Zero(t, n.CountNeighbors(isLake), "%s touches another lake", n)
	}
	assert.Positive(t, lakes)
}

func TestTerrainQuota(t *testing.T) {
	assert.Equal(t, 0, quota(0, 40))
	assert.Equal(t, 0, quota(0.01, 40))
	assert.Equal(t, 1, quota(0.02, 10), "any real frequency gets one")
	assert.Equal(t, 6, quota(0.15, 40))
	assert.Equal(t, 0, quota(0.5, 0))
}

func TestAllocateTerrainKeepsAssigned(t *testing.T) {
	ctx := runStages(t, fourPlayerInput(3), "water")
	before := make(map[int]world.TerrainSet)
	for _, n := range ctx.Map.Nodes {
		if n.AssignedTerrain {
			before[n.Index()] = n.Terrain()
		}
	}
	require.NoError(t, allocateTerrain(ctx))

	sizes := world.TerrainLarge | world.TerrainSmall
	for i, t0 := range before {
		n := ctx.Map.Nodes[i]
		assert.Equal(t, t0.Without(sizes), n.Terrain().Without(sizes), "%s was reassigned", n)
		if n.IsCapital() {
			assert.Equal(t, t0, n.Terrain())
		}
	}
}

func TestTerrainFallbackDealsEachCategory(t *testing.T) {
	ctx := runStages(t, fourPlayerInput(3), "water")
	var free []*world.Node
	for _, n := range ctx.Map.Nodes {
		if !n.IsWater() && !n.AssignedTerrain {
			free = append(free, n)
		}
	}
	require.Greater(t, len(free), 3)
	for _, n := range free[3:] {
		n.AssignedTerrain = true
	}
	require.NoError(t, allocateTerrain(ctx))

	biomeFlags := world.TerrainSwamp | world.TerrainWaste | world.TerrainHighland | world.TerrainMountains
	for i, n := range free[:3] {
		assert.True(t, n.Terrain().HasAny(biomeFlags), "node %d: %s", i, n)
	}
}

func TestBalanceMovesTowardTarget(t *testing.T) {
	tests := []struct {
		name   string
		a, b   int // Placed counts
		qa, qb int
	}{
		{"over", 6, 1, 2, 5},
		{"under", 1, 6, 5, 2},
		{"even", 3, 3, 4, 4},
		{"exact", 2, 4, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := runStages(t, fourPlayerInput(9), "adjacency")
			conns := ctx.Map.Connections
			for i := 0; i < tt.a; i++ {
				conns[i].Type = world.ConnRiver
			}
			for i := tt.a; i < tt.a+tt.b; i++ {
				conns[i].Type = world.ConnShallowRiver
			}

			total := tt.a + tt.b
			target := int(float64(total)*float64(tt.qa)/float64(tt.qa+tt.qb) + 0.5)
			before := abs(tt.a - target)

			balance(ctx, world.ConnRiver, world.ConnShallowRiver, tt.qa, tt.qb)

			rivers, shallow := 0, 0
			for _, c := range conns {
				switch c.Type {
				case world.ConnRiver:
					rivers++
				case world.ConnShallowRiver:
					shallow++
				}
			}
			assert.Equal(t, total, rivers+shallow)
			assert.LessOrEqual(t, abs(rivers-target), before)
			if max(tt.qa, tt.qb) >= before {
				assert.Equal(t, target, rivers)
			}
		})
	}
}

func TestRejectBorder(t *testing.T) {
	ctx := runStages(t, fourPlayerInput(14), "adjacency")
	var c *world.Connection
	for _, cand := range ctx.Map.Connections {
		if !cand.TouchesCapital() && !cand.TouchesWater() && len(cand.Triangles) > 0 &&
			cand.A.StandardConnections() > minStandardBorders && cand.B.StandardConnections() > minStandardBorders {
			c = cand
			break
		}
	}
	require.NotNil(t, c)

	assert.False(t, rejectBorder(c, world.ConnectionType.IsCliff))

	c.Triangles[0].Type = world.ConnMountain
	assert.True(t, rejectBorder(c, world.ConnectionType.IsCliff), "rivers avoid cliffs")
	assert.False(t, rejectBorder(c, world.ConnectionType.IsRiver))
	assert.True(t, rejectBorder(c, anyFeature), "roads avoid any feature")
	c.Triangles[0].Type = world.ConnStandard

	c.Type = world.ConnRoad
	assert.True(t, rejectBorder(c, anyFeature), "already featured")
}

func TestPlaceThronesDrainsWater(t *testing.T) {
	layout := world.NewLayout(8, 6, 12,
		world.Spawn{X: 1, Y: 1, Kind: world.SpawnPlayer},
		world.Spawn{X: 5, Y: 1, Kind: world.SpawnPlayer},
		world.Spawn{X: 0, Y: 4, Kind: world.SpawnThrone},
		world.Spawn{X: 2, Y: 4, Kind: world.SpawnThrone},
		world.Spawn{X: 4, Y: 4, Kind: world.SpawnThrone},
		world.Spawn{X: 6, Y: 4, Kind: world.SpawnThrone},
	)
	in := Input{
		Layout: layout,
		Players: []world.PlayerData{
			{Nation: world.NationByName("Ironvale"), Team: 1},
			{Nation: world.NationByName("Thornwood"), Team: 2},
		},
		Logger: quietLogger(),
	}
	for _, seed := range []int64{1, 2, 3, 4, 5, 6, 7, 8} {
		in.Seed = seed
		ctx := runStages(t, in, "capitals")
		for _, s := range layout.ThroneSpawns() {
			ctx.Map.Get(s.Coord()).SetTerrain(world.Terrains(world.TerrainSea))
		}
		placeThrones(ctx)

		drained := 0
		for _, s := range layout.ThroneSpawns() {
			n := ctx.Map.Get(s.Coord())
			assert.True(t, n.HasTerrain(world.TerrainThrone))
			if n.HasTerrain(world.TerrainSwamp) {
				drained++
				assert.False(t, n.IsWater())
			}
		}
		// The counter starts between -2 and 0 and there are no water nations.
		assert.GreaterOrEqual(t, drained, 2, "seed %d", seed)
		assert.LessOrEqual(t, drained, 4, "seed %d", seed)
	}
}

func TestCaveEntrancesOnSecondRing(t *testing.T) {
	in := fourPlayerInput(44)
	in.Settings.NumCaveEntrancesPerPlayer = 1
	ctx := runStages(t, in, "connections")
	placeCaveEntrances(ctx)

	for _, n := range ctx.Map.Nodes {
		if !n.ProvinceData.IsCaveEntrance || n.CapRing {
			continue
		}
		assert.False(t, n.IsWater())
		assert.False(t, n.IsCapital())
		secondRing := false
		for _, capital := range ctx.Capitals() {
			if capital.ConnectionTo(n) != nil {
				continue
			}
			for _, o := range capital.Neighbors() {
				if o.ConnectionTo(n) != nil {
					secondRing = true
				}
			}
		}
		assert.True(t, secondRing, "%s is not on a second ring", n)
	}
}

func TestSealPockets(t *testing.T) {
	ctx := runStages(t, fourPlayerInput(6), "adjacency")
	m := ctx.Map
	for _, n := range m.Nodes {
		n.ProvinceData.IsCaveWall = true
	}
	a, b := m.NodeAt(3, 3), m.NodeAt(3, 4)
	require.NotNil(t, a.ConnectionTo(b))
	a.ProvinceData.IsCaveWall = false
	a.ProvinceData.IsCaveEntrance = true
	b.ProvinceData.IsCaveWall = false

	pocket := m.NodeAt(7, 0)
	pocket.ProvinceData.IsCaveWall = false

	entrances := []*world.Node{a}
	assert.False(t, validateCaves(m, entrances), "one entrance is not enough")

	b.ProvinceData.IsCaveEntrance = true
	entrances = append(entrances, b)
	assert.True(t, validateCaves(m, entrances))

	assert.Equal(t, 1, sealPockets(m, entrances))
	assert.True(t, pocket.ProvinceData.IsCaveWall)
	assert.False(t, a.ProvinceData.IsCaveWall)
}

func TestCleanupResetsBorders(t *testing.T) {
	ctx := runStages(t, fourPlayerInput(19), "adjacency")
	for _, c := range ctx.Map.Connections {
		c.Type = world.ConnRiver
	}
	ctx.Map.NodeAt(3, 3).SetTerrain(world.Terrains(world.TerrainSea))
	require.NoError(t, cleanupConnections(ctx))

	for _, c := range ctx.Map.Connections {
		if c.TouchesWater() || c.TouchesCapital() {
			assert.Equal(t, world.ConnStandard, c.Type, "%s", c)
		} else {
			assert.Equal(t, world.ConnRiver, c.Type, "%s", c)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
