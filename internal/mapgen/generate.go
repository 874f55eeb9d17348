package mapgen

import (
	"fmt"
	"time"

	"github.com/talgya/torus-map/internal/world"
)

// Result is a generated map plus what it took to build it.
type Result struct {
	Map          *world.Map
	Seed         int64
	Frequencies  Frequencies
	Warnings     []Warning
	CaveAttempts int
	Capitals     []*world.Node // Placement order, parallel to Input.Players
}

type stage struct {
	name string
	run  func(*Context) error
}

// pipeline is the fixed stage order. Every stage draws from the same
// stream, so reordering changes every map a seed produces.
var pipeline = []stage{
	{"grid", buildGrid},
	{"capitals", placeCapitals},
	{"cap-ring", assignCapRings},
	{"adjacency", linkAdjacency},
	{"water", allocateWater},
	{"terrain", allocateTerrain},
	{"connections", allocateConnections},
	{"thrones-caves", placeThronesAndCaves},
	{"cleanup", cleanupConnections},
}

// Generate builds one map. Configuration errors are returned before any
// stage runs; the same seed and input always give the same map.
func Generate(in Input) (*Result, error) {
	ctx, err := NewContext(in)
	if err != nil {
		return nil, err
	}
	return ctx.Run()
}

// Run executes every stage on ctx.
func (ctx *Context) Run() (*Result, error) {
	start := time.Now()
	for _, s := range pipeline {
		t := time.Now()
		if err := s.run(ctx); err != nil {
			return nil, fmt.Errorf("stage %s: %w", s.name, err)
		}
		ctx.Log.Debug("stage complete", "stage", s.name, "took", time.Since(t))
	}
	ctx.Log.Debug("map generated",
		"width", ctx.Map.Width,
		"height", ctx.Map.Height,
		"connections", ctx.Map.ConnectionCount(),
		"took", time.Since(start),
	)

	return &Result{
		Map:          ctx.Map,
		Seed:         ctx.seed,
		Frequencies:  ctx.Freq,
		Warnings:     ctx.warnings,
		CaveAttempts: ctx.caveAttempts,
		Capitals:     ctx.capitals,
	}, nil
}
