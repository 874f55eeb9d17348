package mapgen

import "github.com/talgya/torus-map/internal/world"

// cleanupConnections resets every border that touches water or a capital.
func cleanupConnections(ctx *Context) error {
	reset := 0
	for _, c := range ctx.Map.Connections {
		if c.Type == world.ConnStandard {
			continue
		}
		if c.TouchesWater() || c.TouchesCapital() {
			c.Type = world.ConnStandard
			reset++
		}
	}
	ctx.Log.Debug("borders reset", "count", reset)
	return nil
}
