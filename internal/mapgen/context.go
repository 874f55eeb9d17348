// Package mapgen generates a toroidal province graph: grid topology,
// capitals and their rings, water, terrain, border features and the
// underworld cave network.
package mapgen

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/torus-map/internal/climate"
	"github.com/talgya/torus-map/internal/entropy"
	"github.com/talgya/torus-map/internal/world"
)

// Configuration errors. Generate returns them before any stage runs.
var (
	ErrEmptyLayout        = errors.New("mapgen: layout has no cells")
	ErrLayoutTooSmall     = errors.New("mapgen: layout must be at least 2x2")
	ErrNoPlayers          = errors.New("mapgen: no players")
	ErrInsufficientSpawns = errors.New("mapgen: not enough player spawns")
	ErrBadSpawn           = errors.New("mapgen: invalid spawn")
	ErrBadNation          = errors.New("mapgen: invalid nation")
	ErrBadSettings        = errors.New("mapgen: invalid settings")
)

// Flags select placement strategies and start handling.
type Flags struct {
	Teamplay       bool `json:"teamplay"`
	ClusterWater   bool `json:"cluster_water"`
	ClusterIslands bool `json:"cluster_islands"`
	NaturalStarts  bool `json:"natural_starts"`
}

// Input is everything one generation needs.
type Input struct {
	Layout   world.NodeLayout
	Players  []world.PlayerData
	Settings *Settings // nil means DefaultSettings
	Flags    Flags
	Seed     int64 // 0 draws a fresh seed
	Logger   *slog.Logger
}

// Warning is a non-fatal problem recorded during generation.
type Warning struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return w.Stage + ": " + w.Message
}

// Context owns all state of one generation call. Stages read and mutate it
// in pipeline order; nothing is shared between calls.
type Context struct {
	Map      *world.Map
	Layout   world.NodeLayout
	Players  []world.PlayerData
	Settings Settings
	Freq     Frequencies
	Flags    Flags
	Log      *slog.Logger

	rng     *rand.Rand
	seed    int64
	climate *climate.Field

	capitals     []*world.Node // Placement order, parallel to Players
	deferred     []*world.Node // Lower-left corners of cells left without a diagonal
	warnings     []Warning
	caveAttempts int
}

// NewContext validates the input and prepares a context. Frequencies are
// rolled here, so they are the first draws of the stream.
func NewContext(in Input) (*Context, error) {
	settings := DefaultSettings()
	if in.Settings != nil {
		settings = *in.Settings
	}
	if err := validate(in, settings); err != nil {
		return nil, err
	}

	logger := in.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rng, seed := entropy.New(in.Seed)
	ctx := &Context{
		Layout:   in.Layout,
		Players:  in.Players,
		Settings: settings,
		Flags:    in.Flags,
		Log:      logger.With("seed", seed),
		rng:      rng,
		seed:     seed,
	}
	ctx.Freq = settings.Roll(rng)
	if settings.Climate.Enabled {
		ctx.climate = climate.NewField(seed+1, in.Layout.Torus(), settings.Climate)
	}
	return ctx, nil
}

func validate(in Input, settings Settings) error {
	l := in.Layout
	if l.X <= 0 || l.Y <= 0 {
		return ErrEmptyLayout
	}
	if l.X < 2 || l.Y < 2 {
		return fmt.Errorf("%w: got %dx%d", ErrLayoutTooSmall, l.X, l.Y)
	}
	if len(in.Players) == 0 {
		return ErrNoPlayers
	}

	seen := make(map[world.Coord]bool, len(l.Spawns))
	for _, s := range l.Spawns {
		if s.X < 0 || s.X >= l.X || s.Y < 0 || s.Y >= l.Y {
			return fmt.Errorf("%w: %s spawn at (%d,%d) outside %dx%d", ErrBadSpawn, s.Kind, s.X, s.Y, l.X, l.Y)
		}
		if seen[s.Coord()] {
			return fmt.Errorf("%w: duplicate spawn at (%d,%d)", ErrBadSpawn, s.X, s.Y)
		}
		seen[s.Coord()] = true
	}
	if spawns := len(l.PlayerSpawns()); spawns < len(in.Players) {
		return fmt.Errorf("%w: %d players, %d spawns", ErrInsufficientSpawns, len(in.Players), spawns)
	}

	for i, p := range in.Players {
		if p.Nation == nil {
			return fmt.Errorf("%w: player %d has no nation", ErrBadNation, i)
		}
		if p.Nation.WaterPercentage < 0 || p.Nation.WaterPercentage > 1 {
			return fmt.Errorf("%w: %s water percentage %g", ErrBadNation, p.Nation.Name, p.Nation.WaterPercentage)
		}
	}
	return settings.Validate()
}

// Seed returns the seed the stream was built from.
func (ctx *Context) Seed() int64 {
	return ctx.seed
}

// Capitals returns capital nodes in placement order.
func (ctx *Context) Capitals() []*world.Node {
	return ctx.capitals
}

// Warnings returns the non-fatal problems recorded so far.
func (ctx *Context) Warnings() []Warning {
	return ctx.warnings
}

func (ctx *Context) warn(stage, msg string, args ...any) {
	ctx.warnings = append(ctx.warnings, Warning{Stage: stage, Message: msg})
	ctx.Log.Warn(msg, append([]any{"stage", stage}, args...)...)
}
