// Package climate provides a seamless temperature field over the toroidal
// lattice, used to band waste provinces into warmer and colder ones.
package climate

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/torus-map/internal/world"
)

// Config controls the temperature field.
type Config struct {
	Enabled   bool    `json:"enabled"`
	Frequency float64 `json:"frequency"` // Noise cycles across the lattice
	Octaves   int     `json:"octaves"`
	Band      float64 `json:"band"` // Share of the 0..1 range counted as warm (top) or cold (bottom)
}

// DefaultConfig returns a disabled field with usable parameters.
func DefaultConfig() Config {
	return Config{
		Enabled:   false,
		Frequency: 3.0,
		Octaves:   3,
		Band:      0.3,
	}
}

// Band classifies a temperature sample.
type Band int8

const (
	Cold Band = -1
	Mild Band = 0
	Warm Band = 1
)

// Field samples normalized temperature on a torus.
type Field struct {
	noise opensimplex.Noise
	torus world.Torus
	cfg   Config
}

// NewField builds a field for the torus from seed.
func NewField(seed int64, torus world.Torus, cfg Config) *Field {
	if cfg.Octaves < 1 {
		cfg.Octaves = 1
	}
	if cfg.Frequency <= 0 {
		cfg.Frequency = DefaultConfig().Frequency
	}
	return &Field{
		noise: opensimplex.NewNormalized(seed),
		torus: torus,
		cfg:   cfg,
	}
}

// Temperature returns a value in [0, 1] at c. Opposite lattice edges
// sample identical noise because each axis is mapped onto a circle in 4-D.
func (f *Field) Temperature(c world.Coord) float64 {
	c = f.torus.Wrap(c)
	theta := 2 * math.Pi * float64(c.X) / float64(f.torus.Width)
	phi := 2 * math.Pi * float64(c.Y) / float64(f.torus.Height)

	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	radius := f.cfg.Frequency / (2 * math.Pi)

	for i := 0; i < f.cfg.Octaves; i++ {
		total += f.noise.Eval4(
			radius*math.Cos(theta), radius*math.Sin(theta),
			radius*math.Cos(phi), radius*math.Sin(phi),
		) * amplitude
		maxVal += amplitude
		amplitude *= 0.5
		radius *= 2
	}
	return total / maxVal
}

// Classify returns the band of the temperature at c.
func (f *Field) Classify(c world.Coord) Band {
	t := f.Temperature(c)
	switch {
	case t >= 1-f.cfg.Band:
		return Warm
	case t <= f.cfg.Band:
		return Cold
	default:
		return Mild
	}
}
