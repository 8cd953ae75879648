package swarm

import (
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/olivierh59500/holder-aquarium-go/vmath"
)

// Wander is the small per-tick velocity perturbation that keeps motion organic.
// Implementations depend only on position and seed.
type Wander interface {
	Perturb(pos vmath.Vec3, seed uint32) vmath.Vec3
}

// NewWander builds the wander selected by cfg.Kind, defaulting to SineWander
func NewWander(cfg WanderConfig) Wander {
	if cfg.Kind == WanderPerlin {
		return NewPerlinWander(cfg)
	}
	return SineWander{cfg: cfg}
}

// SineWander steers with sinusoids of the position phase-shifted by the seed
type SineWander struct {
	cfg WanderConfig
}

func (w SineWander) Perturb(pos vmath.Vec3, seed uint32) vmath.Vec3 {
	off := float64(seed) * w.cfg.SeedScale
	return vmath.Vec3{
		X: math.Sin((pos.Z+off)*w.cfg.Frequency) * w.cfg.Gain,
		Y: math.Sin((pos.X+pos.Z+off)*w.cfg.VerticalFrequency) * w.cfg.VerticalGain,
		Z: math.Cos((pos.X+off)*w.cfg.Frequency) * w.cfg.Gain,
	}
}

// Perlin noise shape: alpha, beta, octaves
const (
	perlinAlpha   = 2
	perlinBeta    = 2
	perlinOctaves = 3
)

// PerlinWander samples coherent noise at the agent's position; the seed picks a slice of the
// noise volume so neighbours with different seeds drift differently
type PerlinWander struct {
	cfg   WanderConfig
	noise *perlin.Perlin
}

func NewPerlinWander(cfg WanderConfig) *PerlinWander {
	return &PerlinWander{
		cfg:   cfg,
		noise: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, cfg.NoiseSeed),
	}
}

func (w *PerlinWander) Perturb(pos vmath.Vec3, seed uint32) vmath.Vec3 {
	// Bounded slice offset keeps noise coordinates well inside float precision
	slice := float64(seed%4096) * 0.37
	f := w.cfg.Frequency
	vf := w.cfg.VerticalFrequency
	return vmath.Vec3{
		X: w.noise.Noise3D(pos.Z*f, slice, 0.5) * w.cfg.Gain,
		Y: w.noise.Noise3D((pos.X+pos.Z)*vf, slice, 1.5) * w.cfg.VerticalGain,
		Z: w.noise.Noise3D(pos.X*f, slice, 2.5) * w.cfg.Gain,
	}
}
