package swarm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/olivierh59500/holder-aquarium-go/identity"
	"github.com/olivierh59500/holder-aquarium-go/vmath"
)

// ErrInvalidConfig is wrapped by every Config validation failure
var ErrInvalidConfig = errors.New("invalid swarm config")

// BoundsKind selects the containment policy
type BoundsKind string

const (
	BoundsBox    BoundsKind = "box"
	BoundsSphere BoundsKind = "sphere"
)

// WanderKind selects the wander perturbation
type WanderKind string

const (
	WanderSine   WanderKind = "sine"
	WanderPerlin WanderKind = "perlin"
)

// ParseWanderKind maps a flag value to a WanderKind; empty selects WanderSine
func ParseWanderKind(s string) (WanderKind, error) {
	switch k := WanderKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return WanderSine, nil
	case WanderSine, WanderPerlin:
		return k, nil
	default:
		return "", invalid("unknown wander kind %q (want %s or %s)", s, WanderSine, WanderPerlin)
	}
}

// WithWander returns a copy of c using the given wander kind
func (c Config) WithWander(kind WanderKind) Config {
	out := c.Clone()
	out.Wander.Kind = kind
	return out
}

// BoxBounds are axis-aligned half-extents around the origin.
// The legal region is |x| <= X, -YDown <= y <= YUp, |z| <= Z.
type BoxBounds struct {
	X     float64 `json:"x"`
	YUp   float64 `json:"yUp"`
	YDown float64 `json:"yDown"`
	Z     float64 `json:"z"`
}

// SphereBounds is a bowl of Radius around Center.
// Agents are kept within Radius*Margin and lose (1-Damping) of their speed per bounce.
type SphereBounds struct {
	Center  vmath.Vec3 `json:"center"`
	Radius  float64    `json:"radius"`
	Margin  float64    `json:"margin"`
	Damping float64    `json:"damping"`
}

// Bounds holds the configuration of exactly one containment policy, chosen by Kind
type Bounds struct {
	Kind   BoundsKind    `json:"kind"`
	Box    *BoxBounds    `json:"box,omitempty"`
	Sphere *SphereBounds `json:"sphere,omitempty"`
}

// WanderConfig tunes the per-tick velocity perturbation.
// Gain applies to the horizontal axes, VerticalGain to Y.
type WanderConfig struct {
	Kind              WanderKind `json:"kind"`
	Gain              float64    `json:"gain"`
	VerticalGain      float64    `json:"verticalGain"`
	Frequency         float64    `json:"frequency"`
	VerticalFrequency float64    `json:"verticalFrequency"`
	SeedScale         float64    `json:"seedScale"`
	NoiseSeed         int64      `json:"noiseSeed,omitempty"`
}

// CohesionConfig pulls each agent toward Anchors[seed mod len(Anchors)] with
// acceleration Strength*(anchor-position). Spread > 0 spawns agents within Spread of their anchor.
type CohesionConfig struct {
	Strength float64      `json:"strength"`
	Anchors  []vmath.Vec3 `json:"anchors,omitempty"`
	Spread   float64      `json:"spread,omitempty"`
}

// Config is fixed for the lifetime of a Swarm
type Config struct {
	Bounds           Bounds         `json:"bounds"`
	SeparationRadius float64        `json:"separationRadius"`
	SeparationForce  float64        `json:"separationForce"`
	MinSpeed         float64        `json:"minSpeed"`
	MaxSpeed         float64        `json:"maxSpeed"`
	WobbleAmplitude  float64        `json:"wobbleAmplitude"`
	PhaseRate        float64        `json:"phaseRate"`
	TurnRate         float64        `json:"turnRate"`
	MaxDt            float64        `json:"maxDt"`
	InitialSpeed     vmath.Vec3     `json:"initialSpeed"`
	VariantCount     int            `json:"variantCount"`
	Wander           WanderConfig   `json:"wander"`
	Cohesion         CohesionConfig `json:"cohesion"`
}

// BowlConfig is the sphere-bounded bowl tuned for ~300 fish in a radius-3 bowl
func BowlConfig() Config {
	center := vmath.Vec3{X: 0, Y: 4.3, Z: 0}
	return Config{
		Bounds: Bounds{
			Kind:   BoundsSphere,
			Sphere: &SphereBounds{Center: center, Radius: 3.0, Margin: 0.995, Damping: 0.95},
		},
		SeparationRadius: 0.34,
		SeparationForce:  0.02,
		MinSpeed:         0.2,
		MaxSpeed:         1.1,
		WobbleAmplitude:  0.02,
		PhaseRate:        7.0,
		TurnRate:         3.0,
		MaxDt:            0.1,
		InitialSpeed:     vmath.Vec3{X: 0.8, Y: 0.4, Z: 0.8},
		VariantCount:     identity.VariantCount,
		Wander: WanderConfig{
			Kind:              WanderSine,
			Gain:              0.006,
			VerticalGain:      0.003,
			Frequency:         0.6,
			VerticalFrequency: 0.25,
			SeedScale:         0.001,
		},
		Cohesion: CohesionConfig{
			Strength: 0.007,
			Anchors:  []vmath.Vec3{center},
		},
	}
}

// TankConfig is the box-bounded open tank
func TankConfig() Config {
	return Config{
		Bounds: Bounds{
			Kind: BoundsBox,
			Box:  &BoxBounds{X: 7.5, YUp: 3.0, YDown: 2.0, Z: 5.0},
		},
		SeparationRadius: 0.6,
		SeparationForce:  0.02,
		MinSpeed:         0.2,
		MaxSpeed:         1.0,
		WobbleAmplitude:  0.035,
		PhaseRate:        6.0,
		TurnRate:         2.5,
		MaxDt:            0.1,
		InitialSpeed:     vmath.Vec3{X: 0.6, Y: 0.2, Z: 0.6},
		VariantCount:     identity.VariantCount,
		Wander: WanderConfig{
			Kind:              WanderSine,
			Gain:              0.005,
			VerticalGain:      0.002,
			Frequency:         0.5,
			VerticalFrequency: 0.2,
			SeedScale:         0.001,
		},
	}
}

// DefaultConfig is BowlConfig
func DefaultConfig() Config {
	return BowlConfig()
}

// Clone returns a copy sharing no mutable state with c
func (c Config) Clone() Config {
	out := c
	if c.Bounds.Box != nil {
		b := *c.Bounds.Box
		out.Bounds.Box = &b
	}
	if c.Bounds.Sphere != nil {
		s := *c.Bounds.Sphere
		out.Bounds.Sphere = &s
	}
	if c.Cohesion.Anchors != nil {
		out.Cohesion.Anchors = append([]vmath.Vec3(nil), c.Cohesion.Anchors...)
	}
	return out
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if !vmath.IsFinite(v) {
			return false
		}
	}
	return true
}

// Validate reports the first problem with c, wrapping ErrInvalidConfig
func (c Config) Validate() error {
	if !finite(c.SeparationRadius, c.SeparationForce, c.MinSpeed, c.MaxSpeed,
		c.WobbleAmplitude, c.PhaseRate, c.TurnRate, c.MaxDt) ||
		!vmath.V3IsFinite(c.InitialSpeed) {
		return invalid("non-finite parameter")
	}
	if c.SeparationRadius < 0 || c.SeparationForce < 0 {
		return invalid("separation radius %g and force %g must be >= 0", c.SeparationRadius, c.SeparationForce)
	}
	if c.MinSpeed < 0 || c.MaxSpeed <= 0 || c.MinSpeed > c.MaxSpeed {
		return invalid("speed range [%g, %g]", c.MinSpeed, c.MaxSpeed)
	}
	if c.WobbleAmplitude < 0 || c.WobbleAmplitude >= 1 {
		return invalid("wobble amplitude %g outside [0, 1)", c.WobbleAmplitude)
	}
	if c.PhaseRate < 0 {
		return invalid("phase rate %g < 0", c.PhaseRate)
	}
	if c.TurnRate <= 0 {
		return invalid("turn rate %g <= 0", c.TurnRate)
	}
	if c.MaxDt < 0 {
		return invalid("max dt %g < 0", c.MaxDt)
	}
	if c.VariantCount < 0 {
		return invalid("variant count %d < 0", c.VariantCount)
	}
	if err := c.Bounds.validate(); err != nil {
		return err
	}
	if err := c.Wander.validate(); err != nil {
		return err
	}
	return c.Cohesion.validate()
}

func (b Bounds) validate() error {
	switch b.Kind {
	case BoundsBox:
		if b.Box == nil {
			return invalid("box bounds missing")
		}
		x := b.Box
		if !finite(x.X, x.YUp, x.YDown, x.Z) {
			return invalid("non-finite box bounds")
		}
		if x.X <= 0 || x.Z <= 0 || x.YUp+x.YDown <= 0 {
			return invalid("box bounds %+v enclose no volume", *x)
		}
	case BoundsSphere:
		if b.Sphere == nil {
			return invalid("sphere bounds missing")
		}
		s := b.Sphere
		if !vmath.V3IsFinite(s.Center) || !finite(s.Radius, s.Margin, s.Damping) {
			return invalid("non-finite sphere bounds")
		}
		if s.Radius <= 0 {
			return invalid("sphere radius %g <= 0", s.Radius)
		}
		if s.Margin <= 0 || s.Margin > 1 {
			return invalid("sphere margin %g outside (0, 1]", s.Margin)
		}
		if s.Damping < 0 || s.Damping > 1 {
			return invalid("sphere damping %g outside [0, 1]", s.Damping)
		}
	default:
		return invalid("unknown bounds kind %q", b.Kind)
	}
	return nil
}

func (w WanderConfig) validate() error {
	switch w.Kind {
	case WanderSine, WanderPerlin, "":
	default:
		return invalid("unknown wander kind %q", w.Kind)
	}
	if !finite(w.Gain, w.VerticalGain, w.Frequency, w.VerticalFrequency, w.SeedScale) {
		return invalid("non-finite wander parameter")
	}
	if w.Gain < 0 || w.VerticalGain < 0 {
		return invalid("wander gains must be >= 0")
	}
	return nil
}

func (c CohesionConfig) validate() error {
	if !finite(c.Strength, c.Spread) || c.Strength < 0 || c.Spread < 0 {
		return invalid("cohesion strength %g and spread %g must be finite and >= 0", c.Strength, c.Spread)
	}
	for _, a := range c.Anchors {
		if !vmath.V3IsFinite(a) {
			return invalid("non-finite cohesion anchor")
		}
	}
	return nil
}

// Containment builds the policy selected by c.Bounds
func (c Config) Containment() (Containment, error) {
	if err := c.Bounds.validate(); err != nil {
		return nil, err
	}
	if c.Bounds.Kind == BoundsBox {
		return Box{Bounds: *c.Bounds.Box}, nil
	}
	return Sphere{Bounds: *c.Bounds.Sphere}, nil
}

// LoadConfig reads a JSON config from path and validates it
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as indented JSON
func SaveConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// sanitizeDt maps negative and non-finite dt to zero and caps it at maxDt when maxDt > 0
func sanitizeDt(dt, maxDt float64) float64 {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return 0
	}
	if maxDt > 0 && dt > maxDt {
		return maxDt
	}
	return dt
}
