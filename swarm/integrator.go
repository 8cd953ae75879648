package swarm

import (
	"math"

	"github.com/olivierh59500/holder-aquarium-go/vmath"
)

// Integrator advances one agent by dt. It holds only immutable parameters, so a single
// Integrator can step any number of agents.
type Integrator struct {
	containment Containment
	wander      Wander
	cohesion    float64
	minSpeed    float64
	maxSpeed    float64
	wobble      float64
	phaseRate   float64
	turnRate    float64
	maxDt       float64
}

// NewIntegrator builds an Integrator from a validated config
func NewIntegrator(cfg Config) (*Integrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := cfg.Containment()
	if err != nil {
		return nil, err
	}
	return &Integrator{
		containment: c,
		wander:      NewWander(cfg.Wander),
		cohesion:    cfg.Cohesion.Strength,
		minSpeed:    cfg.MinSpeed,
		maxSpeed:    cfg.MaxSpeed,
		wobble:      cfg.WobbleAmplitude,
		phaseRate:   cfg.PhaseRate,
		turnRate:    cfg.TurnRate,
		maxDt:       cfg.MaxDt,
	}, nil
}

// Containment returns the policy the integrator bounces agents with
func (in *Integrator) Containment() Containment {
	return in.containment
}

// Step advances a by dt seconds. Negative and non-finite dt count as zero.
// On return a.Position is inside the containment region and |a.Velocity| is in [minSpeed, maxSpeed].
func (in *Integrator) Step(a *Agent, dt float64) {
	dt = sanitizeDt(dt, in.maxDt)

	a.Position = vmath.V3AddScaled(a.Position, a.Velocity, dt)
	if !vmath.V3IsFinite(a.Position) {
		a.Position = in.containment.Clamp(vmath.Vec3{})
	}
	a.Position, a.Velocity = in.containment.Contain(a.Position, a.Velocity)

	a.Velocity = vmath.V3Add(a.Velocity, in.wander.Perturb(a.Position, a.Seed))

	if a.HasAnchor && in.cohesion > 0 {
		pull := vmath.V3Sub(a.Anchor, a.Position)
		a.Velocity = vmath.V3AddScaled(a.Velocity, pull, in.cohesion*dt)
	}

	a.Velocity = in.clampSpeed(a.Velocity, a.Orientation)

	a.Phase += dt * in.phaseRate

	target := vmath.QuatFromUnitVectors(vmath.Forward, vmath.V3Normalize(a.Velocity))
	if vmath.QuatDot(a.Orientation, a.Orientation) == 0 || !vmath.QuatIsFinite(a.Orientation) {
		a.Orientation = target
	} else {
		a.Orientation = vmath.QuatNormalize(vmath.QuatSlerp(a.Orientation, target, math.Min(1, dt*in.turnRate)))
	}

	a.Scale = in.scaleAt(a.BaseScale, a.Phase)
}

// clampSpeed bounds |v|. A zero or non-finite velocity has no usable direction and is
// replaced by the current heading at minimum speed.
func (in *Integrator) clampSpeed(v vmath.Vec3, heading vmath.Quat) vmath.Vec3 {
	if !vmath.V3IsFinite(v) || vmath.V3MagSq(v) == 0 {
		dir := vmath.Forward
		if vmath.QuatIsFinite(heading) {
			dir = vmath.V3Normalize(vmath.QuatRotate(heading, vmath.Forward))
		}
		if vmath.V3MagSq(dir) == 0 {
			dir = vmath.Forward
		}
		speed := in.minSpeed
		if speed == 0 {
			speed = in.maxSpeed
		}
		return vmath.V3Scale(dir, speed)
	}
	return vmath.V3ClampLength(v, in.minSpeed, in.maxSpeed)
}

func (in *Integrator) scaleAt(base, phase float64) float64 {
	return base * (1 + math.Sin(phase)*in.wobble)
}
