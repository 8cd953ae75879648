package swarm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivierh59500/holder-aquarium-go/vmath"
)

func TestStepAdvancesPhaseAndScale(t *testing.T) {
	cfg := BowlConfig()
	in := mustIntegrator(t, cfg)
	a := newTestAgent("Addr1", cfg.Bounds.Sphere.Center, vmath.Vec3{Z: 0.5})
	a.Phase = 1.0

	in.Step(&a, 0.05)

	assert.InDelta(t, 1.0+0.05*cfg.PhaseRate, a.Phase, tol)
	assert.InDelta(t, a.BaseScale*(1+math.Sin(a.Phase)*cfg.WobbleAmplitude), a.Scale, tol)
}

func TestStepMovesAlongVelocity(t *testing.T) {
	in := mustIntegrator(t, quietConfig())
	a := newTestAgent("Addr1", vmath.Vec3{}, vmath.Vec3{X: 0.5, Z: 0.5})

	in.Step(&a, 0.1)

	assert.InDelta(t, 0.05, a.Position.X, tol)
	assert.InDelta(t, 0.05, a.Position.Z, tol)
	assert.InDelta(t, 0.5, a.Velocity.X, tol)
}

func TestStepClampsSpeed(t *testing.T) {
	cfg := quietConfig()
	in := mustIntegrator(t, cfg)

	fast := newTestAgent("fast", vmath.Vec3{}, vmath.Vec3{X: 5})
	in.Step(&fast, 0.01)
	assert.InDelta(t, cfg.MaxSpeed, vmath.V3Mag(fast.Velocity), tol)

	slow := newTestAgent("slow", vmath.Vec3{}, vmath.Vec3{Y: 0.01})
	in.Step(&slow, 0.01)
	assert.InDelta(t, cfg.MinSpeed, vmath.V3Mag(slow.Velocity), tol)

	stopped := newTestAgent("stopped", vmath.Vec3{}, vmath.Vec3{})
	in.Step(&stopped, 0.01)
	assertSpeedInRange(t, cfg, stopped.Velocity)

	broken := newTestAgent("broken", vmath.Vec3{}, vmath.Vec3{X: math.NaN()})
	in.Step(&broken, 0.01)
	assert.True(t, vmath.V3IsFinite(broken.Position))
	assert.True(t, vmath.V3IsFinite(broken.Velocity))
	assertSpeedInRange(t, cfg, broken.Velocity)
}

func TestStepRejectsBadDt(t *testing.T) {
	cfg := BowlConfig()
	in := mustIntegrator(t, cfg)

	for _, dt := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -0.5} {
		a := newTestAgent("Addr1", cfg.Bounds.Sphere.Center, vmath.Vec3{X: 0.5})
		a.Phase = 2
		in.Step(&a, dt)

		assert.Equal(t, cfg.Bounds.Sphere.Center, a.Position)
		assert.Equal(t, 2.0, a.Phase)
		assert.True(t, vmath.V3IsFinite(a.Velocity))
		assert.True(t, vmath.QuatIsFinite(a.Orientation))
		assert.False(t, math.IsNaN(a.Scale))
	}
}

func TestStepCapsLargeDt(t *testing.T) {
	cfg := quietConfig()
	in := mustIntegrator(t, cfg)
	a := newTestAgent("Addr1", vmath.Vec3{}, vmath.Vec3{X: 0.5})

	in.Step(&a, 10)

	assert.InDelta(t, 0.5*cfg.MaxDt, a.Position.X, tol)
}

func TestStepTurnsGradually(t *testing.T) {
	in := mustIntegrator(t, quietConfig())
	a := newTestAgent("Addr1", vmath.Vec3{}, vmath.Vec3{X: 0.5})
	require.Equal(t, vmath.QuatIdentity, a.Orientation)

	in.Step(&a, 1.0/60)
	heading := vmath.QuatRotate(a.Orientation, vmath.Forward)
	toward := vmath.V3Dot(heading, vmath.Vec3{X: 1})
	assert.Greater(t, toward, 0.0)
	assert.Less(t, toward, 0.5)

	// Keeps converging on the direction of travel
	for i := 0; i < 600; i++ {
		in.Step(&a, 1.0/60)
	}
	heading = vmath.QuatRotate(a.Orientation, vmath.Forward)
	dir := vmath.V3Normalize(a.Velocity)
	assert.InDelta(t, 1.0, vmath.V3Dot(heading, dir), 1e-3)
}

func TestStepCohesionPullsTowardAnchor(t *testing.T) {
	cfg := quietConfig()
	cfg.Cohesion.Strength = 0.05
	in := mustIntegrator(t, cfg)

	a := newTestAgent("Addr1", vmath.Vec3{X: 5}, vmath.Vec3{Z: 0.5})
	a.Anchor = vmath.Vec3{}
	a.HasAnchor = true
	in.Step(&a, 0.1)
	assert.Less(t, a.Velocity.X, 0.0)

	// No anchor, no pull
	b := newTestAgent("Addr1", vmath.Vec3{X: 5}, vmath.Vec3{Z: 0.5})
	in.Step(&b, 0.1)
	assert.Equal(t, 0.0, b.Velocity.X)
}

func TestStepInvariantsOverTime(t *testing.T) {
	for name, cfg := range map[string]Config{"bowl": BowlConfig(), "tank": TankConfig()} {
		t.Run(name, func(t *testing.T) {
			in := mustIntegrator(t, cfg)
			a := newTestAgent(name, in.Containment().Clamp(vmath.Vec3{X: 1, Y: 4, Z: -1}), vmath.Vec3{X: 1, Y: 0.3})
			for i := 0; i < 5000; i++ {
				in.Step(&a, 1.0/30)
				require.True(t, in.Containment().Contains(a.Position), "tick %d: %+v", i, a.Position)
				assertSpeedInRange(t, cfg, a.Velocity)
			}
		})
	}
}

func TestWanderDeterministic(t *testing.T) {
	for _, kind := range []WanderKind{WanderSine, WanderPerlin} {
		cfg := BowlConfig().Wander
		cfg.Kind = kind
		cfg.NoiseSeed = 99

		w1, w2 := NewWander(cfg), NewWander(cfg)
		pos := vmath.Vec3{X: 0.7, Y: 4.1, Z: -1.3}
		p1 := w1.Perturb(pos, 123456)
		assert.Equal(t, p1, w2.Perturb(pos, 123456), kind)
		assert.LessOrEqual(t, math.Abs(p1.X), 2*cfg.Gain)
		assert.LessOrEqual(t, math.Abs(p1.Y), 2*cfg.VerticalGain)
		assert.LessOrEqual(t, math.Abs(p1.Z), 2*cfg.Gain)
	}

	_, isSine := NewWander(WanderConfig{}).(SineWander)
	assert.True(t, isSine)
}
