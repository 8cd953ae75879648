package swarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivierh59500/holder-aquarium-go/identity"
	"github.com/olivierh59500/holder-aquarium-go/vmath"
)

const tol = 1e-9

func newTestAgent(address string, pos, vel vmath.Vec3) Agent {
	seed := identity.Hash(address)
	app := identity.NewAppearance(seed, identity.VariantCount)
	return Agent{
		ID:          identity.ID(address),
		Address:     address,
		Seed:        seed,
		Appearance:  app,
		Position:    pos,
		Velocity:    vel,
		BaseScale:   app.Size,
		Scale:       app.Size,
		Orientation: vmath.QuatIdentity,
	}
}

func mustIntegrator(t *testing.T, cfg Config) *Integrator {
	t.Helper()
	in, err := NewIntegrator(cfg)
	require.NoError(t, err)
	return in
}

func assertSpeedInRange(t *testing.T, cfg Config, v vmath.Vec3) {
	t.Helper()
	speed := vmath.V3Mag(v)
	assert.GreaterOrEqual(t, speed, cfg.MinSpeed-tol)
	assert.LessOrEqual(t, speed, cfg.MaxSpeed+tol)
}

// quietConfig is a tank with wander switched off so single steps are exact
func quietConfig() Config {
	cfg := TankConfig()
	cfg.Wander.Gain = 0
	cfg.Wander.VerticalGain = 0
	return cfg
}
