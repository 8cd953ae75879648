package swarm

import (
	"github.com/google/uuid"

	"github.com/olivierh59500/holder-aquarium-go/identity"
	"github.com/olivierh59500/holder-aquarium-go/vmath"
)

// Agent is one fish: a wallet address plus its motion state.
// Seed and Appearance derive from Address only; Scale and Orientation are recomputed every step.
type Agent struct {
	ID         uuid.UUID
	Address    string
	Seed       uint32
	Appearance identity.Appearance
	Balance    float64

	// Anchor is the cohesion target; valid only when HasAnchor
	Anchor    vmath.Vec3
	HasAnchor bool

	Position vmath.Vec3
	Velocity vmath.Vec3
	Phase    float64

	BaseScale   float64
	Scale       float64
	Orientation vmath.Quat
}

// Snapshot is the read-only view of an agent handed to the renderer between ticks
type Snapshot struct {
	ID          uuid.UUID
	Address     string
	Seed        uint32
	Variant     identity.Variant
	Hue         float64
	Balance     float64
	Position    vmath.Vec3
	Velocity    vmath.Vec3
	Orientation vmath.Quat
	Scale       float64
}

// Snapshot copies the renderable state of a
func (a *Agent) Snapshot() Snapshot {
	return Snapshot{
		ID:          a.ID,
		Address:     a.Address,
		Seed:        a.Seed,
		Variant:     a.Appearance.Variant,
		Hue:         a.Appearance.Hue,
		Balance:     a.Balance,
		Position:    a.Position,
		Velocity:    a.Velocity,
		Orientation: a.Orientation,
		Scale:       a.Scale,
	}
}
