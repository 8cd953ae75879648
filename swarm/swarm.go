// Package swarm simulates token holders as a school of fish: one agent per wallet address,
// contained in a box or bowl, kept apart by soft pairwise repulsion and stepped once per frame.
//
// A Swarm is single-threaded. Reconcile, Tick and the read accessors must be called from the
// same goroutine, typically the host's frame callback.
package swarm

import (
	"math"
	"math/rand"

	"github.com/olivierh59500/holder-aquarium-go/holders"
	"github.com/olivierh59500/holder-aquarium-go/identity"
	"github.com/olivierh59500/holder-aquarium-go/logging"
	"github.com/olivierh59500/holder-aquarium-go/vmath"
)

// Swarm owns the agent set and drives separation and integration each tick
type Swarm struct {
	cfg        Config
	integrator *Integrator
	separation Separation

	// agents is dense and keeps insertion order; index maps address to slot
	agents []Agent
	index  map[string]int
	deltas []vmath.Vec3

	rng      holders.Rand
	spawnMix int64
	log      logging.Logger
	ticks    uint64
}

// Option configures a Swarm
type Option func(*Swarm)

// WithLogger sets the logger; the default discards everything
func WithLogger(l logging.Logger) Option {
	return func(s *Swarm) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRand draws every spawn from r instead of a per-address generator.
// Spawns then depend on reconciliation order as well as the address.
func WithRand(r holders.Rand) Option {
	return func(s *Swarm) {
		s.rng = r
	}
}

// WithSpawnSeed mixes seed into the per-address spawn generators so separate worlds
// can start the same holders in different places
func WithSpawnSeed(seed int64) Option {
	return func(s *Swarm) {
		s.spawnMix = seed
	}
}

// ReconcileStats summarises one Reconcile call
type ReconcileStats struct {
	Added   int
	Removed int
	Updated int
	Skipped int
}

// New validates cfg and returns an empty Swarm. cfg is copied; later changes to it have no effect.
func New(cfg Config, opts ...Option) (*Swarm, error) {
	cfg = cfg.Clone()
	in, err := NewIntegrator(cfg)
	if err != nil {
		return nil, err
	}
	s := &Swarm{
		cfg:        cfg,
		integrator: in,
		separation: Separation{Radius: cfg.SeparationRadius, Force: cfg.SeparationForce},
		index:      make(map[string]int),
		log:        logging.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns a copy of the swarm's configuration
func (s *Swarm) Config() Config {
	return s.cfg.Clone()
}

// Containment returns the active containment policy
func (s *Swarm) Containment() Containment {
	return s.integrator.Containment()
}

// Len is the number of live agents
func (s *Swarm) Len() int {
	return len(s.agents)
}

// Ticks is the number of Tick calls so far
func (s *Swarm) Ticks() uint64 {
	return s.ticks
}

// Agent returns a copy of the agent for address
func (s *Swarm) Agent(address string) (Agent, bool) {
	i, ok := s.index[address]
	if !ok {
		return Agent{}, false
	}
	return s.agents[i], true
}

// Reconcile matches the agent set to records by address. New addresses spawn agents,
// missing ones are dropped, and surviving agents keep their motion state with only the
// balance refreshed. Records with bad addresses are skipped; duplicates collapse last-wins.
func (s *Swarm) Reconcile(records []holders.Record) ReconcileStats {
	recs, skipped := holders.Normalize(records, 0)
	stats := ReconcileStats{Skipped: skipped}
	if skipped > 0 {
		for _, r := range records {
			if !holders.ValidAddress(r.Address) {
				s.log.Warn("skipping holder with invalid address", "address", r.Address)
			}
		}
	}

	present := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		present[r.Address] = struct{}{}
	}

	kept := s.agents[:0]
	for _, a := range s.agents {
		if _, ok := present[a.Address]; ok {
			kept = append(kept, a)
			continue
		}
		stats.Removed++
	}
	clear(s.agents[len(kept):])
	s.agents = kept

	if stats.Removed > 0 {
		clear(s.index)
		for i := range s.agents {
			s.index[s.agents[i].Address] = i
		}
	}

	for _, r := range recs {
		if i, ok := s.index[r.Address]; ok {
			if s.agents[i].Balance != r.BalanceTokens {
				s.agents[i].Balance = r.BalanceTokens
				stats.Updated++
			}
			continue
		}
		s.index[r.Address] = len(s.agents)
		s.agents = append(s.agents, s.spawn(r))
		stats.Added++
	}

	if stats.Added > 0 || stats.Removed > 0 {
		s.log.Debug("reconciled holders",
			"added", stats.Added,
			"removed", stats.Removed,
			"updated", stats.Updated,
			"skipped", stats.Skipped,
			"agents", len(s.agents))
	}
	return stats
}

// spawn creates the agent for r. Without an injected source the draws come from a generator
// seeded by the address hash, so the same address always starts in the same state.
func (s *Swarm) spawn(r holders.Record) Agent {
	seed := identity.Hash(r.Address)
	rng := s.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(int64(seed) ^ s.spawnMix))
	}

	app := identity.NewAppearance(seed, s.cfg.VariantCount)
	a := Agent{
		ID:         identity.ID(r.Address),
		Address:    r.Address,
		Seed:       seed,
		Appearance: app,
		Balance:    r.BalanceTokens,
		BaseScale:  app.Size,
	}

	c := s.integrator.Containment()
	if anchors := s.cfg.Cohesion.Anchors; len(anchors) > 0 {
		a.Anchor = anchors[seed%uint32(len(anchors))]
		a.HasAnchor = true
	}
	if a.HasAnchor && s.cfg.Cohesion.Spread > 0 {
		a.Position = c.Clamp(vmath.V3Add(a.Anchor, sampleBall(rng, s.cfg.Cohesion.Spread)))
	} else {
		a.Position = c.Clamp(c.Sample(rng))
	}

	iv := s.cfg.InitialSpeed
	a.Velocity = vmath.Vec3{
		X: (rng.Float64() - 0.5) * iv.X,
		Y: (rng.Float64() - 0.5) * iv.Y,
		Z: (rng.Float64() - 0.5) * iv.Z,
	}
	a.Velocity = s.integrator.clampSpeed(a.Velocity, vmath.QuatIdentity)
	a.Phase = rng.Float64() * 2 * math.Pi
	a.Orientation = vmath.QuatFromUnitVectors(vmath.Forward, vmath.V3Normalize(a.Velocity))
	a.Scale = s.integrator.scaleAt(a.BaseScale, a.Phase)
	return a
}

// sampleBall draws uniformly from the ball of the given radius around the origin
func sampleBall(r holders.Rand, radius float64) vmath.Vec3 {
	return vmath.FromSpherical(
		math.Cbrt(r.Float64())*radius,
		math.Acos(2*r.Float64()-1),
		r.Float64()*2*math.Pi,
	)
}

// Tick runs one frame: all pairwise separation corrections are computed first, then each
// agent takes its correction and is integrated by dt seconds
func (s *Swarm) Tick(dt float64) {
	s.ticks++
	if len(s.agents) == 0 {
		return
	}
	s.deltas = s.separation.Solve(s.agents, s.deltas)
	for i := range s.agents {
		a := &s.agents[i]
		a.Velocity = vmath.V3Add(a.Velocity, s.deltas[i])
		s.integrator.Step(a, dt)
	}
}

// Snapshots appends a snapshot of every agent, in insertion order, to dst[:0]
func (s *Swarm) Snapshots(dst []Snapshot) []Snapshot {
	dst = dst[:0]
	for i := range s.agents {
		dst = append(dst, s.agents[i].Snapshot())
	}
	return dst
}
