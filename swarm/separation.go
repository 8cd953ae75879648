package swarm

import (
	"math"

	"github.com/olivierh59500/holder-aquarium-go/vmath"
)

// minSeparationDistSq skips coincident pairs whose push direction is undefined
const minSeparationDistSq = 1e-5

// Separation is the pairwise soft repulsion between agents closer than Radius.
// The push falls off linearly from Force at contact to zero at Radius.
type Separation struct {
	Radius float64
	Force  float64
}

// Solve accumulates every pair's velocity correction into deltas, one entry per agent,
// reusing deltas' backing array when it is large enough. Agents are only read: the caller
// applies the corrections once all pairs are done, so visiting order cannot bias the result.
func (s Separation) Solve(agents []Agent, deltas []vmath.Vec3) []vmath.Vec3 {
	n := len(agents)
	if cap(deltas) < n {
		deltas = make([]vmath.Vec3, n)
	} else {
		deltas = deltas[:n]
		clear(deltas)
	}
	if s.Radius <= 0 || s.Force == 0 {
		return deltas
	}

	r2 := s.Radius * s.Radius
	for i := 0; i < n; i++ {
		pa := agents[i].Position
		for j := i + 1; j < n; j++ {
			d := vmath.V3Sub(pa, agents[j].Position)
			d2 := vmath.V3MagSq(d)
			if d2 >= r2 || d2 <= minSeparationDistSq {
				continue
			}
			dist := math.Sqrt(d2)
			f := vmath.V3Scale(d, s.Force*(1-dist/s.Radius)/dist)
			deltas[i] = vmath.V3Add(deltas[i], f)
			deltas[j] = vmath.V3Sub(deltas[j], f)
		}
	}
	return deltas
}
