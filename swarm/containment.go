package swarm

import (
	"math"

	"github.com/olivierh59500/holder-aquarium-go/holders"
	"github.com/olivierh59500/holder-aquarium-go/vmath"
)

// sphereTolerance absorbs rounding when a clamped position is re-tested against the surface
const sphereTolerance = 1e-9

// Containment is the legal region an agent swims in and its rule at the boundary
type Containment interface {
	// Contain returns position and velocity after the boundary rule is applied
	Contain(pos, vel vmath.Vec3) (vmath.Vec3, vmath.Vec3)
	// Contains reports whether pos lies in the legal region
	Contains(pos vmath.Vec3) bool
	// Clamp returns the nearest legal point to pos
	Clamp(pos vmath.Vec3) vmath.Vec3
	// Sample draws a spawn position inside the region
	Sample(r holders.Rand) vmath.Vec3
}

// Box bounces agents off the faces of an axis-aligned box.
// Leaving through a face pins the coordinate to that face and turns the axis' velocity inward;
// energy is preserved.
type Box struct {
	Bounds BoxBounds
}

// bounceAxis keeps p within [lo, hi], turning v back toward the interior when p escapes
func bounceAxis(p, v, lo, hi float64) (float64, float64) {
	if p > hi {
		p = hi
		if v > 0 {
			v = -v
		}
	} else if p < lo {
		p = lo
		if v < 0 {
			v = -v
		}
	}
	return p, v
}

func (b Box) Contain(pos, vel vmath.Vec3) (vmath.Vec3, vmath.Vec3) {
	pos.X, vel.X = bounceAxis(pos.X, vel.X, -b.Bounds.X, b.Bounds.X)
	pos.Y, vel.Y = bounceAxis(pos.Y, vel.Y, -b.Bounds.YDown, b.Bounds.YUp)
	pos.Z, vel.Z = bounceAxis(pos.Z, vel.Z, -b.Bounds.Z, b.Bounds.Z)
	return pos, vel
}

func (b Box) Contains(pos vmath.Vec3) bool {
	return math.Abs(pos.X) <= b.Bounds.X &&
		pos.Y >= -b.Bounds.YDown && pos.Y <= b.Bounds.YUp &&
		math.Abs(pos.Z) <= b.Bounds.Z
}

func (b Box) Clamp(pos vmath.Vec3) vmath.Vec3 {
	return vmath.Vec3{
		X: math.Max(-b.Bounds.X, math.Min(b.Bounds.X, pos.X)),
		Y: math.Max(-b.Bounds.YDown, math.Min(b.Bounds.YUp, pos.Y)),
		Z: math.Max(-b.Bounds.Z, math.Min(b.Bounds.Z, pos.Z)),
	}
}

func (b Box) Sample(r holders.Rand) vmath.Vec3 {
	return vmath.Vec3{
		X: (r.Float64()*2 - 1) * b.Bounds.X,
		Y: -b.Bounds.YDown + r.Float64()*(b.Bounds.YUp+b.Bounds.YDown),
		Z: (r.Float64()*2 - 1) * b.Bounds.Z,
	}
}

// Sphere keeps agents inside a bowl. An escaping agent is put back on the surface and,
// if still heading out, has its velocity mirrored about the surface normal and damped.
type Sphere struct {
	Bounds SphereBounds
}

func (s Sphere) limit() float64 {
	return s.Bounds.Radius * s.Bounds.Margin
}

func (s Sphere) Contain(pos, vel vmath.Vec3) (vmath.Vec3, vmath.Vec3) {
	toPos := vmath.V3Sub(pos, s.Bounds.Center)
	dist := vmath.V3Mag(toPos)
	r := s.limit()
	if dist <= r {
		return pos, vel
	}

	n := vmath.V3Scale(toPos, 1/dist)
	pos = vmath.V3AddScaled(s.Bounds.Center, n, r)
	if vmath.V3Dot(vel, n) > 0 {
		vel = vmath.V3Scale(vmath.V3Reflect(vel, n), s.Bounds.Damping)
	}
	return pos, vel
}

func (s Sphere) Contains(pos vmath.Vec3) bool {
	return vmath.V3Mag(vmath.V3Sub(pos, s.Bounds.Center)) <= s.limit()*(1+sphereTolerance)
}

func (s Sphere) Clamp(pos vmath.Vec3) vmath.Vec3 {
	toPos := vmath.V3Sub(pos, s.Bounds.Center)
	dist := vmath.V3Mag(toPos)
	r := s.limit()
	if dist <= r {
		return pos
	}
	return vmath.V3AddScaled(s.Bounds.Center, toPos, r/dist)
}

// Sample is uniform in volume within 95% of the legal radius
func (s Sphere) Sample(r holders.Rand) vmath.Vec3 {
	radius := math.Cbrt(r.Float64()) * s.limit() * 0.95
	phi := math.Acos(2*r.Float64() - 1)
	theta := r.Float64() * 2 * math.Pi
	return vmath.V3Add(s.Bounds.Center, vmath.FromSpherical(radius, phi, theta))
}
