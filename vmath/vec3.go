package vmath

import (
	"math"
)

// Vec3 is a float64 3D vector in world units
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Forward is the model-space axis a fish faces before rotation
var Forward = Vec3{0, 0, 1}

func V3Add(a, b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3Sub(a, b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3Scale(v Vec3, s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// V3AddScaled returns a + b*s
func V3AddScaled(a, b Vec3, s float64) Vec3 {
	return Vec3{a.X + b.X*s, a.Y + b.Y*s, a.Z + b.Z*s}
}

func V3Neg(v Vec3) Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func V3Dot(a, b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func V3Cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func V3MagSq(v Vec3) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3Mag(v Vec3) float64 {
	return math.Sqrt(V3MagSq(v))
}

// V3Normalize returns the unit vector of v, or the zero vector when v has no length
func V3Normalize(v Vec3) Vec3 {
	mag := V3Mag(v)
	if mag == 0 {
		return Vec3{}
	}
	inv := 1.0 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// V3Reflect mirrors v about the plane with unit normal n: v - 2(v·n)n
func V3Reflect(v, n Vec3) Vec3 {
	return V3AddScaled(v, n, -2*V3Dot(v, n))
}

// V3ClampLength scales v so its magnitude lies in [minLen, maxLen]
// A zero vector has no direction and is returned unchanged
func V3ClampLength(v Vec3, minLen, maxLen float64) Vec3 {
	mag := V3Mag(v)
	if mag == 0 {
		return v
	}
	if mag < minLen {
		return V3Scale(v, minLen/mag)
	}
	if mag > maxLen {
		return V3Scale(v, maxLen/mag)
	}
	return v
}

// V3IsFinite reports whether no component is NaN or ±Inf
func V3IsFinite(v Vec3) bool {
	return IsFinite(v.X) && IsFinite(v.Y) && IsFinite(v.Z)
}

// IsFinite reports whether f is neither NaN nor ±Inf
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FromSpherical converts radius, polar angle phi (from +Y) and azimuth theta (around +Y) into a vector
func FromSpherical(radius, phi, theta float64) Vec3 {
	sinPhi := math.Sin(phi) * radius
	return Vec3{
		X: sinPhi * math.Sin(theta),
		Y: math.Cos(phi) * radius,
		Z: sinPhi * math.Cos(theta),
	}
}
