package vmath

import (
	"math"
)

// Quat is a unit rotation quaternion
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity is the no-rotation quaternion
var QuatIdentity = Quat{0, 0, 0, 1}

func QuatDot(a, b Quat) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

func QuatNormalize(q Quat) Quat {
	mag := math.Sqrt(QuatDot(q, q))
	if mag == 0 {
		return QuatIdentity
	}
	inv := 1.0 / mag
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// QuatFromUnitVectors returns the shortest rotation taking unit vector from onto unit vector to
func QuatFromUnitVectors(from, to Vec3) Quat {
	r := V3Dot(from, to) + 1

	// Opposite vectors: rotate half a turn around any axis orthogonal to from
	if r < 1e-8 {
		if math.Abs(from.X) > math.Abs(from.Z) {
			return QuatNormalize(Quat{-from.Y, from.X, 0, 0})
		}
		return QuatNormalize(Quat{0, -from.Z, from.Y, 0})
	}

	c := V3Cross(from, to)
	return QuatNormalize(Quat{c.X, c.Y, c.Z, r})
}

// QuatSlerp spherically interpolates from a toward b by t in [0, 1] along the shorter arc
func QuatSlerp(a, b Quat, t float64) Quat {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}

	cosHalf := QuatDot(a, b)
	if cosHalf < 0 {
		b = Quat{-b.X, -b.Y, -b.Z, -b.W}
		cosHalf = -cosHalf
	}
	if cosHalf >= 1 {
		return a
	}

	sqrSin := 1 - cosHalf*cosHalf
	if sqrSin <= 1e-12 {
		s := 1 - t
		return QuatNormalize(Quat{
			s*a.X + t*b.X,
			s*a.Y + t*b.Y,
			s*a.Z + t*b.Z,
			s*a.W + t*b.W,
		})
	}

	sinHalf := math.Sqrt(sqrSin)
	half := math.Atan2(sinHalf, cosHalf)
	ra := math.Sin((1-t)*half) / sinHalf
	rb := math.Sin(t*half) / sinHalf
	return Quat{
		a.X*ra + b.X*rb,
		a.Y*ra + b.Y*rb,
		a.Z*ra + b.Z*rb,
		a.W*ra + b.W*rb,
	}
}

// QuatRotate applies q to v
func QuatRotate(q Quat, v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := V3Scale(V3Cross(u, v), 2)
	return V3Add(V3AddScaled(v, t, q.W), V3Cross(u, t))
}

// QuatIsFinite reports whether every component is finite
func QuatIsFinite(q Quat) bool {
	return IsFinite(q.X) && IsFinite(q.Y) && IsFinite(q.Z) && IsFinite(q.W)
}
