// Package geom holds the 2D vector and transform helpers shared by the
// simulation and the viewer. Vectors are mgl64.Vec2 values; everything here
// is a pure function.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a 2D world-space vector.
type Vec2 = mgl64.Vec2

const (
	// Epsilon guards divisions by near-zero magnitudes.
	Epsilon = 1e-12
	// MinPrecision is the tolerance used by plane and segment tests.
	MinPrecision = 1e-24
)

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 { return Vec2{x, y} }

// Normalize returns v scaled to unit length, or v unchanged when its length
// is below Epsilon.
func Normalize(v Vec2) Vec2 {
	l := v.Len()
	if l < Epsilon {
		return v
	}
	return Vec2{v[0] / l, v[1] / l}
}

// Truncate caps the length of v at max.
func Truncate(v Vec2, max float64) Vec2 {
	if v.Len() > max {
		return Normalize(v).Mul(max)
	}
	return v
}

// Perp returns v rotated 90° anticlockwise.
func Perp(v Vec2) Vec2 { return Vec2{-v[1], v[0]} }

// Sign returns -1 if w is clockwise of v (y down), +1 otherwise.
func Sign(v, w Vec2) int {
	if v[1]*w[0] > v[0]*w[1] {
		return -1
	}
	return 1
}

// Reflect mirrors v about the unit normal n.
func Reflect(v, n Vec2) Vec2 {
	return v.Add(n.Mul(-2 * v.Dot(n)))
}

// DistSq is the squared distance between a and b.
func DistSq(a, b Vec2) float64 { return b.Sub(a).LenSqr() }

// Dist is the distance between a and b.
func Dist(a, b Vec2) float64 { return b.Sub(a).Len() }

// IsZero reports whether v has (effectively) no length.
func IsZero(v Vec2) bool { return v.LenSqr() < MinPrecision }

// Rotate turns v by angle radians about the origin.
func Rotate(v Vec2, angle float64) Vec2 {
	return mgl64.Rotate2D(angle).Mul2x1(v)
}

// AngleBetween returns the unsigned angle between two unit vectors.
func AngleBetween(a, b Vec2) float64 {
	return math.Acos(mgl64.Clamp(a.Dot(b), -1, 1))
}
